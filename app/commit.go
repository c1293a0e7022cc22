package app

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// CommitStore keeps two caches over the persistent store for the block in
// progress. DeliverTx writes to the deliver cache, which Commit persists.
// CheckTx writes to the check cache, which Commit drops, so mempool checks
// never reach the chain state.
type CommitStore struct {
	root    weave.CommitKVStore
	deliver weave.KVCacheWrap
	check   weave.KVCacheWrap
}

// NewCommitStore loads the latest version of root.
func NewCommitStore(root weave.CommitKVStore) (*CommitStore, error) {
	if err := root.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	cs := &CommitStore{root: root}
	cs.reset()
	return cs, nil
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.root.CacheWrap()
	cs.check = cs.root.CacheWrap()
}

// CommitInfo is the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (weave.CommitID, error) {
	return cs.root.LatestVersion()
}

// Commit persists the delivered transactions as a new version and starts
// the next block from it.
func (cs *CommitStore) Commit() (weave.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return weave.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()
	id, err := cs.root.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() weave.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() weave.CacheableKVStore {
	return cs.deliver
}

// CommittedStore reads the last committed version. Anything written to it
// is lost.
func (cs *CommitStore) CommittedStore() weave.ReadOnlyKVStore {
	return cs.root.CacheWrap()
}
