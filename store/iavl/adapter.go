/*
Package iavl backs the application state with a versioned merkle tree.
Every Commit saves a new tree version whose root hash becomes the app
hash reported to tendermint.
*/
package iavl

import (
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of tree nodes held in memory.
const DefaultCacheSize = 10000

// CommitStore is the root store of the application. Reads through Get
// see the last saved version. Writes go through CacheWrap and land in the
// working tree, which Commit turns into the next version.
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore opens, or creates, a leveldb database called name
// inside dir.
func NewCommitStore(dir, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return CommitStore{}, dbErr(err)
	}
	return CommitStore{iavl.NewMutableTree(db, DefaultCacheSize)}, nil
}

// NewMemCommitStore keeps every version in memory. Nothing survives the
// process.
func NewMemCommitStore() CommitStore {
	return CommitStore{iavl.NewMutableTree(dbm.NewMemDB(), DefaultCacheSize)}
}

func dbErr(err error) error {
	return errors.Wrap(errors.ErrDatabase, err.Error())
}

func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, v := s.tree.GetVersioned(key, s.tree.Version())
	return v, nil
}

func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, dbErr(err)
	}
	return store.CommitID{Version: version, Hash: hash}, nil
}

// LoadLatestVersion restores the newest fully saved version. A commit
// interrupted by a crash is never observed.
func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return dbErr(err)
	}
	return nil
}

func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{Version: s.tree.Version(), Hash: s.tree.Hash()}, nil
}

// CacheWrap buffers writes in a btree until Write moves them to the
// working tree.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter exposes the working tree, uncommitted writes included.
func (s CommitStore) Adapter() store.CacheableKVStore {
	return working{s.tree}
}

type working struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = working{}

func (w working) Get(key []byte) ([]byte, error) {
	_, v := w.tree.Get(key)
	return v, nil
}

func (w working) Has(key []byte) (bool, error) {
	return w.tree.Has(key), nil
}

func (w working) Set(key, value []byte) error {
	w.tree.Set(key, value)
	return nil
}

func (w working) Delete(key []byte) error {
	w.tree.Remove(key)
	return nil
}

// NewBatch applies the ops one by one. The tree is only persisted on
// Commit, so a partial batch is never saved.
func (w working) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(w)
}

func (w working) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(w, w.NewBatch(), nil)
}

// Iterator walks [start, end) in ascending key order. The range is
// copied up front, so writes during the iteration are not observed.
func (w working) Iterator(start, end []byte) (store.Iterator, error) {
	return w.collect(start, end, true), nil
}

// ReverseIterator walks [start, end) in descending key order.
func (w working) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return w.collect(start, end, false), nil
}

func (w working) collect(start, end []byte, ascending bool) store.Iterator {
	var models []store.Model
	w.tree.IterateRange(start, end, ascending, func(k, v []byte) (stop bool) {
		models = append(models, store.Model{Key: k, Value: v})
		return false
	})
	return store.NewSliceIterator(models)
}
