package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/store/iavl"
)

// CommitKVStore returns a leveldb backed iavl store living in a temporary
// directory. Call cleanup to remove the directory.
func CommitKVStore(t testing.TB) (db weave.CommitKVStore, cleanup func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "escrowd-test-")
	if err != nil {
		t.Fatalf("temporary directory: %s", err)
	}
	cleanup = func() { os.RemoveAll(dir) }

	kv, err := iavl.NewCommitStore(dir, "state")
	if err != nil {
		cleanup()
		t.Fatalf("open commit store: %s", err)
	}
	if err := kv.LoadLatestVersion(); err != nil {
		cleanup()
		t.Fatalf("load commit store: %s", err)
	}
	return kv, cleanup
}
