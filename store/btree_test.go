package store

import (
	"testing"

	"github.com/iov-one/escrowd/weavetest/assert"
)

func memStoreConstructor() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestMemStore(t *testing.T) {
	RunStoreTests(t, memStoreConstructor)
}

func TestBTreeCacheableOverKVStore(t *testing.T) {
	base := BTreeCacheable{MemStore()}
	cache := base.CacheWrap()
	assert.Nil(t, cache.Set([]byte("k"), []byte("v")))

	got, err := base.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Nil(t, got)

	assert.Nil(t, cache.Write())
	got, err = base.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestLogableStore(t *testing.T) {
	db, log := LogableStore()
	assert.Nil(t, db.Set([]byte("a"), []byte("A")))
	assert.Nil(t, db.Delete([]byte("b")))

	ops := log.ShowOps()
	assert.Equal(t, 2, len(ops))
	assert.Equal(t, true, ops[0].IsSetOp())
	assert.Equal(t, []byte("a"), ops[0].Key())
	assert.Equal(t, []byte("A"), ops[0].Value())
	assert.Equal(t, false, ops[1].IsSetOp())
	assert.Equal(t, []byte("b"), ops[1].Key())
}

func TestDiscardDropsPendingWrites(t *testing.T) {
	db := MemStore()
	cache := db.CacheWrap()
	assert.Nil(t, cache.Set([]byte("a"), []byte("A")))
	cache.Discard()
	// writing a discarded cache must not resurrect dropped writes
	assert.Nil(t, cache.Write())

	has, err := db.Has([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}
