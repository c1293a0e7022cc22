package store

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/escrowd/weavetest/assert"
)

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (CacheableKVStore, func())

// RunStoreTests checks the caching and iteration contract of any
// CacheableKVStore. Each subtest gets its own store from newStore.
func RunStoreTests(t *testing.T, newStore TestStoreConstructor) {
	t.Run("cache layers", func(t *testing.T) { testCacheLayers(t, newStore) })
	t.Run("cache shadows parent", func(t *testing.T) { testCacheShadowsParent(t, newStore) })
	t.Run("iteration", func(t *testing.T) { testIteration(t, newStore) })
}

func testCacheLayers(t *testing.T, newStore TestStoreConstructor) {
	db, cleanup := newStore()
	defer cleanup()

	deposit := []byte("escrow:deposit")
	assertStored(t, db, deposit, nil)
	assert.Nil(t, db.Set(deposit, []byte("500IOV")))
	assertStored(t, db, deposit, []byte("500IOV"))

	// pending writes are visible only in the cache until written
	cache := db.CacheWrap()
	assertStored(t, cache, deposit, []byte("500IOV"))
	buyer := []byte("cash:buyer")
	assert.Nil(t, cache.Set(buyer, []byte("0IOV")))
	assertStored(t, cache, buyer, []byte("0IOV"))
	assertStored(t, db, buyer, nil)
	assert.Nil(t, cache.Write())
	assertStored(t, db, buyer, []byte("0IOV"))

	discarded := db.CacheWrap()
	assert.Nil(t, discarded.Set([]byte("cash:maker"), []byte("1000IOV")))
	assert.Nil(t, discarded.Delete(deposit))
	discarded.Discard()
	assertStored(t, db, []byte("cash:maker"), nil)
	assertStored(t, db, deposit, []byte("500IOV"))

	release := db.CacheWrap()
	assert.Nil(t, release.Delete(deposit))
	assert.Nil(t, release.Set(buyer, []byte("500IOV")))
	assertStored(t, db, deposit, []byte("500IOV"))
	assert.Nil(t, release.Write())
	assertStored(t, db, deposit, nil)
	assertStored(t, db, buyer, []byte("500IOV"))

	// caches stack
	outer := db.CacheWrap()
	inner := outer.CacheWrap()
	assert.Nil(t, inner.Set(deposit, []byte("300IOV")))
	assert.Nil(t, inner.Write())
	assertStored(t, outer, deposit, []byte("300IOV"))
	assertStored(t, db, deposit, nil)
	assert.Nil(t, outer.Write())
	assertStored(t, db, deposit, []byte("300IOV"))
}

func testCacheShadowsParent(t *testing.T, newStore TestStoreConstructor) {
	cases := map[string]struct {
		parent     []Op
		child      []Op
		wantParent map[string]string
		wantChild  map[string]string
	}{
		"overwrite and delete": {
			parent:     []Op{SetOp([]byte("a"), []byte("1")), SetOp([]byte("b"), []byte("2"))},
			child:      []Op{SetOp([]byte("a"), []byte("10")), DelOp([]byte("b")), SetOp([]byte("c"), []byte("3"))},
			wantParent: map[string]string{"a": "1", "b": "2", "c": ""},
			wantChild:  map[string]string{"a": "10", "b": "", "c": "3"},
		},
		"delete then set again": {
			parent:     []Op{SetOp([]byte("a"), []byte("1"))},
			child:      []Op{DelOp([]byte("a")), SetOp([]byte("a"), []byte("11"))},
			wantParent: map[string]string{"a": "1"},
			wantChild:  map[string]string{"a": "11"},
		},
		"delete of a missing key": {
			child:      []Op{DelOp([]byte("x"))},
			wantParent: map[string]string{"x": ""},
			wantChild:  map[string]string{"x": ""},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, cleanup := newStore()
			defer cleanup()
			applyOps(t, db, tc.parent)
			child := db.CacheWrap()
			applyOps(t, child, tc.child)

			for k, v := range tc.wantParent {
				assertStored(t, db, []byte(k), valueOrNil(v))
			}
			for k, v := range tc.wantChild {
				assertStored(t, child, []byte(k), valueOrNil(v))
			}
			assert.Nil(t, child.Write())
			for k, v := range tc.wantChild {
				assertStored(t, db, []byte(k), valueOrNil(v))
			}
		})
	}
}

func testIteration(t *testing.T, newStore TestStoreConstructor) {
	// a fixed seed keeps failures reproducible
	r := rand.New(rand.NewSource(42))
	parent := randomModels(r, "p", 30)
	child := randomModels(r, "c", 30)
	overwritten := Model{Key: parent[3].Key, Value: []byte("overwritten")}

	var childOps []Op
	for _, m := range child {
		childOps = append(childOps, SetOp(m.Key, m.Value))
	}
	childOps = append(childOps,
		SetOp(overwritten.Key, overwritten.Value),
		DelOp(parent[5].Key),
		DelOp(parent[6].Key),
		DelOp([]byte("p-missing")),
	)

	visible := map[string]Model{}
	for _, m := range parent {
		visible[string(m.Key)] = m
	}
	for _, m := range child {
		visible[string(m.Key)] = m
	}
	visible[string(overwritten.Key)] = overwritten
	delete(visible, string(parent[5].Key))
	delete(visible, string(parent[6].Key))
	all := sortedModels(visible)

	db, cleanup := newStore()
	defer cleanup()
	for _, m := range parent {
		assert.Nil(t, db.Set(m.Key, m.Value))
	}
	cache := db.CacheWrap()
	applyOps(t, cache, childOps)

	cases := map[string]struct {
		start, end []byte
		want       []Model
	}{
		"everything":         {want: all},
		"from a key":         {start: all[12].Key, want: all[12:]},
		"up to a key":        {end: all[40].Key, want: all[:40]},
		"bounded":            {start: all[7].Key, end: all[33].Key, want: all[7:33]},
		"end is exclusive":   {start: all[7].Key, end: all[8].Key, want: all[7:8]},
		"empty range":        {start: all[9].Key, end: all[9].Key, want: nil},
		"prefix of children": {start: []byte("c"), end: []byte("d"), want: withPrefix(all, "c")},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			it, err := cache.Iterator(tc.start, tc.end)
			assert.Nil(t, err)
			assertModels(t, tc.want, drain(t, it))

			it, err = cache.ReverseIterator(tc.start, tc.end)
			assert.Nil(t, err)
			assertModels(t, reversed(tc.want), drain(t, it))
		})
	}

	// written cache iterates the same from the parent
	assert.Nil(t, cache.Write())
	it, err := db.Iterator(nil, nil)
	assert.Nil(t, err)
	assertModels(t, all, drain(t, it))
}

func assertStored(t testing.TB, db ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := db.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
	has, err := db.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, has)
}

func assertModels(t testing.TB, want, got []Model) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("want %d models, got %d", len(want), len(got))
	}
	for i := range want {
		if !bytes.Equal(want[i].Key, got[i].Key) || !bytes.Equal(want[i].Value, got[i].Value) {
			t.Fatalf("model %d: want %q=%q, got %q=%q", i, want[i].Key, want[i].Value, got[i].Key, got[i].Value)
		}
	}
}

func applyOps(t testing.TB, db SetDeleter, ops []Op) {
	t.Helper()
	for _, op := range ops {
		assert.Nil(t, op.Apply(db))
	}
}

func drain(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Close()
	var res []Model
	for ; it.Valid(); assert.Nil(t, it.Next()) {
		res = append(res, Model{Key: it.Key(), Value: it.Value()})
	}
	return res
}

func valueOrNil(v string) []byte {
	if v == "" {
		return nil
	}
	return []byte(v)
}

func randomModels(r *rand.Rand, prefix string, n int) []Model {
	res := make([]Model, n)
	for i := range res {
		value := make([]byte, 16)
		r.Read(value)
		res[i] = Model{
			Key:   []byte(fmt.Sprintf("%s-%08x", prefix, r.Uint32())),
			Value: value,
		}
	}
	return res
}

func sortedModels(set map[string]Model) []Model {
	res := make([]Model, 0, len(set))
	for _, m := range set {
		res = append(res, m)
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func reversed(models []Model) []Model {
	if models == nil {
		return nil
	}
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func withPrefix(models []Model, prefix string) []Model {
	var res []Model
	for _, m := range models {
		if bytes.HasPrefix(m.Key, []byte(prefix)) {
			res = append(res, m)
		}
	}
	return res
}
