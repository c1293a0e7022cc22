package store

import (
	"bytes"

	"github.com/iov-one/escrowd/errors"
)

// mergeIterator combines the cached writes of a BTreeCacheWrap with the
// iterator of the store below. Cached items take precedence over the parent
// and deleted items hide the parent value.
type mergeIterator struct {
	cached    []entry
	idx       int
	parent    Iterator
	ascending bool

	valid bool
	key   []byte
	value []byte
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []entry, parent Iterator, ascending bool) (*mergeIterator, error) {
	it := &mergeIterator{
		cached:    cached,
		parent:    parent,
		ascending: ascending,
	}
	if err := it.advance(); err != nil {
		parent.Close()
		return nil, err
	}
	return it, nil
}

// first returns true if key a comes before key b in the iteration order.
func (m *mergeIterator) first(a, b []byte) int {
	cmp := bytes.Compare(a, b)
	if m.ascending {
		return cmp
	}
	return -cmp
}

// advance finds the next visible item and stores it as the current one.
func (m *mergeIterator) advance() error {
	for {
		hasCached := m.idx < len(m.cached)
		hasParent := m.parent.Valid()

		if !hasCached && !hasParent {
			m.valid = false
			m.key, m.value = nil, nil
			return nil
		}

		if !hasCached {
			m.setCurrent(m.parent.Key(), m.parent.Value())
			return m.parent.Next()
		}

		e := m.cached[m.idx]

		if hasParent {
			cmp := m.first(e.key, m.parent.Key())
			if cmp > 0 {
				m.setCurrent(m.parent.Key(), m.parent.Value())
				return m.parent.Next()
			}
			if cmp == 0 {
				// cached value shadows the parent
				if err := m.parent.Next(); err != nil {
					return err
				}
			}
		}

		m.idx++
		if !e.deleted {
			m.setCurrent(e.key, e.value)
			return nil
		}
	}
}

func (m *mergeIterator) setCurrent(key, value []byte) {
	m.valid = true
	m.key = key
	m.value = value
}

// Valid implements Iterator and returns true iff it can be read
func (m *mergeIterator) Valid() bool {
	return m.valid
}

// Next moves the iterator to the next visible item.
func (m *mergeIterator) Next() error {
	if !m.valid {
		return errors.Wrap(errors.ErrDatabase, "iterator is not valid")
	}
	return m.advance()
}

// Key returns the key of the cursor.
func (m *mergeIterator) Key() []byte {
	m.assertValid()
	return m.key
}

// Value returns the value of the cursor.
func (m *mergeIterator) Value() []byte {
	m.assertValid()
	return m.value
}

func (m *mergeIterator) assertValid() {
	if !m.valid {
		panic("iterator is not valid")
	}
}

// Close releases the Iterator.
func (m *mergeIterator) Close() {
	m.parent.Close()
	m.cached = nil
	m.valid = false
}
