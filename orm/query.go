package orm

import (
	"github.com/iov-one/escrowd"
)

// ConsumeIterator reads all remaining models and closes the iterator.
func ConsumeIterator(it weave.Iterator) ([]weave.Model, error) {
	defer it.Close()
	var models []weave.Model
	for it.Valid() {
		models = append(models, weave.Pair(it.Key(), it.Value()))
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return models, nil
}

// queryPrefix returns all models whose key starts with prefix, in key order.
func queryPrefix(db weave.ReadOnlyKVStore, prefix []byte) ([]weave.Model, error) {
	start, end := prefixRange(prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(it)
}

// prefixRange returns the [start, end) range holding every key with the
// given prefix. The end is nil when no key sorts after the prefix range,
// that is when the prefix is empty or made only of 0xFF bytes.
func prefixRange(prefix []byte) ([]byte, []byte) {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end
		}
	}
	return prefix, nil
}
