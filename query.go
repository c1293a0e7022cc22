package weave

import (
	"fmt"
	"strings"

	"github.com/iov-one/escrowd/errors"
)

// Query modifiers, passed after a ? in the query path.
const (
	// KeyQueryMod returns the single model stored under the exact key.
	KeyQueryMod = ""
	// PrefixQueryMod returns every model whose key starts with the data.
	PrefixQueryMod = "prefix"
)

// Model is a key and the raw value stored under it.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers the queries of one path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister registers the query handlers of an extension.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths, such as /escrows, to their handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register panics if path already has a handler.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, taken := r.routes[path]; taken {
		panic(fmt.Sprintf("query path %s registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns nil for an unknown path.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// ParseQueryPath splits /escrows?prefix into the path and the modifier.
func ParseQueryPath(full string) (path string, mod string, err error) {
	i := strings.IndexByte(full, '?')
	if i < 0 {
		return full, KeyQueryMod, nil
	}
	path, mod = full[:i], full[i+1:]
	if mod != KeyQueryMod && mod != PrefixQueryMod {
		return "", "", errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
	}
	return path, mod, nil
}
