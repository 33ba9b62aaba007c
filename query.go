package coffer

import (
	"fmt"
)

// Query modifiers. An empty modifier looks up a single key, the prefix
// modifier returns every model whose key starts with the given bytes.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers ABCI queries for one path, for example /wallets or
// /vaulttxs.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister lets an extension mount its handlers.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths to their handlers.
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

// Register mounts h under path. A path can be mounted only once, a second
// registration panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler mounted under path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
