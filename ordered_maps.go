package cmdtree

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// StringCommandNodeMap is an insertion-ordered string-keyed map of
// CommandNode, used for a node's children (spec.md §4 "ordered children":
// literals first in declaration order, then the single argument child, then
// the flag group). Declaration order must survive for usage text and
// suggestion ordering, which a plain Go map cannot provide.
type StringCommandNodeMap interface {
	Put(key string, value CommandNode)
	Get(key string) (value CommandNode, found bool)
	Remove(key string)
	Keys() []string
	Values() []CommandNode
	Range(f func(key string, value CommandNode) bool)
	Size() int
}

// NewStringCommandNodeMap returns a new empty StringCommandNodeMap.
func NewStringCommandNodeMap() StringCommandNodeMap {
	return &stringCommandNodeMap{linkedhashmap.New()}
}

type stringCommandNodeMap struct{ *linkedhashmap.Map }

var _ StringCommandNodeMap = (*stringCommandNodeMap)(nil)

func (m *stringCommandNodeMap) Range(f func(key string, value CommandNode) bool) {
	m.Map.All(func(key interface{}, value interface{}) bool {
		return f(key.(string), value.(CommandNode))
	})
}

func (m *stringCommandNodeMap) Put(key string, value CommandNode) { m.Map.Put(key, value) }

func (m *stringCommandNodeMap) Get(key string) (CommandNode, bool) {
	v, found := m.Map.Get(key)
	if found {
		return v.(CommandNode), true
	}
	return nil, false
}

func (m *stringCommandNodeMap) Remove(key string) { m.Map.Remove(key) }

func (m *stringCommandNodeMap) Keys() []string {
	keys := m.Map.Keys()
	a := make([]string, len(keys))
	for i, k := range keys {
		a[i] = k.(string)
	}
	return a
}

func (m *stringCommandNodeMap) Values() []CommandNode {
	values := m.Map.Values()
	a := make([]CommandNode, len(values))
	for i, v := range values {
		a[i] = v.(CommandNode)
	}
	return a
}
