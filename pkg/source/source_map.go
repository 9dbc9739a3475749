package source

import "fmt"

// Map associates AST nodes (or any other comparable key) with the span of
// original text from which they were parsed. Nothing in this repository
// instantiates it: the xmile AST nodes carry their own spans instead.
type Map[T comparable] struct {
	mapping map[T]Span
}

// NewMap constructs an initially empty source map.
func NewMap[T comparable]() *Map[T] {
	return &Map[T]{make(map[T]Span)}
}

// Put registers the span for a given item. Panics if the item is already
// registered, since every node should be recorded exactly once at
// construction time.
func (m *Map[T]) Put(item T, span Span) {
	if _, ok := m.mapping[item]; ok {
		panic(fmt.Sprintf("source map key already registered: %v", any(item)))
	}

	m.mapping[item] = span
}

// Get returns the span registered for a given item, or false if none was
// recorded.
func (m *Map[T]) Get(item T) (Span, bool) {
	span, ok := m.mapping[item]
	return span, ok
}

// MustGet returns the span registered for a given item, panicking if none
// exists.
func (m *Map[T]) MustGet(item T) Span {
	span, ok := m.mapping[item]
	if !ok {
		panic(fmt.Sprintf("no span registered for key: %v", any(item)))
	}

	return span
}
