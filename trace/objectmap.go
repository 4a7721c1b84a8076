package trace

import "sort"

// ObjectMap is a lazily-populated registry of entities keyed by their
// wire-assigned id. It replaces a
// trait-bounded ObjectMap<T: NewWithId>: Go generics have no
// associated-constructor-on-type-parameter mechanism, so the
// constructor is supplied as a value at construction time instead of
// as a method bound on T.
type ObjectMap[T any] struct {
	items   map[int]*T
	newItem func(id int) *T
}

// NewObjectMap creates an empty registry that builds missing entries
// with newItem.
func NewObjectMap[T any](newItem func(id int) *T) *ObjectMap[T] {
	return &ObjectMap[T]{items: make(map[int]*T), newItem: newItem}
}

// Get returns the entity for id, or nil if it has never been
// referenced.
func (m *ObjectMap[T]) Get(id int) *T {
	return m.items[id]
}

// GetOrCreate returns the entity for id, creating it via newItem on
// first reference.
func (m *ObjectMap[T]) GetOrCreate(id int) *T {
	if v, ok := m.items[id]; ok {
		return v
	}
	v := m.newItem(id)
	m.items[id] = v
	return v
}

// EnsureExists creates the entity for id if it does not already exist,
// without returning it; used at *Created events where the value isn't
// otherwise needed.
func (m *ObjectMap[T]) EnsureExists(id int) {
	m.GetOrCreate(id)
}

// Len reports how many entities have been created.
func (m *ObjectMap[T]) Len() int { return len(m.items) }

// Ids returns the registry's keys, sorted, for deterministic
// iteration (the emitter must visit tracks in a stable order).
func (m *ObjectMap[T]) Ids() []int {
	ids := make([]int, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
