package engine

import "sort"

// Table is a typed component side-table. Each entity has at most one value
// of T. Absence is reported with ok=false, never as an error.
type Table[T any] struct {
	rows     map[EntityID]*T
	teardown func(EntityID, T)
}

// OnRemove registers the teardown run whenever a value leaves the table:
// explicit Remove, replacement by Attach, or entity destruction.
func (t *Table[T]) OnRemove(fn func(EntityID, T)) {
	t.teardown = fn
}

// Attach stores v for e, tearing down any previous value.
func (t *Table[T]) Attach(e EntityID, v T) {
	if t.rows == nil {
		t.rows = make(map[EntityID]*T)
	}
	if old, ok := t.rows[e]; ok && t.teardown != nil {
		t.teardown(e, *old)
	}
	t.rows[e] = &v
}

func (t *Table[T]) Get(e EntityID) (T, bool) {
	if row, ok := t.rows[e]; ok {
		return *row, true
	}
	var zero T
	return zero, false
}

// GetMut returns a pointer to the stored value, or nil.
func (t *Table[T]) GetMut(e EntityID) *T {
	return t.rows[e]
}

func (t *Table[T]) Has(e EntityID) bool {
	_, ok := t.rows[e]
	return ok
}

func (t *Table[T]) Remove(e EntityID) {
	row, ok := t.rows[e]
	if !ok {
		return
	}
	delete(t.rows, e)
	if t.teardown != nil {
		t.teardown(e, *row)
	}
}

func (t *Table[T]) Len() int {
	return len(t.rows)
}

// Entities lists the entities holding a value, ordered by arena slot.
func (t *Table[T]) Entities() []EntityID {
	out := make([]EntityID, 0, len(t.rows))
	for e := range t.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
