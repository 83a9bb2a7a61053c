package repository

import (
	"sync"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
)

// table is the in-memory list behind every repository. Rows are kept newest
// first, and callers only ever see copies.
type table[T any] struct {
	mu     sync.RWMutex
	kind   string
	rows   []*T
	nextID int

	id    func(*T) int
	setID func(*T, int)
	clone func(*T) *T
}

func newTable[T any](kind string, id func(*T) int, setID func(*T, int), clone func(*T) *T) *table[T] {
	if clone == nil {
		clone = func(v *T) *T {
			c := *v
			return &c
		}
	}
	return &table[T]{kind: kind, nextID: 1, id: id, setID: setID, clone: clone}
}

// seed appends rows in the given order, keeping their ids.
func (t *table[T]) seed(rows []T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range rows {
		row := t.clone(&rows[i])
		if t.id(row) == 0 {
			t.setID(row, t.nextID)
		}
		if id := t.id(row); id >= t.nextID {
			t.nextID = id + 1
		}
		t.rows = append(t.rows, row)
	}
}

// insert assigns the next id and prepends the row.
func (t *table[T]) insert(v *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setID(v, t.nextID)
	t.nextID++
	t.rows = append([]*T{t.clone(v)}, t.rows...)
}

// insertUnless prepends v unless some stored row clashes with it.
func (t *table[T]) insertUnless(v *T, clash func(existing *T) bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range t.rows {
		if clash(row) {
			return false
		}
	}
	t.setID(v, t.nextID)
	t.nextID++
	t.rows = append([]*T{t.clone(v)}, t.rows...)
	return true
}

func (t *table[T]) get(id int) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if t.id(row) == id {
			return t.clone(row), nil
		}
	}
	return nil, appErrors.NewNotFound(t.kind, id)
}

func (t *table[T]) all() []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*T, len(t.rows))
	for i, row := range t.rows {
		out[i] = t.clone(row)
	}
	return out
}

// update applies fn to the stored row under the write lock. If fn fails the
// row is left untouched.
func (t *table[T]) update(id int, fn func(*T) error) (*T, error) {
	return t.updateUnless(id, fn, nil)
}

// updateUnless is update that also refuses the change when another stored
// row clashes with the updated one. clash may be nil.
func (t *table[T]) updateUnless(id int, fn func(*T) error, clash func(existing, updated *T) error) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, row := range t.rows {
		if t.id(row) != id {
			continue
		}
		working := t.clone(row)
		if err := fn(working); err != nil {
			return nil, err
		}
		t.setID(working, id)
		if clash != nil {
			for _, other := range t.rows {
				if t.id(other) == id {
					continue
				}
				if err := clash(other, working); err != nil {
					return nil, err
				}
			}
		}
		t.rows[i] = working
		return t.clone(working), nil
	}
	return nil, appErrors.NewNotFound(t.kind, id)
}

func (t *table[T]) remove(id int) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, row := range t.rows {
		if t.id(row) == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return row, nil
		}
	}
	return nil, appErrors.NewNotFound(t.kind, id)
}

// page cuts rows[offset:offset+limit]; limit <= 0 means everything after offset.
func page[T any](rows []*T, offset, limit int) []*T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []*T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
