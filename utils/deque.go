package utils

import "github.com/emirpasic/gods/lists/doublylinkedlist"

// Deque is a typed double-ended queue. PushFront keeps the argument
// order: PushFront(a, b) onto [c] yields [a, b, c].
// Not safe for concurrent use.
type Deque[T any] struct {
	list *doublylinkedlist.List
}

func NewDeque[T any](vals ...T) *Deque[T] {
	d := &Deque[T]{list: doublylinkedlist.New()}
	d.PushBack(vals...)
	return d
}

func (d *Deque[T]) PushBack(vals ...T) {
	d.list.Append(boxed(vals)...)
}

func (d *Deque[T]) PushFront(vals ...T) {
	d.list.Prepend(boxed(vals)...)
}

// PopFront removes and returns the first element, ok=false when empty.
func (d *Deque[T]) PopFront() (val T, ok bool) {
	v, ok := d.list.Get(0)
	if !ok {
		return val, false
	}
	d.list.Remove(0)
	return v.(T), true
}

func (d *Deque[T]) Len() int {
	return d.list.Size()
}

func (d *Deque[T]) Clear() {
	d.list.Clear()
}

// Values returns a front-to-back copy.
func (d *Deque[T]) Values() []T {
	raw := d.list.Values()
	vals := make([]T, len(raw))
	for i, v := range raw {
		vals[i] = v.(T)
	}
	return vals
}

func boxed[T any](vals []T) []interface{} {
	ret := make([]interface{}, len(vals))
	for i, v := range vals {
		ret[i] = v
	}
	return ret
}
