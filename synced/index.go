// Package synced serializes access to a dedupe.Index so that several
// goroutines can share one. Mutations take the write lock, queries share a
// reader-biased read lock.
package synced

import (
	"github.com/drpcorg/dedupe"
	"github.com/puzpuzpuz/xsync/v3"
)

type Index[ID comparable, S comparable] struct {
	mu *xsync.RBMutex
	ix *dedupe.Index[ID, S]
}

func NewIndex[ID comparable, S comparable](opts ...dedupe.IndexOpt) *Index[ID, S] {
	return Wrap(dedupe.NewIndex[ID, S](opts...))
}

// Wrap takes ownership of ix; the caller must stop using it directly.
func Wrap[ID comparable, S comparable](ix *dedupe.Index[ID, S]) *Index[ID, S] {
	return &Index[ID, S]{
		mu: xsync.NewRBMutex(),
		ix: ix,
	}
}

// Apply runs f under the write lock, so a batch of calls is observed by
// readers as a whole. f must not retain ix.
func (s *Index[ID, S]) Apply(f func(ix *dedupe.Index[ID, S])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.ix)
}

func (s *Index[ID, S]) Upsert(id ID, serial S) {
	s.Apply(func(ix *dedupe.Index[ID, S]) { ix.Upsert(id, serial) })
}

func (s *Index[ID, S]) Remove(id ID) {
	s.Apply(func(ix *dedupe.Index[ID, S]) { ix.Remove(id) })
}

func (s *Index[ID, S]) ApplyPending() {
	s.Apply(func(ix *dedupe.Index[ID, S]) { ix.ApplyPending() })
}

func (s *Index[ID, S]) Rebuild() {
	s.Apply(func(ix *dedupe.Index[ID, S]) { ix.Rebuild() })
}

// UpsertAndApply queues one add and drains the queue in one critical section.
func (s *Index[ID, S]) UpsertAndApply(id ID, serial S) {
	s.Apply(func(ix *dedupe.Index[ID, S]) {
		ix.Upsert(id, serial)
		ix.ApplyPending()
	})
}

func (s *Index[ID, S]) RemoveAndApply(id ID) {
	s.Apply(func(ix *dedupe.Index[ID, S]) {
		ix.Remove(id)
		ix.ApplyPending()
	})
}

func (s *Index[ID, S]) Close() (err error) {
	s.Apply(func(ix *dedupe.Index[ID, S]) { err = ix.Close() })
	return
}

func (s *Index[ID, S]) read(f func(ix *dedupe.Index[ID, S])) {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	f(s.ix)
}

func (s *Index[ID, S]) IsRepresentative(id ID) (ok bool) {
	s.read(func(ix *dedupe.Index[ID, S]) { ok = ix.IsRepresentative(id) })
	return
}

func (s *Index[ID, S]) GroupFor(serial S) (g dedupe.Group[ID], ok bool) {
	s.read(func(ix *dedupe.Index[ID, S]) { g, ok = ix.GroupFor(serial) })
	return
}

func (s *Index[ID, S]) RepresentativeOf(serial S) (id ID, ok bool) {
	s.read(func(ix *dedupe.Index[ID, S]) { id, ok = ix.RepresentativeOf(serial) })
	return
}

func (s *Index[ID, S]) SerialOf(id ID) (serial S, ok bool) {
	s.read(func(ix *dedupe.Index[ID, S]) { serial, ok = ix.SerialOf(id) })
	return
}

// Stats returns Len, Groups and Pending taken under one read lock.
func (s *Index[ID, S]) Stats() (items, groups, pending int) {
	s.read(func(ix *dedupe.Index[ID, S]) {
		items, groups, pending = ix.Len(), ix.Groups(), ix.Pending()
	})
	return
}
