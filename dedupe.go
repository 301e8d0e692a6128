package dedupe

import (
	"github.com/drpcorg/dedupe/dedupe_errors"
	"github.com/drpcorg/dedupe/utils"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// group of items sharing a serial. Stores ids only; the serial of every
// member equals the group key, so the item index is never consulted to
// walk a group.
type group[ID comparable] struct {
	root    ID
	members *orderedmap.OrderedMap[ID, struct{}]
}

// Group is a detached view of one group returned by GroupFor.
type Group[ID comparable] struct {
	Representative ID
	// Members excludes the representative, in admission order.
	Members []ID
}

// Index keeps items partitioned by serial with exactly one representative
// per serial. Upsert and Remove only queue changes; ApplyPending applies
// them. Not safe for concurrent use, see package synced.
type Index[ID comparable, S comparable] struct {
	items   *orderedmap.OrderedMap[ID, S]
	groups  map[S]*group[ID]
	changes *utils.Deque[Change[ID, S]]

	opts   indexOptions
	closed bool
}

func NewIndex[ID comparable, S comparable](opts ...IndexOpt) *Index[ID, S] {
	ix := &Index[ID, S]{
		items:   orderedmap.New[ID, S](),
		groups:  make(map[S]*group[ID]),
		changes: utils.NewDeque[Change[ID, S]](),
		opts:    defaultIndexOptions(),
	}
	for _, o := range opts {
		o.Apply(&ix.opts)
	}
	return ix
}

func (ix *Index[ID, S]) check(op string) {
	if ix.closed {
		panic(dedupe_errors.UseAfterClose(op))
	}
}

// Upsert queues an add of id under serial. Applied by ApplyPending.
func (ix *Index[ID, S]) Upsert(id ID, serial S) {
	ix.check("Upsert")
	ix.changes.PushBack(Change[ID, S]{Kind: ChangeAdd, ID: id, Serial: serial})
}

// Remove queues a delete of id. Unknown ids are no-ops once applied.
func (ix *Index[ID, S]) Remove(id ID) {
	ix.check("Remove")
	ix.changes.PushBack(Change[ID, S]{Kind: ChangeDelete, ID: id})
}

// ApplyPending drains the queue front to back. A change may push its
// replacement records to the front of the queue; those run before
// anything queued earlier by the caller.
func (ix *Index[ID, S]) ApplyPending() {
	ix.check("ApplyPending")
	processed := 0
	for {
		ch, ok := ix.changes.PopFront()
		if !ok {
			break
		}
		processed++
		var res result
		switch ch.Kind {
		case ChangeAdd:
			res = ix.add(ch.ID, ch.Serial)
		case ChangeDelete:
			res = ix.delete(ch.ID)
		default:
			ix.opts.log.Error("unknown change kind, skipped", "change", ch.String())
			continue
		}
		ix.count(ch.Kind, res)
	}
	ix.observe(processed)
}

func (ix *Index[ID, S]) add(id ID, serial S) result {
	if stored, known := ix.items.Get(id); known {
		if stored == serial {
			return resultNoop
		}
		ix.changes.PushFront(
			Change[ID, S]{Kind: ChangeDelete, ID: id, Serial: stored, HasSerial: true},
			Change[ID, S]{Kind: ChangeAdd, ID: id, Serial: serial},
		)
		ix.opts.log.Debug("serial changed", "id", id, "from", stored, "to", serial)
		return resultSuperseded
	}

	ix.items.Set(id, serial)
	g, exists := ix.groups[serial]
	if !exists {
		ix.groups[serial] = &group[ID]{
			root:    id,
			members: orderedmap.New[ID, struct{}](),
		}
		return resultCreated
	}
	g.members.Set(id, struct{}{})
	return resultJoined
}

func (ix *Index[ID, S]) delete(id ID) result {
	serial, known := ix.items.Get(id)
	if !known {
		return resultUnknown
	}
	g, exists := ix.groups[serial]
	if !exists {
		// only reachable if the indices diverged; Rebuild repairs that
		ix.opts.log.Error("item has no group", "id", id, "serial", serial)
		ix.items.Delete(id)
		return resultOrphan
	}

	res := resultMemberRemoved
	if g.root == id {
		// the group goes away; members are re-admitted through add,
		// the first one to come back becomes the representative
		requeued := 0
		for p := g.members.Oldest(); p != nil; p = p.Next() {
			ix.items.Delete(p.Key)
			ix.changes.PushFront(Change[ID, S]{Kind: ChangeAdd, ID: p.Key, Serial: serial})
			requeued++
		}
		delete(ix.groups, serial)
		ix.opts.log.Debug("representative removed", "id", id, "serial", serial, "requeued", requeued)
		res = resultRootRemoved
	} else {
		g.members.Delete(id)
	}
	ix.items.Delete(id)
	return res
}

// Rebuild drops pending changes and both indices, then re-admits every
// known item in its current order. Previous representative choices are
// not preserved.
func (ix *Index[ID, S]) Rebuild() {
	ix.check("Rebuild")
	snapshot := make([]Change[ID, S], 0, ix.items.Len())
	for p := ix.items.Oldest(); p != nil; p = p.Next() {
		snapshot = append(snapshot, Change[ID, S]{Kind: ChangeAdd, ID: p.Key, Serial: p.Value})
	}
	dropped := ix.changes.Len()

	ix.items = orderedmap.New[ID, S](orderedmap.WithCapacity[ID, S](len(snapshot)))
	ix.groups = make(map[S]*group[ID])
	ix.changes.Clear()
	ix.changes.PushBack(snapshot...)

	ix.opts.log.Debug("rebuilding", "items", len(snapshot), "dropped", dropped)
	if ix.opts.metrics {
		RebuildCount.WithLabelValues(ix.opts.name).Inc()
	}
	ix.ApplyPending()
}

// IsRepresentative reports whether id is the representative of its
// group. False for unknown ids.
func (ix *Index[ID, S]) IsRepresentative(id ID) bool {
	ix.check("IsRepresentative")
	serial, known := ix.items.Get(id)
	if !known {
		return false
	}
	g, exists := ix.groups[serial]
	return exists && g.root == id
}

func (ix *Index[ID, S]) GroupFor(serial S) (Group[ID], bool) {
	ix.check("GroupFor")
	g, exists := ix.groups[serial]
	if !exists {
		return Group[ID]{}, false
	}
	members := make([]ID, 0, g.members.Len())
	for p := g.members.Oldest(); p != nil; p = p.Next() {
		members = append(members, p.Key)
	}
	return Group[ID]{Representative: g.root, Members: members}, true
}

func (ix *Index[ID, S]) RepresentativeOf(serial S) (id ID, ok bool) {
	ix.check("RepresentativeOf")
	g, exists := ix.groups[serial]
	if !exists {
		return id, false
	}
	return g.root, true
}

// SerialOf returns the applied serial of id; queued changes are not seen.
func (ix *Index[ID, S]) SerialOf(id ID) (S, bool) {
	ix.check("SerialOf")
	return ix.items.Get(id)
}

// Len is the number of applied items.
func (ix *Index[ID, S]) Len() int {
	ix.check("Len")
	return ix.items.Len()
}

// Groups is the number of distinct applied serials.
func (ix *Index[ID, S]) Groups() int {
	ix.check("Groups")
	return len(ix.groups)
}

// Pending is the number of queued, not yet applied changes.
func (ix *Index[ID, S]) Pending() int {
	ix.check("Pending")
	return ix.changes.Len()
}

// Close releases all state. Any later call except Close panics with an
// error wrapping dedupe_errors.ErrClosed; a second Close returns it.
func (ix *Index[ID, S]) Close() error {
	if ix.closed {
		return dedupe_errors.ErrClosed
	}
	ix.forgetMetrics()
	ix.opts.log.Debug("index closed", "name", ix.opts.name, "items", ix.items.Len(), "pending", ix.changes.Len())
	ix.items = nil
	ix.groups = nil
	ix.changes = nil
	ix.closed = true
	return nil
}
