// Package dedupe maintains a partition of identified items by serial so
// that an expensive computation can be done once per distinct serial.
//
// # Overview
//
// Every item has a unique id and a serial. Items with equal serials form
// a group; exactly one item of a group is its representative (root), the
// rest are members. The representative owns the shared computation, the
// members reuse its result. Typical serials: "400x500" for rendering a
// video at a given size, a content hash, a query fingerprint.
//
// # Queue and drain
//
// Upsert and Remove only record intent. ApplyPending drains the pending
// queue front to back:
//
//   - add of an unknown id creates a group (the id becomes representative)
//     or joins the existing group as a member;
//   - add of a known id with the same serial is a no-op;
//   - add of a known id with another serial pushes delete+add to the
//     queue front, so the move completes before anything else runs;
//   - delete of an unknown id is a no-op;
//   - delete of a member drops it from its group;
//   - delete of a representative tears the group down and pushes an add
//     for every member to the queue front. The first one re-admitted
//     becomes the new representative, the rest join it.
//
// Representative selection thus has a single code path: admission order.
// Callers may rely on exactly one representative per serial, not on
// which member is promoted.
//
// # Recovery
//
// Rebuild throws pending changes away and re-admits every applied item
// in item-index order, as if they were added to an empty index.
//
// # Lifecycle
//
// Close releases everything. Using a closed index is a programming error
// and panics with an error wrapping dedupe_errors.ErrClosed.
//
// # Concurrency
//
// An Index is single-threaded. Wrap it with synced.Index, or confine it
// to one goroutine, when several goroutines need it.
package dedupe
