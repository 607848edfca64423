package catalog

import "github.com/arunkannawadi/smatch/boundedheap"

// Buffer is a per-entry match accumulator. With Maxmatch == 0 it grows
// without bound, in arrival order. With Maxmatch >= 1 it holds at most
// Maxmatch matches: while it has spare capacity, candidates are appended in
// arrival order; once full, it behaves as a min-heap on Cosdist (see
// boundedheap) and only candidates strictly closer than the current worst
// kept match are admitted, replacing it.
type Buffer struct {
	Maxmatch int
	matches  []Match
}

// Prepare resets the buffer for a fresh match call. Bounded buffers are
// truncated to length zero with at least Maxmatch slots of capacity
// (allocating exactly Maxmatch only when the existing capacity is smaller);
// unbounded buffers
// are truncated to length zero, retaining whatever capacity they already
// have (the buffer is reused call over call, per the engine's memory
// discipline).
func (b *Buffer) Prepare() {
	if b.Maxmatch == 0 {
		b.matches = b.matches[:0]
		return
	}
	if cap(b.matches) < b.Maxmatch {
		b.matches = make([]Match, 0, b.Maxmatch)
	} else {
		b.matches = b.matches[:0]
	}
}

// Offer admits candidate into the buffer according to the rules above. It
// reports whether the candidate was newly appended (as opposed to rejected,
// or accepted by replacing the current worst kept match) — this is exactly
// the condition under which the engine's global nmatches counter advances.
func (b *Buffer) Offer(candidate Match) (appended bool) {
	if b.Maxmatch == 0 || len(b.matches) < b.Maxmatch {
		b.matches = append(b.matches, candidate)
		if b.Maxmatch > 1 && len(b.matches) == b.Maxmatch {
			boundedheap.Heapify(b.matches)
		}
		return true
	}
	boundedheap.TryInsert(b.matches, candidate)
	return false
}

// Len returns the buffer's current size.
func (b *Buffer) Len() int { return len(b.matches) }

// Matches returns the buffer's contents in their current internal order:
// insertion order while below capacity, heap order once at capacity under a
// bound > 1. The returned slice aliases the buffer's storage and must not
// be retained across the next Prepare/Offer call.
func (b *Buffer) Matches() []Match { return b.matches }

// Drain returns the buffer's contents and empties it, retaining capacity
// for the next Prepare call. Used by CopyMatches, which consumes results.
func (b *Buffer) Drain() []Match {
	out := b.matches
	b.matches = b.matches[:0]
	return out
}
