// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package numtrie

import (
	"math"

	"github.com/gaissmai/numtrie/setalgebra"
)

// cursor walks one matched leaf's materialized id slice.
type cursor struct {
	ids []uint32
	pos int
}

// Iterator is a unified multi-match cursor over the leaves a search
// matched. It publishes a current seq_id equal to the minimum of
// ids[pos] across every live cursor, and advances all cursors tied at
// that minimum together, so across any sequence of Next calls the
// emitted seq_ids are strictly increasing.
//
// An Iterator holds the materialized id slices it was built from; it
// does not keep the trie alive and does not snapshot concurrent
// mutations made after it was constructed (see the package's
// concurrency notes).
type Iterator struct {
	cursors []*cursor
	seqID   uint32
	valid   bool
}

// SeqID returns the current seq_id. Only meaningful while Valid.
func (it *Iterator) SeqID() uint32 {
	return it.seqID
}

// Valid reports whether the iterator currently has a seq_id to offer.
func (it *Iterator) Valid() bool {
	return it.valid
}

// Next advances every cursor positioned at the current seq_id past
// that seq_id, then recomputes the new minimum.
func (it *Iterator) Next() {
	for _, c := range it.cursors {
		for c.pos < len(c.ids) && c.ids[c.pos] == it.seqID {
			c.pos++
		}
	}
	it.setSeqID()
}

// SkipTo advances every cursor to the first id >= target, then
// recomputes the minimum. After SkipTo, the next emitted seq_id (if
// still Valid) is >= target.
func (it *Iterator) SkipTo(target uint32) {
	for _, c := range it.cursors {
		c.pos, _ = setalgebra.SkipTo(c.pos, c.ids, target)
	}
	it.setSeqID()
}

// Reset rewinds every cursor to its start.
func (it *Iterator) Reset() {
	for _, c := range it.cursors {
		c.pos = 0
	}
	it.valid = true
	it.setSeqID()
}

func (it *Iterator) setSeqID() {
	valid := false
	lowest := uint32(math.MaxUint32)

	for _, c := range it.cursors {
		if c.pos < len(c.ids) {
			valid = true
			if c.ids[c.pos] < lowest {
				lowest = c.ids[c.pos]
			}
		}
	}

	it.valid = valid
	if valid {
		it.seqID = lowest
	}
}
