// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package idlist implements the adaptive sorted seq_id container that
// backs every trie leaf and every geo cell bucket in this module.
//
// A freshly created IdList stores its ids inline in a small fixed-size
// array (the compact form), avoiding a heap allocation for the common
// case of a leaf with only a handful of documents. Once the cardinality
// grows past compactThreshold, the IdList promotes itself to a plain
// growable sorted slice (the full form) and never demotes, even if ids
// are later erased back below the threshold — shrinking on erase would
// just thrash the allocator for node populations that fluctuate.
package idlist

import "sort"

// compactThreshold is the largest cardinality kept in the inline array
// before promoting to a growable slice.
const compactThreshold = 8

// IdList holds a sorted, deduplicated set of seq_ids.
//
// The zero value is a valid, empty IdList.
type IdList struct {
	compact [compactThreshold]uint32
	n       int      // count while full == nil; unused afterwards
	full    []uint32 // non-nil once promoted, authoritative from then on
}

// Len returns the current cardinality.
func (l *IdList) Len() int {
	if l.full != nil {
		return len(l.full)
	}
	return l.n
}

// Contains reports whether id is a member.
func (l *IdList) Contains(id uint32) bool {
	if l.full != nil {
		_, ok := search(l.full, id)
		return ok
	}
	for _, v := range l.compact[:l.n] {
		if v == id {
			return true
		}
	}
	return false
}

// Insert adds id, idempotently. Promotes compact to full storage if the
// insertion would push the count past compactThreshold.
func (l *IdList) Insert(id uint32) {
	if l.full != nil {
		l.insertFull(id)
		return
	}

	for _, v := range l.compact[:l.n] {
		if v == id {
			return
		}
	}

	if l.n < compactThreshold {
		pos := sort.Search(l.n, func(i int) bool { return l.compact[i] >= id })
		copy(l.compact[pos+1:l.n+1], l.compact[pos:l.n])
		l.compact[pos] = id
		l.n++
		return
	}

	l.promote()
	l.insertFull(id)
}

// Erase removes id, if present. Never demotes from full back to compact.
func (l *IdList) Erase(id uint32) {
	if l.full != nil {
		if pos, ok := search(l.full, id); ok {
			l.full = append(l.full[:pos], l.full[pos+1:]...)
		}
		return
	}

	for i, v := range l.compact[:l.n] {
		if v == id {
			copy(l.compact[i:l.n-1], l.compact[i+1:l.n])
			l.n--
			return
		}
	}
}

// Materialize returns a freshly allocated, sorted copy of the members.
func (l *IdList) Materialize() []uint32 {
	out := make([]uint32, 0, l.Len())
	return l.MaterializeInto(out)
}

// MaterializeInto appends the sorted members to dst and returns the
// extended slice.
func (l *IdList) MaterializeInto(dst []uint32) []uint32 {
	if l.full != nil {
		return append(dst, l.full...)
	}
	return append(dst, l.compact[:l.n]...)
}

func (l *IdList) promote() {
	l.full = append(l.full[:0:0], l.compact[:l.n]...)
}

func (l *IdList) insertFull(id uint32) {
	pos, ok := search(l.full, id)
	if ok {
		return
	}
	l.full = append(l.full, 0)
	copy(l.full[pos+1:], l.full[pos:])
	l.full[pos] = id
}

// search returns the insertion position of id in the sorted slice s,
// and whether id is already present there.
func search(s []uint32, id uint32) (pos int, ok bool) {
	pos = sort.Search(len(s), func(i int) bool { return s[i] >= id })
	return pos, pos < len(s) && s[pos] == id
}
