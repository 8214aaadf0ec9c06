// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package setalgebra implements the boolean combinators the query
// planner uses to combine sorted, deduplicated seq_id streams produced
// by the trie and geo indices: intersect, union, difference, and the
// gallop-style skip_to used by cursor-driven iterators.
//
// Every function here operates on plain sorted []uint32 slices, never
// touches an IdList or a trie node, and allocates at most once per call.
package setalgebra

// Intersect returns the sorted elements common to both a and b.
//
// Uses the classic two-pointer merge with a skip-first-compare
// optimization: after advancing one side past an equal match, the next
// loop iteration resumes the < comparison instead of redundantly
// re-testing equality at the position it just left.
func Intersect(a, b []uint32) []uint32 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	out := make([]uint32, 0, min(len(a), len(b)))

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}

	return out
}

// Union returns the sorted, deduplicated elements present in either a
// or b. Duplicate suppression is against the previously written output
// value only, not against both inputs, which is sufficient because both
// inputs are themselves sorted and unique.
func Union(a, b []uint32) []uint32 {
	if len(a) == 0 {
		return append([]uint32(nil), b...)
	}
	if len(b) == 0 {
		return append([]uint32(nil), a...)
	}

	out := make([]uint32, 0, len(a)+len(b))

	i, j := 0, 0
	emit := func(v uint32) {
		if len(out) == 0 || out[len(out)-1] != v {
			out = append(out, v)
		}
	}

	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			emit(a[i])
			i++
		} else {
			emit(b[j])
			j++
		}
	}
	for ; i < len(a); i++ {
		emit(a[i])
	}
	for ; j < len(b); j++ {
		emit(b[j])
	}

	return out
}

// Difference returns the elements of a that are not in b (a \ b).
func Difference(a, b []uint32) []uint32 {
	if len(a) == 0 {
		return nil
	}
	if len(b) == 0 {
		return append([]uint32(nil), a...)
	}

	out := make([]uint32, 0, len(a))

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] == b[j]:
			i++
			j++
		default:
			j++
		}
	}
	for ; i < len(a); i++ {
		out = append(out, a[i])
	}

	return out
}

// SkipTo advances cursor so that arr[cursor] >= target, starting its
// search from the current cursor position, and reports whether
// arr[cursor] == target.
//
// First performs an O(1) guard for the already-there/past-target case,
// then falls back to a binary search from cursor to the end. On a miss
// cursor is left at the insertion point, which may equal len(arr).
func SkipTo(cursor int, arr []uint32, target uint32) (newCursor int, found bool) {
	if cursor >= len(arr) {
		return cursor, false
	}

	if target <= arr[cursor] {
		return cursor, target == arr[cursor]
	}

	start, end := cursor, len(arr)-1
	for start <= end {
		mid := start + (end-start)/2
		switch {
		case arr[mid] == target:
			return mid, true
		case arr[mid] < target:
			start = mid + 1
		default:
			end = mid - 1
		}
	}

	return start, false
}
