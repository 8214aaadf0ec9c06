// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package sparse implements a popcount-compressed array indexed by a
// single byte (0..255), the storage strategy behind every 256-wide
// fanout table in this module: trie children, geo-cell children.
package sparse

import (
	"github.com/gaissmai/numtrie/internal/bitset"
)

// Array256 maps a byte index (0..255) to a payload T, storing only the
// slots that are actually occupied. The bitset records which indexes are
// occupied; Items holds exactly one entry per set bit, ordered by index.
//
// This gives O(popcount) memory for a 256-way fanout instead of a flat
// [256]T array, which matters because most trie nodes in a realistic
// dataset only ever populate a handful of the 256 possible byte values.
type Array256[T any] struct {
	bitset.BitSet256
	Items []T
}

// MustSet on the underlying bitset is forbidden: the bitset and Items are
// coupled, an unsynchronized Set would desync Items from its bit.
func (a *Array256[T]) MustSet(uint) {
	panic("forbidden, use InsertAt")
}

// MustClear on the underlying bitset is forbidden, see MustSet.
func (a *Array256[T]) MustClear(uint) {
	panic("forbidden, use DeleteAt")
}

// Get the value stored at byte index i.
func (a *Array256[T]) Get(i uint) (value T, ok bool) {
	if a.Test(i) {
		return a.Items[a.Rank0(i)], true
	}
	return
}

// MustGet returns the value at i without checking occupancy first.
// Only safe to call after a successful Test; otherwise undefined.
func (a *Array256[T]) MustGet(i uint) T {
	return a.Items[a.Rank0(i)]
}

// Len returns the number of occupied slots.
func (a *Array256[T]) Len() int {
	return len(a.Items)
}

// InsertAt stores value at byte index i. If i was already occupied, the
// old value is overwritten and exists is true.
func (a *Array256[T]) InsertAt(i uint, value T) (exists bool) {
	if a.Test(i) {
		a.Items[a.Rank0(i)] = value
		return true
	}

	a.BitSet256.MustSet(i)
	a.insertItem(a.Rank0(i), value)

	return false
}

// DeleteAt removes the value at byte index i, if present.
func (a *Array256[T]) DeleteAt(i uint) (value T, exists bool) {
	if a.Len() == 0 || !a.Test(i) {
		return
	}

	rank0 := a.Rank0(i)
	value = a.Items[rank0]

	a.deleteItem(rank0)
	a.BitSet256.MustClear(i)

	return value, true
}

// All returns the occupied byte indexes in ascending order, alongside
// their values, without allocating beyond the returned slices.
func (a *Array256[T]) All() (indexes []uint, values []T) {
	return a.AsSlice(make([]uint, 0, a.Len())), a.Items
}

// insertItem inserts item at slice index i, shifting the tail right.
func (a *Array256[T]) insertItem(i int, item T) {
	if len(a.Items) < cap(a.Items) {
		a.Items = a.Items[:len(a.Items)+1] // fast resize, no alloc
	} else {
		var zero T
		a.Items = append(a.Items, zero)
	}

	_ = a.Items[i]                   // BCE
	copy(a.Items[i+1:], a.Items[i:]) // shift one slot right, starting at [i]
	a.Items[i] = item
}

// deleteItem removes the item at slice index i, shifting the tail left
// and clearing the vacated tail slot so it doesn't pin a reference.
func (a *Array256[T]) deleteItem(i int) {
	var zero T

	_ = a.Items[i]                   // BCE
	copy(a.Items[i:], a.Items[i+1:]) // shift left, overwrite item at [i]

	nl := len(a.Items) - 1
	a.Items[nl] = zero
	a.Items = a.Items[:nl]
}
