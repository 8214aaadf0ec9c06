// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package idlist

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestInsertIdempotent(t *testing.T) {
	t.Parallel()
	var l IdList

	l.Insert(5)
	l.Insert(5)
	l.Insert(5)

	if got := l.Len(); got != 1 {
		t.Errorf("Len, expected 1, got %d", got)
	}
	if !l.Contains(5) {
		t.Error("Contains(5), expected true")
	}
}

func TestSortedOrder(t *testing.T) {
	t.Parallel()
	var l IdList

	in := []uint32{50, 10, 30, 20, 40, 1, 99}
	for _, id := range in {
		l.Insert(id)
	}

	got := l.Materialize()
	if !slices.IsSorted(got) {
		t.Errorf("Materialize not sorted: %v", got)
	}
	if got := l.Len(); got != len(in) {
		t.Errorf("Len, expected %d, got %d", len(in), got)
	}
}

func TestPromoteAcrossThreshold(t *testing.T) {
	t.Parallel()
	var l IdList

	for i := uint32(0); i < compactThreshold+32; i++ {
		l.Insert(i)
	}

	if got := l.Len(); got != compactThreshold+32 {
		t.Errorf("Len, expected %d, got %d", compactThreshold+32, got)
	}
	for i := uint32(0); i < compactThreshold+32; i++ {
		if !l.Contains(i) {
			t.Errorf("Contains(%d), expected true after promotion", i)
		}
	}

	got := l.Materialize()
	if !slices.IsSorted(got) {
		t.Errorf("Materialize not sorted after promotion: %v", got)
	}
}

func TestEraseNoDemote(t *testing.T) {
	t.Parallel()
	var l IdList

	for i := uint32(0); i < compactThreshold+8; i++ {
		l.Insert(i)
	}
	if l.full == nil {
		t.Fatal("expected promotion to full form")
	}

	for i := uint32(0); i < compactThreshold+4; i++ {
		l.Erase(i)
	}

	// still in full form even though cardinality dropped well below threshold
	if l.full == nil {
		t.Error("expected IdList to remain promoted after erase, no demotion")
	}
	if got := l.Len(); got != 4 {
		t.Errorf("Len, expected 4, got %d", got)
	}
}

func TestEraseAbsentIsNoop(t *testing.T) {
	t.Parallel()
	var l IdList

	l.Insert(1)
	l.Insert(2)
	l.Erase(99)

	if got := l.Len(); got != 2 {
		t.Errorf("Len, expected 2, got %d", got)
	}
}

func TestMaterializeIntoAppends(t *testing.T) {
	t.Parallel()
	var l IdList
	l.Insert(3)
	l.Insert(1)
	l.Insert(2)

	dst := []uint32{100, 200}
	got := l.MaterializeInto(dst)

	want := []uint32{100, 200, 1, 2, 3}
	if !slices.Equal(got, want) {
		t.Errorf("MaterializeInto, expected %v, got %v", want, got)
	}
}

func TestRandomizedInsertEraseMatchesReference(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(1, 2))

	var l IdList
	ref := map[uint32]bool{}

	for range 5000 {
		id := uint32(rng.IntN(200))
		if rng.IntN(2) == 0 {
			l.Insert(id)
			ref[id] = true
		} else {
			l.Erase(id)
			delete(ref, id)
		}
	}

	if got, want := l.Len(), len(ref); got != want {
		t.Fatalf("Len, expected %d, got %d", want, got)
	}

	want := make([]uint32, 0, len(ref))
	for id := range ref {
		want = append(want, id)
	}
	slices.Sort(want)

	got := l.Materialize()
	if !slices.Equal(got, want) {
		t.Errorf("Materialize mismatch:\n got  %v\n want %v", got, want)
	}
}
