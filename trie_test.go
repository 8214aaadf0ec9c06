// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package numtrie

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestInsertSearchEqualTo(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)

	tr.Insert(42, 1)
	tr.Insert(42, 2)
	tr.Insert(-7, 3)

	got := tr.SearchEqualTo(42)
	want := []uint32{1, 2}
	if !slices.Equal(got, want) {
		t.Errorf("SearchEqualTo(42), expected %v, got %v", want, got)
	}

	got = tr.SearchEqualTo(-7)
	want = []uint32{3}
	if !slices.Equal(got, want) {
		t.Errorf("SearchEqualTo(-7), expected %v, got %v", want, got)
	}

	if got := tr.SearchEqualTo(99); got != nil {
		t.Errorf("SearchEqualTo(99), expected nil, got %v", got)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)

	tr.Insert(10, 1)
	tr.Insert(10, 2)
	tr.Remove(10, 1)

	got := tr.SearchEqualTo(10)
	want := []uint32{2}
	if !slices.Equal(got, want) {
		t.Errorf("SearchEqualTo after Remove, expected %v, got %v", want, got)
	}

	if got := tr.Len(); got != 1 {
		t.Errorf("Len, expected 1, got %d", got)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)
	tr.Insert(5, 1)
	tr.Remove(999, 1) // different value never indexed, must not panic

	if got := tr.Len(); got != 1 {
		t.Errorf("Len, expected 1, got %d", got)
	}
}

func TestOutOfRangeInsertDropped(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)
	tr.Insert(1<<33, 1) // exceeds 32-bit indexable limit

	if got := tr.Len(); got != 0 {
		t.Errorf("Len, expected 0 for dropped out-of-range insert, got %d", got)
	}
}

func TestOutOfRangeInsertDroppedAt64Bit(t *testing.T) {
	t.Parallel()
	tr := NewTrie(64)

	// MinInt64's true magnitude is 2^63, one past indexableLimit(8) ==
	// MaxInt64 (2^63-1); saturating magnitude() to MaxInt64 must not let
	// it alias with a real +MaxInt64 insert.
	tr.Insert(math.MinInt64, 1)
	if got := tr.Len(); got != 0 {
		t.Errorf("Len, expected 0 for dropped MinInt64 insert, got %d", got)
	}

	tr.Insert(math.MaxInt64, 2)
	got := tr.SearchEqualTo(math.MinInt64)
	if got != nil {
		t.Errorf("SearchEqualTo(MinInt64), expected nil, got %v", got)
	}
}

func TestSearchRangePositiveOnly(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)
	for _, v := range []int64{1, 5, 10, 15, 20, 25} {
		tr.Insert(v, uint32(v))
	}

	got := tr.SearchRange(10, 20, true, true)
	want := []uint32{10, 15, 20}
	if !slices.Equal(got, want) {
		t.Errorf("SearchRange(10,20,inc,inc), expected %v, got %v", want, got)
	}

	got = tr.SearchRange(10, 20, false, false)
	want = []uint32{15}
	if !slices.Equal(got, want) {
		t.Errorf("SearchRange(10,20,exc,exc), expected %v, got %v", want, got)
	}
}

func TestSearchRangeStraddlingZero(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)
	for _, v := range []int64{-30, -20, -10, -1, 0, 1, 10, 20, 30} {
		tr.Insert(v, uint32(v+1000))
	}

	got := tr.SearchRange(-15, 15, true, true)
	want := []uint32{990, 999, 1000, 1001, 1010}
	if !slices.Equal(got, want) {
		t.Errorf("SearchRange(-15,15), expected %v, got %v", want, got)
	}
}

func TestSearchRangeNegativeOnly(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)
	for _, v := range []int64{-50, -40, -30, -20, -10} {
		tr.Insert(v, uint32(-v))
	}

	got := tr.SearchRange(-40, -20, true, true)
	want := []uint32{20, 30, 40}
	if !slices.Equal(got, want) {
		t.Errorf("SearchRange(-40,-20), expected %v, got %v", want, got)
	}
}

func TestSearchRangeEmptyWhenLoGreaterThanHi(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)
	tr.Insert(5, 1)
	if got := tr.SearchRange(10, 5, true, true); got != nil {
		t.Errorf("SearchRange(lo>hi), expected nil, got %v", got)
	}
}

func TestSearchGreaterThanAndLessThan(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)
	for _, v := range []int64{-20, -10, 0, 10, 20} {
		tr.Insert(v, uint32(v+100))
	}

	got := tr.SearchGreaterThan(0, false)
	want := []uint32{110, 120}
	if !slices.Equal(got, want) {
		t.Errorf("SearchGreaterThan(0,excl), expected %v, got %v", want, got)
	}

	got = tr.SearchGreaterThan(0, true)
	want = []uint32{100, 110, 120}
	if !slices.Equal(got, want) {
		t.Errorf("SearchGreaterThan(0,incl), expected %v, got %v", want, got)
	}

	got = tr.SearchLessThan(0, false)
	want = []uint32{80, 90}
	if !slices.Equal(got, want) {
		t.Errorf("SearchLessThan(0,excl), expected %v, got %v", want, got)
	}

	got = tr.SearchLessThan(0, true)
	want = []uint32{80, 90, 100}
	if !slices.Equal(got, want) {
		t.Errorf("SearchLessThan(0,incl), expected %v, got %v", want, got)
	}
}

func TestSeqIdsOutsideTopK(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)
	values := []int64{-5, -3, -1, 0, 2, 4, 8}
	for i, v := range values {
		tr.Insert(v, uint32(i+1))
	}

	got := tr.SeqIdsOutsideTopK(2)
	slices.Sort(got)

	// top 2 largest values are 8 and 4 (seq_ids 7 and 6); everything else
	// is outside the top-k.
	want := []uint32{1, 2, 3, 4, 5}
	if !slices.Equal(got, want) {
		t.Errorf("SeqIdsOutsideTopK(2), expected %v, got %v", want, got)
	}
}

func TestSeqIdsOutsideTopKZero(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)
	for i, v := range []int64{1, 2, 3} {
		tr.Insert(v, uint32(i+1))
	}

	got := tr.SeqIdsOutsideTopK(0)
	slices.Sort(got)
	want := []uint32{1, 2, 3}
	if !slices.Equal(got, want) {
		t.Errorf("SeqIdsOutsideTopK(0), expected every id, got %v", got)
	}
}

func TestRandomizedSearchRangeAgainstBruteForce(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(42, 7))

	tr := NewTrie(32)
	values := map[uint32]int64{}
	for seqID := uint32(1); seqID <= 2000; seqID++ {
		v := int64(rng.IntN(4000) - 2000)
		tr.Insert(v, seqID)
		values[seqID] = v
	}

	for range 50 {
		lo := int64(rng.IntN(4000) - 2000)
		hi := lo + int64(rng.IntN(500))
		loInc := rng.IntN(2) == 0
		hiInc := rng.IntN(2) == 0

		got := tr.SearchRange(lo, hi, loInc, hiInc)

		var want []uint32
		for seqID, v := range values {
			if v < lo || (v == lo && !loInc) {
				continue
			}
			if v > hi || (v == hi && !hiInc) {
				continue
			}
			want = append(want, seqID)
		}
		slices.Sort(want)

		if !slices.Equal(got, want) {
			t.Fatalf("SearchRange(%d,%d,%v,%v) mismatch:\n got  %v\n want %v",
				lo, hi, loInc, hiInc, got, want)
		}
	}
}

func TestSearchEqualToIterMatchesBulk(t *testing.T) {
	t.Parallel()
	tr := NewTrie(32)
	tr.Insert(7, 1)
	tr.Insert(7, 2)
	tr.Insert(7, 3)

	it := tr.SearchEqualToIter(7)
	var got []uint32
	for it.Valid() {
		got = append(got, it.SeqID())
		it.Next()
	}

	want := tr.SearchEqualTo(7)
	if !slices.Equal(got, want) {
		t.Errorf("iterator drain, expected %v, got %v", want, got)
	}
}
