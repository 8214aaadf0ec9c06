// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package numtrie

import (
	"slices"
	"testing"
)

func TestGeoPointIndexInsertAndSearch(t *testing.T) {
	t.Parallel()
	g := NewGeoPointIndex()

	g.InsertGeopoint(0x47E66C3012340000, 1)
	g.InsertGeopoint(0x47E66C3099990000, 2)
	g.InsertGeopoint(0x1000000000000000, 3)

	// A coarse query cell covering the whole 0x47E66C30... prefix should
	// match both points 1 and 2, but not the unrelated point 3.
	got := g.SearchGeopoints([]uint64{0x47E66C3000000000})
	want := []uint32{1, 2}
	if !slices.Equal(got, want) {
		t.Errorf("SearchGeopoints(coarse prefix), expected %v, got %v", want, got)
	}
}

func TestGeoPointIndexDelete(t *testing.T) {
	t.Parallel()
	g := NewGeoPointIndex()

	g.InsertGeopoint(0x1122334455667788, 1)
	g.InsertGeopoint(0x1122334455667788, 2)
	g.DeleteGeopoint(0x1122334455667788, 1)

	got := g.SearchGeopoints([]uint64{0x1122334455667788})
	want := []uint32{2}
	if !slices.Equal(got, want) {
		t.Errorf("SearchGeopoints after delete, expected %v, got %v", want, got)
	}
	if got := g.Len(); got != 1 {
		t.Errorf("Len, expected 1, got %d", got)
	}
}

func TestGeoEffectiveDepth(t *testing.T) {
	t.Parallel()
	if got := geoEffectiveDepth(0x47E66C3000000000); got != 4 {
		t.Errorf("geoEffectiveDepth, expected 4, got %d", got)
	}
	if got := geoEffectiveDepth(0xFF00000000000000); got != 1 {
		t.Errorf("geoEffectiveDepth, expected 1, got %d", got)
	}
	if got := geoEffectiveDepth(0x0000000000000001); got != 8 {
		t.Errorf("geoEffectiveDepth, expected 8, got %d", got)
	}
}

func TestGeoPointIndexDisjointCells(t *testing.T) {
	t.Parallel()
	g := NewGeoPointIndex()
	g.InsertGeopoint(0xAAAAAAAAAAAAAAAA, 1)
	g.InsertGeopoint(0xBBBBBBBBBBBBBBBB, 2)

	got := g.SearchGeopoints([]uint64{0xAAAAAAAAAAAAAAAA})
	want := []uint32{1}
	if !slices.Equal(got, want) {
		t.Errorf("SearchGeopoints, expected %v, got %v", want, got)
	}
}
