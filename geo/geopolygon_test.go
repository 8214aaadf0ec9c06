// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a small square roughly covering downtown-sized coordinates, well away
// from the antimeridian and poles so winding/orientation is unambiguous.
func square(centerLat, centerLng, halfSide float64) []float64 {
	return []float64{
		centerLat - halfSide, centerLng - halfSide,
		centerLat - halfSide, centerLng + halfSide,
		centerLat + halfSide, centerLng + halfSide,
		centerLat + halfSide, centerLng - halfSide,
	}
}

// clockwiseSquare is square() with its ring reversed: same four corners,
// wound the opposite way around.
func clockwiseSquare(centerLat, centerLng, halfSide float64) []float64 {
	ring := square(centerLat, centerLng, halfSide)
	reversed := make([]float64, 0, len(ring))
	for i := len(ring) - 2; i >= 0; i -= 2 {
		reversed = append(reversed, ring[i], ring[i+1])
	}
	return reversed
}

func TestAddPolygonNormalizesClockwiseRing(t *testing.T) {
	t.Parallel()
	idx := NewPolygonIndex(DefaultCovererOptions())

	require.NoError(t, idx.AddPolygon(clockwiseSquare(10, 10, 1), 1))

	// Normalize must pick the small region (the square itself), not its
	// complement (the rest of the sphere): the square's interior matches,
	// a point far outside it does not.
	assert.Equal(t, []uint32{1}, idx.FindContaining(10, 10))
	assert.Empty(t, idx.FindContaining(-70, -70))
}

func TestAddPolygonAndFindContaining(t *testing.T) {
	t.Parallel()
	idx := NewPolygonIndex(DefaultCovererOptions())

	require.NoError(t, idx.AddPolygon(square(10, 10, 1), 1))
	require.NoError(t, idx.AddPolygon(square(50, 50, 1), 2))

	got := idx.FindContaining(10, 10)
	assert.Equal(t, []uint32{1}, got)

	got = idx.FindContaining(50, 50)
	assert.Equal(t, []uint32{2}, got)

	got = idx.FindContaining(-10, -10)
	assert.Empty(t, got)
}

func TestFindContainingOverlappingPolygons(t *testing.T) {
	t.Parallel()
	idx := NewPolygonIndex(DefaultCovererOptions())

	require.NoError(t, idx.AddPolygon(square(20, 20, 5), 1))
	require.NoError(t, idx.AddPolygon(square(20, 20, 2), 2))

	got := idx.FindContaining(20, 20)
	assert.ElementsMatch(t, []uint32{1, 2}, got)

	got = idx.FindContaining(24, 24)
	assert.Equal(t, []uint32{1}, got)
}

func TestAddPolygonInvalidRingIsRejected(t *testing.T) {
	t.Parallel()
	idx := NewPolygonIndex(DefaultCovererOptions())

	// Two points can't close a loop.
	err := idx.AddPolygon([]float64{0, 0, 1, 1}, 1)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, uint32(1), verr.SeqID)
	assert.Equal(t, 0, idx.Len())
}

func TestRemovePolygon(t *testing.T) {
	t.Parallel()
	idx := NewPolygonIndex(DefaultCovererOptions())
	require.NoError(t, idx.AddPolygon(square(30, 30, 1), 1))

	idx.RemovePolygon(1)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.FindContaining(30, 30))
}

func TestRemovePolygonAbsentIsNoop(t *testing.T) {
	t.Parallel()
	idx := NewPolygonIndex(DefaultCovererOptions())
	idx.RemovePolygon(999)
	assert.Equal(t, 0, idx.Len())
}

func TestAddPolygonReplacesSameSeqID(t *testing.T) {
	t.Parallel()
	idx := NewPolygonIndex(DefaultCovererOptions())

	require.NoError(t, idx.AddPolygon(square(5, 5, 1), 1))
	require.NoError(t, idx.AddPolygon(square(60, 60, 1), 1))

	assert.Equal(t, 1, idx.Len())
	assert.Empty(t, idx.FindContaining(5, 5))
	assert.Equal(t, []uint32{1}, idx.FindContaining(60, 60))
}
