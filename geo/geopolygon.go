// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package geo answers "which indexed polygons contain this point," by
// approximating each polygon with a cover of S2 cells and refining the
// cover's candidates with an exact S2Polygon point-containment test.
//
// The cell cover is the coarse filter; polygons it returns as
// candidates are not guaranteed to actually contain the query point,
// so every candidate is confirmed with Polygon.ContainsPoint before
// the point's seq_id is added to the result.
package geo

import (
	"slices"
	"sync"

	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gaissmai/numtrie"
	"github.com/gaissmai/numtrie/internal/idlist"
	"github.com/gaissmai/numtrie/internal/xlog"
)

// CovererOptions controls how finely a polygon is approximated by its
// S2 cell cover; mirrors s2.RegionCoverer's own knobs.
type CovererOptions struct {
	MinLevel int
	MaxLevel int
	MaxCells int
}

// DefaultCovererOptions matches S2RegionCoverer's own out-of-the-box
// defaults: cover with up to 8 cells, unrestricted by level.
func DefaultCovererOptions() CovererOptions {
	return CovererOptions{MinLevel: 0, MaxLevel: s2.MaxLevel, MaxCells: 8}
}

func (o CovererOptions) coverer() *s2.RegionCoverer {
	return &s2.RegionCoverer{MinLevel: o.MinLevel, MaxLevel: o.MaxLevel, MaxCells: o.MaxCells}
}

// ValidationError reports that a polygon failed S2's own validation
// (self-intersection, degenerate loop, bad orientation) before it was
// ever covered or indexed. It wraps numtrie.ErrInvalidPolygon, so
// callers can errors.Is against that sentinel without depending on
// this concrete type, and keeps the underlying S2 error as a second
// unwrap target, so errors.Is and errors.As also reach the original
// cause. Error prefixes the cause's message with the seq_id.
type ValidationError struct {
	SeqID uint32
	cause error
}

func (e *ValidationError) Error() string {
	return errors.Wrapf(e.cause, "polygon for seq_id %d is invalid", e.SeqID).Error()
}

func (e *ValidationError) Unwrap() []error {
	return []error{numtrie.ErrInvalidPolygon, e.cause}
}

// PolygonIndex indexes polygons by their S2 cell cover and resolves
// point-containment queries by walking a query point's ancestor cells
// from leaf level up to MinLevel, collecting every polygon whose cover
// touched one of those cells, then confirming exact containment.
//
// Every method takes the index's own sync.RWMutex: AddPolygon and
// RemovePolygon hold the write lock, FindContaining and Len the read
// lock, so concurrent calls on one PolygonIndex are serialized.
type PolygonIndex struct {
	opts CovererOptions

	mu       sync.RWMutex
	cells    map[s2.CellID]*idlist.IdList
	polygons map[uint32]*s2.Polygon
}

// NewPolygonIndex returns an empty PolygonIndex using opts to cover
// every added polygon.
func NewPolygonIndex(opts CovererOptions) *PolygonIndex {
	return &PolygonIndex{
		opts:     opts,
		cells:    make(map[s2.CellID]*idlist.IdList),
		polygons: make(map[uint32]*s2.Polygon),
	}
}

// polygonFromRing builds a single-loop S2Polygon from a flat ring of
// (lat, lng) degree pairs: lat0, lng0, lat1, lng1, ...
func polygonFromRing(coordinates []float64) (*s2.Polygon, error) {
	points := make([]s2.Point, 0, len(coordinates)/2)
	for i := 0; i+1 < len(coordinates); i += 2 {
		lat, lng := coordinates[i], coordinates[i+1]
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng)))
	}

	loop := s2.LoopFromPoints(points)
	loop.Normalize() // canonicalize orientation to the small side
	if err := loop.Validate(); err != nil {
		return nil, err
	}

	polygon := s2.PolygonFromLoops([]*s2.Loop{loop})
	if err := polygon.Validate(); err != nil {
		return nil, err
	}

	return polygon, nil
}

// AddPolygon validates the ring, covers it with S2 cells, and indexes
// seqID under every cover cell. A previously-added polygon for the
// same seqID is replaced.
func (idx *PolygonIndex) AddPolygon(coordinates []float64, seqID uint32) error {
	polygon, err := polygonFromRing(coordinates)
	if err != nil {
		xlog.Debug("rejected invalid polygon", zap.Uint32("seq_id", seqID), zap.Error(err))
		return &ValidationError{SeqID: seqID, cause: err}
	}

	covering := idx.opts.coverer().Covering(polygon)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.polygons[seqID]; exists {
		idx.removeLocked(seqID)
	}

	for _, cellID := range covering {
		l, ok := idx.cells[cellID]
		if !ok {
			l = &idlist.IdList{}
			idx.cells[cellID] = l
		}
		l.Insert(seqID)
	}
	idx.polygons[seqID] = polygon

	xlog.Debug("indexed polygon", zap.Uint32("seq_id", seqID), zap.Int("cells", len(covering)))
	return nil
}

// RemovePolygon drops seqID's polygon and erases it from every cell it
// was covered under. A seqID that was never added is a no-op.
func (idx *PolygonIndex) RemovePolygon(seqID uint32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(seqID)
}

func (idx *PolygonIndex) removeLocked(seqID uint32) {
	polygon, ok := idx.polygons[seqID]
	if !ok {
		return
	}

	covering := idx.opts.coverer().Covering(polygon)
	for _, cellID := range covering {
		l, ok := idx.cells[cellID]
		if !ok {
			continue
		}
		l.Erase(seqID)
		if l.Len() == 0 {
			delete(idx.cells, cellID)
		}
	}
	delete(idx.polygons, seqID)
}

// FindContaining returns the seq_ids of every indexed polygon that
// actually contains (lat, lng), deduplicated. It walks the query
// point's ancestor cells from S2's leaf level up through and including
// MinLevel, since a polygon's cover cell for that point may sit at any
// level in that range.
func (idx *PolygonIndex) FindContaining(lat, lng float64) []uint32 {
	point := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng))
	cellID := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng))

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := map[uint32]bool{}
	var out []uint32

	for level := cellID.Level(); level >= idx.opts.MinLevel; level-- {
		ancestor := cellID.Parent(level)
		l, ok := idx.cells[ancestor]
		if !ok {
			continue
		}
		for _, seqID := range l.Materialize() {
			if seen[seqID] {
				continue
			}
			seen[seqID] = true

			polygon := idx.polygons[seqID]
			if polygon.ContainsPoint(point) {
				out = append(out, seqID)
			}
		}
		if level == 0 {
			break
		}
	}

	slices.Sort(out)
	return out
}

// Len returns the number of indexed polygons.
func (idx *PolygonIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.polygons)
}
