// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package numtrie

import "slices"

// geoMaxLevel is the trie depth for a 64-bit S2-style cell id: 8 levels
// of 8 bits, same node machinery as a NumericTrie, just a different
// index function and a single (always-positive) root.
const geoMaxLevel = 8

// geoIndexAt returns the bucket index for cellID at the given 1-based
// level, indexing from the most significant byte first like indexAt.
func geoIndexAt(cellID uint64, level int) int {
	return int((cellID >> uint(8*(geoMaxLevel-level))) & 0xFF)
}

// geoEffectiveDepth returns the lowest level at which cellID still has a
// non-zero byte: coarser cells carry trailing zero bytes and only need
// a prefix match down to that level, not a full 8-level descent.
func geoEffectiveDepth(cellID uint64) int {
	mask := uint64(0xFF)
	i := geoMaxLevel

	for cellID&mask == 0 {
		i--
		if i <= 0 {
			break
		}
		mask <<= 8
	}

	return i
}

// GeoPointIndex answers "which documents' points lie inside a queried
// cell cover," by reusing the same radix node as NumericTrie at
// max_level 8 over an unsigned cell id, with no sign split since cell
// ids are never negative.
type GeoPointIndex struct {
	root *node
}

// NewGeoPointIndex returns an empty GeoPointIndex.
func NewGeoPointIndex() *GeoPointIndex {
	return &GeoPointIndex{root: &node{}}
}

// InsertGeopoint indexes seqID under the given S2-style cell id.
func (g *GeoPointIndex) InsertGeopoint(cellID uint64, seqID uint32) {
	g.root.insertWithIndex(seqID, geoMaxLevel, func(level int) int {
		return geoIndexAt(cellID, level)
	})
}

// DeleteGeopoint removes seqID from the given cell id's path.
func (g *GeoPointIndex) DeleteGeopoint(cellID uint64, seqID uint32) {
	g.root.removeWithIndex(seqID, geoMaxLevel, func(level int) int {
		return geoIndexAt(cellID, level)
	})
}

// searchGeopointHelper descends to the node matching cellID's effective
// depth and records it in seen, deduplicating by node identity across
// multiple query cells that land on the same node.
func (n *node) searchGeopointHelper(cellID uint64, seen map[*node]bool) {
	maxSearchLevel := geoEffectiveDepth(cellID)

	root := n
	for level := 1; level <= maxSearchLevel; level++ {
		child, ok := root.children.Get(uint(geoIndexAt(cellID, level)))
		if !ok {
			return
		}
		root = child
	}

	seen[root] = true
}

// SearchGeopoints unions the IdLists of every node matched by the given
// query cell cover, sorts, and deduplicates. Each matched node's IdList
// is a superset of the exact matches for its cell; callers that need
// exact containment filter the result themselves (see package geo for
// the exact-polygon variant of this split).
func (g *GeoPointIndex) SearchGeopoints(cellIDs []uint64) []uint32 {
	seen := map[*node]bool{}
	for _, cellID := range cellIDs {
		g.root.searchGeopointHelper(cellID, seen)
	}

	var out []uint32
	for n := range seen {
		out = append(out, n.ids.Materialize()...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Len returns the number of distinct seq_ids indexed, read from the
// root's IdList.
func (g *GeoPointIndex) Len() int {
	return g.root.ids.Len()
}
