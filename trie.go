// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package numtrie implements the numeric and geospatial indexing core:
// an 8-ary-per-level radix trie over signed 32- or 64-bit values
// (NumericTrie), its reuse over 64-bit S2-style cell ids (GeoPointIndex),
// and the multi-cursor Iterator façade used to stream either one.
//
// The trie splits storage into a negative and a positive sub-trie,
// indexed by absolute magnitude, so that a value's sign selects the
// sub-trie and a range query straddling zero becomes the union of two
// single-sign sub-queries.
package numtrie

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/gaissmai/numtrie/internal/xlog"
)

// Trie is an 8-ary-per-level radix trie over signed integers, split
// into a negative and a positive sub-trie keyed by absolute magnitude.
type Trie struct {
	maxLevel int
	negRoot  *node
	posRoot  *node
}

// NewTrie returns an empty Trie sized for values up to bits wide (32 or
// 64). max_level is ceil(bits/8): 4 levels for 32-bit values, 8 for
// 64-bit values.
func NewTrie(bits int) *Trie {
	return &Trie{maxLevel: (bits + 7) / 8}
}

// magnitude returns the absolute value of v, saturating at MaxInt64 for
// the one value (MinInt64) whose true magnitude (2^63) doesn't fit in
// an int64 at all. The saturated value coincides with indexableLimit(8),
// the widest limit this package has, so callers comparing against an
// indexableLimit must treat MinInt64 itself as always out of range
// rather than relying on mag to compare strictly greater.
func magnitude(v int64) int64 {
	switch {
	case v >= 0:
		return v
	case v == math.MinInt64:
		return math.MaxInt64
	default:
		return -v
	}
}

// Insert adds seqID under value. Values whose magnitude exceeds the
// trie's indexable limit are silently dropped, per the documented bit
// budget; a debug-level diagnostic is still logged so the drop is
// visible to anyone watching, without changing production behavior.
func (t *Trie) Insert(value int64, seqID uint32) {
	mag := magnitude(value)
	if value == math.MinInt64 || mag > indexableLimit(t.maxLevel) {
		xlog.Debug("numtrie: value exceeds indexable limit, dropping insert",
			zap.Int64("value", value), zap.Uint32("seq_id", seqID), zap.Int("max_level", t.maxLevel),
			zap.Error(ErrOutOfRange))
		return
	}

	if value < 0 {
		if t.negRoot == nil {
			t.negRoot = &node{}
		}
		t.negRoot.insert(mag, seqID, t.maxLevel)
	} else {
		if t.posRoot == nil {
			t.posRoot = &node{}
		}
		t.posRoot.insert(mag, seqID, t.maxLevel)
	}
}

// Remove erases seqID from value's path. A no-op if the path was never
// indexed, including for values beyond the indexable limit, which
// Insert never indexes.
func (t *Trie) Remove(value int64, seqID uint32) {
	if value == math.MinInt64 || magnitude(value) > indexableLimit(t.maxLevel) {
		return
	}
	if value < 0 {
		if t.negRoot == nil {
			return
		}
		t.negRoot.remove(magnitude(value), seqID, t.maxLevel)
	} else {
		if t.posRoot == nil {
			return
		}
		t.posRoot.remove(value, seqID, t.maxLevel)
	}
}

// Len returns the number of distinct seq_ids in the negative sub-trie
// plus the number in the positive sub-trie, counted at the sub-trie
// roots since each root's IdList aggregates its whole sub-trie. A seqID
// indexed under several values of the same sign counts once.
func (t *Trie) Len() int {
	n := 0
	if t.negRoot != nil {
		n += t.negRoot.ids.Len()
	}
	if t.posRoot != nil {
		n += t.posRoot.ids.Len()
	}
	return n
}

// materializeNodes concatenates every matched node's IdList into one
// sorted, deduplicated slice. Insert accepts the same seqID under
// several values, so different matched nodes can hold the same id; the
// final Compact removes those duplicates.
func materializeNodes(matches []*node) []uint32 {
	var out []uint32
	for _, m := range matches {
		out = append(out, m.ids.Materialize()...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func newIteratorFromNodes(matches []*node) *Iterator {
	it := &Iterator{}
	for _, m := range matches {
		ids := m.ids.Materialize()
		if len(ids) > 0 {
			it.cursors = append(it.cursors, &cursor{ids: ids})
		}
	}
	it.setSeqID()
	return it
}

// searchEqualToNodes returns, at most, the single leaf node for value.
func (t *Trie) searchEqualToNodes(value int64) []*node {
	var root *node
	var mag int64
	if value < 0 {
		root, mag = t.negRoot, magnitude(value)
	} else {
		root, mag = t.posRoot, value
	}
	if root == nil {
		return nil
	}
	if leaf, ok := root.searchEqualTo(mag, t.maxLevel); ok {
		return []*node{leaf}
	}
	return nil
}

// searchGreaterThanNodes returns the nodes whose subtree is entirely
// made of values > value (or >= if inclusive).
func (t *Trie) searchGreaterThanNodes(value int64, inclusive bool) []*node {
	if (value == 0 && inclusive) || (value == -1 && !inclusive) { // [0, +inf), (-1, +inf)
		if t.posRoot != nil {
			return []*node{t.posRoot}
		}
		return nil
	}

	var matches []*node
	if value >= 0 {
		if t.posRoot == nil {
			return nil
		}
		v := value
		if !inclusive {
			v++
		}
		matches = t.posRoot.searchGreaterThanMatches(v, t.maxLevel)
	} else {
		if t.negRoot != nil {
			absLow := magnitude(value)
			v := absLow
			if !inclusive {
				v--
			}
			matches = t.negRoot.searchLessThanMatches(v, t.maxLevel)
		}
		if t.posRoot != nil {
			matches = append(matches, t.posRoot)
		}
	}
	return matches
}

// searchLessThanNodes is the mirror of searchGreaterThanNodes.
func (t *Trie) searchLessThanNodes(value int64, inclusive bool) []*node {
	if (value == 0 && !inclusive) || (value == -1 && inclusive) { // (-inf, 0), (-inf, -1]
		if t.negRoot != nil {
			return []*node{t.negRoot}
		}
		return nil
	}

	var matches []*node
	if value < 0 {
		if t.negRoot == nil {
			return nil
		}
		absLow := magnitude(value)
		v := absLow
		if !inclusive {
			v++
		}
		matches = t.negRoot.searchGreaterThanMatches(v, t.maxLevel)
	} else {
		if t.posRoot != nil {
			v := value
			if !inclusive {
				v--
			}
			matches = t.posRoot.searchLessThanMatches(v, t.maxLevel)
		}
		if t.negRoot != nil {
			matches = append(matches, t.negRoot)
		}
	}
	return matches
}

// searchRangeNodes implements the four-regime split at zero described
// for NumericTrie.SearchRange.
func (t *Trie) searchRangeNodes(lo, hi int64, loInc, hiInc bool) []*node {
	if lo > hi {
		return nil
	}

	var matches []*node
	switch {
	case lo < 0 && hi >= 0:
		if t.negRoot != nil && !(lo == -1 && !loInc) {
			absLow := magnitude(lo)
			v := absLow
			if !loInc {
				v--
			}
			matches = append(matches, t.negRoot.searchLessThanMatches(v, t.maxLevel)...)
		}
		if t.posRoot != nil && !(hi == 0 && !hiInc) {
			v := hi
			if !hiInc {
				v--
			}
			matches = append(matches, t.posRoot.searchLessThanMatches(v, t.maxLevel)...)
		}
	case lo >= 0:
		if t.posRoot == nil {
			return nil
		}
		l, h := lo, hi
		if !loInc {
			l++
		}
		if !hiInc {
			h--
		}
		matches = t.posRoot.searchRangeMatches(l, h, t.maxLevel)
	default: // hi < 0
		if t.negRoot == nil {
			return nil
		}
		absHigh, absLow := magnitude(hi), magnitude(lo)
		l, h := absHigh, absLow
		if !hiInc {
			l++
		}
		if !loInc {
			h--
		}
		matches = t.negRoot.searchRangeMatches(l, h, t.maxLevel)
	}
	return matches
}

// SearchEqualTo returns the sorted seq_ids indexed under exactly value.
func (t *Trie) SearchEqualTo(value int64) []uint32 {
	return materializeNodes(t.searchEqualToNodes(value))
}

// SearchEqualToIter is the cursor form of SearchEqualTo.
func (t *Trie) SearchEqualToIter(value int64) *Iterator {
	return newIteratorFromNodes(t.searchEqualToNodes(value))
}

// SearchRange returns the sorted seq_ids with lo (<|<=) value (<|<=) hi,
// inclusivity controlled by loInc/hiInc.
func (t *Trie) SearchRange(lo, hi int64, loInc, hiInc bool) []uint32 {
	return materializeNodes(t.searchRangeNodes(lo, hi, loInc, hiInc))
}

// SearchRangeIter is the cursor form of SearchRange.
func (t *Trie) SearchRangeIter(lo, hi int64, loInc, hiInc bool) *Iterator {
	return newIteratorFromNodes(t.searchRangeNodes(lo, hi, loInc, hiInc))
}

// SearchGreaterThan returns the sorted seq_ids with value (<|<=) them.
func (t *Trie) SearchGreaterThan(value int64, inclusive bool) []uint32 {
	return materializeNodes(t.searchGreaterThanNodes(value, inclusive))
}

// SearchGreaterThanIter is the cursor form of SearchGreaterThan.
func (t *Trie) SearchGreaterThanIter(value int64, inclusive bool) *Iterator {
	return newIteratorFromNodes(t.searchGreaterThanNodes(value, inclusive))
}

// SearchLessThan returns the sorted seq_ids with them (<|<=) value.
func (t *Trie) SearchLessThan(value int64, inclusive bool) []uint32 {
	return materializeNodes(t.searchLessThanNodes(value, inclusive))
}

// SearchLessThanIter is the cursor form of SearchLessThan.
func (t *Trie) SearchLessThanIter(value int64, inclusive bool) *Iterator {
	return newIteratorFromNodes(t.searchLessThanNodes(value, inclusive))
}

// SeqIdsOutsideTopK returns every seq_id except those associated with
// the k largest indexed values. The positive sub-trie is exhausted
// first, since its values always outrank the negative sub-trie's; the
// negative sub-trie is only consulted if fewer than k ids were skipped
// there.
func (t *Trie) SeqIdsOutsideTopK(k int) []uint32 {
	var result []uint32
	skipped := 0

	switch {
	case t.negRoot != nil && t.posRoot != nil:
		t.posRoot.seqIdsOutsideTopKHelper(k, &skipped, 0, t.maxLevel, false, &result)
		if skipped < k {
			t.negRoot.seqIdsOutsideTopKHelper(k, &skipped, 0, t.maxLevel, true, &result)
			return result
		}
		result = append(result, t.negRoot.ids.Materialize()...)
	case t.negRoot != nil:
		t.negRoot.seqIdsOutsideTopKHelper(k, &skipped, 0, t.maxLevel, true, &result)
	case t.posRoot != nil:
		t.posRoot.seqIdsOutsideTopKHelper(k, &skipped, 0, t.maxLevel, false, &result)
	}

	return result
}

// searchLessThanMatches is the node-collecting entry point for
// "everything <= value" within a single sub-trie rooted at n.
func (n *node) searchLessThanMatches(value int64, maxLevel int) []*node {
	if value >= indexableLimit(maxLevel) {
		return []*node{n}
	}
	var matches []*node
	n.searchLessThanHelper(value, 0, maxLevel, &matches)
	return matches
}

// searchGreaterThanMatches is the mirror of searchLessThanMatches.
func (n *node) searchGreaterThanMatches(value int64, maxLevel int) []*node {
	if value > indexableLimit(maxLevel) {
		return nil
	}
	var matches []*node
	n.searchGreaterThanHelper(value, 0, maxLevel, &matches)
	return matches
}

// searchRangeMatches is the node-collecting entry point for a bounded
// range within a single sub-trie rooted at n.
func (n *node) searchRangeMatches(low, high int64, maxLevel int) []*node {
	if low > high {
		return nil
	}
	if limit := indexableLimit(maxLevel); high >= limit {
		high = limit
	}
	return n.searchRangeHelper(low, high, maxLevel)
}
