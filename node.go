// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package numtrie

import (
	"github.com/gaissmai/numtrie/internal/idlist"
	"github.com/gaissmai/numtrie/internal/sparse"
)

// node is one radix level of a NumericTrie (or, at max_level 8 with a
// different index function, of a GeoPointIndex). Its IdList aggregates
// every seq_id present anywhere in the subtree rooted at this node,
// which is what makes bulk retrieval at any node O(1) amortized: the
// root's IdList equals every id ever indexed. Removal erases a seq_id
// from every node on the removed value's path, so when the same seq_id
// is also indexed under another value sharing part of that path, the
// shared ancestors no longer list it.
//
// A node is leaf-level once its depth reaches the trie's max_level; it
// never allocates children past that depth.
type node struct {
	children sparse.Array256[*node]
	ids      idlist.IdList
}

// indexAt returns the bucket index for magnitude at the given 1-based
// trie level, out of maxLevel total levels of 8 bits each. Higher-order
// bytes index earlier levels, so a lexicographic trie walk equals
// numeric order on magnitude.
func indexAt(magnitude int64, level, maxLevel int) int {
	return int((magnitude >> uint(8*(maxLevel-level))) & 0xFF)
}

// indexableLimit is the largest magnitude a trie of maxLevel levels can
// hold. max_level 8 is capped to the signed 63-bit range because
// magnitudes are carried in an int64.
func indexableLimit(maxLevel int) int64 {
	switch maxLevel {
	case 1:
		return 0xFF
	case 2:
		return 0xFFFF
	case 3:
		return 0xFFFFFF
	case 4:
		return 0xFFFFFFFF
	case 5:
		return 0xFFFFFFFFFF
	case 6:
		return 0xFFFFFFFFFFFF
	case 7:
		return 0xFFFFFFFFFFFFFF
	case 8:
		return 0x7FFFFFFFFFFFFFFF
	default:
		return 0
	}
}

// insertWithIndex walks from n down to the leaf at maxLevel, registering seqID
// in every node's IdList along the path, indexing at each level with
// indexFn.
func (n *node) insertWithIndex(seqID uint32, maxLevel int, indexFn func(level int) int) {
	cur := n
	cur.ids.Insert(seqID)

	for level := 1; level <= maxLevel; level++ {
		idx := uint(indexFn(level))

		child, ok := cur.children.Get(idx)
		if !ok {
			child = &node{}
			cur.children.InsertAt(idx, child)
		}

		child.ids.Insert(seqID)
		cur = child
	}
}

// removeWithIndex mirrors insertWithIndex: erase seqID from every node
// on the path to the leaf. If the full path to the leaf does not exist,
// nothing is erased. If the leaf's IdList becomes empty, it is
// dropped from its parent; ancestors above that are never reclaimed
// even if empty, which keeps removal safe under concurrent readers that
// may still be walking toward them.
func (n *node) removeWithIndex(seqID uint32, maxLevel int, indexFn func(level int) int) {
	path := make([]*node, 1, maxLevel+1)
	path[0] = n

	idxs := make([]uint, 0, maxLevel)

	cur := n
	for level := 1; level <= maxLevel; level++ {
		idx := uint(indexFn(level))

		child, ok := cur.children.Get(idx)
		if !ok {
			break
		}

		idxs = append(idxs, idx)
		path = append(path, child)
		cur = child
	}

	if len(path) < maxLevel+1 {
		return
	}

	for _, p := range path {
		p.ids.Erase(seqID)
	}

	if len(path) == maxLevel+1 {
		leaf := path[len(path)-1]
		if leaf.ids.Len() == 0 {
			parent := path[len(path)-2]
			parent.children.DeleteAt(idxs[len(idxs)-1])
		}
	}
}

func (n *node) insert(magnitude int64, seqID uint32, maxLevel int) {
	n.insertWithIndex(seqID, maxLevel, func(level int) int {
		return indexAt(magnitude, level, maxLevel)
	})
}

func (n *node) remove(magnitude int64, seqID uint32, maxLevel int) {
	n.removeWithIndex(seqID, maxLevel, func(level int) int {
		return indexAt(magnitude, level, maxLevel)
	})
}

// searchEqualTo walks the path for magnitude and returns the leaf node,
// if the full path exists.
func (n *node) searchEqualTo(magnitude int64, maxLevel int) (*node, bool) {
	cur := n
	for level := 1; level <= maxLevel; level++ {
		idx := uint(indexAt(magnitude, level, maxLevel))
		child, ok := cur.children.Get(idx)
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// searchLessThanHelper collects, into matches, the nodes whose subtree
// is entirely <= value (the leaf equal to value included), assuming n
// sits at depth level. Symmetrical with
// searchGreaterThanHelper.
func (n *node) searchLessThanHelper(value int64, level, maxLevel int, matches *[]*node) {
	if level == maxLevel {
		*matches = append(*matches, n)
		return
	}
	if level > maxLevel || n.children.Len() == 0 {
		return
	}

	level++
	index := indexAt(value, level, maxLevel)

	if child, ok := n.children.Get(uint(index)); ok {
		child.searchLessThanHelper(value, level, maxLevel, matches)
	}

	for index--; index >= 0; index-- {
		if child, ok := n.children.Get(uint(index)); ok {
			*matches = append(*matches, child)
		}
	}
}

// searchGreaterThanHelper collects, into matches, the nodes whose
// subtree is entirely >= value (the leaf equal to value included),
// assuming n sits at depth level.
func (n *node) searchGreaterThanHelper(value int64, level, maxLevel int, matches *[]*node) {
	if level == maxLevel {
		*matches = append(*matches, n)
		return
	}
	if level > maxLevel || n.children.Len() == 0 {
		return
	}

	level++
	index := indexAt(value, level, maxLevel)

	if child, ok := n.children.Get(uint(index)); ok {
		child.searchGreaterThanHelper(value, level, maxLevel, matches)
	}

	for index++; index < 256; index++ {
		if child, ok := n.children.Get(uint(index)); ok {
			*matches = append(*matches, child)
		}
	}
}

// searchRangeHelper segregates n's descendants into the nodes matching
// the low boundary, the nodes strictly between, and the nodes matching
// the high boundary, descending only as far as low and high share a
// common path.
func (n *node) searchRangeHelper(low, high int64, maxLevel int) []*node {
	var matches []*node

	root := n
	level := 1
	lowIndex := indexAt(low, level, maxLevel)
	highIndex := indexAt(high, level, maxLevel)

	for root.children.Len() > 0 && lowIndex == highIndex && level < maxLevel {
		child, ok := root.children.Get(uint(lowIndex))
		if !ok {
			return matches
		}
		root = child
		level++
		lowIndex = indexAt(low, level, maxLevel)
		highIndex = indexAt(high, level, maxLevel)
	}

	if root.children.Len() == 0 {
		return matches
	}

	if lowIndex == highIndex {
		if child, ok := root.children.Get(uint(lowIndex)); ok {
			matches = append(matches, child)
		}
		return matches
	}

	if child, ok := root.children.Get(uint(lowIndex)); ok {
		child.searchGreaterThanHelper(low, level, maxLevel, &matches)
	}

	upper := highIndex
	if upper > 256 {
		upper = 256
	}
	index := lowIndex + 1
	for ; index < upper; index++ {
		if child, ok := root.children.Get(uint(index)); ok {
			matches = append(matches, child)
		}
	}

	if index < 256 && index == highIndex {
		if child, ok := root.children.Get(uint(index)); ok {
			child.searchLessThanHelper(high, level, maxLevel, &matches)
		}
	}

	return matches
}

// seqIdsOutsideTopKHelper descends in the order that visits largest
// magnitudes first (descending byte order for the positive tree,
// ascending for the negative tree, since ascending magnitude there
// means descending value), counting cumulative leaf population, and
// collects every id past the k'th largest.
func (n *node) seqIdsOutsideTopKHelper(k int, skipped *int, level, maxLevel int, isNegative bool, result *[]uint32) {
	if level == maxLevel {
		ids := n.ids.Materialize()
		for i, id := range ids {
			if *skipped+i >= k {
				*result = append(*result, id)
			}
		}
		*skipped += len(ids)
		return
	}
	if level > maxLevel || n.children.Len() == 0 {
		return
	}

	index := 0
	if !isNegative {
		index = 255
	}

	for {
		if child, ok := n.children.Get(uint(index)); ok {
			if *skipped+child.ids.Len() > k {
				break
			}
			*skipped += child.ids.Len()
		}

		if isNegative {
			index++
			if index >= 256 {
				break
			}
		} else {
			index--
			if index < 0 {
				break
			}
		}
	}

	if isNegative && index >= 256 {
		return
	}
	if !isNegative && index < 0 {
		return
	}

	if child, ok := n.children.Get(uint(index)); ok {
		child.seqIdsOutsideTopKHelper(k, skipped, level+1, maxLevel, isNegative, result)
	}

	for {
		if isNegative {
			index++
			if index >= 256 {
				break
			}
		} else {
			index--
			if index < 0 {
				break
			}
		}
		if child, ok := n.children.Get(uint(index)); ok {
			*result = append(*result, child.ids.Materialize()...)
		}
	}
}
