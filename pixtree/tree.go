// Package pixtree indexes secondary-catalog point indices by the HEALPix
// pixel that contains them, so a matcher can look up "every secondary point
// in pixel P" without scanning the whole secondary catalog. It is rebuilt
// fresh for every match call and discarded at the end of it.
package pixtree

import "github.com/biogo/store/llrb"

// halfShift centers pixel-id keys across zero before they are inserted into
// the tree. An unbalanced insert-ordered BST degenerates on HEALPix's
// monotonically increasing ring enumeration order; shifting the key range
// so it straddles zero is a cheap balancing heuristic. biogo/store/llrb is
// self-balancing, so the shift is not load-bearing here, but it is kept for
// parity with the reference layout and because it costs nothing.
type halfShift = int64

// node is the tree's key type: a shifted pixel id carrying the (append-only)
// list of secondary-catalog indices whose point falls in that pixel.
type node struct {
	key     halfShift
	indices []int
}

// Compare implements llrb.Comparable.
func (n node) Compare(other llrb.Comparable) int {
	o := other.(node)
	switch {
	case n.key < o.key:
		return -1
	case n.key > o.key:
		return 1
	default:
		return 0
	}
}

// Tree is an ordered map from HEALPix pixel id to the secondary-catalog
// indices of points that fall in that pixel. The zero value is an empty,
// usable tree. A Tree is built once per match call and never mutated
// concurrently with a read.
type Tree struct {
	npix int64
	t    llrb.Tree
}

// New returns an empty Tree over a grid with the given pixel count. npix is
// only used to compute the zero-centering shift applied to keys.
func New(npix int64) *Tree {
	return &Tree{npix: npix}
}

func (t *Tree) shift(pixel int64) halfShift {
	return pixel - t.npix/2
}

// Insert appends index to the list of secondary indices stored under
// pixel, creating the node if this is the first point seen in that pixel.
func (t *Tree) Insert(pixel int64, index int) {
	key := t.shift(pixel)
	if existing := t.t.Get(node{key: key}); existing != nil {
		n := existing.(node)
		n.indices = append(n.indices, index)
		t.t.Insert(n)
		return
	}
	t.t.Insert(node{key: key, indices: []int{index}})
}

// Find returns the secondary indices stored under pixel and whether any
// were found. The returned slice must not be mutated by the caller.
func (t *Tree) Find(pixel int64) ([]int, bool) {
	found := t.t.Get(node{key: t.shift(pixel)})
	if found == nil {
		return nil, false
	}
	return found.(node).indices, true
}

// Len returns the number of distinct pixels populated in the tree.
func (t *Tree) Len() int { return t.t.Len() }
