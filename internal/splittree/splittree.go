// Package splittree cuts a set of excluded intervals out of one enclosing
// interval and returns what remains.
package splittree

import "github.com/intelligrit/room-index/internal/model"

// node is either a leaf (no children) or a split node (at least one child).
// A leaf marked empty has been cut away completely.
type node struct {
	a, b        int
	left, right *node
	empty       bool
}

func (n *node) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// cut removes [x,y) from a leaf.
func (n *node) cut(x, y int) {
	if n.empty {
		return
	}
	if x <= n.a && y >= n.b {
		n.empty = true
		return
	}

	xb := max(n.a, min(n.b, x))
	yb := min(n.b, max(n.a, y))
	if xb > n.a {
		n.left = &node{a: n.a, b: xb}
	}
	if n.b > yb {
		n.right = &node{a: yb, b: n.b}
	}
}

func (n *node) split(x, y int) {
	if n.isLeaf() {
		n.cut(x, y)
		return
	}
	if n.left != nil && x < n.left.b {
		n.left.split(x, y)
	}
	if n.right != nil && y > n.right.a {
		n.right.split(x, y)
	}
}

func (n *node) appendLeaves(out []model.Span) []model.Span {
	if n.empty {
		return out
	}
	if n.isLeaf() {
		return append(out, model.Span{n.a, n.b})
	}
	if n.left != nil {
		out = n.left.appendLeaves(out)
	}
	if n.right != nil {
		out = n.right.appendLeaves(out)
	}
	return out
}

// Split returns the maximal sub-intervals of interval that no exclusion covers,
// in ascending order. Exclusions may overlap, repeat and come in any order.
// Exclusions with an end not after their start remove nothing and are skipped.
// The result is never nil.
func Split(interval model.Span, exclusions []model.Span) []model.Span {
	out := make([]model.Span, 0, len(exclusions)+1)
	if interval.End() <= interval.Start() {
		return out
	}

	root := &node{a: interval.Start(), b: interval.End()}
	for _, ex := range exclusions {
		if ex.End() <= ex.Start() {
			continue
		}
		root.split(ex.Start(), ex.End())
	}
	return root.appendLeaves(out)
}
