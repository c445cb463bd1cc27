// Package bdd implements a generic reduced binary decision diagram over any
// totally ordered literal type. It is opaque to what a literal means; callers
// supply a Comparator and get back union, intersection, difference and DNF
// path extraction.
//
// The shape mirrors the teacher's totally-ordered collections used to build
// DNF lines for constraint solving (set.CompareFunc-style comparators over
// *typeVariable), generalised here to an arbitrary literal so it can back
// both the map/tuple kind and, per a still-open extension, the tuple/function
// kinds mentioned in the design notes.
package bdd

import (
	"log/slog"

	"github.com/hollow-lang/settype/internal/log"
	"github.com/hollow-lang/settype/util"
)

// Comparator orders literals. Implementations must be a strict total order
// and must be stable for the lifetime of a process: every Node built from
// values compared by the same Comparator composes correctly under Union,
// Intersection and Difference.
type Comparator[L any] func(a, b L) int

type leafKind uint8

const (
	leafFalse leafKind = iota
	leafTrue
	internalNode
)

// Node is an immutable BDD value: a leaf (True/False) or an internal node
// (literal, high, low) with the invariant that literal orders strictly
// before any label on high or low.
type Node[L any] struct {
	kind    leafKind
	literal L
	high    *Node[L]
	low     *Node[L]
}

// False is the BDD rejecting every assignment.
func False[L any]() *Node[L] { return &Node[L]{kind: leafFalse} }

// True is the BDD accepting every assignment.
func True[L any]() *Node[L] { return &Node[L]{kind: leafTrue} }

// Branch builds an internal node, collapsing it to high when high and low
// are the same leaf (the one reduction this package performs without a full
// hash-consing table; deeper structural sharing is left to the caller).
func Branch[L any](literal L, high, low *Node[L]) *Node[L] {
	if high.kind != internalNode && low.kind != internalNode && high.kind == low.kind {
		return high
	}
	return &Node[L]{kind: internalNode, literal: literal, high: high, low: low}
}

func (n *Node[L]) IsFalse() bool { return n.kind == leafFalse }
func (n *Node[L]) IsTrue() bool  { return n.kind == leafTrue }
func (n *Node[L]) IsLeaf() bool  { return n.kind != internalNode }

// Literal returns the root label and whether n is an internal node at all.
func (n *Node[L]) Literal() (L, bool) {
	if n.kind != internalNode {
		var zero L
		return zero, false
	}
	return n.literal, true
}

func (n *Node[L]) High() *Node[L] { return n.high }
func (n *Node[L]) Low() *Node[L]  { return n.low }

// Union computes the balanced merge described for the BDD engine: true is
// absorbing, false is identity, equal roots recurse pairwise, unequal roots
// push the larger literal into both branches of the smaller.
func Union[L any](cmp Comparator[L], a, b *Node[L]) *Node[L] {
	switch {
	case a.kind == leafTrue || b.kind == leafTrue:
		return True[L]()
	case a.kind == leafFalse:
		return b
	case b.kind == leafFalse:
		return a
	}
	log.DefaultLogger.Debug("bdd union", slog.String("section", "bdd"))
	switch c := cmp(a.literal, b.literal); {
	case c == 0:
		return Branch(a.literal, Union(cmp, a.high, b.high), Union(cmp, a.low, b.low))
	case c < 0:
		return Branch(a.literal, Union(cmp, a.high, b), Union(cmp, a.low, b))
	default:
		return Branch(b.literal, Union(cmp, a, b.high), Union(cmp, a, b.low))
	}
}

// Intersection is the dual of Union: true is identity, false is absorbing.
func Intersection[L any](cmp Comparator[L], a, b *Node[L]) *Node[L] {
	switch {
	case a.kind == leafFalse || b.kind == leafFalse:
		return False[L]()
	case a.kind == leafTrue:
		return b
	case b.kind == leafTrue:
		return a
	}
	log.DefaultLogger.Debug("bdd intersection", slog.String("section", "bdd"))
	switch c := cmp(a.literal, b.literal); {
	case c == 0:
		return Branch(a.literal, Intersection(cmp, a.high, b.high), Intersection(cmp, a.low, b.low))
	case c < 0:
		return Branch(a.literal, Intersection(cmp, a.high, b), Intersection(cmp, a.low, b))
	default:
		return Branch(b.literal, Intersection(cmp, a, b.high), Intersection(cmp, a, b.low))
	}
}

// Difference computes a AND NOT b.
func Difference[L any](cmp Comparator[L], a, b *Node[L]) *Node[L] {
	switch {
	case b.kind == leafTrue:
		return False[L]()
	case b.kind == leafFalse:
		return a
	case a.kind == leafFalse:
		return False[L]()
	}
	if a.kind == leafTrue {
		return Negate(cmp, b)
	}
	log.DefaultLogger.Debug("bdd difference", slog.String("section", "bdd"))
	switch c := cmp(a.literal, b.literal); {
	case c == 0:
		return Branch(a.literal, Difference(cmp, a.high, b.high), Difference(cmp, a.low, b.low))
	case c < 0:
		return Branch(a.literal, Difference(cmp, a.high, b), Difference(cmp, a.low, b))
	default:
		return Branch(b.literal, Difference(cmp, a, b.high), Difference(cmp, a, b.low))
	}
}

// Negate computes NOT a by swapping every True and False leaf; Difference
// uses it for the case where its left operand is True.
func Negate[L any](cmp Comparator[L], a *Node[L]) *Node[L] {
	switch a.kind {
	case leafTrue:
		return False[L]()
	case leafFalse:
		return True[L]()
	default:
		return Branch(a.literal, Negate(cmp, a.high), Negate(cmp, a.low))
	}
}

// Path is one root-to-True-leaf route through the diagram, split into the
// literals taken on the high (positive) branch and the low (negative) one.
type Path[L any] struct {
	Pos []L
	Neg []L
}

// Paths extracts the full DNF of a BDD: every route from the root to a True
// leaf, as a set of (positive, negative) literal lists. The traversal is
// iterative with an explicit stack rather than recursive, the same choice
// the teacher makes with util.Stack for expression-tree traversals that can
// otherwise get arbitrarily deep.
func Paths[L any](root *Node[L]) []Path[L] {
	if root.IsFalse() {
		return nil
	}
	if root.IsTrue() {
		return []Path[L]{{}}
	}

	type frame struct {
		n        *Node[L]
		pos, neg []L
	}
	var out []Path[L]
	stack := &util.Stack[frame]{}
	stack.Push(frame{n: root})
	for {
		top, ok := stack.Pop()
		if !ok {
			break
		}

		switch {
		case top.n.IsTrue():
			out = append(out, Path[L]{Pos: top.pos, Neg: top.neg})
		case top.n.IsFalse():
			// dead end, nothing to emit
		default:
			highPos := append(append([]L(nil), top.pos...), top.n.literal)
			lowNeg := append(append([]L(nil), top.neg...), top.n.literal)
			stack.Push(frame{n: top.n.low, pos: top.pos, neg: lowNeg})
			stack.Push(frame{n: top.n.high, pos: highPos, neg: top.neg})
		}
	}
	return out
}
