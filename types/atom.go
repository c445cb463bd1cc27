package types

import (
	set "github.com/hashicorp/go-set/v3"
)

// atomKind is the kind value for atom()/atom(set) per spec §3: a tagged
// pair meaning either "exactly the atoms in set" (negated == false) or
// "every atom except those in set" (negated == true). Delegating union,
// intersection and difference straight to go-set's own set algebra mirrors
// how the teacher's frontend/types leans on the same package for its own
// type-variable sets rather than hand-rolling map[string]struct{} logic.
type atomKind struct {
	negated bool
	symbols *set.Set[string]
}

func newAtomKind(negated bool, symbols *set.Set[string]) *atomKind {
	if symbols == nil {
		symbols = set.New[string](0)
	}
	// The empty union collapses to absence (spec Invariant 1).
	if !negated && symbols.Empty() {
		return nil
	}
	return &atomKind{negated: negated, symbols: symbols}
}

func (a *atomKind) isEmpty() bool { return a == nil }

// unionAtom, interAtom and diffAtom implement the four-case tables of spec
// §4.1, using ¬(neg,S) = (!neg,S) to express difference as a ∩ ¬b rather
// than keeping two independent recursive definitions in sync.
func unionAtom(a, b *atomKind) *atomKind {
	if a.isEmpty() {
		return b
	}
	if b.isEmpty() {
		return a
	}
	switch {
	case !a.negated && !b.negated:
		return newAtomKind(false, a.symbols.Union(b.symbols).(*set.Set[string]))
	case a.negated && b.negated:
		return newAtomKind(true, a.symbols.Intersect(b.symbols).(*set.Set[string]))
	case !a.negated && b.negated:
		return newAtomKind(true, b.symbols.Difference(a.symbols).(*set.Set[string]))
	default: // a.negated && !b.negated
		return newAtomKind(true, a.symbols.Difference(b.symbols).(*set.Set[string]))
	}
}

func interAtom(a, b *atomKind) *atomKind {
	if a.isEmpty() || b.isEmpty() {
		return nil
	}
	switch {
	case !a.negated && !b.negated:
		return newAtomKind(false, a.symbols.Intersect(b.symbols).(*set.Set[string]))
	case a.negated && b.negated:
		return newAtomKind(true, a.symbols.Union(b.symbols).(*set.Set[string]))
	case !a.negated && b.negated:
		return newAtomKind(false, a.symbols.Difference(b.symbols).(*set.Set[string]))
	default: // a.negated && !b.negated
		return newAtomKind(false, b.symbols.Difference(a.symbols).(*set.Set[string]))
	}
}

func negateAtom(a *atomKind) *atomKind {
	if a.isEmpty() {
		return newAtomKind(true, set.New[string](0))
	}
	return newAtomKind(!a.negated, a.symbols)
}

func diffAtom(a, b *atomKind) *atomKind {
	if a.isEmpty() {
		return nil
	}
	return interAtom(a, negateAtom(b))
}
