package types

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/hollow-lang/settype/internal/bdd"
	"github.com/hollow-lang/settype/internal/ilerr"
	"github.com/hollow-lang/settype/util"
)

// pairT is one (value_at_key, rest_of_map) pair from spec §4.3: Fst is the
// descriptor a key is bound to (wrapped as a node since it may embed further
// recursion), Snd is everything the map literal says about every other key,
// kept as a map BDD rather than a bare literal so the disjointness
// normalization below can use the generic BDD union the internal/bdd
// package already provides instead of a second hand-rolled merge.
type pairT = util.Pair[*Node, *mapBDD]

func litToBDD(l MapLiteral) *mapBDD {
	return bdd.Branch(l, bdd.True[MapLiteral](), bdd.False[MapLiteral]())
}

func unionRest(a, b *mapBDD) *mapBDD { return bdd.Union(CompareMapLiteral, a, b) }

// findKey returns some key declared by any literal in the path (both
// positive and negative occurrences count), per spec §4.3 step 1.
func findKey(pos, neg []MapLiteral) (string, bool) {
	for _, l := range pos {
		if k, ok := l.firstKey(); ok {
			return k, true
		}
	}
	for _, l := range neg {
		if k, ok := l.firstKey(); ok {
			return k, true
		}
	}
	return "", false
}

// singleSplit implements the four cases of spec §4.3 step 2 for one
// literal and one key: the value bound to the key (or a sentinel standing
// for "not set" / "term or not set"), and the literal with that key
// removed. The third return reports the "no split" sentinel: the
// universal open map, which the caller must treat specially rather than
// as an ordinary pair.
func singleSplit(lit MapLiteral, key string) (value *Node, rest MapLiteral, noSplit bool) {
	if v, ok := lit.hasKey(key); ok {
		return v, lit.withoutKey(key), false
	}
	if lit.Tag == Closed {
		return FreshNode(notSetDescriptor()), lit.withoutKey(key), false
	}
	if len(lit.fields) == 0 {
		return nil, MapLiteral{}, true
	}
	return FreshNode(termOrNotSetDescriptor()), lit.withoutKey(key), false
}

// emptyCases decides, for a map BDD none of whose remaining literals carry
// any field (every key has already been split away), whether the BDD is
// open and whether it admits the empty-map witness - spec §4.3 step 1's
// base case, walked directly over BDD structure rather than over paths:
// true is (true,true); false is (false,false); an internal node combines
// its own literal's (is_open,has_empty) with its high/low children by
// b∧(high result) ∨ ¬b∧(low result), applied componentwise, with b the
// literal's own value for that component: is_open is (true) for an open
// literal and (false) for a closed one, has_empty is true for both.
func emptyCases(n *mapBDD) (isOpen, hasEmpty bool) {
	if n.IsTrue() {
		return true, true
	}
	if n.IsFalse() {
		return false, false
	}
	lit, _ := n.Literal()
	b := lit.Tag == Open
	highOpen, highEmpty := emptyCases(n.High())
	lowOpen, _ := emptyCases(n.Low())
	if b {
		return highOpen, highEmpty
	}
	return lowOpen, highEmpty
}

// splitLineOnKey runs step 2 over one DNF line (a path through the BDD,
// already split into positive and negative literals by bdd.Paths) and a
// chosen key, then step 3's pair-disjointness normalization (§4.3.1) over
// the resulting (positive_pairs, negative_pairs). It returns the disjoint
// union of (value, rest) pairs denoted by this one line after eliminating
// key, or ok=false if the line turned out to denote nothing (a negative
// "no split" sentinel discards the whole path).
func splitLineOnKey(pos, neg []MapLiteral, key string, t *traversal) (pairs []pairT, ok bool) {
	// value is seeded from the first split's node directly rather than from
	// a fresh Term() wrapped in an intersection - x ∩ term = x, so the
	// wrapping was only ever a notational identity element. It matters here
	// because a self-referential field (the recursive node's value split
	// points straight back at itself) must keep that node's original id
	// alive into this position: an always-fresh InterNode wrapper would mint
	// a new id on every unfolding, and notEmptyNode's seen-set would then
	// never see the same id twice to terminate on.
	var value *Node
	rest := bdd.True[MapLiteral]()
	for _, l := range pos {
		v, r, noSplit := singleSplit(l, key)
		if noSplit {
			// universal positive constraint: intersecting with it is a
			// no-op, so it is simply dropped from the running intersection
			continue
		}
		if value == nil {
			value = v
		} else {
			value = InterNode(value, v)
		}
		rest = bdd.Intersection(CompareMapLiteral, rest, litToBDD(r))
	}
	if value == nil {
		value = FreshNode(termDescriptor())
	}

	var negPairs []pairT
	for _, l := range neg {
		v, r, noSplit := singleSplit(l, key)
		if noSplit {
			// a negative constraint that matches every value at key
			// subtracts everything from this line; discard it entirely
			return nil, false
		}
		negPairs = append(negPairs, pairT{Fst: v, Snd: litToBDD(r)})
	}

	// Make the negative pairs pairwise disjoint on their value component.
	var disjointNeg []pairT
	for _, np := range negPairs {
		disjointNeg = insertDisjointNeg(disjointNeg, np)
	}

	// Eliminate negations via (F,S) ∖ ⋃(t_i,s_i) = ⋃(F∩t_i, S∖s_i) ∪ (F∖⋃t_i, S).
	base := pairT{Fst: value, Snd: rest}
	if len(disjointNeg) == 0 {
		if notEmptyNode(base.Fst, t) {
			return []pairT{base}, true
		}
		return nil, true
	}

	var out []pairT
	coveredUnion := FreshNode(None())
	for _, np := range disjointNeg {
		piece := pairT{
			Fst: InterNode(base.Fst, np.Fst),
			Snd: bdd.Difference(CompareMapLiteral, base.Snd, np.Snd),
		}
		if notEmptyNode(piece.Fst, t) {
			out = append(out, piece)
		}
		coveredUnion = UnionNode(coveredUnion, np.Fst)
	}
	remainder := pairT{Fst: DiffNode(base.Fst, coveredUnion), Snd: base.Snd}
	if notEmptyNode(remainder.Fst, t) {
		out = append(out, remainder)
	}
	return out, true
}

// insertDisjointNeg folds a new (value,rest) pair into an accumulator that
// is already pairwise disjoint on value, per spec §4.3.1 step 2: each
// existing entry is decomposed against the incoming one into up to three
// pieces (the existing entry's uncovered remainder, the shared overlap
// with rests unioned, and the incoming pair's remaining uncovered part),
// discarding any piece whose value is empty and short-circuiting the two
// common subset cases.
func insertDisjointNeg(acc []pairT, incoming pairT) []pairT {
	out := make([]pairT, 0, len(acc)+1)
	cur := incoming
	active := true
	for _, s := range acc {
		if !active {
			out = append(out, s)
			continue
		}
		sOnly := DiffNode(s.Fst, cur.Fst)
		curOnly := DiffNode(cur.Fst, s.Fst)
		overlap := InterNode(cur.Fst, s.Fst)

		sOnlyEmpty := EmptyNode(sOnly)
		curOnlyEmpty := EmptyNode(curOnly)

		switch {
		case sOnlyEmpty && curOnlyEmpty:
			// identical value components: merge rests, nothing left of cur
			if !EmptyNode(overlap) {
				out = append(out, pairT{Fst: overlap, Snd: unionRest(cur.Snd, s.Snd)})
			}
			active = false
		case curOnlyEmpty:
			// cur.Fst ⊆ s.Fst: cur fully absorbed into the overlap
			if !EmptyNode(sOnly) {
				out = append(out, pairT{Fst: sOnly, Snd: s.Snd})
			}
			if !EmptyNode(overlap) {
				out = append(out, pairT{Fst: overlap, Snd: unionRest(cur.Snd, s.Snd)})
			}
			active = false
		case sOnlyEmpty:
			// s.Fst ⊆ cur.Fst: s merges into the overlap, cur keeps going
			if !EmptyNode(overlap) {
				out = append(out, pairT{Fst: overlap, Snd: unionRest(cur.Snd, s.Snd)})
			}
			cur = pairT{Fst: curOnly, Snd: cur.Snd}
		default:
			if !EmptyNode(sOnly) {
				out = append(out, pairT{Fst: sOnly, Snd: s.Snd})
			}
			if !EmptyNode(overlap) {
				out = append(out, pairT{Fst: overlap, Snd: unionRest(cur.Snd, s.Snd)})
			}
			cur = pairT{Fst: curOnly, Snd: cur.Snd}
		}
	}
	if active && !EmptyNode(cur.Fst) {
		out = append(out, cur)
	}
	return out
}

// notEmptyMap is the memoized, key-eliminating entry point for map BDD
// emptiness from spec §4.3: it visits every DNF line of the BDD, finds a
// key to split on, normalizes that line into disjoint pairs, and recurses
// into each pair's rest-of-map with the key removed, short-circuiting on
// the first witness of non-emptiness as map_not_empty? does in the design
// notes.
func notEmptyMap(n *mapBDD, t *traversal) bool {
	for _, line := range bdd.Paths(n) {
		key, ok := findKey(line.Pos, line.Neg)
		if !ok {
			if _, hasEmpty := emptyCases(reconstructLine(line)); hasEmpty {
				return true
			}
			continue
		}
		pairs, ok := splitLineOnKey(line.Pos, line.Neg, key, t)
		if !ok {
			continue
		}
		for _, p := range pairs {
			if notEmptyNode(p.Fst, t) && notEmptyMap(p.Snd, t) {
				return true
			}
		}
	}
	return false
}

// reconstructLine rebuilds a minimal BDD for one DNF line so emptyCases can
// walk it with the same high/low recursion it uses on a full diagram, once
// every key has already been eliminated from every literal on the line.
func reconstructLine(line bdd.Path[MapLiteral]) *mapBDD {
	n := bdd.True[MapLiteral]()
	for _, l := range line.Neg {
		n = bdd.Branch(l, bdd.False[MapLiteral](), n)
	}
	for _, l := range line.Pos {
		n = bdd.Branch(l, n, bdd.False[MapLiteral]())
	}
	return n
}

// MapGet returns the value type bound to key, raising a domain-misuse
// error if t is not a subtype of map - spec §6's map_get!. The not_set
// marker is stripped from the result (Invariant 3): an optional key yields
// just its value type, and a key no value of t carries yields an empty
// descriptor.
func MapGet(t *Descriptor, key string) *Descriptor {
	v := mapGet(t, key)
	return &Descriptor{bitmap: v.bitmap.stripNotSet(), atom: v.atom, mapBDD: v.mapBDD, dynamic: v.dynamic}
}

// mapGet is MapGet without the final strip: its result keeps bitNotSet
// when some value of t may lack key, which MapHasKey relies on.
func mapGet(t *Descriptor, key string) *Descriptor {
	requireMapLike(t, "MapGet")
	m := dynamicUpperBound(t)
	if m.mapBDD == nil {
		return notSetDescriptor()
	}
	tr := newTraversal()
	acc := FreshNode(None())
	for _, line := range bdd.Paths(m.mapBDD) {
		pairs, ok := splitLineOnKey(line.Pos, line.Neg, key, tr)
		if !ok {
			continue
		}
		for _, p := range pairs {
			if notEmptyMap(p.Snd, tr) {
				acc = UnionNode(acc, p.Fst)
			}
		}
	}
	return acc.Step()
}

// MapHasKey reports whether every value of t is guaranteed to carry key as
// a set (non-not_set) field.
func MapHasKey(t *Descriptor, key string) bool {
	v := mapGet(t, key)
	return v.bitmap&bitNotSet == 0 && !isEmptyDescriptor(v)
}

// MapMayHaveKey reports whether some value of t could carry key at all.
func MapMayHaveKey(t *Descriptor, key string) bool {
	v := MapGet(t, key)
	return !isEmptyDescriptor(v)
}

// MapKeys returns the atom type of keys guaranteed present on every value
// of t: each key declared by a positive literal is kept when MapHasKey
// holds for it. Keys mentioned only by negative literals are not
// considered.
func MapKeys(t *Descriptor) *Descriptor {
	requireMapLike(t, "MapKeys")
	m := dynamicUpperBound(t)
	if m.mapBDD == nil {
		return &Descriptor{atom: newAtomKind(false, set.New[string](0))}
	}
	keys := set.New[string](8)
	for _, line := range bdd.Paths(m.mapBDD) {
		for _, l := range line.Pos {
			for _, f := range l.fields {
				if MapHasKey(t, f.key) {
					keys.Insert(f.key)
				}
			}
		}
	}
	return &Descriptor{atom: newAtomKind(false, keys)}
}

func requireMapLike(t *Descriptor, op string) {
	if Empty(t) {
		return
	}
	if !Subtype(t, &Descriptor{mapBDD: bdd.True[MapLiteral]()}) {
		ilerr.Domain("%s: not a subtype of map", op)
	}
}
