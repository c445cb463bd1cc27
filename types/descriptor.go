package types

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/hollow-lang/settype/internal/bdd"
)

// Descriptor is the normalized representation from spec §3: a mapping from
// kind tag to kind value, with absent kinds meaning "empty of that kind".
// Tuple and function stay indivisible bitmap bits per the design notes'
// open question (the source never finishes a BDD encoding for them), so the
// only kind needing a structured value here is map - everything else folds
// into bitmap or atom.
type Descriptor struct {
	bitmap  bitmapKind
	atom    *atomKind
	mapBDD  *mapBDD
	dynamic *Descriptor
}

// Kind names the top-level categories from spec §3's closed enumeration,
// used only for documentation - neither the Descriptor struct nor quoting
// switches on it anywhere.
type Kind int

const (
	KindBitmap Kind = iota
	KindAtom
	KindMap
	KindTuple
	KindList
	KindFun
	KindDynamic
)

func (k Kind) String() string {
	switch k {
	case KindBitmap:
		return "bitmap"
	case KindAtom:
		return "atom"
	case KindMap:
		return "map"
	case KindTuple:
		return "tuple"
	case KindList:
		return "list"
	case KindFun:
		return "fun"
	case KindDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// None is the empty type - the absence of every kind.
func None() *Descriptor { return &Descriptor{} }

// termDescriptor is the top type, every bitmap bit, the unrestricted
// negated-empty-set atom, and every map (maps have no bitmap bit of their
// own - bitmap.go's bitmapTop only covers the indivisible kinds - so the
// top type only actually contains map values through mapBDD). It is also
// the coinductive placeholder value a revisited recursive node contributes
// (see traversal.unwrap in node.go): "no further constraint" is exactly the
// top type.
func termDescriptor() *Descriptor {
	return &Descriptor{
		bitmap: bitmapTop,
		atom:   newAtomKind(true, set.New[string](0)),
		mapBDD: bdd.True[MapLiteral](),
	}
}

// Term is the public spelling of the top type.
func Term() *Descriptor { return termDescriptor() }

// notSetDescriptor is the field-value marker meaning "this key is absent".
// It must never reach a public constructor result for a plain value type
// (spec Invariant 3); outside map field values it only appears in
// mapnorm.go's unexported mapGet result, which MapGet strips.
func notSetDescriptor() *Descriptor { return &Descriptor{bitmap: bitNotSet} }

// termOrNotSetDescriptor is the value single_split assigns to an optional
// field an open literal says nothing about: it may be any term, or absent.
func termOrNotSetDescriptor() *Descriptor {
	d := termDescriptor()
	d.bitmap |= bitNotSet
	return d
}

func isEmptyDescriptor(d *Descriptor) bool {
	return d == nil || (d.bitmap == 0 && d.atom.isEmpty() && d.mapBDD == nil && d.dynamic == nil)
}

// dynamicUpperBound returns T_d from spec §4.4: the dynamic entry alone
// when present, else T itself (a purely static descriptor is its own upper
// bound).
func dynamicUpperBound(d *Descriptor) *Descriptor {
	if d == nil {
		return None()
	}
	if d.dynamic != nil {
		return d.dynamic
	}
	return d
}

// staticPart returns T_s = T ∖ {:dynamic}: the same descriptor with its
// dynamic entry cleared.
func staticPart(d *Descriptor) *Descriptor {
	if d == nil {
		return None()
	}
	return &Descriptor{bitmap: d.bitmap, atom: d.atom, mapBDD: d.mapBDD}
}

func isGradual(d *Descriptor) bool { return d != nil && d.dynamic != nil }

// Gradual reports whether t carries a dynamic component.
func Gradual(t *Descriptor) bool { return isGradual(t) }

// asGradual lifts a purely static descriptor into a trivially gradual one
// (:dynamic := itself), the step spec §4.4 requires before combining a
// gradual side with a static one.
func asGradual(d *Descriptor) *Descriptor {
	if isGradual(d) {
		return d
	}
	return &Descriptor{bitmap: d.bitmap, atom: d.atom, mapBDD: d.mapBDD, dynamic: d}
}

// notEmptyDescrStatic checks only the structural (kind-bitmap/atom/map)
// content, ignoring any dynamic entry - callers must have already reduced
// to a static descriptor via dynamicUpperBound or staticPart.
func notEmptyDescrStatic(d *Descriptor, t *traversal) bool {
	if d == nil {
		return false
	}
	if d.bitmap != 0 {
		return true
	}
	if !d.atom.isEmpty() {
		return true
	}
	if d.mapBDD != nil && notEmptyMap(d.mapBDD, t) {
		return true
	}
	return false
}

// notEmptyDescr implements spec §4.4's gradual emptiness rule: empty?(T) is
// empty?(T_d), the upper bound, since a gradual type may always be
// instantiated to its most permissive member.
func notEmptyDescr(d *Descriptor, t *traversal) bool {
	return notEmptyDescrStatic(dynamicUpperBound(d), t)
}

// Empty decides emptiness of d: a gradual descriptor by its dynamic upper
// bound, and any node content reachable through map fields by a fresh
// memoized traversal.
func Empty(d *Descriptor) bool { return !notEmptyDescr(d, newTraversal()) }

func unionDescrStatic(a, b *Descriptor) *Descriptor {
	out := &Descriptor{
		bitmap: unionBitmap(a.bitmap, b.bitmap),
		atom:   unionAtom(a.atom, b.atom),
	}
	switch {
	case a.mapBDD == nil:
		out.mapBDD = b.mapBDD
	case b.mapBDD == nil:
		out.mapBDD = a.mapBDD
	default:
		out.mapBDD = bdd.Union(CompareMapLiteral, a.mapBDD, b.mapBDD)
	}
	return out
}

func intersectionDescrStatic(a, b *Descriptor) *Descriptor {
	out := &Descriptor{
		bitmap: interBitmap(a.bitmap, b.bitmap),
		atom:   interAtom(a.atom, b.atom),
	}
	if a.mapBDD != nil && b.mapBDD != nil {
		out.mapBDD = bdd.Intersection(CompareMapLiteral, a.mapBDD, b.mapBDD)
	}
	return out
}

func differenceDescrStatic(a, b *Descriptor) *Descriptor {
	out := &Descriptor{
		bitmap: diffBitmap(a.bitmap, b.bitmap),
		atom:   diffAtom(a.atom, b.atom),
	}
	switch {
	case a.mapBDD == nil:
		out.mapBDD = nil
	case b.mapBDD == nil:
		out.mapBDD = a.mapBDD
	default:
		out.mapBDD = bdd.Difference(CompareMapLiteral, a.mapBDD, b.mapBDD)
	}
	return out
}

func negationDescrStatic(a *Descriptor) *Descriptor {
	out := &Descriptor{
		bitmap: diffBitmap(bitmapTop, a.bitmap),
		atom:   negateAtom(a.atom),
	}
	if a.mapBDD != nil {
		out.mapBDD = bdd.Negate(CompareMapLiteral, a.mapBDD)
	} else {
		out.mapBDD = bdd.True[MapLiteral]()
	}
	return out
}

// unionDescr, intersectionDescr, differenceDescr and negationDescr lift the
// static per-kind algebra through the gradual decomposition of spec §4.4:
// if exactly one side is gradual, the purely static side is first promoted
// to a trivially-gradual one so both operands share the same shape, then
// the two components are combined independently.
func unionDescr(a, b *Descriptor) *Descriptor {
	if isGradual(a) || isGradual(b) {
		a, b = asGradual(a), asGradual(b)
		s := unionDescrStatic(staticPart(a), staticPart(b))
		s.dynamic = unionDescrStatic(a.dynamic, b.dynamic)
		return s
	}
	return unionDescrStatic(a, b)
}

func intersectionDescr(a, b *Descriptor) *Descriptor {
	if isGradual(a) || isGradual(b) {
		a, b = asGradual(a), asGradual(b)
		s := intersectionDescrStatic(staticPart(a), staticPart(b))
		s.dynamic = intersectionDescrStatic(a.dynamic, b.dynamic)
		return s
	}
	return intersectionDescrStatic(a, b)
}

func differenceDescr(a, b *Descriptor) *Descriptor {
	if isGradual(a) || isGradual(b) {
		a, b = asGradual(a), asGradual(b)
		s := differenceDescrStatic(staticPart(a), staticPart(b))
		s.dynamic = differenceDescrStatic(a.dynamic, b.dynamic)
		return s
	}
	return differenceDescrStatic(a, b)
}

func negationDescr(a *Descriptor) *Descriptor {
	if isGradual(a) {
		a = asGradual(a)
		s := negationDescrStatic(staticPart(a))
		s.dynamic = negationDescrStatic(a.dynamic)
		return s
	}
	return negationDescrStatic(a)
}

// Union, Intersection, Difference and Negation are the public descriptor
// set operations from spec §6.
func Union(a, b *Descriptor) *Descriptor        { return unionDescr(a, b) }
func Intersection(a, b *Descriptor) *Descriptor { return intersectionDescr(a, b) }
func Difference(a, b *Descriptor) *Descriptor   { return differenceDescr(a, b) }
func Negation(a *Descriptor) *Descriptor        { return negationDescr(a) }

// Subtype implements spec §4.4's three-way gradual subtyping rule: a
// gradual left side only needs its upper bound below the right; a gradual
// right side only needs the left below its static part; otherwise subtyping
// reduces structurally.
func Subtype(l, r *Descriptor) bool {
	switch {
	case isGradual(l) && !isGradual(r):
		return Empty(differenceDescr(dynamicUpperBound(l), r))
	case !isGradual(l) && isGradual(r):
		return Empty(differenceDescr(l, staticPart(r)))
	default:
		return Empty(differenceDescr(l, r))
	}
}

// Equal holds when l and r are subtypes of each other.
func Equal(l, r *Descriptor) bool { return Subtype(l, r) && Subtype(r, l) }

// Intersect reports whether l and r share a member.
func Intersect(l, r *Descriptor) bool { return !Empty(intersectionDescr(l, r)) }

// Compatible implements spec §4.4's gradual compatibility rule used to
// check an inferred type I against an expected type E: if I has a non-empty
// static part, that part alone must fit under E's upper bound; otherwise
// (I is purely dynamic) it is enough that the two upper bounds overlap.
func Compatible(i, e *Descriptor) bool {
	static := staticPart(i)
	if !Empty(static) {
		return Empty(differenceDescr(static, dynamicUpperBound(e)))
	}
	return Intersect(dynamicUpperBound(i), dynamicUpperBound(e))
}

// IsTerm reports whether t is exactly the top type.
func IsTerm(t *Descriptor) bool { return Equal(t, Term()) }
