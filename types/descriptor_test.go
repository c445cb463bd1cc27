package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/hollow-lang/settype/types"
)

// --- Universal laws (spec §8) ---

func TestIdempotence(t *testing.T) {
	a := Integer()
	assert.True(t, Equal(Union(a, a), a))
	assert.True(t, Equal(Intersection(a, a), a))
}

func TestCommutativity(t *testing.T) {
	a, b := Integer(), Float()
	assert.True(t, Equal(Union(a, b), Union(b, a)))
	assert.True(t, Equal(Intersection(a, b), Intersection(b, a)))
}

func TestAssociativity(t *testing.T) {
	a, b, c := Integer(), Float(), Binary()
	assert.True(t, Equal(Union(Union(a, b), c), Union(a, Union(b, c))))
	assert.True(t, Equal(Intersection(Intersection(a, b), c), Intersection(a, Intersection(b, c))))
}

func TestDistributivity(t *testing.T) {
	a, b, c := Integer(), Float(), Binary()
	lhs := Intersection(a, Union(b, c))
	rhs := Union(Intersection(a, b), Intersection(a, c))
	assert.True(t, Equal(lhs, rhs))
}

func TestComplementation(t *testing.T) {
	a := Integer()
	assert.True(t, Equal(Union(a, Negation(a)), Term()))
	assert.True(t, Equal(Intersection(a, Negation(a)), None()))
}

func TestSubtypeReflexiveTransitive(t *testing.T) {
	a := Integer()
	b := Union(Integer(), Float())
	c := Union(Integer(), Union(Float(), Binary()))
	assert.True(t, Subtype(a, a))
	assert.True(t, Subtype(a, b))
	assert.True(t, Subtype(b, c))
	assert.True(t, Subtype(a, c))
}

func TestDeMorgan(t *testing.T) {
	a, b := Integer(), Float()
	lhs := Negation(Union(a, b))
	rhs := Intersection(Negation(a), Negation(b))
	assert.True(t, Equal(lhs, rhs))
}

func TestGradualSubtypeReflexive(t *testing.T) {
	for _, ty := range []*Descriptor{Integer(), Dynamic(), Union(Dynamic(), Boolean())} {
		assert.True(t, Subtype(ty, ty), "every type is a subtype of itself under the gradual rule")
	}
}

func TestQuotedStringNonEmpty(t *testing.T) {
	for _, ty := range []*Descriptor{
		Integer(),
		Union(Integer(), Boolean()),
		Map(Closed, F("a", Integer())),
	} {
		q := ToQuotedString(ty)
		assert.NotEmpty(t, q)
	}
}

func TestNodeSteppingIdempotence(t *testing.T) {
	n := ToNode(Integer())
	stepped := n.Step()
	refreshed := FreshNode(stepped).Step()
	assert.True(t, Equal(stepped, refreshed))
}

// --- End-to-end scenarios (spec §8) ---

func TestE1DisjointBasicKinds(t *testing.T) {
	assert.True(t, Empty(Intersection(Integer(), AtomSet("nil"))))
	assert.True(t, Subtype(Integer(), Union(Integer(), AtomSet("nil"))))
}

func TestE2DisjointClosedMaps(t *testing.T) {
	a := Map(Closed, F("a", Integer()))
	b := Map(Closed, F("a", Atom()))
	assert.True(t, Empty(Intersection(a, b)))
}

func TestE3OpenMapSupertypeOfClosed(t *testing.T) {
	closedAB := Map(Closed, F("a", Integer()), F("b", Float()))
	openA := Map(Open, F("a", Integer()))
	assert.True(t, Subtype(closedAB, openA))
}

func TestE4RecursiveListType(t *testing.T) {
	nodes := BuildRecursive(map[string]func(map[string]*Node) *Descriptor{
		"X": func(vars map[string]*Node) *Descriptor {
			return Union(
				Map(Closed, F("head", Integer()), F("tail", vars["X"])),
				AtomSet("nil"),
			)
		},
	})
	nX := nodes["X"]
	assert.False(t, EmptyNode(nX))
	assert.True(t, SubtypeNode(FreshNode(AtomSet("nil")), nX))
}

func TestE5MutuallyRecursiveTypes(t *testing.T) {
	nodes := BuildRecursive(map[string]func(map[string]*Node) *Descriptor{
		"Y": func(vars map[string]*Node) *Descriptor {
			return Union(Map(Closed, F("fst", Boolean()), F("snd", vars["X"])), AtomSet("nil"))
		},
		"X": func(vars map[string]*Node) *Descriptor {
			return Union(Map(Closed, F("fst", Integer()), F("snd", vars["Y"])), AtomSet("nil"))
		},
	})
	nX, nY := nodes["X"], nodes["Y"]
	assert.False(t, EmptyNode(nX))
	assert.False(t, EmptyNode(nY))
	assert.True(t, Equal(nX.Step(), nX.Step()))
}

func TestE6GradualCompatibility(t *testing.T) {
	assert.True(t, Compatible(Dynamic(), Integer()))
	assert.False(t, Compatible(Union(Dynamic(), Atom()), Integer()))
}

func TestE7OptionalMapField(t *testing.T) {
	withOptional := Map(Closed, F("a", Integer()), Opt("b", Float()))
	assert.False(t, MapHasKey(withOptional, "b"))
	assert.True(t, MapMayHaveKey(withOptional, "b"))
	assert.True(t, MapHasKey(withOptional, "a"))
}

func TestE8ThreeWayMutualRecursion(t *testing.T) {
	nodes := BuildRecursive(map[string]func(map[string]*Node) *Descriptor{
		"A": func(vars map[string]*Node) *Descriptor {
			return Union(Map(Closed, F("next", vars["B"])), AtomSet("done"))
		},
		"B": func(vars map[string]*Node) *Descriptor {
			return Union(Map(Closed, F("next", vars["C"])), AtomSet("done"))
		},
		"C": func(vars map[string]*Node) *Descriptor {
			return Union(Map(Closed, F("next", vars["A"])), AtomSet("done"))
		},
	})
	for _, sym := range []string{"A", "B", "C"} {
		assert.False(t, EmptyNode(nodes[sym]), "symbol %s should be non-empty", sym)
	}
}

func TestRecursiveTypeWithNoBaseCaseIsEmpty(t *testing.T) {
	nodes := BuildRecursive(map[string]func(map[string]*Node) *Descriptor{
		"X": func(vars map[string]*Node) *Descriptor {
			return Map(Closed, F("tail", vars["X"]))
		},
	})
	assert.True(t, EmptyNode(nodes["X"]), "a recursive definition with no non-recursive alternative denotes nothing")
}

func TestE9GradualMapQuotes(t *testing.T) {
	gradualMap := asGradualForTest(Map(Open, F("a", Integer())))
	q := ToQuotedString(gradualMap)
	assert.NotEmpty(t, q)
}

func asGradualForTest(d *Descriptor) *Descriptor {
	return Union(Dynamic(), d)
}
