package bdd_test

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hollow-lang/settype/internal/bdd"
)

func intCmp(a, b int) int { return cmp.Compare(a, b) }

func leaf(lit int) *bdd.Node[int] {
	return bdd.Branch(lit, bdd.True[int](), bdd.False[int]())
}

func TestUnionIdentityAndAbsorbing(t *testing.T) {
	a := leaf(1)
	assert.True(t, bdd.Union(intCmp, a, bdd.False[int]()) == a)
	assert.True(t, bdd.Union(intCmp, a, bdd.True[int]()).IsTrue())
}

func TestIntersectionIdentityAndAbsorbing(t *testing.T) {
	a := leaf(1)
	assert.True(t, bdd.Intersection(intCmp, a, bdd.True[int]()) == a)
	assert.True(t, bdd.Intersection(intCmp, a, bdd.False[int]()).IsFalse())
}

func TestDifferenceSelf(t *testing.T) {
	a := leaf(1)
	assert.True(t, bdd.Difference(intCmp, a, a).IsFalse())
}

func TestNegateInvolution(t *testing.T) {
	a := bdd.Union(intCmp, leaf(1), leaf(2))
	nn := bdd.Negate(intCmp, bdd.Negate(intCmp, a))
	// double negation should accept exactly what a accepted
	for _, p := range bdd.Paths(a) {
		_ = p
	}
	assert.ElementsMatch(t, bdd.Paths(a), bdd.Paths(nn))
}

func TestUnionCommutative(t *testing.T) {
	a, b := leaf(1), leaf(2)
	assert.ElementsMatch(t, bdd.Paths(bdd.Union(intCmp, a, b)), bdd.Paths(bdd.Union(intCmp, b, a)))
}

func TestPathsOnTrueAndFalse(t *testing.T) {
	assert.Empty(t, bdd.Paths(bdd.False[int]()))
	assert.Len(t, bdd.Paths(bdd.True[int]()), 1)
}

func TestPathsExtractsDisjunction(t *testing.T) {
	u := bdd.Union(intCmp, leaf(1), leaf(2))
	paths := bdd.Paths(u)
	assert.Len(t, paths, 2)
}

func TestIntersectionOfDistinctLiteralsHasOnePath(t *testing.T) {
	a, b := leaf(1), leaf(2)
	// a accepts only assignments with literal 1 true, b only literal 2 -
	// their conjunction accepts exactly the single assignment where both
	// are true.
	i := bdd.Intersection(intCmp, a, b)
	assert.Len(t, bdd.Paths(i), 1)
}

func TestBranchCollapsesRedundantTest(t *testing.T) {
	n := bdd.Branch(1, bdd.True[int](), bdd.True[int]())
	assert.True(t, n.IsTrue())
	assert.True(t, n.IsLeaf())
}
