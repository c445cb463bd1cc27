package types

import (
	"cmp"
	"slices"

	"github.com/hollow-lang/settype/internal/bdd"
)

// MapTag distinguishes an open map literal (unknown extra keys permitted)
// from a closed one (exactly the declared keys), per spec §3.
type MapTag uint8

const (
	Closed MapTag = iota
	Open
)

func (t MapTag) String() string {
	if t == Open {
		return "open"
	}
	return "closed"
}

// mapField is one (key, value-node) pair inside a map literal. The value
// node's descriptor may carry bitNotSet to mark the field optional - spec
// §3's "Fields may carry the not_set bit to mark optional keys."
type mapField struct {
	key   string
	value *Node
}

// MapLiteral is the BDD literal for the map kind (tuples stay an
// indivisible bitmap bit and never use it): a tagged pair (tag, fields)
// from spec §3. fields is kept sorted by key so two literals built
// independently from the same (tag, key/value) content compare and hash the
// same way. It is used as a plain value type (never a pointer) since it is
// what internal/bdd.Node[MapLiteral] stores as an internal node's label,
// and that package's Comparator works over values.
type MapLiteral struct {
	Tag    MapTag
	fields []mapField
}

// NewMapLiteral builds a literal from an unordered field slice, sorting by
// key once here so every later comparison and lookup can assume order.
func NewMapLiteral(tag MapTag, fields map[string]*Node) MapLiteral {
	sorted := make([]mapField, 0, len(fields))
	for k, v := range fields {
		sorted = append(sorted, mapField{key: k, value: v})
	}
	slices.SortFunc(sorted, func(a, b mapField) int { return cmp.Compare(a.key, b.key) })
	return MapLiteral{Tag: tag, fields: sorted}
}

func (l MapLiteral) hasKey(key string) (*Node, bool) {
	for _, f := range l.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

func (l MapLiteral) withoutKey(key string) MapLiteral {
	out := make([]mapField, 0, len(l.fields))
	for _, f := range l.fields {
		if f.key != key {
			out = append(out, f)
		}
	}
	return MapLiteral{Tag: l.Tag, fields: out}
}

// firstKey returns some key declared on the literal, used by findKey
// (mapnorm.go) to pick a split point; any deterministic choice is correct,
// so the first in sorted order is used.
func (l MapLiteral) firstKey() (string, bool) {
	if len(l.fields) == 0 {
		return "", false
	}
	return l.fields[0].key, true
}

// CompareMapLiteral totally orders literals by (tag, keys, field value
// content). This is the Comparator the map BDD's internal
// bdd.Node[MapLiteral] is built with; it only needs to be a stable strict
// total order for Union/Intersection/Difference's balanced merge to be
// correct, but ordering by content rather than by raw node identity lets
// two literals built independently from the same (tag, key, value type)
// content compare equal instead of only ever differing by the fresh
// NodeID each constructor call mints.
func CompareMapLiteral(a, b MapLiteral) int {
	if c := cmp.Compare(a.Tag, b.Tag); c != 0 {
		return c
	}
	if c := cmp.Compare(len(a.fields), len(b.fields)); c != 0 {
		return c
	}
	for i := range a.fields {
		if c := cmp.Compare(a.fields[i].key, b.fields[i].key); c != 0 {
			return c
		}
		if c := compareFieldValue(a.fields[i].value, b.fields[i].value); c != 0 {
			return c
		}
	}
	return 0
}

// compareFieldValue orders two field-value nodes by their shallow,
// one-step descriptor shape - bitmap bits, then atom content - before ever
// falling back to node identity. A field whose value itself carries map
// content is not descended into: a self-referential field (the recursive
// types node.go's BuildRecursive produces) could make a structural
// comparison recurse forever, so that case alone still orders by identity.
func compareFieldValue(a, b *Node) int {
	da, db := a.Step(), b.Step()
	if c := cmp.Compare(da.bitmap, db.bitmap); c != 0 {
		return c
	}
	if c := compareAtomKind(da.atom, db.atom); c != 0 {
		return c
	}
	if (da.mapBDD == nil) != (db.mapBDD == nil) {
		if da.mapBDD == nil {
			return -1
		}
		return 1
	}
	if da.mapBDD != nil {
		return cmp.Compare(a.ID(), b.ID())
	}
	return 0
}

// compareAtomKind orders two atom kinds by (presence, negated, sorted
// symbols) - the same case shape atom.go's four-case tables use, applied
// here to produce a comparison instead of a combination.
func compareAtomKind(a, b *atomKind) int {
	switch {
	case a.isEmpty() && b.isEmpty():
		return 0
	case a.isEmpty():
		return -1
	case b.isEmpty():
		return 1
	}
	if c := cmp.Compare(boolToInt(a.negated), boolToInt(b.negated)); c != 0 {
		return c
	}
	as, bs := a.symbols.Slice(), b.symbols.Slice()
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Compare(as, bs)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// mapBDD is shorthand for the BDD specialised to MapLiteral, used by the
// map kind only; the tuple kind is a bitmap bit (per the design notes' open
// question) and never reaches it.
type mapBDD = bdd.Node[MapLiteral]
