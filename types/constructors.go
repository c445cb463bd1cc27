package types

import (
	set "github.com/hashicorp/go-set/v3"
)

// The constructors below are the public surface of spec §6's "type
// constructors" list. Each one is a plain, non-recursive value; only Map
// and BuildRecursive (node.go) ever need a Node rather than a Descriptor,
// since every other kind is either a bitmap bit or a finite atom set.

// Atom is the full atom type - every atom, spec §6's atom().
func Atom() *Descriptor { return &Descriptor{atom: newAtomKind(true, set.New[string](0))} }

// AtomSet is spec §6's atom(set): exactly the named atoms.
func AtomSet(symbols ...string) *Descriptor {
	s := set.New[string](len(symbols))
	s.InsertSlice(symbols)
	return &Descriptor{atom: newAtomKind(false, s)}
}

// Boolean is the two-element atom set {true, false}.
func Boolean() *Descriptor { return AtomSet("true", "false") }

func Integer() *Descriptor      { return &Descriptor{bitmap: bitInteger} }
func Float() *Descriptor        { return &Descriptor{bitmap: bitFloat} }
func Binary() *Descriptor       { return &Descriptor{bitmap: bitBinary} }
func Pid() *Descriptor          { return &Descriptor{bitmap: bitPid} }
func Port() *Descriptor         { return &Descriptor{bitmap: bitPort} }
func Reference() *Descriptor    { return &Descriptor{bitmap: bitReference} }
func EmptyList() *Descriptor    { return &Descriptor{bitmap: bitEmptyList} }
func NonEmptyList() *Descriptor { return &Descriptor{bitmap: bitNonEmptyList} }

// Tuple and Fun are the indivisible tuple-of-unknown and function-of-unknown
// bits per the design notes' open question: no refined tuple/function BDD
// is built by this package, so these constructors take no arguments.
func Tuple() *Descriptor { return &Descriptor{bitmap: bitTupleUnknown} }
func Fun() *Descriptor   { return &Descriptor{bitmap: bitFunUnknown} }

// Dynamic is the fully-dynamic gradual type from spec §4.4's dynamic()
// constructor: an empty static part (T_s = None) with the top type as its
// dynamic upper bound (T_d = term). This is deliberately not
// asGradual(termDescriptor()), which lifts an already-static descriptor by
// keeping it as ITS OWN static part too - correct for combining a static
// side with a gradual one mid-operation, but wrong here, since it would
// leave Dynamic()'s static part non-empty and make Compatible reject it.
func Dynamic() *Descriptor { return &Descriptor{dynamic: termDescriptor()} }

// Field is one (key, value) pair supplied to Map; Opt marks the value
// optional by OR-ing bitNotSet onto its descriptor before wrapping, the
// encoding spec §6 calls "optional(key) ... marks its value as if_set".
type Field struct {
	Key   string
	Value NodeLike
}

// F builds a required field.
func F(key string, value NodeLike) Field { return Field{Key: key, Value: value} }

// Opt builds a field whose value may be absent.
func Opt(key string, value NodeLike) Field {
	d := ToNode(value).Step()
	withNotSet := &Descriptor{bitmap: d.bitmap | bitNotSet, atom: d.atom, mapBDD: d.mapBDD, dynamic: d.dynamic}
	return Field{Key: key, Value: withNotSet}
}

// Map builds a map type from an ordered sequence of fields and an
// open/closed tag - spec §6's map(pairs, open|closed).
func Map(tag MapTag, fields ...Field) *Descriptor {
	byKey := make(map[string]*Node, len(fields))
	for _, f := range fields {
		byKey[f.Key] = ToNode(f.Value)
	}
	lit := NewMapLiteral(tag, byKey)
	return &Descriptor{mapBDD: litToBDD(lit)}
}
