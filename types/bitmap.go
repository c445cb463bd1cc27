package types

import "strings"

// bitmapKind is the fixed-width bitset over indivisible atomic kinds from
// spec §3: each bit names a basic kind that has no internal structure worth
// representing as anything richer than "present or absent". Grounded on the
// teacher's own small closed enumerations (e.g. level.go's Level being a
// plain int rather than a struct) - a kind this simple earns a bitset, not
// an object.
type bitmapKind uint16

const (
	bitBinary bitmapKind = 1 << iota
	bitEmptyList
	bitInteger
	bitFloat
	bitPid
	bitPort
	bitReference
	bitNonEmptyList
	bitTupleUnknown
	bitFunUnknown

	// bitNotSet is reserved for use inside map field values only, to mark
	// "this key may be absent" (spec §3 Invariant 3 and Invariant 1). It
	// must never appear in a bitmap returned from a public constructor or
	// a to_quoted call on a value type.
	bitNotSet
)

var bitmapNames = []struct {
	bit  bitmapKind
	name string
}{
	{bitBinary, "binary"},
	{bitEmptyList, "empty_list"},
	{bitInteger, "integer"},
	{bitFloat, "float"},
	{bitPid, "pid"},
	{bitPort, "port"},
	{bitReference, "reference"},
	{bitNonEmptyList, "non_empty_list"},
	{bitTupleUnknown, "tuple"},
	{bitFunUnknown, "fun"},
	{bitNotSet, "not_set"},
}

// bitmapTop is every bit a value type may legally carry; bitNotSet is
// excluded since it is a field-value-only marker, never a member of the
// top type.
const bitmapTop = bitBinary | bitEmptyList | bitInteger | bitFloat | bitPid |
	bitPort | bitReference | bitNonEmptyList | bitTupleUnknown | bitFunUnknown

func unionBitmap(a, b bitmapKind) bitmapKind { return a | b }
func interBitmap(a, b bitmapKind) bitmapKind { return a & b }
func diffBitmap(a, b bitmapKind) bitmapKind  { return a &^ b }

func (bm bitmapKind) isEmpty() bool { return bm == 0 }

// stripNotSet clears the field-value-only marker before a bitmap crosses a
// public boundary, per spec Invariant 3.
func (bm bitmapKind) stripNotSet() bitmapKind { return bm &^ bitNotSet }

// quoted renders the set bits in the fixed order bitmapNames declares,
// giving the BDD engine's "stable total order" property a quoting-side
// analogue: two equal bitmaps always print identically.
func (bm bitmapKind) quoted() []string {
	var out []string
	for _, entry := range bitmapNames {
		if bm&entry.bit != 0 {
			out = append(out, entry.name)
		}
	}
	return out
}

func (bm bitmapKind) String() string {
	parts := bm.quoted()
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " | ")
}
