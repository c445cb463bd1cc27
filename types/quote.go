package types

import (
	"sort"
	"strings"

	"github.com/hollow-lang/settype/internal/bdd"
)

// Quoted is the neutral structured form from spec §4.6: a descriptor
// rendered into plain data rather than left as an opaque *Descriptor, for
// display or for round-tripping through an external pretty-printer.
type Quoted struct {
	Bitmap    []string
	Atom      *QuotedAtom
	Map       []QuotedMapLiteral
	Dynamic   *QuotedDynamic
	HasNotSet bool
}

// QuotedAtom renders an atomKind: Negated distinguishes U(S) from N(S).
type QuotedAtom struct {
	Negated bool
	Symbols []string
}

// QuotedField is one rendered (key, value) pair of a map disjunct.
type QuotedField struct {
	Key      string
	Optional bool
	Value    *Quoted
}

// QuotedMapLiteral is one disjunct of a map type's normalized DNF.
type QuotedMapLiteral struct {
	Open   bool
	Fields []QuotedField
}

// QuotedDynamic wraps the rendering of a gradual type's dynamic component.
type QuotedDynamic struct {
	IsTop bool
	Inner *Quoted
}

// ToQuoted renders t into the structured form of spec §4.6. Public callers
// always pass a value type, so the not_set bit (meaningful only inside map
// field values) is stripped per Invariant 3; quoteStatic, used internally
// on field values, keeps it.
func ToQuoted(t *Descriptor) *Quoted {
	q := quoteStatic(staticPart(t), newTraversal())
	q.HasNotSet = false
	if isGradual(t) {
		inner := quoteStatic(t.dynamic, newTraversal())
		q.Dynamic = &QuotedDynamic{IsTop: IsTerm(t.dynamic), Inner: inner}
	}
	return q
}

func quoteStatic(d *Descriptor, t *traversal) *Quoted {
	if d == nil {
		return &Quoted{}
	}
	q := &Quoted{HasNotSet: d.bitmap&bitNotSet != 0}
	if bm := d.bitmap.stripNotSet(); bm != 0 {
		q.Bitmap = bm.quoted()
	}
	if !d.atom.isEmpty() {
		q.Atom = &QuotedAtom{Negated: d.atom.negated, Symbols: d.atom.symbols.Slice()}
	}
	if d.mapBDD != nil {
		q.Map = quotedMapDisjuncts(d.mapBDD, t)
	}
	return q
}

// quotedMapDisjuncts recursively normalizes a map BDD into the disjoint
// literal disjuncts spec §4.6 asks to be rendered, reusing the same
// split-on-key machinery emptiness checking relies on (mapnorm.go) rather
// than a second, parallel normalization routine.
func quotedMapDisjuncts(n *mapBDD, t *traversal) []QuotedMapLiteral {
	var out []QuotedMapLiteral
	for _, line := range bdd.Paths(n) {
		key, ok := findKey(line.Pos, line.Neg)
		if !ok {
			isOpen, hasEmpty := emptyCases(reconstructLine(line))
			if hasEmpty {
				out = append(out, QuotedMapLiteral{Open: isOpen})
			}
			continue
		}
		pairs, ok := splitLineOnKey(line.Pos, line.Neg, key, t)
		if !ok {
			continue
		}
		for _, p := range pairs {
			valueQuoted := quoteStatic(p.Fst.Step(), t)
			for _, sub := range quotedMapDisjuncts(p.Snd, t) {
				merged := QuotedMapLiteral{
					Open:   sub.Open,
					Fields: append([]QuotedField{{Key: key, Optional: valueQuoted.HasNotSet, Value: valueQuoted}}, sub.Fields...),
				}
				out = append(out, merged)
			}
		}
	}
	return out
}

// ToQuotedString renders t as a human-readable string per spec §4.6.
func ToQuotedString(t *Descriptor) string {
	return ToQuoted(t).String()
}

func (q *Quoted) String() string {
	if q == nil {
		return "none"
	}
	var parts []string
	if len(q.Bitmap) > 0 {
		parts = append(parts, strings.Join(q.Bitmap, " ∨ "))
	}
	if q.Atom != nil {
		parts = append(parts, q.Atom.String())
	}
	for _, lit := range q.Map {
		parts = append(parts, lit.String())
	}
	if len(parts) == 0 && q.Dynamic == nil {
		return "none"
	}
	body := strings.Join(parts, " ∨ ")
	if q.Dynamic == nil {
		return body
	}
	if q.Dynamic.IsTop {
		if body == "" {
			return "dynamic"
		}
		return "dynamic ∧ " + body
	}
	if body == "" {
		return q.Dynamic.Inner.String()
	}
	return "dynamic(" + q.Dynamic.Inner.String() + ") ∧ " + body
}

func (a *QuotedAtom) String() string {
	if a == nil {
		return ""
	}
	sorted := append([]string(nil), a.Symbols...)
	sort.Strings(sorted)
	if !a.Negated {
		return strings.Join(sorted, " ∨ ")
	}
	if len(sorted) == 0 {
		return "atom"
	}
	return "atom ∧ ¬(" + strings.Join(sorted, " ∨ ") + ")"
}

func (l QuotedMapLiteral) String() string {
	fields := make([]string, 0, len(l.Fields))
	for _, f := range l.Fields {
		marker := ""
		if f.Optional {
			marker = "if_set "
		}
		fields = append(fields, f.Key+": "+marker+f.Value.String())
	}
	if l.Open {
		fields = append(fields, "..")
	}
	return "%{" + strings.Join(fields, ", ") + "}"
}
