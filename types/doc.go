// Package types implements a set-theoretic type descriptor algebra: basic
// kinds (bitmap, atom), a map kind normalized through a binary decision
// diagram, a gradual/dynamic component, and a coinductive node layer that
// lets descriptors refer to themselves so cyclic type definitions can be
// built, compared and checked for emptiness.
//
// The algebra reduces every derived decision procedure to one primitive:
// emptiness. Subtype, equality, intersection and gradual compatibility are
// all expressed as composing Union/Intersection/Difference/Negation and
// testing the result with Empty, following the classic semantic-subtyping
// identity S <: T iff empty(S ∧ ¬T). Recursive structure is carried by
// *Node (node.go); everything else operates on *Descriptor values.
package types
