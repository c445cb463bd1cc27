package types

import (
	"log/slog"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	set "github.com/hashicorp/go-set/v3"

	"github.com/hollow-lang/settype/internal/ilerr"
	"github.com/hollow-lang/settype/internal/log"
)

// NodeID is a process-wide monotonic identity. It is never recycled and
// compares in O(1); hashing is uniform because it is just a counter. This is
// the only global mutable state in the package - the teacher's equivalent
// is the per-run Fresher.freshCount in frontend/types/level.go, promoted
// here to a package-level atomic because node identity must stay unique
// across concurrent callers, not just within one inference run.
type NodeID uint64

var nextNodeID atomic.Uint64

func newNodeID() NodeID {
	return NodeID(nextNodeID.Add(1))
}

// Generator produces one layer of a descriptor from a recursion state. It is
// the Go encoding of the source's "gen: state -> descriptor" closure
// described in the node-layer design notes: a value-oriented target without
// first-class recursive closures represents gen as a function value closing
// over whatever the original closure closed over. It carries no recursion
// symbol of its own: BuildRecursive's generators reach their siblings
// through the placeholder nodes they close over.
type Generator func(state State) *Descriptor

// State maps a recursion-variable symbol to the generator that defines it.
// It is a benbjohnson/immutable.Map, the same persistent map the teacher
// depends on for its own copy-on-write collections (util/set.go's
// MSet.Immutable, util/hset), so that every node produced while stepping
// shares its state with siblings in O(1) and forking it for a nested
// build_recursive call never aliases the caller's state.
type State struct {
	underlying *immutable.Map[string, Generator]
}

var stringHasher immutable.Hasher[string]

func emptyState() State {
	return State{underlying: immutable.NewMap[string, Generator](stringHasher)}
}

// Lookup returns the generator bound to symbol, if any.
func (s State) Lookup(symbol string) (Generator, bool) {
	if s.underlying == nil {
		return nil, false
	}
	g, ok := s.underlying.Get(symbol)
	return g, ok
}

// With returns a new State with symbol bound to gen, leaving s unmodified.
func (s State) With(symbol string, gen Generator) State {
	base := s.underlying
	if base == nil {
		base = immutable.NewMap[string, Generator](stringHasher)
	}
	return State{underlying: base.Set(symbol, gen)}
}

// Node is the triple (id, state, gen) from the node layer: a lazy,
// reference-identified wrapper around a descriptor. Stepping a node applies
// gen(state) to yield one layer of descriptor whose embedded recursion
// points are self-contained nodes carrying the same state: for a family
// built by BuildRecursive, the same placeholder nodes on every step.
type Node struct {
	id    NodeID
	state State
	gen   Generator
}

// MakeNode builds a node directly from a generator and recursion state. Most
// callers should prefer FreshNode or ToNode; MakeNode is for the recursive
// builder and for node-to-node operators that need to mint a node around a
// computed generator.
func MakeNode(state State, gen Generator) *Node {
	return &Node{id: newNodeID(), state: state, gen: gen}
}

// FreshNode wraps a descriptor in a node with a new id, empty state and a
// constant generator - used whenever a plain descriptor must appear where a
// node is expected.
func FreshNode(d *Descriptor) *Node {
	return &Node{id: newNodeID(), state: emptyState(), gen: func(State) *Descriptor { return d }}
}

// NodeLike is implemented by the two things ToNode accepts: a *Descriptor or
// an already-built *Node.
type NodeLike interface {
	toNode() *Node
}

func (d *Descriptor) toNode() *Node { return FreshNode(d) }
func (n *Node) toNode() *Node       { return n }

// ToNode accepts either a descriptor or a node and returns a node,
// short-circuiting when x is already one - the same "already fresh"
// short-circuit shape as the teacher's Fresher.freshen level() check in
// frontend/types/level.go.
func ToNode(x NodeLike) *Node {
	if x == nil {
		ilerr.Domain("ToNode: nil value")
	}
	return x.toNode()
}

// Step evaluates gen(state), yielding a descriptor in which embedded
// recursion points are self-contained nodes per Invariant 5 (BuildRecursive's
// placeholders, reused rather than re-minted on every step).
func (n *Node) Step() *Descriptor {
	if n == nil || n.gen == nil {
		ilerr.Invariant(nil, "step: malformed node")
	}
	log.DefaultLogger.Debug("stepping node", slog.String("section", "node"), slog.Uint64("id", uint64(n.id)))
	return n.gen(n.state)
}

// ID exposes the node's identity, used by map literals to order BDD
// branches (see literal.go) without ever structurally comparing nodes.
func (n *Node) ID() NodeID { return n.id }

func unionNode(a, b *Node) *Node {
	return MakeNode(emptyState(), func(State) *Descriptor {
		return unionDescr(a.Step(), b.Step())
	})
}

func interNode(a, b *Node) *Node {
	return MakeNode(emptyState(), func(State) *Descriptor {
		return intersectionDescr(a.Step(), b.Step())
	})
}

func diffNode(a, b *Node) *Node {
	return MakeNode(emptyState(), func(State) *Descriptor {
		return differenceDescr(a.Step(), b.Step())
	})
}

func negateNode(a *Node) *Node {
	return MakeNode(emptyState(), func(State) *Descriptor {
		return negationDescr(a.Step())
	})
}

// UnionNode, InterNode, DiffNode and NegateNode step their operands, apply
// the matching descriptor-level operation, and wrap the result back into a
// node - the node-layer lifting of the descriptor algebra from spec §4.5.
func UnionNode(a, b NodeLike) *Node  { return unionNode(ToNode(a), ToNode(b)) }
func InterNode(a, b NodeLike) *Node  { return interNode(ToNode(a), ToNode(b)) }
func DiffNode(a, b NodeLike) *Node   { return diffNode(ToNode(a), ToNode(b)) }
func NegateNode(a NodeLike) *Node    { return negateNode(ToNode(a)) }

// traversal threads the memoization set required to terminate on cyclic
// node structures. It is scoped to a single top-level call (Empty, Subtype,
// ...), per the "mutable set scoped to each top-level call" alternative the
// design notes permit in place of a persistent one; notEmptyNode removes
// each id again once that node has been decided.
type traversal struct {
	seen *set.Set[NodeID]
}

func newTraversal() *traversal {
	return &traversal{seen: set.New[NodeID](8)}
}

// unwrap returns the descriptor a node denotes, applying the coinductive
// short-circuit: a node already in seen returns Term() instead of being
// stepped again, so a cyclic structural position contributes no further
// constraint rather than looping forever. This realises the "assume success
// unless contradicted" greatest-fixed-point semantics spec §4.5 requires,
// implemented here as "treat a revisited recursive occurrence as
// unconstrained" rather than as a raw boolean. Nothing in this package
// calls unwrap: split-on-key and the emptiness check both go through
// notEmptyNode.
func (t *traversal) unwrap(n *Node) *Descriptor {
	if t.seen.Contains(n.id) {
		return termDescriptor()
	}
	t.seen.Insert(n.id)
	return n.Step()
}

// notEmptyNode is the single recursive, memoized entry point for deciding
// emptiness of a node's denoted type. Every other decision procedure
// (subtype, equality, intersect, compatible) is expressed in terms of it by
// composing the descriptor algebra and testing the result for emptiness -
// following the classic semantic-subtyping reduction S <: T  iff
// S ∧ ¬T is empty, so only one recursive traversal needs the seen-set
// threading described in spec §4.5.
//
// A revisited node id returns false (empty), not true: spec §4.5's
// coinductive unit for this decision assumes a recursive occurrence empty
// unless some other disjunct along the way already proved the type
// non-empty, so a definition with no non-recursive alternative anywhere in
// its unfolding - e.g. a map whose only field loops back to itself with no
// other case - correctly denotes nothing. A node id stays in seen only
// while that node itself is being decided, so a revisit is always a
// recursive occurrence on the current path; a sibling branch that checks
// the same node again gets a real answer. unwrap (above) returns Term() on
// a revisit instead; nothing in this package calls it.
func notEmptyNode(n *Node, t *traversal) bool {
	if t.seen.Contains(n.id) {
		return false
	}
	t.seen.Insert(n.id)
	defer t.seen.Remove(n.id)
	return notEmptyDescr(n.Step(), t)
}

// EmptyNode decides emptiness of whatever a node denotes, terminating on
// cyclic definitions via the memoized traversal above.
func EmptyNode(n *Node) bool {
	return !notEmptyNode(n, newTraversal())
}

// SubtypeNode lifts the semantic-subtyping reduction S <: T iff empty(S ∧ ¬T)
// to the node layer: l <: r iff l ∖ r denotes nothing, decided through the
// same memoized traversal so a cyclic l or r still terminates.
func SubtypeNode(l, r NodeLike) bool {
	return !notEmptyNode(diffNode(ToNode(l), ToNode(r)), newTraversal())
}

// BuildRecursive implements the four-step builder from spec §4.5 for a
// (mutually) recursive system of equations {symbol -> body}. bodies maps
// each recursion variable to a function that, given the sibling nodes by
// symbol, produces that variable's defining descriptor.
//
// Every occurrence of a recursion variable Y, across every equation, is
// replaced by the SAME fixed node once, at construction time here - not
// re-minted on every step. That is what makes stepping terminate under
// memoization: re-entering X's definition during a traversal re-encounters
// the identical node id it started from, rather than an ever-fresh one, so
// the seen-set in notEmptyNode actually has something to match against.
func BuildRecursive(bodies map[string]func(vars map[string]*Node) *Descriptor) map[string]*Node {
	placeholders := make(map[string]*Node, len(bodies))
	gens := make(map[string]Generator, len(bodies))

	// Step 1: translate each body into a generator expression, closing
	// over the (not yet fully populated) placeholders map by reference -
	// by the time any gen actually runs, every symbol has been filled in.
	for symbol, body := range bodies {
		body := body
		gens[symbol] = func(State) *Descriptor { return body(placeholders) }
		placeholders[symbol] = &Node{id: newNodeID()}
	}

	// Step 2: collect the family into one shared state.
	state := emptyState()
	for symbol, gen := range gens {
		state = state.With(symbol, gen)
		placeholders[symbol].gen = gen
	}

	// Step 3+4: every placeholder now carries the complete shared state
	// and its own generator; return them to the caller.
	for _, n := range placeholders {
		n.state = state
	}
	return placeholders
}
