// Package aig implements the And-Inverter Graph collaborator consumed by
// the FRAIG equivalence engine (see spec.md §6, "AIG collaborator
// contract"). The engine treats this package as an external dependency —
// it only stores node ids and signed references — but a concrete
// implementation is needed for the engine to run standalone, so this
// package provides one: node allocation, structural hashing ("strash"),
// fanout bookkeeping, and topological iteration.
package aig

import "fmt"

// Type identifies the role of a node in the graph.
type Type int

const (
	TypeConst1 Type = iota
	TypePI
	TypeLatchOut
	TypeAnd
	TypeLatchIn
	TypePO
)

func (t Type) String() string {
	switch t {
	case TypeConst1:
		return "Const1"
	case TypePI:
		return "PI"
	case TypeLatchOut:
		return "LatchOut"
	case TypeAnd:
		return "And"
	case TypeLatchIn:
		return "LatchIn"
	case TypePO:
		return "PO"
	default:
		return "Unknown"
	}
}

// ID is a stable node identifier. ID 0 is reserved for the constant-1 node.
type ID int

// Ref is a signed reference: a node id paired with an inversion bit.
// Ref{ID: n, Inv: true} reads as "NOT n". Equality of two Refs means
// "same node, same polarity" (spec.md §3).
type Ref struct {
	ID  ID
	Inv bool
}

// Not returns the complement of r.
func (r Ref) Not() Ref { return Ref{ID: r.ID, Inv: !r.Inv} }

// Node is one vertex of the AIG.
type Node struct {
	ID        ID
	Type      Type
	Phase     bool // value under the all-zero input assignment
	Fanin0    Ref
	Fanin1    Ref // unused for PI/LatchOut/Const1
	Level     int
	fanoutCnt int // structural fanout count, used by the supergate collector

	// LatchNext links a LatchOut node to its driving LatchIn (for sequential
	// unrolling); LatchIn nodes carry the reverse link in Fanin0.
	LatchNext ID
}

// IsCombinational reports whether n is an AND gate, PI, or Const1 — i.e.
// a node whose value in a given frame depends only on that frame's inputs.
func (n *Node) IsCombinational() bool {
	return n.Type == TypeAnd || n.Type == TypePI || n.Type == TypeConst1
}

// Manager owns node storage, structural hashing, and fanout lists. It
// implements the read side of the AIG collaborator contract: iter_nodes_topo,
// node_type, node_fanin0/1, phase, level, and make_and with structural
// hashing (spec.md §6).
type Manager struct {
	nodes  []Node
	strash map[strashKey]ID // (fanin0, fanin1) -> existing AND node, for make_and
	pis    []ID
	los    []ID // latch outputs, in the same order as lis
	lis    []ID // latch inputs
	pos    []Ref
}

type strashKey struct {
	a, b Ref
}

// NewManager creates an empty manager with the constant-1 node pre-allocated
// at id 0.
func NewManager() *Manager {
	m := &Manager{strash: make(map[strashKey]ID, 1024)}
	m.nodes = append(m.nodes, Node{ID: 0, Type: TypeConst1, Phase: true})
	return m
}

// NumNodes returns the number of allocated nodes, including Const1.
func (m *Manager) NumNodes() int { return len(m.nodes) }

// Node returns the node record for id. Panics on an out-of-range id —
// an invariant violation, not a recoverable condition (spec.md §7).
func (m *Manager) Node(id ID) *Node {
	if int(id) < 0 || int(id) >= len(m.nodes) {
		panic(fmt.Sprintf("aig: node id %d out of range", id))
	}
	return &m.nodes[int(id)]
}

// Const1 returns the id of the distinguished constant-1 node.
func (m *Manager) Const1() ID { return 0 }

// PIs returns the ids of all primary inputs in creation order.
func (m *Manager) PIs() []ID { return m.pis }

// LatchOuts returns latch-output node ids; LatchIns returns the matching
// latch-input ids in the same order (LatchIns()[i] drives LatchOuts()[i]
// in the next frame).
func (m *Manager) LatchOuts() []ID { return m.los }
func (m *Manager) LatchIns() []ID  { return m.lis }

// POs returns the signed references asserted as primary outputs.
func (m *Manager) POs() []Ref { return m.pos }

// CreatePI allocates a new primary input.
func (m *Manager) CreatePI() ID {
	id := ID(len(m.nodes))
	m.nodes = append(m.nodes, Node{ID: id, Type: TypePI})
	m.pis = append(m.pis, id)
	return id
}

// CreateLatch allocates a latch-output/latch-input pair. The latch-output
// is a combinational leaf (like a PI) whose value in frame f+1 equals the
// latch-input's value in frame f; initPhase is the output's reset-state
// value used for phase normalization.
func (m *Manager) CreateLatch(initPhase bool) (out, in ID) {
	outID := ID(len(m.nodes))
	m.nodes = append(m.nodes, Node{ID: outID, Type: TypeLatchOut, Phase: initPhase})
	inID := ID(len(m.nodes))
	m.nodes = append(m.nodes, Node{ID: inID, Type: TypeLatchIn})
	m.nodes[outID].LatchNext = inID
	m.los = append(m.los, outID)
	m.lis = append(m.lis, inID)
	return outID, inID
}

// SetLatchInput wires the data input driving a latch-input node.
func (m *Manager) SetLatchInput(latchIn ID, driver Ref) {
	n := m.Node(latchIn)
	n.Fanin0 = driver
	n.Level = m.Node(driver.ID).Level
}

// CreateAnd returns a signed reference to the AND of a and b, applying
// structural hashing (strash) and the standard AIG simplifications:
// a constant or repeated fanin collapses instead of allocating a node.
// This is the make_and operation of the AIG collaborator contract.
func (m *Manager) CreateAnd(a, b Ref) Ref {
	// trivial simplifications
	if a.ID == m.Const1() {
		if a.Inv {
			return Ref{ID: m.Const1(), Inv: true} // 0 AND b = 0
		}
		return b // 1 AND b = b
	}
	if b.ID == m.Const1() {
		if b.Inv {
			return Ref{ID: m.Const1(), Inv: true}
		}
		return a
	}
	if a.ID == b.ID {
		if a.Inv == b.Inv {
			return a
		}
		return Ref{ID: m.Const1(), Inv: true} // x AND NOT x = 0
	}
	// canonical order for the strash key
	key := strashKey{a, b}
	if a.ID > b.ID || (a.ID == b.ID && a.Inv) {
		key = strashKey{b, a}
	}
	if id, ok := m.strash[key]; ok {
		return Ref{ID: id}
	}
	fa, fb := m.Node(key.a.ID), m.Node(key.b.ID)
	id := ID(len(m.nodes))
	lvl := fa.Level
	if fb.Level > lvl {
		lvl = fb.Level
	}
	node := Node{
		ID:     id,
		Type:   TypeAnd,
		Fanin0: key.a,
		Fanin1: key.b,
		Level:  lvl + 1,
		Phase:  (fa.Phase != key.a.Inv) && (fb.Phase != key.b.Inv),
	}
	m.nodes = append(m.nodes, node)
	m.strash[key] = id
	fa.fanoutCnt++
	fb.fanoutCnt++
	return Ref{ID: id}
}

// Not builds the complement of a signed reference; purely a bit flip, no
// node allocation.
func (m *Manager) Not(r Ref) Ref { return r.Not() }

// CreatePO asserts r as a primary output.
func (m *Manager) CreatePO(r Ref) {
	m.pos = append(m.pos, r)
}

// Fanout returns the structural fanout count of n — used by the CNF
// supergate collector to decide where an AND-chain must be cut (spec.md
// §4.3: "stops at ... multi-fanout nodes").
func (m *Manager) Fanout(id ID) int { return m.nodes[id].fanoutCnt }

// IterTopo calls visit once for every node in id order, matching the
// engine's required sweep order (spec.md §5): CreateAnd always allocates
// a new id above both its fanins' ids, so id order is a topological order
// (leaves first) for AND nodes. The one exception is a latch-input node:
// SetLatchInput attaches its driver after both nodes exist, so the driver
// can carry a higher id than the latch-input and is then visited after it.
func (m *Manager) IterTopo(visit func(*Node)) {
	for i := range m.nodes {
		visit(&m.nodes[i])
	}
}

// Eval evaluates every node's Boolean value given an assignment of PI (and,
// for one frame, latch-output) id to bool. Used by test fixtures and by
// the soundness/preservation property tests (spec.md §8) as an
// independent oracle separate from the bit-parallel simulator.
func (m *Manager) Eval(assign map[ID]bool) map[ID]bool {
	vals := make(map[ID]bool, len(m.nodes))
	vals[m.Const1()] = true
	for i := range m.nodes {
		n := &m.nodes[i]
		switch n.Type {
		case TypeConst1:
			// already set
		case TypePI, TypeLatchOut:
			vals[n.ID] = assign[n.ID]
		case TypeAnd:
			a := vals[n.Fanin0.ID] != n.Fanin0.Inv
			b := vals[n.Fanin1.ID] != n.Fanin1.Inv
			vals[n.ID] = a && b
		}
	}
	// latch-inputs last: a driver can carry a higher id than its latch-input
	for _, li := range m.lis {
		n := &m.nodes[li]
		vals[li] = vals[n.Fanin0.ID] != n.Fanin0.Inv
	}
	return vals
}

// RefValue reads r's value out of a value map produced by Eval.
func RefValue(vals map[ID]bool, r Ref) bool {
	return vals[r.ID] != r.Inv
}
