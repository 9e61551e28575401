package aig

// Convenience constructors layered on top of Manager's primitive
// CreatePI/CreateAnd/CreatePO operations. These mirror the kind of
// fixture-building helpers a structural-hashing AIG package offers its
// callers (see testutil/fixtures.go for the test-side consumers).

// And returns a AND b; inverted operands are passed through as inverted
// fanins (a thin, readable wrapper over CreateAnd).
func (m *Manager) And(a, b Ref) Ref { return m.CreateAnd(a, b) }

// Or returns a OR b via De Morgan: NOT(NOT a AND NOT b).
func (m *Manager) Or(a, b Ref) Ref {
	return m.CreateAnd(a.Not(), b.Not()).Not()
}

// Xor returns a XOR b as (a OR b) AND NOT(a AND b).
func (m *Manager) Xor(a, b Ref) Ref {
	both := m.CreateAnd(a, b)
	either := m.Or(a, b)
	return m.CreateAnd(either, both.Not())
}

// Xnor returns the complement of Xor — the standard "miter" equivalence
// test between two signed references (spec.md's combinational-equivalence
// scenarios build a miter this way).
func (m *Manager) Xnor(a, b Ref) Ref { return m.Xor(a, b).Not() }

// Mux returns sel ? a : b, built from two ANDs and an OR so the CNF
// supergate collector can still recognize it structurally as a MUX
// (cnf/supergate.go looks for exactly this AND/OR/complement shape).
func (m *Manager) Mux(sel, a, b Ref) Ref {
	return m.Or(m.CreateAnd(sel, a), m.CreateAnd(sel.Not(), b))
}

// Miter builds a single-output combinational miter asserting "a XOR b" as
// the sole primary output, and returns that output's reference. A SAT
// call proving this PO is always 0 (UNSAT for polarity 1) establishes a
// ≡ b; this is the standard reduction the class manager's pairwise
// equivalence proof step performs (spec.md §4.4).
func (m *Manager) Miter(a, b Ref) Ref {
	out := m.Xor(a, b)
	m.CreatePO(out)
	return out
}

// True and False return signed references to the manager's constant-1 node
// in each polarity.
func (m *Manager) True() Ref  { return Ref{ID: m.Const1()} }
func (m *Manager) False() Ref { return Ref{ID: m.Const1(), Inv: true} }
