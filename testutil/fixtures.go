// Package testutil builds small, hand-checkable AIG fixtures shared
// across the other packages' tests — ripple-carry adders, shift
// registers, and the identities spec.md §8's testable-property scenarios
// name (constant propagation, a De Morgan miter, latch correspondence,
// a k-induction counter), so each package does not have to hand-roll
// its own copy of the same handful of circuits.
package testutil

import "github.com/gitrdm/gofraig/aig"

// DeMorganMiter builds NOT(a AND b) XOR (NOT a OR NOT b) as a single PO:
// the two sides of De Morgan's law, wired through a miter so the PO is
// constantly 0 for every input — the textbook "soundness" fixture
// spec.md §8 names.
func DeMorganMiter() *aig.Manager {
	m := aig.NewManager()
	pa := aig.Ref{ID: m.CreatePI()}
	pb := aig.Ref{ID: m.CreatePI()}
	lhs := m.And(pa, pb).Not()
	rhs := m.Or(pa.Not(), pb.Not())
	m.CreatePO(m.Miter(lhs, rhs))
	return m
}

// ConstantZero builds a network of n free inputs ANDed together with
// their own complements, which structurally simplifies to a constant-0
// PO regardless of n — the "constant propagation" fixture spec.md §8
// names.
func ConstantZero(n int) *aig.Manager {
	if n < 1 {
		n = 1
	}
	m := aig.NewManager()
	out := m.True()
	for i := 0; i < n; i++ {
		pi := aig.Ref{ID: m.CreatePI()}
		out = m.And(out, m.And(pi, pi.Not()))
	}
	m.CreatePO(out)
	return m
}

// RippleCarryAdder builds a bits-wide ripple-carry adder over two fresh
// PI operands, returning the manager plus the two operand bit slices
// (LSB first) so a caller can drive or compare specific bit positions.
// The sum bits (LSB first) and the final carry-out are exposed as POs,
// in that order.
func RippleCarryAdder(bits int) (m *aig.Manager, a, b []aig.ID) {
	if bits < 1 {
		bits = 1
	}
	m = aig.NewManager()
	a = make([]aig.ID, bits)
	b = make([]aig.ID, bits)
	for i := 0; i < bits; i++ {
		a[i] = m.CreatePI()
		b[i] = m.CreatePI()
	}

	carry := m.False()
	sums := make([]aig.Ref, bits)
	for i := 0; i < bits; i++ {
		ai := aig.Ref{ID: a[i]}
		bi := aig.Ref{ID: b[i]}
		axb := m.Xor(ai, bi)
		sums[i] = m.Xor(axb, carry)
		carry = m.Or(m.And(ai, bi), m.And(axb, carry))
	}
	for _, s := range sums {
		m.CreatePO(s)
	}
	m.CreatePO(carry)
	return m, a, b
}

// CarrySelectAdder builds the same bits-wide addition function as
// RippleCarryAdder but via a structurally different construction
// (each bit's carry is recomputed directly as a sum-of-products over the
// operand bits rather than threaded through a single running carry
// chain), so the two can be composed into a combinational-equivalence
// fixture: their corresponding sum and carry-out outputs are
// functionally identical despite having no shared subexpressions, the
// "two-bit adder equivalence" scenario spec.md §8 names.
func CarrySelectAdder(bits int) (m *aig.Manager, a, b []aig.ID) {
	if bits < 1 {
		bits = 1
	}
	m = aig.NewManager()
	a = make([]aig.ID, bits)
	b = make([]aig.ID, bits)
	for i := 0; i < bits; i++ {
		a[i] = m.CreatePI()
		b[i] = m.CreatePI()
	}

	// carryInto[i] is the carry entering bit i, built directly as the
	// generate/propagate expansion over bits 0..i-1 instead of via a
	// single threaded variable.
	generate := func(i int) aig.Ref { return m.And(aig.Ref{ID: a[i]}, aig.Ref{ID: b[i]}) }
	propagate := func(i int) aig.Ref { return m.Xor(aig.Ref{ID: a[i]}, aig.Ref{ID: b[i]}) }

	carryInto := make([]aig.Ref, bits+1)
	carryInto[0] = m.False()
	for i := 1; i <= bits; i++ {
		c := m.False()
		for j := i - 1; j >= 0; j-- {
			term := generate(j)
			for k := j + 1; k < i; k++ {
				term = m.And(term, propagate(k))
			}
			c = m.Or(c, term)
		}
		carryInto[i] = c
	}

	for i := 0; i < bits; i++ {
		s := m.Xor(propagate(i), carryInto[i])
		m.CreatePO(s)
	}
	m.CreatePO(carryInto[bits])
	return m, a, b
}

// ShiftRegister builds an n-bit shift register: a chain of n latches,
// each taking its input from the previous latch's output (the first
// latch's input is a free PI), with every latch output exposed as a PO.
func ShiftRegister(n int) *aig.Manager {
	if n < 1 {
		n = 1
	}
	m := aig.NewManager()
	pi := aig.Ref{ID: m.CreatePI()}
	prev := pi
	for i := 0; i < n; i++ {
		lo, li := m.CreateLatch(false)
		m.SetLatchInput(li, prev)
		m.CreatePO(aig.Ref{ID: lo})
		prev = aig.Ref{ID: lo}
	}
	return m
}

// TwinShiftRegisters builds two independently constructed n-bit shift
// registers driven by the same PI, returning both chains' latch-output
// ids (index 0 is each chain's first latch). The two chains are
// sequentially equivalent stage by stage — lo1[i] and lo2[i] always
// agree — the "latch correspondence" scenario spec.md §8 names, built so
// a register-correspondence run has a genuine multi-latch candidate set
// to prove rather than a single pair.
func TwinShiftRegisters(n int) (m *aig.Manager, chain1, chain2 []aig.ID) {
	if n < 1 {
		n = 1
	}
	m = aig.NewManager()
	pi := aig.Ref{ID: m.CreatePI()}

	build := func() []aig.ID {
		prev := pi
		ids := make([]aig.ID, n)
		for i := 0; i < n; i++ {
			lo, li := m.CreateLatch(false)
			m.SetLatchInput(li, prev)
			m.CreatePO(aig.Ref{ID: lo})
			ids[i] = lo
			prev = aig.Ref{ID: lo}
		}
		return ids
	}
	chain1 = build()
	chain2 = build()
	return m, chain1, chain2
}

// PhaseShiftedCounters builds two 1-bit toggle counters (lo = NOT lo
// each cycle, driven by a shared PI) with different reset phases: one
// toggles every cycle from frame 0, the other is held at its reset value
// through frame 0 by a leading gate latch and only starts toggling from
// frame 1 onward. The two counters' outputs only coincide from the
// second cycle onward, so a plain one-step induction (k=1) cannot
// certify their equivalence but a k=2 unrolling can — the "k-induction
// counter" scenario spec.md §8 names. Returns the manager and the two
// comparison latch-output ids.
func PhaseShiftedCounters() (m *aig.Manager, direct, delayed aig.ID) {
	m = aig.NewManager()
	pa := aig.Ref{ID: m.CreatePI()}

	loDirect, liDirect := m.CreateLatch(false)
	m.SetLatchInput(liDirect, m.Xor(aig.Ref{ID: loDirect}, pa))

	// delayed toggles the same way but is gated one cycle behind a
	// leading buffer latch, so its first post-reset value still reads
	// the reset state while loDirect has already advanced.
	loGate, liGate := m.CreateLatch(false)
	m.SetLatchInput(liGate, m.True())

	loDelayed, liDelayed := m.CreateLatch(false)
	toggle := m.Xor(aig.Ref{ID: loDelayed}, pa)
	hold := aig.Ref{ID: loDelayed}
	m.SetLatchInput(liDelayed, m.Mux(aig.Ref{ID: loGate}, toggle, hold))

	m.CreatePO(aig.Ref{ID: loDirect})
	m.CreatePO(aig.Ref{ID: loDelayed})
	return m, loDirect, loDelayed
}
