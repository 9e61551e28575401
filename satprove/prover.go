package satprove

import (
	"fmt"

	"github.com/irifrance/gini/z"

	"github.com/gitrdm/gofraig/aig"
	"github.com/gitrdm/gofraig/cnf"
	"github.com/gitrdm/gofraig/sim"
)

// Outcome is the three-way result of a prover query (spec.md §4.4).
type Outcome int

const (
	Proved Outcome = iota
	Disproved
	Timeout
)

func (o Outcome) String() string {
	switch o {
	case Proved:
		return "Proved"
	case Disproved:
		return "Disproved"
	case Timeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Prover issues two-directional equivalence queries against an
// incrementally-built CNF-on-demand encoding of the AIG, exactly
// mirroring ABC's Fra_NodesAreEquiv (spec.md §4.4, grounded in
// original_source/abc/src/proof/fra/fraSat.c).
type Prover struct {
	aigm     *aig.Manager
	solver   Solver
	builder  *cnf.Builder
	budget   *Budget
	coneCfg  ConeBiasConfig
	maxLevel int

	// kInduction disables the failed-node budget downgrade while an
	// induction proof is in effect (spec.md §4.4 step 1).
	kInduction bool

	failed map[aig.ID]bool
}

// NewProver lazily wires a fresh solver and CNF builder the first time a
// query is issued — mirroring "If the solver does not yet exist, create
// it; reserve variable 0 and assert literal (0, positive)" — but the
// constructor itself performs the creation immediately for simplicity,
// since the distinction is only observable in allocation timing, not
// behavior.
func NewProver(a *aig.Manager, budget *Budget, coneCfg ConeBiasConfig) *Prover {
	return newProverWithSolver(a, NewGiniSolver(), budget, coneCfg)
}

// newProverWithSolver is NewProver parameterized over the solver
// implementation, used by tests to substitute a deterministic solver for
// github.com/irifrance/gini.
func newProverWithSolver(a *aig.Manager, solver Solver, budget *Budget, coneCfg ConeBiasConfig) *Prover {
	const constVar = z.Var(1)
	solver.Add(constVar.Pos())
	solver.Add(z.LitNull)
	builder := cnf.NewBuilder(a, solver, constVar, 2, true)

	maxLevel := 0
	a.IterTopo(func(n *aig.Node) {
		if n.Level > maxLevel {
			maxLevel = n.Level
		}
	})

	return &Prover{
		aigm:     a,
		solver:   solver,
		builder:  builder,
		budget:   budget,
		coneCfg:  coneCfg,
		maxLevel: maxLevel,
		failed:   make(map[aig.ID]bool),
	}
}

// SetKInduction toggles the induction-in-effect flag the failed-node
// budget downgrade checks.
func (p *Prover) SetKInduction(active bool) { p.kInduction = active }

// Failed reports whether n has previously been marked failed by a
// timed-out query.
func (p *Prover) Failed(n aig.ID) bool { return p.failed[n] }

func addClause(solver Solver, lits ...z.Lit) {
	for _, l := range lits {
		solver.Add(l)
	}
	solver.Add(z.LitNull)
}

// NodesEquivalent tests whether a and b (neither complemented, a != b)
// are functionally equivalent up to the phase normalization recorded on
// each node, per spec.md §4.4's nodes_equivalent procedure.
func (p *Prover) NodesEquivalent(a, b aig.ID, baseBudget int) (Outcome, *sim.Cex, error) {
	if a == b {
		return Proved, nil, fmt.Errorf("satprove: NodesEquivalent called with a == b (%d)", a)
	}
	if p.budget.GlobalExhausted() {
		return Timeout, nil, nil
	}

	anyFailed := p.failed[a] || p.failed[b]
	units, ok := effectiveUnits(baseBudget, anyFailed, p.kInduction)
	if !ok {
		return Timeout, nil, nil
	}

	p.builder.AddToSolver(a, b, true, true)
	p.biasIfEnabled([]aig.ID{a, b})

	phaseA := p.aigm.Node(a).Phase
	phaseB := p.aigm.Node(b).Phase
	samePhase := phaseA == phaseB

	litA, _ := p.builder.VarOf(a)
	litB, _ := p.builder.VarOf(b)
	laPos := z.Var(litA).Pos()
	lbPos := z.Var(litB).Pos()

	// Direction 1: A=1, B assumed to its violating value.
	assumeA1 := laPos
	assumeB1 := lbPos
	if samePhase {
		assumeB1 = lbPos.Not()
	}
	outcome, cex, err := p.solveDirection(assumeA1, assumeB1, units)
	if err != nil || outcome != Proved {
		if outcome == Disproved {
			return Disproved, cex, nil
		}
		if outcome == Timeout {
			p.failed[a] = true
			p.failed[b] = true
			return Timeout, nil, nil
		}
		return outcome, cex, err
	}
	p.budget.charge(units)

	if a == p.aigm.Const1() {
		return Proved, nil, nil
	}

	// Direction 2: A=0, B assumed to its violating value.
	assumeA2 := laPos.Not()
	assumeB2 := lbPos
	if !samePhase {
		assumeB2 = lbPos.Not()
	}
	outcome2, cex2, err := p.solveDirection(assumeA2, assumeB2, units)
	if err != nil {
		return outcome2, cex2, err
	}
	switch outcome2 {
	case Disproved:
		return Disproved, cex2, nil
	case Timeout:
		p.failed[a] = true
		p.failed[b] = true
		return Timeout, nil, nil
	}
	p.budget.charge(units)
	return Proved, nil, nil
}

// solveDirection assumes the two given literals, solves under the given
// conflict-budget units, and on UNSAT adds the permanent blocking clause
// (the negation of the assumption literals) before reporting Proved for
// this direction.
func (p *Prover) solveDirection(assumeA, assumeB z.Lit, units int) (Outcome, *sim.Cex, error) {
	p.solver.Assume(assumeA, assumeB)
	res := p.solver.Try(p.budget.toDuration(units))
	switch res {
	case solverUnsat:
		addClause(p.solver, assumeA.Not(), assumeB.Not())
		return Proved, nil, nil
	case solverSat:
		cex, err := p.captureCex()
		return Disproved, cex, err
	default:
		return Timeout, nil, nil
	}
}

// NodeIsConst tests whether n is constantly equal to its own phase (the
// single-direction variant: "asserting n = ¬phase(n)", spec.md §4.4
// "node_is_const").
func (p *Prover) NodeIsConst(n aig.ID, baseBudget int) (Outcome, *sim.Cex, error) {
	if p.budget.GlobalExhausted() {
		return Timeout, nil, nil
	}
	anyFailed := p.failed[n]
	units, ok := effectiveUnits(baseBudget, anyFailed, p.kInduction)
	if !ok {
		return Timeout, nil, nil
	}
	p.builder.AddToSolver(n, 0, true, false)
	p.biasIfEnabled([]aig.ID{n})

	v, _ := p.builder.VarOf(n)
	lit := z.Var(v).Pos()
	if p.aigm.Node(n).Phase {
		lit = lit.Not() // assert n = ¬phase(n): phase true means assert n=0
	}
	p.solver.Assume(lit)
	res := p.solver.Try(p.budget.toDuration(units))
	switch res {
	case solverUnsat:
		addClause(p.solver, lit.Not())
		p.budget.charge(units)
		return Proved, nil, nil
	case solverSat:
		cex, err := p.captureCex()
		return Disproved, cex, err
	default:
		p.failed[n] = true
		return Timeout, nil, nil
	}
}

// ClaimHolds checks whether claim can ever be signed-true while every
// hypothesis in hyps is assumed signed-false in the same SAT call
// (spec.md §4.6's per-frame inductive query: "the first nAsserts are
// speculation constraints [...] the remaining POs are the claims for the
// k-th frame"). It differs from NodeIsConst in two ways: the target
// polarity for each literal comes directly from the Ref's own inversion
// bit rather than being guessed from the node's structural phase, and
// the hypotheses are asserted as SAT assumptions rather than
// independently re-proved — exactly the "assume P holds in frames
// 0..k-1, prove P holds in frame k" step of k-induction. No permanent
// blocking clause is learned on Proved, since the assumption set differs
// per claim and a clause derived from one claim's query would not
// generalize to the next.
func (p *Prover) ClaimHolds(hyps []aig.Ref, claim aig.Ref, baseBudget int) (Outcome, *sim.Cex, error) {
	if p.budget.GlobalExhausted() {
		return Timeout, nil, nil
	}
	units, ok := effectiveUnits(baseBudget, false, p.kInduction)
	if !ok {
		return Timeout, nil, nil
	}

	roots := make([]aig.ID, 0, len(hyps)+1)
	assumeLits := make([]z.Lit, 0, len(hyps)+1)
	for _, h := range hyps {
		p.builder.AddToSolver(h.ID, 0, true, false)
		v, _ := p.builder.VarOf(h.ID)
		lit := z.Var(v).Pos()
		if !h.Inv {
			lit = lit.Not()
		}
		assumeLits = append(assumeLits, lit)
		roots = append(roots, h.ID)
	}

	p.builder.AddToSolver(claim.ID, 0, true, false)
	vc, _ := p.builder.VarOf(claim.ID)
	claimLit := z.Var(vc).Pos()
	if claim.Inv {
		claimLit = claimLit.Not()
	}
	assumeLits = append(assumeLits, claimLit)
	roots = append(roots, claim.ID)

	p.biasIfEnabled(roots)
	p.solver.Assume(assumeLits...)
	res := p.solver.Try(p.budget.toDuration(units))
	switch res {
	case solverUnsat:
		p.budget.charge(units)
		return Proved, nil, nil
	case solverSat:
		cex, err := p.captureCex()
		return Disproved, cex, err
	default:
		p.failed[claim.ID] = true
		return Timeout, nil, nil
	}
}

// NodesImply and NodesAreClause are one-directional variants used by the
// implication and one-hotness subsystems (spec.md §4.4); ca/cb are the
// desired polarities to assert for a and b respectively.
func (p *Prover) NodesImply(a, b aig.ID, ca, cb bool, baseBudget int) (Outcome, *sim.Cex, error) {
	return p.oneDirectional(a, b, ca, cb, baseBudget)
}

func (p *Prover) NodesAreClause(a, b aig.ID, ca, cb bool, baseBudget int) (Outcome, *sim.Cex, error) {
	return p.oneDirectional(a, b, ca, cb, baseBudget)
}

func (p *Prover) oneDirectional(a, b aig.ID, ca, cb bool, baseBudget int) (Outcome, *sim.Cex, error) {
	if p.budget.GlobalExhausted() {
		return Timeout, nil, nil
	}
	anyFailed := p.failed[a] || p.failed[b]
	units, ok := effectiveUnits(baseBudget, anyFailed, p.kInduction)
	if !ok {
		return Timeout, nil, nil
	}
	p.builder.AddToSolver(a, b, true, true)
	p.biasIfEnabled([]aig.ID{a, b})

	va, _ := p.builder.VarOf(a)
	vb, _ := p.builder.VarOf(b)
	la, lb := z.Var(va).Pos(), z.Var(vb).Pos()
	if !ca {
		la = la.Not()
	}
	if !cb {
		lb = lb.Not()
	}
	return p.solveDirection(la, lb, units)
}

func (p *Prover) biasIfEnabled(roots []aig.ID) {
	biasCone(p.solver, p.builder.VarOf, p.aigm, roots, p.maxLevel, p.coneCfg)
}

// captureCex reads the solver's model at every PI that currently has a
// SAT variable (spec.md "Counter-example extraction"), leaving PIs
// without one at false since they do not constrain the query just solved.
func (p *Prover) captureCex() (*sim.Cex, error) {
	pis := p.aigm.PIs()
	bits := make([]bool, len(pis))
	for i, pi := range pis {
		if v, ok := p.builder.VarOf(pi); ok {
			bits[i] = p.solver.Value(z.Var(v).Pos())
		}
	}
	return &sim.Cex{Bits: bits, NumPIs: len(pis), NumRegs: 0}, nil
}
