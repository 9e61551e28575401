package satprove

import (
	"testing"
	"time"

	"github.com/irifrance/gini/z"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gofraig/aig"
)

// fakeSolver is a brute-force CNF solver used only in tests, standing in
// for github.com/irifrance/gini so the prover's control flow (budget
// downgrade, two-directional querying, blocking clauses, CEX capture)
// can be exercised deterministically without depending on a real CDCL
// implementation's search order.
type fakeSolver struct {
	clauses     [][]z.Lit
	cur         []z.Lit
	assumptions []z.Lit
	maxVar      z.Var
	model       map[z.Var]bool
}

func newFakeSolver() *fakeSolver { return &fakeSolver{model: make(map[z.Var]bool)} }

func (s *fakeSolver) Add(m z.Lit) {
	if m == z.LitNull {
		s.clauses = append(s.clauses, s.cur)
		s.cur = nil
		return
	}
	if v := m.Var(); v > s.maxVar {
		s.maxVar = v
	}
	s.cur = append(s.cur, m)
}

func (s *fakeSolver) Assume(ms ...z.Lit) {
	s.assumptions = ms
	for _, m := range ms {
		if v := m.Var(); v > s.maxVar {
			s.maxVar = v
		}
	}
}

func (s *fakeSolver) Value(m z.Lit) bool {
	val := s.model[m.Var()]
	if !m.IsPos() {
		val = !val
	}
	return val
}

func (s *fakeSolver) MaxVar() z.Var { return s.maxVar }

func (s *fakeSolver) Try(budget time.Duration) int {
	n := int(s.maxVar)
	for mask := 0; mask < (1 << uint(n)); mask++ {
		assign := make(map[z.Var]bool, n)
		for i := 1; i <= n; i++ {
			assign[z.Var(i)] = mask&(1<<uint(i-1)) != 0
		}
		if s.satisfies(assign) {
			s.model = assign
			return 1
		}
	}
	return -1
}

func (s *fakeSolver) satisfies(assign map[z.Var]bool) bool {
	for _, lit := range s.assumptions {
		if assign[lit.Var()] != lit.IsPos() {
			return false
		}
	}
	for _, cl := range s.clauses {
		ok := false
		for _, lit := range cl {
			if assign[lit.Var()] == lit.IsPos() {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func testBudget() *Budget {
	return &Budget{ConflictUnit: time.Microsecond, NodeBudget: 100, MiterBudget: 100}
}

func TestNodesEquivalentProvesTrueEquivalence(t *testing.T) {
	a := aig.NewManager()
	pa := a.CreatePI()
	pb := a.CreatePI()
	ref := aig.Ref{ID: pa}
	x := a.And(ref, aig.Ref{ID: pb}) // a & b
	y := a.And(x, ref)               // (a & b) & a, structurally distinct, functionally == a & b
	require.NotEqual(t, x.ID, y.ID, "test setup must exercise two distinct node ids")

	solver := newFakeSolver()
	p := newProverWithSolver(a, solver, testBudget(), ConeBiasConfig{})

	outcome, cex, err := p.NodesEquivalent(x.ID, y.ID, 50)
	require.NoError(t, err)
	require.Equal(t, Proved, outcome)
	require.Nil(t, cex)
}

func TestNodesEquivalentDisprovesDifferentFunctions(t *testing.T) {
	a := aig.NewManager()
	pa := a.CreatePI()
	pb := a.CreatePI()
	and := a.And(aig.Ref{ID: pa}, aig.Ref{ID: pb})
	or := a.Or(aig.Ref{ID: pa}, aig.Ref{ID: pb})

	solver := newFakeSolver()
	p := newProverWithSolver(a, solver, testBudget(), ConeBiasConfig{})

	outcome, cex, err := p.NodesEquivalent(and.ID, or.ID, 50)
	require.NoError(t, err)
	require.Equal(t, Disproved, outcome)
	require.NotNil(t, cex)
	require.Len(t, cex.Bits, 2)
}

func TestNodeIsConstProvesConstantNode(t *testing.T) {
	a := aig.NewManager()
	pa := a.CreatePI()
	ref := aig.Ref{ID: pa}
	alwaysTrue := a.CreateAnd(ref, ref.Not()).Not() // NOT(a AND NOT a) == 1, collapses to Const1

	solver := newFakeSolver()
	p := newProverWithSolver(a, solver, testBudget(), ConeBiasConfig{})

	// alwaysTrue collapsed structurally to Const1 during construction, so
	// this exercises NodeIsConst's trivial accept path for the constant
	// node itself.
	outcome, _, err := p.NodeIsConst(alwaysTrue.ID, 50)
	require.NoError(t, err)
	require.Equal(t, Proved, outcome)
}

func TestNodesEquivalentFailedBudgetDowngrade(t *testing.T) {
	a := aig.NewManager()
	pa := a.CreatePI()
	pb := a.CreatePI()
	and := a.And(aig.Ref{ID: pa}, aig.Ref{ID: pb})
	or := a.Or(aig.Ref{ID: pa}, aig.Ref{ID: pb})

	solver := newFakeSolver()
	p := newProverWithSolver(a, solver, testBudget(), ConeBiasConfig{})
	p.failed[and.ID] = true

	units, ok := effectiveUnits(5, true, false)
	require.False(t, ok)
	_ = units

	outcome, _, err := p.NodesEquivalent(and.ID, or.ID, 5)
	require.NoError(t, err)
	require.Equal(t, Timeout, outcome)
}
