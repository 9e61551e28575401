// Package cnf implements CNF-on-demand (spec.md §4.3): lazily assigning
// SAT variables and emitting Tseitin clauses for exactly the cone of
// logic that transitively feeds a pair of nodes the engine wants to
// query, never more.
package cnf

import (
	"github.com/irifrance/gini/z"

	"github.com/gitrdm/gofraig/aig"
)

// Adder is the minimal clause-sink contract consumed here — gini's own
// inter.Adder shape: Add one literal at a time, terminated by
// z.LitNull, exactly as github.com/irifrance/gini/logic.C.ToCnf drives
// its destination solver.
type Adder interface {
	Add(m z.Lit)
}

func addClause(dst Adder, lits ...z.Lit) {
	for _, l := range lits {
		dst.Add(l)
	}
	dst.Add(z.LitNull)
}

// Builder assigns SAT variables to AIG nodes lazily and emits their
// defining clauses exactly once each, tracking which nodes already have
// a variable and which already have their fanin clauses built (spec.md
// §4.3 invariant: "Once a node has a SAT variable, its defining clauses
// have been added exactly once over the lifetime of the solver instance.").
type Builder struct {
	aigm     *aig.Manager
	adder    Adder
	useMuxes bool

	varOf     map[aig.ID]z.Var
	hasClause map[aig.ID]bool
	nextVar   z.Var
}

// NewBuilder creates a CNF-on-demand builder over a, emitting clauses to
// adder. constVar is the variable already reserved by the caller for
// Const1 (spec.md §4.4 step 2: "reserve variable 0 and assert literal
// (0, positive)"); firstFreeVar is the next variable number available
// for allocation.
func NewBuilder(a *aig.Manager, adder Adder, constVar, firstFreeVar z.Var, useMuxes bool) *Builder {
	b := &Builder{
		aigm:      a,
		adder:     adder,
		useMuxes:  useMuxes,
		varOf:     make(map[aig.ID]z.Var),
		hasClause: make(map[aig.ID]bool),
		nextVar:   firstFreeVar,
	}
	b.varOf[a.Const1()] = constVar
	b.hasClause[a.Const1()] = true
	return b
}

// VarOf returns the SAT variable assigned to id, if any.
func (b *Builder) VarOf(id aig.ID) (z.Var, bool) {
	v, ok := b.varOf[id]
	return v, ok
}

// Lit converts a signed AIG reference into the SAT literal for its
// current variable; the node must already have one (e.g. via AddToSolver).
func (b *Builder) Lit(r aig.Ref) z.Lit {
	v := b.varOf[r.ID]
	if r.Inv {
		return v.Neg()
	}
	return v.Pos()
}

// NextVar reports the next variable AddToSolver will allocate, so the
// caller (the SAT prover) can reserve PI variable bookkeeping ranges
// after a call completes.
func (b *Builder) NextVar() z.Var { return b.nextVar }

func (b *Builder) addToFrontier(id aig.ID, frontier *[]aig.ID) {
	if _, ok := b.varOf[id]; ok {
		return
	}
	if id == b.aigm.Const1() {
		return
	}
	b.varOf[id] = b.nextVar
	b.nextVar++
	if b.aigm.Node(id).Type == aig.TypeAnd {
		*frontier = append(*frontier, id)
	}
}

// AddToSolver extends the solver with clauses for exactly the unmapped
// cone feeding old and new (either may be the zero ID to mean "none"),
// matching Fra_CnfNodeAddToSolver's frontier BFS: allocate a variable for
// each requested node, then repeatedly pop a frontier node, collect its
// supergate (or MUX fanins), allocate variables for any still-missing
// fanins, and emit that node's defining clauses (spec.md §4.3
// "add_to_solver(pOld, pNew)").
func (b *Builder) AddToSolver(old, new_ aig.ID, hasOld, hasNew bool) {
	if hasOld && b.hasClause[old] && hasNew && b.hasClause[new_] {
		return
	}

	var frontier []aig.ID
	if hasOld {
		b.addToFrontier(old, &frontier)
	}
	if hasNew {
		b.addToFrontier(new_, &frontier)
	}

	for i := 0; i < len(frontier); i++ {
		node := frontier[i]
		if b.hasClause[node] {
			continue
		}
		if b.useMuxes {
			if sel, then, els, ok := recognizeMux(b.aigm, node); ok {
				for _, fanin := range []aig.Ref{sel, then, els} {
					b.addToFrontier(fanin.ID, &frontier)
				}
				// recognizeMux describes NOT(node) = ITE(sel, then, els), so
				// node itself is ITE(sel, NOT then, NOT els).
				b.addClausesMux(node, sel, then.Not(), els.Not())
				b.hasClause[node] = true
				continue
			}
		}
		super := collectSuper(b.aigm, node, b.useMuxes)
		for _, fanin := range super {
			b.addToFrontier(fanin.ID, &frontier)
		}
		b.addClausesSuper(node, super)
		b.hasClause[node] = true
	}
}

// addClausesMux emits the six-clause Tseitin encoding of f = ITE(sel,
// then, els): four clauses covering the selector cases, plus two
// consensus clauses (skipped when then and els share a variable),
// mirroring Fra_AddClausesMux.
func (b *Builder) addClausesMux(f aig.ID, sel, then, els aig.Ref) {
	lf := z.Var(b.varOf[f]).Pos()
	li := b.Lit(sel)
	lt := b.Lit(then)
	le := b.Lit(els)

	addClause(b.adder, li.Not(), lt.Not(), lf)
	addClause(b.adder, li.Not(), lt, lf.Not())
	addClause(b.adder, li, le.Not(), lf)
	addClause(b.adder, li, le, lf.Not())

	if b.varOf[then.ID] == b.varOf[els.ID] {
		return
	}
	addClause(b.adder, lt, le, lf.Not())
	addClause(b.adder, lt.Not(), le.Not(), lf)
}

// addClausesSuper emits the Tseitin encoding of an n-input AND supergate
// f = AND(super...): n binary implication clauses "fanin + !f", plus
// one (n+1)-ary conjunction clause "!fanin1 + !fanin2 + ... + f",
// mirroring Fra_AddClausesSuper.
func (b *Builder) addClausesSuper(f aig.ID, super []aig.Ref) {
	lf := z.Var(b.varOf[f]).Pos()
	conj := make([]z.Lit, 0, len(super)+1)
	for _, fanin := range super {
		lfi := b.Lit(fanin)
		addClause(b.adder, lfi, lf.Not())
		conj = append(conj, lfi.Not())
	}
	conj = append(conj, lf)
	addClause(b.adder, conj...)
}
