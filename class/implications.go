package class

import (
	"github.com/gitrdm/gofraig/aig"
	"github.com/gitrdm/gofraig/sim"
)

// Implication is a one-directional constraint between two signed node
// values discovered by simulation: the clause (A^ComplA) OR (B^ComplB)
// has held for every simulated pattern seen so far, i.e. A taking the
// value ComplA implies B taking the value !ComplB. Unlike induction.HotPair,
// which fixes the clause polarity to (true,true) — mutual exclusion — an
// Implication always uses one of the two strictly implicative
// combinations, (false,true) or (true,false); the mutual-exclusion form
// is one-hotness's domain, not this one's, even though both are derived
// from the same bit-parallel primitive (sim.Mgr.ClauseAlwaysHolds).
//
// Grounded on Fra_ImpDerive/Fra_NodesAreImp, declared in
// original_source/abc/src/proof/fra/fra.h but whose own implementation
// file (fraImp.c) is not present in this pack (see DESIGN.md's class
// entry) — ported from fra.h's declared contract and spec.md's
// description ("discovered by simulation and confirmed by
// nodes_imply"), reusing fraHot.c's sibling clause-check (present in
// full) as the nearest available reference for the bit-parallel
// mechanics one-hotness and implications both rest on.
type Implication struct {
	A, B           aig.ID
	ComplA, ComplB bool
}

// DeriveImplications finds every strict implication clause simulation
// currently supports among candidates. A candidate already constant, or
// already known fully equivalent to another candidate (the class
// manager's own job), contributes no implication: a degenerate or
// already-discovered relation is not an interesting new one.
func DeriveImplications(simMgr *sim.Mgr, candidates []aig.ID) []Implication {
	var out []Implication
	for i := 0; i < len(candidates); i++ {
		a := candidates[i]
		if simMgr.IsConst(a) {
			continue
		}
		for j := i + 1; j < len(candidates); j++ {
			b := candidates[j]
			if a == b || simMgr.IsConst(b) {
				continue
			}
			if simMgr.NodesEqual(a, b) {
				continue
			}
			switch {
			case simMgr.ClauseAlwaysHolds(a, b, false, true):
				out = append(out, Implication{A: a, B: b, ComplA: false, ComplB: true})
			case simMgr.ClauseAlwaysHolds(a, b, true, false):
				out = append(out, Implication{A: a, B: b, ComplA: true, ComplB: false})
			}
		}
	}
	return out
}

// ClassRepresentatives returns one node id per current non-constant
// class — the candidate domain DeriveImplications is meant to search:
// distinct functional behaviors already grouped by simulation, rather
// than every AND node in the design, keeping the pairwise scan
// proportional to the partition's size instead of the whole AIG's.
func (c *Cla) ClassRepresentatives() []aig.ID {
	reprs := make([]aig.ID, 0, len(c.classes))
	for _, cls := range c.classes {
		reprs = append(reprs, cls.Repr())
	}
	return reprs
}
