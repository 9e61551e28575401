package induction

import (
	"github.com/gitrdm/gofraig/aig"
	"github.com/gitrdm/gofraig/sim"
)

// HotPair is a one-hot (mutual-exclusion) clause discovered among latch
// outputs by simulation: the clause (A^ComplA) OR (B^ComplB) has held
// for every simulated pattern seen so far, i.e. A and B are known from
// simulation never to take their "both excluded" value combination at
// once (spec.md §4.6 footnote "one-hotness groups"). Grounded on
// Fra_OneHotCompute in original_source/abc/src/proof/fra/fraHot.c.
type HotPair struct {
	A, B           aig.ID
	ComplA, ComplB bool
}

// ComputeHotPairs derives every one-hot clause currently supported by
// simMgr's simulation state among orig's latch outputs, mirroring
// Fra_OneHotCompute's nested loop over latch-output pairs (fraHot.c):
// a node known constant, or a pair already known fully equivalent (the
// class manager's own job, not this one's), is skipped; for every
// remaining pair the clause polarities are tried in fraHot.c's own
// priority order — (true,true), the pure mutual-exclusion form a
// "one-hot" group actually needs, then the two implicative fallbacks
// (false,true) and (true,false) — keeping the first that holds.
func ComputeHotPairs(simMgr *sim.Mgr, orig *aig.Manager) []HotPair {
	los := orig.LatchOuts()
	var pairs []HotPair
	for i := 0; i < len(los); i++ {
		if simMgr.IsConst(los[i]) {
			continue
		}
		for j := i + 1; j < len(los); j++ {
			if simMgr.IsConst(los[j]) {
				continue
			}
			if simMgr.NodesEqual(los[i], los[j]) {
				continue
			}
			if p, ok := hotClauseFor(simMgr, los[i], los[j]); ok {
				pairs = append(pairs, p)
			}
		}
	}
	return pairs
}

func hotClauseFor(simMgr *sim.Mgr, a, b aig.ID) (HotPair, bool) {
	switch {
	case simMgr.ClauseAlwaysHolds(a, b, true, true):
		return HotPair{A: a, B: b, ComplA: true, ComplB: true}, true
	case simMgr.ClauseAlwaysHolds(a, b, false, true):
		return HotPair{A: a, B: b, ComplA: false, ComplB: true}, true
	case simMgr.ClauseAlwaysHolds(a, b, true, false):
		return HotPair{A: a, B: b, ComplA: true, ComplB: false}, true
	default:
		return HotPair{}, false
	}
}
