package induction

import (
	"github.com/gitrdm/gofraig/aig"
	"github.com/gitrdm/gofraig/class"
	"github.com/gitrdm/gofraig/sim"
)

// RunPrefixRefinement simulates nFramesP sequential frames from reset
// and refines cls against an oracle demanding equivalence across every
// one of those frames, before the inductive loop ever runs (spec.md
// §4.6 "Prefix refinement": "simulate nFramesP initialized frames and
// refine classes using an oracle that demands equivalence in every
// frame beyond the prefix. This prevents the inductive proof from being
// defeated by states reachable only in the first few cycles.").
//
// sim.Mgr's own oracle methods already compute equivalence over
// hashedWords, the word range spanning every non-prefix frame
// concatenated — so starting a fresh Mgr with nPref=0 across exactly
// these nFramesP frames makes "equal in every frame" precisely what that
// Mgr's NodesEqual/IsConst already mean, with no bespoke oracle type
// needed; cls.SetOracle is the swap-and-restore hook spec.md's class
// manager section describes for this exact purpose.
func RunPrefixRefinement(orig *aig.Manager, cls *class.Cla, nFramesP, nWordsFrame int, seed uint32) (bool, error) {
	if nFramesP <= 0 {
		return false, nil
	}
	prefixSim, err := sim.Start(orig, 0, nFramesP, nWordsFrame, seed)
	if err != nil {
		return false, err
	}
	old := cls.SetOracle(prefixSim)
	defer cls.SetOracle(old)
	return cls.Refine(), nil
}
