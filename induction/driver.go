package induction

import (
	"fmt"

	"github.com/gitrdm/gofraig/aig"
	"github.com/gitrdm/gofraig/class"
	"github.com/gitrdm/gofraig/satprove"
	"github.com/gitrdm/gofraig/sim"
)

// Config parameterizes one k-induction run (spec.md §6's induction
// parameter group).
type Config struct {
	NumFramesK      int // frames unrolled beyond frame 0 (total frames = NumFramesK+1)
	NumFramesPrefix int // nFramesP, the BMC prefix length (0 disables it)
	NumWordsFrame   int // simulation words per frame, for prefix refinement and CEX resimulation
	Seed            uint32
	QueryBudget     int // base per-query conflict-budget units
	MaxIters        int // ceiling on refine/rebuild rounds before giving up

	// UseImplications is fUseImps: additionally derive and check
	// one-directional implications between class representatives each
	// round (class.DeriveImplications), contributing a third quantity
	// to the termination check alongside classes and one-hotness groups.
	// Off by default, matching the original's own default.
	UseImplications bool
}

// Result reports the outcome of Run.
type Result struct {
	Proved     bool
	Iterations int
}

// Run performs spec.md §4.6's k-induction loop: an optional BMC-prefix
// refinement pass, then repeated timeframe unrolling (BuildFrames),
// assuming every speculation constraint and checking by SAT that every
// final-frame claim, every one-hotness clause, and (if enabled) every
// derived implication holds, and — on a disproof of any of the three — lifting the
// counter-example back into the sequential simulator, refining classes,
// and rebuilding from scratch. Termination is the fixed point where an
// iteration's disproof fails to shrink any of the tracked quantities any
// further (matching Fra_FraigInduction's own "no refinement happened,
// but we expected one" internal-error check in
// original_source/abc/src/proof/fra/fraInd.c) or MaxIters is reached.
//
// The three quantities spec.md §4.6's termination footnote names —
// literals, one-hotness groups, implications — are tracked as
// cls.CountLits(), len(ComputeHotPairs(...)), and (when
// cfg.UseImplications) len(class.DeriveImplications(...))
// respectively; a round that shrinks none of the three enabled
// quantities is the same "no progress" condition fraInd.c treats as an
// internal error.
func Run(orig *aig.Manager, cls *class.Cla, simMgr *sim.Mgr, budget *satprove.Budget, coneCfg satprove.ConeBiasConfig, cfg Config) (*Result, error) {
	if cfg.NumFramesPrefix > 0 {
		if _, err := RunPrefixRefinement(orig, cls, cfg.NumFramesPrefix, cfg.NumWordsFrame, cfg.Seed); err != nil {
			return nil, fmt.Errorf("induction: prefix refinement: %w", err)
		}
	}

	numFrames := cfg.NumFramesK + 1
	origNumPIs := len(orig.PIs())
	numRegs := len(orig.LatchOuts())

	for iter := 0; iter < cfg.MaxIters; iter++ {
		litsBefore := cls.CountLits()
		hotPairs := ComputeHotPairs(simMgr, orig)
		hotBefore := len(hotPairs)
		var imps []class.Implication
		impsBefore := 0
		if cfg.UseImplications {
			imps = class.DeriveImplications(simMgr, cls.ClassRepresentatives())
			impsBefore = len(imps)
		}

		frames, err := BuildFrames(orig, cls, numFrames)
		if err != nil {
			return nil, err
		}
		prover := satprove.NewProver(frames.Fraiged(), budget, coneCfg)
		prover.SetKInduction(true)

		holds, cex, stalled, err := checkFrames(frames, prover, cfg.QueryBudget)
		if err == nil && holds {
			holds, cex, stalled, err = checkHotPairs(frames, prover, hotPairs, cfg.QueryBudget)
		}
		if err == nil && holds && cfg.UseImplications {
			holds, cex, stalled, err = checkImplications(frames, prover, imps, cfg.QueryBudget)
		}
		if err != nil {
			return nil, err
		}
		if holds {
			cls.SelectRepr(orig)
			return &Result{Proved: true, Iterations: iter + 1}, nil
		}
		if stalled {
			// Every unresolved PO timed out rather than being disproved —
			// there is no counter-example to refine from, and rebuilding the
			// same frames against the same classes would just repeat the
			// same timeouts, so looping further cannot make progress.
			return &Result{Proved: false, Iterations: iter + 1}, fmt.Errorf("induction: SAT queries exhausted their budget without resolving every constraint")
		}
		if cex == nil {
			return nil, fmt.Errorf("induction: a claim was disproved with no counter-example to refine from")
		}

		piCex := cex.Bits[:numFrames*origNumPIs]
		initBits := cex.Bits[numFrames*origNumPIs : numFrames*origNumPIs+numRegs]
		if err := simMgr.ResimulateSeq(piCex, initBits); err != nil {
			return nil, fmt.Errorf("induction: resimulating counter-example: %w", err)
		}
		cls.Refine()

		hotAfter := len(ComputeHotPairs(simMgr, orig))
		impsAfter := impsBefore
		if cfg.UseImplications {
			impsAfter = len(class.DeriveImplications(simMgr, cls.ClassRepresentatives()))
		}
		if cls.CountLits() == litsBefore && hotAfter == hotBefore && impsAfter == impsBefore {
			return &Result{Proved: false, Iterations: iter + 1}, fmt.Errorf("induction: refinement made no progress after a disproved claim")
		}
	}
	return &Result{Proved: false, Iterations: cfg.MaxIters}, nil
}

// checkHotPairs verifies every one-hot clause ComputeHotPairs derived
// from this round's simulation state by calling prover.NodesAreClause on
// each pair's last-frame fraiged image, mirroring Fra_OneHotCheck's own
// architecture in fraHot.c: one-hotness is checked as a separate batch of
// one-directional clause queries against the same unrolled frames, not
// folded into checkFrames's combined-assumption query. A pair's own
// polarity is corrected by each image's inversion bit, since ImageOf may
// return an inverted reference to the fraiged node the raw SAT query
// needs.
func checkHotPairs(frames *Frames, prover *satprove.Prover, pairs []HotPair, queryBudget int) (holds bool, cex *sim.Cex, stalled bool, err error) {
	last := frames.NumFrames() - 1
	anyTimeout := false
	for _, p := range pairs {
		imgA := frames.ImageOf(last, p.A)
		imgB := frames.ImageOf(last, p.B)
		outcome, c, err := prover.NodesAreClause(imgA.ID, imgB.ID, p.ComplA != imgA.Inv, p.ComplB != imgB.Inv, queryBudget)
		if err != nil {
			return false, nil, false, err
		}
		switch outcome {
		case satprove.Proved:
		case satprove.Disproved:
			return false, c, false, nil
		case satprove.Timeout:
			anyTimeout = true
		default:
			return false, nil, false, fmt.Errorf("induction: unexpected one-hot outcome %v", outcome)
		}
	}
	if anyTimeout {
		return false, nil, true, nil
	}
	return true, nil, false, nil
}

// checkImplications is checkHotPairs' counterpart for class.Implication,
// using prover.NodesImply instead of NodesAreClause (the same
// oneDirectional SAT query under a name matching spec.md's "confirmed by
// nodes_imply" description of the implications subsystem).
func checkImplications(frames *Frames, prover *satprove.Prover, imps []class.Implication, queryBudget int) (holds bool, cex *sim.Cex, stalled bool, err error) {
	last := frames.NumFrames() - 1
	anyTimeout := false
	for _, imp := range imps {
		imgA := frames.ImageOf(last, imp.A)
		imgB := frames.ImageOf(last, imp.B)
		outcome, c, err := prover.NodesImply(imgA.ID, imgB.ID, imp.ComplA != imgA.Inv, imp.ComplB != imgB.Inv, queryBudget)
		if err != nil {
			return false, nil, false, err
		}
		switch outcome {
		case satprove.Proved:
		case satprove.Disproved:
			return false, c, false, nil
		case satprove.Timeout:
			anyTimeout = true
		default:
			return false, nil, false, fmt.Errorf("induction: unexpected implication outcome %v", outcome)
		}
	}
	if anyTimeout {
		return false, nil, true, nil
	}
	return true, nil, false, nil
}

// checkFrames assumes every speculation-constraint PO is signed-false
// (the inductive hypothesis) and, under that assumption, checks each
// final-frame claim PO for a signed-true violation (spec.md §4.6: "the
// first nAsserts are speculation constraints ... the remaining POs are
// the claims for the k-th frame"). holds is true only if every claim
// checks out; otherwise the first violation's counter-example (if any)
// is returned for resimulation.
func checkFrames(frames *Frames, prover *satprove.Prover, queryBudget int) (holds bool, cex *sim.Cex, stalled bool, err error) {
	pos := frames.Fraiged().POs()
	hyps := pos[:frames.NumAsserts()]
	claims := pos[frames.NumAsserts():]

	anyTimeout := false
	for _, claim := range claims {
		outcome, c, err := prover.ClaimHolds(hyps, claim, queryBudget)
		if err != nil {
			return false, nil, false, err
		}
		switch outcome {
		case satprove.Proved:
			// the claim holds given the hypothesis
		case satprove.Disproved:
			return false, c, false, nil
		case satprove.Timeout:
			// Keep checking the remaining claims: a genuine violation
			// elsewhere in this frame surface should still be reported
			// promptly instead of being masked by an earlier budget
			// exhaustion.
			anyTimeout = true
		default:
			return false, nil, false, fmt.Errorf("induction: unexpected outcome %v", outcome)
		}
	}
	if anyTimeout {
		return false, nil, true, nil
	}
	return true, nil, false, nil
}
