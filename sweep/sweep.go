// Package sweep implements the combinational FRAIG driver (spec.md
// §4.5): a topological pass over an AIG that builds a reduced, strashed
// copy while consulting the class manager and SAT prover to fold
// equivalence-class members onto a single representative image.
package sweep

import (
	"fmt"

	"github.com/gitrdm/gofraig/aig"
	"github.com/gitrdm/gofraig/class"
	"github.com/gitrdm/gofraig/satprove"
	"github.com/gitrdm/gofraig/sim"
)

// Stats tallies the sweep's progress (spec.md §4.5 "Progress is
// guaranteed: either a class shrinks ... or a node is fraiged against
// its representative").
type Stats struct {
	Merged    int // candidate images folded onto a class representative
	Disproved int // equivalence queries refuted, triggering resimulation
	TimedOut  int // equivalence queries that exhausted their budget
}

// Sweeper holds the state of one combinational fraiging pass: the
// original AIG being reduced, the freshly strashed AIG being built, the
// per-node image map between them, and the class/simulation/SAT
// collaborators consulted along the way.
type Sweeper struct {
	orig    *aig.Manager
	fraiged *aig.Manager

	images   []aig.Ref
	imageSet []bool

	newLatchIn []aig.ID // orig latch-in id -> fraiged latch-in id, indexed by position in orig.LatchIns()

	cls    *class.Cla
	simMgr *sim.Mgr
	prover *satprove.Prover

	queryBudget int // base SAT conflict-budget units per equivalence query

	Stats Stats
}

// New allocates a Sweeper over orig, pre-seeding the fraiged manager with
// one PI per orig PI and one latch pair per orig latch (preserving
// ordering and reset phase), and constructs a SAT prover bound to the
// fraiged manager — so every subsequent equivalence query runs against
// the smaller, already-reduced structure rather than the original one
// (spec.md §4.5 step 1: "construct the candidate image n′ ... on the
// fraiged side").
func New(orig *aig.Manager, cls *class.Cla, simMgr *sim.Mgr, budget *satprove.Budget, coneCfg satprove.ConeBiasConfig, queryBudget int) *Sweeper {
	fraiged := aig.NewManager()
	s := &Sweeper{
		orig:        orig,
		fraiged:     fraiged,
		images:      make([]aig.Ref, orig.NumNodes()),
		imageSet:    make([]bool, orig.NumNodes()),
		newLatchIn:  make([]aig.ID, len(orig.LatchIns())),
		cls:         cls,
		simMgr:      simMgr,
		queryBudget: queryBudget,
	}

	s.images[orig.Const1()] = aig.Ref{ID: fraiged.Const1()}
	s.imageSet[orig.Const1()] = true

	for _, pi := range orig.PIs() {
		np := fraiged.CreatePI()
		s.images[pi] = aig.Ref{ID: np}
		s.imageSet[pi] = true
	}

	los, lis := orig.LatchOuts(), orig.LatchIns()
	for i, lo := range los {
		initPhase := orig.Node(lo).Phase
		newLo, newLi := fraiged.CreateLatch(initPhase)
		s.images[lo] = aig.Ref{ID: newLo}
		s.imageSet[lo] = true
		s.newLatchIn[i] = newLi
		_ = lis
	}

	s.prover = satprove.NewProver(fraiged, budget, coneCfg)
	return s
}

// Fraiged returns the reduced AIG built so far (valid for inspection
// even before Run completes, e.g. from tests).
func (s *Sweeper) Fraiged() *aig.Manager { return s.fraiged }

// Prover exposes the SAT prover bound to the fraiged manager, so callers
// (the induction driver, the engine) can inspect failed-node state or
// reuse it for further queries after the sweep.
func (s *Sweeper) Prover() *satprove.Prover { return s.prover }

// resolve translates an original signed reference into the fraiged
// manager's signed reference, using the image already computed for its
// underlying node (guaranteed present for every AND/PO fanin by
// topological order, and pre-seeded for PI/LatchOut/Const1).
func (s *Sweeper) resolve(r aig.Ref) aig.Ref {
	img := s.images[r.ID]
	if r.Inv {
		return img.Not()
	}
	return img
}

// Run performs the topological sweep described in spec.md §4.5 and
// returns the resulting reduced AIG. AND nodes are processed in
// topological order; latch-input nodes are wired in a second pass
// because their driving fanin can have a higher id than the latch itself
// (feedback, the one place orig's id order is not a full topological
// order — see aig.Manager.IterTopo's doc comment).
func (s *Sweeper) Run() (*aig.Manager, error) {
	var sweepErr error
	s.orig.IterTopo(func(n *aig.Node) {
		if sweepErr != nil || n.Type != aig.TypeAnd {
			return
		}
		if err := s.sweepAnd(n); err != nil {
			sweepErr = err
		}
	})
	if sweepErr != nil {
		return nil, sweepErr
	}

	lis := s.orig.LatchIns()
	for i, li := range lis {
		driver := s.orig.Node(li).Fanin0
		s.fraiged.SetLatchInput(s.newLatchIn[i], s.resolve(driver))
	}

	for _, po := range s.orig.POs() {
		s.fraiged.CreatePO(s.resolve(po))
	}

	return s.fraiged, nil
}

// sweepAnd processes one AND node of the original AIG (spec.md §4.5
// steps 1-3): build its candidate image, look up its class
// representative, and either adopt the representative's image (Proved),
// resimulate to split the classes apart (Disproved), or keep the
// candidate as its own image (no representative, or Timeout).
func (s *Sweeper) sweepAnd(n *aig.Node) error {
	f0 := s.resolve(n.Fanin0)
	f1 := s.resolve(n.Fanin1)
	candidate := s.fraiged.CreateAnd(f0, f1)

	r, ok := s.cls.Repr(n.ID)
	if !ok {
		s.adopt(n.ID, candidate)
		return nil
	}
	if !s.imageSet[r.ID] {
		// Representative hasn't been imaged yet (its class hasn't been
		// through select_repr, or r is itself an unreached node this
		// pass) — keep the candidate standalone this round.
		s.adopt(n.ID, candidate)
		return nil
	}
	target := s.resolve(r)

	outcome, cex, err := s.equivalent(candidate, target)
	if err != nil {
		return err
	}
	switch outcome {
	case satprove.Proved:
		s.Stats.Merged++
		s.adopt(n.ID, target)
	case satprove.Disproved:
		s.Stats.Disproved++
		s.adopt(n.ID, candidate)
		if cex != nil {
			if err := s.refineFromCex(cex); err != nil {
				return err
			}
		}
	case satprove.Timeout:
		s.Stats.TimedOut++
		s.cls.MarkFailed(n.ID)
		s.adopt(n.ID, candidate)
	default:
		return fmt.Errorf("sweep: unexpected outcome %v", outcome)
	}
	return nil
}

func (s *Sweeper) adopt(orig aig.ID, image aig.Ref) {
	s.images[orig] = image
	s.imageSet[orig] = true
}

// equivalent decides whether two arbitrarily-signed fraiged references
// compute the same function, by checking that their XOR miter is
// constantly 0 (spec.md §4.5's nodes_equivalent, generalized to handle
// either side carrying an inversion bit — see DESIGN.md's sweep entry
// for why the plain two-directional node-id query alone is not safe
// here).
func (s *Sweeper) equivalent(a, b aig.Ref) (satprove.Outcome, *sim.Cex, error) {
	if a == b {
		return satprove.Proved, nil, nil
	}
	xorRef := s.fraiged.Xor(a, b)
	outcome, cex, err := s.prover.NodeIsConst(xorRef.ID, s.queryBudget)
	if outcome != satprove.Proved {
		return outcome, cex, err
	}
	// xorRef is constant; its *signed* constant value is the node's raw
	// Phase (value at the all-zero input) corrected for xorRef's own
	// inversion bit — CreateAnd can return an already-inverted pass-through
	// reference, not only a fresh uninverted node.
	constIsOne := s.fraiged.Node(xorRef.ID).Phase != xorRef.Inv
	if constIsOne {
		// The miter is constantly 1: a and b are provably *different* in
		// every input, the opposite of what the class manager expected.
		// Treat defensively as a disproof rather than a silent wrong merge.
		return satprove.Disproved, cex, err
	}
	return satprove.Proved, nil, err
}

// refineFromCex stages the SAT counter-example on the simulator and
// re-derives the class partition from the refreshed simulation state
// (spec.md §4.5 step 3: "resimulate with the returned pattern ... keep
// n′ as its own image and defer re-examination until the next
// iteration").
func (s *Sweeper) refineFromCex(cex *sim.Cex) error {
	if err := s.simMgr.SetPendingFromCex(cex); err != nil {
		return err
	}
	if err := s.simMgr.ResimulatePending(); err != nil {
		return err
	}
	s.cls.Refine()
	return nil
}
