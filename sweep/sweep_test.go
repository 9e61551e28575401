package sweep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gofraig/aig"
	"github.com/gitrdm/gofraig/class"
	"github.com/gitrdm/gofraig/satprove"
	"github.com/gitrdm/gofraig/sim"
)

func testBudget() *satprove.Budget {
	return &satprove.Budget{ConflictUnit: time.Microsecond, NodeBudget: 100, MiterBudget: 100}
}

// fakeOracle lets TestSweepDisprovesFalseClaimAndResimulates force the
// class manager to group two genuinely different nodes together, so the
// test can exercise the Disproved/resimulate branch without depending on
// simulation statistics (mirrors class_test.go's fakeOracle).
type fakeOracle struct {
	equalPairs map[[2]aig.ID]bool
	sameSign   map[[2]aig.ID]bool
}

func pairKey(a, b aig.ID) [2]aig.ID {
	if a > b {
		a, b = b, a
	}
	return [2]aig.ID{a, b}
}

func (f *fakeOracle) NodeHash(id aig.ID, tableSize int) int { return 1 % tableSize }
func (f *fakeOracle) IsConst(id aig.ID) bool                { return false }
func (f *fakeOracle) NodesEqual(a, b aig.ID) bool {
	if a == b {
		return true
	}
	return f.equalPairs[pairKey(a, b)]
}
func (f *fakeOracle) SameSign(a, b aig.ID) bool {
	if a == b {
		return true
	}
	return f.sameSign[pairKey(a, b)]
}
func (f *fakeOracle) ConstValue(id aig.ID) bool { return true }

// TestSweepMergesSameSenseEquivalentNode builds two structurally distinct
// AND nodes computing the same function ((a&b) and (a&b)&a, the latter
// collapsing semantically by idempotence but not by any of CreateAnd's
// trivial simplifications) and checks that the sweep folds the second
// onto the first's image.
func TestSweepMergesSameSenseEquivalentNode(t *testing.T) {
	orig := aig.NewManager()
	pa := orig.CreatePI()
	pb := orig.CreatePI()
	n1 := orig.And(aig.Ref{ID: pa}, aig.Ref{ID: pb}) // a & b
	n2 := orig.And(n1, aig.Ref{ID: pa})              // (a & b) & a, distinct id, same function
	require.NotEqual(t, n1.ID, n2.ID)
	orig.CreatePO(n2)

	simMgr, err := sim.Start(orig, 0, 1, 4, 1)
	require.NoError(t, err)
	cls := class.Start(orig, simMgr)
	require.NoError(t, cls.Prepare(false, 0))
	cls.SelectRepr(orig)
	require.Len(t, cls.Classes(), 1)

	sweeper := New(orig, cls, simMgr, testBudget(), satprove.ConeBiasConfig{}, 50)
	reduced, err := sweeper.Run()
	require.NoError(t, err)
	require.NotNil(t, reduced)

	require.Equal(t, 1, sweeper.Stats.Merged, "the idempotent duplicate should merge onto the first node's image")
	require.Equal(t, 0, sweeper.Stats.Disproved)
	require.Equal(t, 0, sweeper.Stats.TimedOut)
}

// TestSweepMergesComplementSenseEquivalentNode builds a non-trivial
// consensus redundancy — mux(c, a&b, a&b) — whose underlying raw AND
// node is the structural complement of a&b (not merely an inverted Ref
// to the same node), exercising the class manager's sign tracking and
// the sweep's resolve/equivalent machinery end to end for a genuine
// complement-sense merge.
func TestSweepMergesComplementSenseEquivalentNode(t *testing.T) {
	orig := aig.NewManager()
	pa := orig.CreatePI()
	pb := orig.CreatePI()
	pc := orig.CreatePI()
	x := orig.And(aig.Ref{ID: pa}, aig.Ref{ID: pb}) // a & b

	// mux(c, x, x) == x semantically, but its raw AND node (before the
	// final De Morgan Not()) computes NOT(x) by consensus — a genuinely
	// new id, not trivially collapsible by CreateAnd's rules.
	muxRef := orig.Mux(aig.Ref{ID: pc}, x, x)
	require.True(t, muxRef.Inv, "Or's raw node is always returned inverted")
	y := muxRef.ID
	require.NotEqual(t, x.ID, y)

	orig.CreatePO(aig.Ref{ID: y}) // assert the raw complement node itself as a PO

	simMgr, err := sim.Start(orig, 0, 1, 8, 7)
	require.NoError(t, err)
	cls := class.Start(orig, simMgr)
	require.NoError(t, cls.Prepare(false, 0))
	cls.SelectRepr(orig)

	repr, ok := cls.Repr(y)
	require.True(t, ok, "y must land in x's class")
	require.Equal(t, x.ID, repr.ID)
	require.True(t, repr.Inv, "y is the structural complement of its representative")

	sweeper := New(orig, cls, simMgr, testBudget(), satprove.ConeBiasConfig{}, 50)
	_, err = sweeper.Run()
	require.NoError(t, err)

	// The mux's two intermediate AND gates (c&x, ¬c&x) are unrelated
	// singleton nodes; this only asserts the one designed merge fired,
	// not the total count across every node the sweep touched.
	require.GreaterOrEqual(t, sweeper.Stats.Merged, 1, "the consensus-redundant node should be proved equivalent and merged")
	require.Equal(t, 0, sweeper.Stats.TimedOut)
}

// TestSweepDisprovesFalseClaimAndResimulates forces the class manager
// (via a fake oracle) to claim that a&b and NOT(a)&NOT(b) are equal,
// which is false for most input assignments; the sweep's SAT check must
// refute it, keep the candidate standalone, and stage+apply a
// counter-example on the simulator without error.
func TestSweepDisprovesFalseClaimAndResimulates(t *testing.T) {
	orig := aig.NewManager()
	pa := orig.CreatePI()
	pb := orig.CreatePI()
	x := orig.And(aig.Ref{ID: pa}, aig.Ref{ID: pb})                       // a & b
	w := orig.And(aig.Ref{ID: pa, Inv: true}, aig.Ref{ID: pb, Inv: true}) // NOT a & NOT b
	require.NotEqual(t, x.ID, w.ID)
	orig.CreatePO(x)
	orig.CreatePO(w)

	oracle := &fakeOracle{
		equalPairs: map[[2]aig.ID]bool{pairKey(x.ID, w.ID): true},
		sameSign:   map[[2]aig.ID]bool{pairKey(x.ID, w.ID): true},
	}
	cls := class.Start(orig, oracle)
	require.NoError(t, cls.Prepare(false, 0))
	cls.SelectRepr(orig)
	require.Len(t, cls.Classes(), 1)

	simMgr, err := sim.Start(orig, 0, 1, 4, 3)
	require.NoError(t, err)

	sweeper := New(orig, cls, simMgr, testBudget(), satprove.ConeBiasConfig{}, 50)
	_, err = sweeper.Run()
	require.NoError(t, err)

	require.Equal(t, 0, sweeper.Stats.Merged)
	require.Equal(t, 1, sweeper.Stats.Disproved)
	require.Equal(t, 0, sweeper.Stats.TimedOut)

	// The Timeout branch is pure bookkeeping
	// (Stats.TimedOut++/cls.MarkFailed/adopt the candidate) already
	// exercised deterministically at the satprove layer via its own
	// failed-budget-downgrade test; reproducing a real solver timeout
	// here would depend on gini's internal search timing rather than on
	// anything this package controls.
}

// TestSweepWiresLatchInputAcrossFeedback checks that Run's two-pass
// structure correctly wires a latch-input's driver even though, per
// aig.Manager.IterTopo's documented exception, the driver's id can be
// higher than the latch-input node's own id.
func TestSweepWiresLatchInputAcrossFeedback(t *testing.T) {
	orig := aig.NewManager()
	pa := orig.CreatePI()
	lo, li := orig.CreateLatch(false)
	driver := orig.And(aig.Ref{ID: pa}, aig.Ref{ID: lo}) // uses lo, allocated before driver
	orig.SetLatchInput(li, driver)
	orig.CreatePO(aig.Ref{ID: lo})

	simMgr, err := sim.Start(orig, 0, 1, 4, 11)
	require.NoError(t, err)
	cls := class.Start(orig, simMgr)
	require.NoError(t, cls.Prepare(false, 0))
	cls.SelectRepr(orig)

	sweeper := New(orig, cls, simMgr, testBudget(), satprove.ConeBiasConfig{}, 50)
	reduced, err := sweeper.Run()
	require.NoError(t, err)

	require.Len(t, reduced.LatchOuts(), 1)
	require.Len(t, reduced.LatchIns(), 1)
	require.Len(t, reduced.POs(), 1)

	newLatchIn := reduced.LatchIns()[0]
	require.NotEqual(t, aig.Ref{}, reduced.Node(newLatchIn).Fanin0, "the latch-input driver must be wired, not left zero-valued")
}
