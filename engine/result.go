package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/xid"

	"github.com/gitrdm/gofraig/aig"
)

// Stats is the lock-free statistics block described in spec.md §9's
// Fra_Man_t block, renamed to Go idiom and modeled directly on the
// teacher's SolverStats/SolverMonitor: every counter is updated with
// sync/atomic so a caller running many engine.Run calls concurrently
// (internal/parallel) can safely poll a Monitor's Snapshot mid-run.
type Stats struct {
	SATCalls      int64
	SATSat        int64
	SATUnsat      int64
	SATTimeouts   int64
	Speculations  int64 // speculation-constraint POs emitted during unrolling
	ClassesSplit  int64 // refine() calls that shrank the partition
	ClassesMerged int64 // candidate images folded onto a representative
	NodesFailed   int64 // nodes left with an unresolved "failed" flag
	RunTime       time.Duration
}

// Monitor accumulates a Stats block across one engine run. The zero
// value is usable; a nil *Monitor is safe to call every method on,
// mirroring the teacher's "safe to call on nil" SolverMonitor convention
// so collaborators can thread an optional monitor without a nil check at
// every call site.
type Monitor struct {
	stats     Stats
	startTime time.Time
}

// NewMonitor starts a fresh monitor, recording the current time as the
// run's start for RunTime accounting.
func NewMonitor() *Monitor {
	return &Monitor{startTime: time.Now()}
}

// recordSAT folds one sweep pass's outcome tally into the running SAT
// counters: sat/unsat/timeout are each a count of queries resolved that
// way, since the sweeper only reports aggregate per-pass totals rather
// than one notification per query.
func (m *Monitor) recordSAT(unsat, sat, timeout int64) {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.SATCalls, unsat+sat+timeout)
	atomic.AddInt64(&m.stats.SATUnsat, unsat)
	atomic.AddInt64(&m.stats.SATSat, sat)
	atomic.AddInt64(&m.stats.SATTimeouts, timeout)
}

func (m *Monitor) recordSpeculation(n int64) {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.Speculations, n)
}

func (m *Monitor) recordSplit() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.ClassesSplit, 1)
}

func (m *Monitor) recordMerge(n int64) {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.stats.ClassesMerged, n)
}

func (m *Monitor) recordFailed(n int64) {
	if m == nil {
		return
	}
	atomic.StoreInt64(&m.stats.NodesFailed, n)
}

// Snapshot returns a value copy of the accumulated statistics, safe to
// call concurrently with the run still in progress.
func (m *Monitor) Snapshot() Stats {
	if m == nil {
		return Stats{}
	}
	return Stats{
		SATCalls:      atomic.LoadInt64(&m.stats.SATCalls),
		SATSat:        atomic.LoadInt64(&m.stats.SATSat),
		SATUnsat:      atomic.LoadInt64(&m.stats.SATUnsat),
		SATTimeouts:   atomic.LoadInt64(&m.stats.SATTimeouts),
		Speculations:  atomic.LoadInt64(&m.stats.Speculations),
		ClassesSplit:  atomic.LoadInt64(&m.stats.ClassesSplit),
		ClassesMerged: atomic.LoadInt64(&m.stats.ClassesMerged),
		NodesFailed:   atomic.LoadInt64(&m.stats.NodesFailed),
		RunTime:       time.Since(m.startTime),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"SAT calls: %d (sat %d, unsat %d, timeout %d)\n"+
			"Speculations: %d\nClasses split: %d\nMerged: %d\nFailed nodes: %d\nRun time: %v\n",
		s.SATCalls, s.SATSat, s.SATUnsat, s.SATTimeouts,
		s.Speculations, s.ClassesSplit, s.ClassesMerged, s.NodesFailed, s.RunTime,
	)
}

// Result is returned by every top-level entry point (spec.md §7: "the
// core returns a reduction and a statistics record"). RunID tags the
// result with a unique identifier for log correlation across repeated
// Run calls, the Go-idiomatic analogue of ABC's per-run statistics dump.
type Result struct {
	RunID   string
	Reduced *aig.Manager
	Stats   Stats

	// Proved is meaningful only for the sequential entry points
	// (RunSequential/RunLatchCorrespondence): whether the k-induction
	// loop certified every final-frame claim. For the combinational Run
	// it is always true, since sweep has no separate proved/disproved
	// top-level outcome — a class either merges or is left failed, and
	// either way sweep completes.
	Proved bool

	// Iterations is the number of induction refine/rebuild rounds taken
	// (0 for the purely combinational Run).
	Iterations int

	// EquivalentLatches holds, for the sequential entry points, the
	// proven register-correspondence classes (one []aig.ID per class,
	// members drawn from the original AIG's latch-output ids). These are
	// reported rather than physically folded into Reduced — see
	// RunSequential's doc comment for why the final sweep only merges
	// AND-node redundancy.
	EquivalentLatches [][]aig.ID
}

func newRunID() string { return xid.New().String() }
