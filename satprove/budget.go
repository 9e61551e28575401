package satprove

import (
	"math"
	"time"
)

// Budget models the per-call and global conflict limits of spec.md §4.4:
// the per-call budget is passed explicitly to each query, and once the
// global budget is used up every further query returns Timeout. Only
// conflict units are counted; there is no inspection budget.
//
// github.com/irifrance/gini's public Solver.Try takes a wall-clock
// budget rather than a conflict count, so conflict-budget units here are
// converted to a duration via ConflictUnit — the adaptation is confined
// to this one conversion so the rest of the prover can reason in the
// same conflict-count terms as spec.md and ABC's fraSat.c.
type Budget struct {
	// ConflictUnit is the wall-clock duration treated as equivalent to
	// one conflict-budget unit.
	ConflictUnit time.Duration

	// NodeBudget and MiterBudget are the base per-call budgets for a
	// single-node query (node_is_const) and a two-node miter query
	// (nodes_equivalent), matching spec.md §6's nBTLimitNode/nBTLimitMiter.
	NodeBudget   int
	MiterBudget  int
	GlobalBudget int // total conflict-budget units allowed for the whole run

	spent int
}

// Spent reports how much of the global budget has been consumed so far.
func (b *Budget) Spent() int { return b.spent }

// GlobalExhausted reports whether the run-wide budget has been used up.
func (b *Budget) GlobalExhausted() bool {
	return b.GlobalBudget > 0 && b.spent >= b.GlobalBudget
}

// charge records that a call consumed units of the global budget.
func (b *Budget) charge(units int) { b.spent += units }

// effectiveUnits applies the base-budget downgrade from spec.md §4.4 step
// 1: "If either node is flagged failed and no k-induction is in effect,
// adjust the conflict budget: if the base budget <= 10, return Timeout;
// else use budget^0.7." Returns (units, ok) — ok is false when the call
// must short-circuit to Timeout without ever touching the solver.
func effectiveUnits(base int, anyFailed, kInductionActive bool) (int, bool) {
	if !anyFailed || kInductionActive {
		return base, true
	}
	if base <= 10 {
		return 0, false
	}
	return int(math.Pow(float64(base), 0.7)), true
}

// toDuration converts a conflict-budget unit count to the wall-clock
// budget Try expects.
func (b *Budget) toDuration(units int) time.Duration {
	if units <= 0 {
		return 0
	}
	return time.Duration(units) * b.ConflictUnit
}
