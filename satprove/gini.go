// Package satprove implements the SAT-based equivalence prover (spec.md
// §4.4): two-directional equivalence queries against an incremental
// solver with per-call conflict budgets, counter-example extraction, and
// activity-biased cone walking.
package satprove

import (
	"time"

	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"

	"github.com/gitrdm/gofraig/cnf"
)

// Solver is the incremental SAT collaborator contract consumed here
// (spec.md §6 "Solver collaborator contract"), matching the real public
// surface of github.com/irifrance/gini's *gini.Gini (itself backed by
// gini/internal/xo.S): Add/Assume to build up a query, Try to solve
// under a budget, Value to read back a model.
type Solver interface {
	cnf.Adder
	Assume(ms ...z.Lit)
	Try(budget time.Duration) int
	Value(m z.Lit) bool
	MaxVar() z.Var
}

// Outcome codes returned by Try: gini's convention is 1 = SAT, -1 =
// UNSAT, 0 = undecided (budget exhausted).
const (
	solverSat     = 1
	solverUnsat   = -1
	solverUnknown = 0
)

// NewGiniSolver wraps a fresh github.com/irifrance/gini solver instance.
func NewGiniSolver() Solver {
	return gini.New()
}
