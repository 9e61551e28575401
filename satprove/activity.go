package satprove

import (
	"github.com/irifrance/gini/z"

	"github.com/gitrdm/gofraig/aig"
)

// ActivityBiaser is an optional capability a Solver may additionally
// implement to accept branching-activity hints; github.com/irifrance/gini's
// confirmed public surface (Add/Assume/Try/Value/MaxVar) does not expose
// one, so cone biasing degrades to a no-op against a plain Solver and
// only takes effect when the concrete solver type also satisfies this
// interface (spec.md §4.4 step 4: "If cone biasing is enabled, walk the
// fanin cone of both nodes up to dActConeRatio × maxLevel levels and bump
// variable activities by dActConeBumpMax × depthFraction.").
type ActivityBiaser interface {
	Bump(v z.Var, amount float64)
}

// ConeBiasConfig holds the two tunables named in spec.md §6.
type ConeBiasConfig struct {
	ConeRatio float64 // dActConeRatio
	BumpMax   float64 // dActConeBumpMax
	Enabled   bool
}

// biasCone walks the fanin cone of roots breadth-first up to
// cfg.ConeRatio*maxLevel levels, bumping each visited node's SAT variable
// (if assigned) by cfg.BumpMax*depthFraction, where depthFraction shrinks
// linearly from 1 at the roots to 0 at the walk's depth limit.
func biasCone(solver Solver, varOf func(aig.ID) (z.Var, bool), a *aig.Manager, roots []aig.ID, maxLevel int, cfg ConeBiasConfig) {
	if !cfg.Enabled {
		return
	}
	biaser, ok := solver.(ActivityBiaser)
	if !ok {
		return
	}
	depthLimit := int(cfg.ConeRatio * float64(maxLevel))
	if depthLimit <= 0 {
		return
	}

	type item struct {
		id    aig.ID
		depth int
	}
	visited := make(map[aig.ID]bool)
	queue := make([]item, 0, len(roots))
	for _, r := range roots {
		queue = append(queue, item{id: r, depth: 0})
		visited[r] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if v, ok := varOf(cur.id); ok {
			depthFraction := 1.0 - float64(cur.depth)/float64(depthLimit)
			if depthFraction > 0 {
				biaser.Bump(v, cfg.BumpMax*depthFraction)
			}
		}
		if cur.depth >= depthLimit {
			continue
		}
		n := a.Node(cur.id)
		if n.Type != aig.TypeAnd {
			continue
		}
		for _, fanin := range []aig.ID{n.Fanin0.ID, n.Fanin1.ID} {
			if !visited[fanin] {
				visited[fanin] = true
				queue = append(queue, item{id: fanin, depth: cur.depth + 1})
			}
		}
	}
}
