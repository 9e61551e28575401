package parallel

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gofraig/aig"
	"github.com/gitrdm/gofraig/engine"
)

// buildRedundantAnd returns a tiny combinational AIG with one genuinely
// redundant AND node: n2 computes the same function as n1 via a
// different structural path ((a&b) vs (a&b)&a), so a combinational run
// should merge them down to a single AND node.
func buildRedundantAnd(t *testing.T) *aig.Manager {
	t.Helper()
	m := aig.NewManager()
	pa := m.CreatePI()
	pb := m.CreatePI()
	n1 := m.And(aig.Ref{ID: pa}, aig.Ref{ID: pb})
	n2 := m.And(n1, aig.Ref{ID: pa})
	m.CreatePO(n1)
	m.CreatePO(n2)
	return m
}

func TestRunAllRunsIndependentJobsConcurrently(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.MaxInductionIters = 8

	jobs := make([]Job, 4)
	for i := range jobs {
		jobs[i] = Job{
			Name: "job",
			AIG:  buildRedundantAnd(t),
			Cfg:  cfg,
			Mode: Combinational,
		}
	}

	results, err := RunAll(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	for _, r := range results {
		require.NotNil(t, r)
		require.NotNil(t, r.Reduced)
		require.True(t, r.Proved)
	}
}

func TestRunAllWrapsFirstJobErrorWithItsName(t *testing.T) {
	okCfg := engine.DefaultConfig()
	badCfg := engine.DefaultConfig()
	badCfg.Rewrite = true // engine.Run refuses this unimplemented flag

	jobs := []Job{
		{Name: "fine", AIG: buildRedundantAnd(t), Cfg: okCfg, Mode: Combinational},
		{Name: "broken", AIG: buildRedundantAnd(t), Cfg: badCfg, Mode: Combinational},
	}

	_, err := RunAll(context.Background(), jobs, 0)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "broken"), "error should name the failing job: %v", err)
}

func TestRunAllRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := engine.DefaultConfig()
	jobs := []Job{{Name: "job", AIG: buildRedundantAnd(t), Cfg: cfg, Mode: Combinational}}

	_, err := RunAll(ctx, jobs, 0)
	require.Error(t, err)
}
