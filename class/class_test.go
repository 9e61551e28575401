package class

import (
	"testing"

	"github.com/gitrdm/gofraig/aig"
	"github.com/stretchr/testify/require"
)

// fakeOracle lets tests control node_hash/is_const/nodes_equal directly
// without involving the simulator, exercising the class manager's
// refinement logic in isolation.
type fakeOracle struct {
	constNodes map[aig.ID]bool
	groupOf    map[aig.ID]int // nodes with the same group hash to the same bucket and compare equal
}

func (f *fakeOracle) NodeHash(id aig.ID, tableSize int) int {
	if f.constNodes[id] {
		return 0
	}
	return (f.groupOf[id] + 1) % tableSize
}

func (f *fakeOracle) IsConst(id aig.ID) bool { return f.constNodes[id] }

func (f *fakeOracle) NodesEqual(a, b aig.ID) bool {
	return f.groupOf[a] == f.groupOf[b]
}

// SameSign always reports true: fakeOracle has no notion of polarity, so
// every equality it reports is "same sign" by construction.
func (f *fakeOracle) SameSign(a, b aig.ID) bool { return true }

// ConstValue always reports true (constant-1): the tests that mark nodes
// constant never exercise constant-0 polarity.
func (f *fakeOracle) ConstValue(id aig.ID) bool { return true }

func buildThreeAnds(t *testing.T) (*aig.Manager, []aig.ID) {
	t.Helper()
	m := aig.NewManager()
	pa := m.CreatePI()
	pb := m.CreatePI()
	pc := m.CreatePI()
	n1 := m.And(aig.Ref{ID: pa}, aig.Ref{ID: pb}).ID
	n2 := m.And(aig.Ref{ID: pb}, aig.Ref{ID: pc}).ID
	n3 := m.And(aig.Ref{ID: pc}, aig.Ref{ID: pa}).ID
	return m, []aig.ID{n1, n2, n3}
}

func TestPrepareGroupsEquivalentNodes(t *testing.T) {
	m, ids := buildThreeAnds(t)
	oracle := &fakeOracle{
		constNodes: map[aig.ID]bool{},
		groupOf:    map[aig.ID]int{ids[0]: 1, ids[1]: 1, ids[2]: 2},
	}
	c := Start(m, oracle)
	require.NoError(t, c.Prepare(false, 0))

	require.Len(t, c.Classes(), 1, "ids[0] and ids[1] should form one class; ids[2] is a singleton and dissolves")
	cls := c.Classes()[0]
	require.ElementsMatch(t, []aig.ID{ids[0], ids[1]}, cls.Members)

	repr, ok := c.Repr(ids[1])
	require.True(t, ok)
	require.Equal(t, aig.Ref{ID: ids[0]}, repr)

	_, ok = c.Repr(ids[2])
	require.False(t, ok, "singleton nodes have no representative")
}

func TestPrepareRoutesConstantNodesToConstClass(t *testing.T) {
	m, ids := buildThreeAnds(t)
	oracle := &fakeOracle{
		constNodes: map[aig.ID]bool{ids[0]: true},
		groupOf:    map[aig.ID]int{ids[1]: 1, ids[2]: 2},
	}
	c := Start(m, oracle)
	require.NoError(t, c.Prepare(false, 0))

	require.Contains(t, c.Const1Class().Members, ids[0])
	require.Empty(t, c.Classes())
}

func TestRefineSplitsOnDivergence(t *testing.T) {
	m, ids := buildThreeAnds(t)
	oracle := &fakeOracle{
		constNodes: map[aig.ID]bool{},
		groupOf:    map[aig.ID]int{ids[0]: 1, ids[1]: 1, ids[2]: 2},
	}
	c := Start(m, oracle)
	require.NoError(t, c.Prepare(false, 0))
	require.Len(t, c.Classes(), 1)

	// simulation has since diverged: ids[0] and ids[1] no longer equal
	oracle.groupOf[ids[1]] = 99
	changed := c.Refine()
	require.True(t, changed)
	require.Empty(t, c.Classes(), "the only class dissolves into two singletons")

	_, ok := c.Repr(ids[0])
	require.False(t, ok)
	_, ok = c.Repr(ids[1])
	require.False(t, ok)
}

func TestSelectReprPicksLowestLevelLowestID(t *testing.T) {
	m, ids := buildThreeAnds(t)
	oracle := &fakeOracle{
		constNodes: map[aig.ID]bool{},
		groupOf:    map[aig.ID]int{ids[0]: 1, ids[1]: 1},
	}
	c := Start(m, oracle)
	require.NoError(t, c.Prepare(false, 0))
	c.SelectRepr(m)

	cls := c.Classes()[0]
	require.Equal(t, ids[0], cls.Repr())
	require.Equal(t, Proved, cls.Status)
}

func TestCopyReprsExcludesFailedNodes(t *testing.T) {
	m, ids := buildThreeAnds(t)
	oracle := &fakeOracle{
		constNodes: map[aig.ID]bool{},
		groupOf:    map[aig.ID]int{ids[0]: 1, ids[1]: 1},
	}
	c := Start(m, oracle)
	require.NoError(t, c.Prepare(false, 0))
	c.MarkFailed(ids[1])

	reprs := c.CopyReprs()
	_, ok := reprs[ids[1]]
	require.False(t, ok, "failed nodes must remain self-representing")
}

func TestCountLitsAndPairs(t *testing.T) {
	m, ids := buildThreeAnds(t)
	oracle := &fakeOracle{
		constNodes: map[aig.ID]bool{},
		groupOf:    map[aig.ID]int{ids[0]: 1, ids[1]: 1, ids[2]: 1},
	}
	c := Start(m, oracle)
	require.NoError(t, c.Prepare(false, 0))

	require.Equal(t, 2, c.CountLits()) // one class of 3 members contributes 2 non-representative entries
	require.Equal(t, 6, c.CountPairs())
}
