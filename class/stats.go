package class

import "github.com/gitrdm/gofraig/aig"

// CountLits returns the number of equivalence relations currently
// asserted: one per non-representative member across all classes plus
// the Const1 class (spec.md §4.2 "count_lits()").
func (c *Cla) CountLits() int {
	n := len(c.constClass.Members) - 1
	for _, cls := range c.classes {
		n += len(cls.Members) - 1
	}
	return n
}

// CountPairs returns the number of ordered member pairs across all
// classes, used for speculative-reduction cost estimation (spec.md §4.2
// "count_pairs()").
func (c *Cla) CountPairs() int {
	n := pairsIn(len(c.constClass.Members))
	for _, cls := range c.classes {
		n += pairsIn(len(cls.Members))
	}
	return n
}

func pairsIn(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1)
}

// SelectRepr picks one permanent representative per class by topological
// criterion — the lowest-level, lowest-id member — so the final
// reduction is deterministic (spec.md §4.2 "select_repr()"). Must be
// called with access to the AIG's level data; it re-sorts each class's
// Members so Members[0] is the chosen representative and rewires repr
// pointers for the rest.
func (c *Cla) SelectRepr(a *aig.Manager) {
	for _, cls := range c.classes {
		bestIdx := 0
		for i, m := range cls.Members[1:] {
			if levelLess(a, m, cls.Members[bestIdx]) {
				bestIdx = i + 1
			}
		}
		if bestIdx != 0 {
			members, signs := rebaseAt(cls.Members, cls.Signs, bestIdx)
			cls.Members = members
			cls.Signs = signs
			c.wireClassRepr(cls)
		}
		cls.Status = Proved
	}
}

// rebaseAt moves members[leaderIdx] to the front, recomputing each sign
// relative to the new leader, preserving the relative order of the rest.
func rebaseAt(members []aig.ID, signs []bool, leaderIdx int) ([]aig.ID, []bool) {
	base := signs[leaderIdx]
	outMembers := make([]aig.ID, 0, len(members))
	outSigns := make([]bool, 0, len(signs))
	outMembers = append(outMembers, members[leaderIdx])
	outSigns = append(outSigns, false)
	for i, m := range members {
		if i == leaderIdx {
			continue
		}
		outMembers = append(outMembers, m)
		outSigns = append(outSigns, signs[i] != base)
	}
	return outMembers, outSigns
}

func levelLess(a *aig.Manager, x, y aig.ID) bool {
	lx, ly := a.Node(x).Level, a.Node(y).Level
	if lx != ly {
		return lx < ly
	}
	return x < y
}

// CopyReprs exports the final repr map as a plain node-to-representative
// table, except for nodes in failed (those on which SAT timed out) which
// remain self-representing (spec.md §4.2 "copy_reprs(failed)"). The
// caller (the sweep/induction drivers) is responsible for actually
// rewriting the AIG.
func (c *Cla) CopyReprs() map[aig.ID]aig.Ref {
	out := make(map[aig.ID]aig.Ref)
	for id, valid := range c.reprValid {
		if !valid {
			continue
		}
		n := aig.ID(id)
		if c.Failed(n) {
			continue
		}
		out[n] = c.repr[id]
	}
	return out
}
