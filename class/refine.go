package class

import "github.com/gitrdm/gofraig/aig"

// Refine walks every class and splits it under the current oracle,
// dissolving any member that no longer belongs. Returns true iff any
// class was split or shrunk (spec.md §4.2 "refine() → bool").
func (c *Cla) Refine() bool {
	changed := false
	var kept []*Class
	for _, cls := range c.classes {
		sub, did := c.refineClass(cls)
		if did {
			changed = true
		}
		kept = append(kept, sub...)
	}
	c.classes = kept
	c.sortClasses()

	if c.refineConstClass() {
		changed = true
	}
	return changed
}

// RefineOne restricts Refine's splitting logic to a single class,
// optionally allowing the split to grow the manager's class list with
// newly formed subclasses (spec.md §4.2 "refine_one(class, allowNewClass?)").
func (c *Cla) RefineOne(cls *Class, allowNewClass bool) bool {
	idx := -1
	for i, existing := range c.classes {
		if existing == cls {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	sub, changed := c.refineClass(cls)
	if !changed {
		return false
	}
	if !allowNewClass && len(sub) > 1 {
		// keep only the subclass retaining the original representative;
		// the rest are dissolved back to singletons rather than becoming
		// new tracked classes.
		var keep *Class
		for _, s := range sub {
			if s.Repr() == cls.Repr() {
				keep = s
			} else {
				for _, m := range s.Members {
					c.clearRepr(m)
				}
			}
		}
		if keep == nil {
			c.classes = append(c.classes[:idx], c.classes[idx+1:]...)
		} else {
			c.classes[idx] = keep
		}
		c.sortClasses()
		return true
	}
	c.classes = append(c.classes[:idx], c.classes[idx+1:]...)
	c.classes = append(c.classes, sub...)
	c.sortClasses()
	return true
}

// refineClass splits cls into one subclass per distinct oracle-equality
// group of its members, returning the resulting (possibly singleton-free)
// subclasses and whether anything changed relative to cls as a whole.
func (c *Cla) refineClass(cls *Class) ([]*Class, bool) {
	assigned := make([]bool, len(cls.Members))
	type group struct {
		ids   []aig.ID
		signs []bool
	}
	var groups []group
	for i, m := range cls.Members {
		if assigned[i] {
			continue
		}
		g := group{ids: []aig.ID{m}, signs: []bool{false}}
		assigned[i] = true
		for j := i + 1; j < len(cls.Members); j++ {
			if assigned[j] {
				continue
			}
			if c.oracle.NodesEqual(m, cls.Members[j]) {
				g.ids = append(g.ids, cls.Members[j])
				g.signs = append(g.signs, !c.oracle.SameSign(m, cls.Members[j]))
				assigned[j] = true
			}
		}
		groups = append(groups, g)
	}

	if len(groups) == 1 && len(groups[0].ids) == len(cls.Members) {
		return []*Class{cls}, false
	}

	var out []*Class
	for _, g := range groups {
		if len(g.ids) < 2 {
			c.clearRepr(g.ids[0])
			continue
		}
		ids, signs := rebaseToMinID(g.ids, g.signs)
		sub := &Class{Members: ids, Signs: signs, Status: Candidate}
		c.wireClassRepr(sub)
		out = append(out, sub)
	}
	return out, true
}

// refineConstClass drops any member of the Const1 class that the oracle
// no longer considers constant, re-entering Candidate status for the
// affected node (it simply leaves the partition until the next Prepare).
func (c *Cla) refineConstClass() bool {
	oldMembers, oldSigns := c.constClass.Members, c.constClass.Signs
	keptMembers := make([]aig.ID, 1, len(oldMembers))
	keptSigns := make([]bool, 1, len(oldSigns))
	keptMembers[0] = oldMembers[0] // Const1 itself always stays
	keptSigns[0] = false
	changed := false
	for i, m := range oldMembers[1:] {
		if c.oracle.IsConst(m) {
			keptMembers = append(keptMembers, m)
			keptSigns = append(keptSigns, oldSigns[i+1])
		} else {
			c.clearRepr(m)
			changed = true
		}
	}
	c.constClass.Members = keptMembers
	c.constClass.Signs = keptSigns
	return changed
}
