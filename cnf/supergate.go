package cnf

import "github.com/gitrdm/gofraig/aig"

// collectSuperRec implements Fra_CollectSuper_rec: it walks an AND-chain
// backward, stopping at a complemented edge, a PI, a node with more than
// one structural fanout (unless this is the very first node visited),
// or — when useMuxes is set — the top of a recognized MUX, and appends
// each stopping point to super (deduplicated).
func collectSuperRec(a *aig.Manager, r aig.Ref, super *[]aig.Ref, first, useMuxes bool) {
	n := a.Node(r.ID)
	stop := r.Inv || n.Type != aig.TypeAnd || (!first && a.Fanout(r.ID) > 1) ||
		(useMuxes && isMuxType(a, r.ID))
	if stop {
		pushUnique(super, r)
		return
	}
	collectSuperRec(a, n.Fanin0, super, false, useMuxes)
	collectSuperRec(a, n.Fanin1, super, false, useMuxes)
}

func pushUnique(v *[]aig.Ref, r aig.Ref) {
	for _, existing := range *v {
		if existing == r {
			return
		}
	}
	*v = append(*v, r)
}

// collectSuper collects the supergate rooted at the (uncomplemented,
// non-PI) node id — the largest multi-input AND reachable through
// single-fanout AND chains (spec.md §4.3 "collect_supergate").
func collectSuper(a *aig.Manager, id aig.ID, useMuxes bool) []aig.Ref {
	var super []aig.Ref
	collectSuperRec(a, aig.Ref{ID: id}, &super, true, useMuxes)
	return super
}

// isMuxType reports whether id is the AND node underneath the standard
// "OR of two complemented ANDs sharing a complementary selector" MUX
// encoding (the shape aig.Manager.Mux produces): the MUX is NOT(id), where
// id = AND(NOT(AND(sel, then)), NOT(AND(NOT sel, else))).
func isMuxType(a *aig.Manager, id aig.ID) bool {
	_, _, _, ok := recognizeMux(a, id)
	return ok
}

// recognizeMux extracts (select, then, else) from a MUX-shaped node,
// mirroring ABC's Aig_ObjRecognizeMux except that then/else are returned
// uncomplemented: they describe NOT(id) = ITE(sel, then, else), so id
// itself computes ITE(sel, NOT then, NOT else).
func recognizeMux(a *aig.Manager, id aig.ID) (sel, then, els aig.Ref, ok bool) {
	n := a.Node(id)
	if n.Type != aig.TypeAnd {
		return
	}
	f0, f1 := n.Fanin0, n.Fanin1
	if !f0.Inv || !f1.Inv {
		return
	}
	a0, a1 := a.Node(f0.ID), a.Node(f1.ID)
	if a0.Type != aig.TypeAnd || a1.Type != aig.TypeAnd {
		return
	}
	pairs0 := [2]aig.Ref{a0.Fanin0, a0.Fanin1}
	pairs1 := [2]aig.Ref{a1.Fanin0, a1.Fanin1}
	for i0, p0 := range pairs0 {
		for i1, p1 := range pairs1 {
			if p0.ID == p1.ID && p0.Inv != p1.Inv {
				return p0, pairs0[1-i0], pairs1[1-i1], true
			}
		}
	}
	return aig.Ref{}, aig.Ref{}, aig.Ref{}, false
}
