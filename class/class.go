// Package class implements the equivalence-class manager (spec.md §4.2):
// a union-find-like partition of AIG nodes into candidate equivalence
// classes, refined under a pluggable oracle and eventually certified by
// the SAT prover.
package class

import (
	"fmt"
	"sort"

	"github.com/gitrdm/gofraig/aig"
)

// Status is a class's position in the per-class state machine described
// in spec.md §4.2: "Candidate → Split* → Proved → Merged. A class may be
// split many times but, once proved at a fixed simulation state, merging
// is unconditional. If a later simulation pattern breaks the class, it
// re-enters Candidate."
type Status int

const (
	Candidate Status = iota
	Proved
)

// Class is an ordered sequence of node ids sharing the same hash under
// the current oracle, headed by a representative (Members[0]).
type Class struct {
	Members []aig.ID

	// Signs[i] records whether Members[i] is related to Members[0] (the
	// representative) by complementation: false means "equal", true
	// means "equal to NOT Members[0]" (spec.md §4.5 "up to complement
	// determined by phases"). Signs[0] is always false.
	Signs  []bool
	Status Status
}

// Repr returns the class's representative node id.
func (c *Class) Repr() aig.ID { return c.Members[0] }

// Cla is the class manager (spec.md's "Cla").
type Cla struct {
	aigm   *aig.Manager
	oracle Oracle

	// repr[n] holds the signed reference to n's class representative;
	// reprValid[n] is false when n is its own representative or a
	// singleton with no candidate equivalence (spec.md invariant 1).
	repr      []aig.Ref
	reprValid []bool

	// classes is the ordered set of classes with >= 2 members whose
	// representative is not Const1.
	classes []*Class

	// constClass holds nodes believed equivalent to Const1, stored
	// separately because Const1 has no incoming fanins and is handled
	// specially by the prover (spec.md §3 "constClass").
	constClass *Class

	failed map[aig.ID]bool
}

// Start allocates a class manager over a, with an empty partition: no
// node is yet a member of any class (spec.md §4.2 "start(aig) → Cla").
// The constClass is pre-filled with all currently-constant non-PI nodes
// found by the oracle, a safe initial over-approximation; call Prepare
// afterward to populate the rest of the partition from the first
// simulation round.
func Start(a *aig.Manager, oracle Oracle) *Cla {
	c := &Cla{
		aigm:      a,
		oracle:    oracle,
		repr:      make([]aig.Ref, a.NumNodes()),
		reprValid: make([]bool, a.NumNodes()),
		failed:    make(map[aig.ID]bool),
	}
	c.constClass = &Class{Members: []aig.ID{a.Const1()}, Signs: []bool{false}}
	var nonConstMembers []aig.ID
	a.IterTopo(func(n *aig.Node) {
		if n.Type == aig.TypePI || n.ID == a.Const1() {
			return
		}
		if oracle.IsConst(n.ID) {
			c.addToConstClass(n.ID, oracle.ConstValue(n.ID))
		} else {
			nonConstMembers = append(nonConstMembers, n.ID)
		}
	})
	_ = nonConstMembers // populated properly by the first Prepare call
	return c
}

// addToConstClass records that n is constant, with value true meaning
// n always simulates to 1. The repr pointer is wired to Const1 with the
// matching inversion bit (value false means n == NOT Const1).
func (c *Cla) addToConstClass(n aig.ID, value bool) {
	if r, ok := c.Repr(n); ok && r.ID == c.aigm.Const1() {
		return // already a member (Start and Prepare both route constants here)
	}
	c.constClass.Members = append(c.constClass.Members, n)
	c.constClass.Signs = append(c.constClass.Signs, !value)
	c.setRepr(n, aig.Ref{ID: c.aigm.Const1(), Inv: !value})
}

// Const1Class returns the current set of nodes believed equivalent to
// Const1 (in either polarity is resolved by phase normalization upstream
// in the oracle).
func (c *Cla) Const1Class() *Class { return c.constClass }

// Classes returns the ordered, non-constant classes with >= 2 members.
func (c *Cla) Classes() []*Class { return c.classes }

// Repr returns n's representative signed reference and whether n has
// one (false means n is its own representative or a singleton).
func (c *Cla) Repr(n aig.ID) (aig.Ref, bool) {
	return c.repr[n], c.reprValid[n]
}

// setRepr records that n's representative is r.
func (c *Cla) setRepr(n aig.ID, r aig.Ref) {
	c.repr[n] = r
	c.reprValid[n] = true
}

func (c *Cla) clearRepr(n aig.ID) {
	c.repr[n] = aig.Ref{}
	c.reprValid[n] = false
}

// SetOracle swaps the active oracle, returning the previous one so the
// caller can restore it afterward (spec.md §4.2 "Oracle plug-in": "These
// are swapped by the BMC driver to the 'equal across all prefix frames'
// variant and then restored"). The new oracle takes effect starting with
// the next Prepare or Refine call.
func (c *Cla) SetOracle(o Oracle) Oracle {
	old := c.oracle
	c.oracle = o
	return old
}

// MarkFailed records that the SAT prover timed out certifying a pair
// involving n; copy_reprs will leave failed nodes self-representing
// (spec.md §4.2 "copy_reprs(failed)").
func (c *Cla) MarkFailed(n aig.ID) { c.failed[n] = true }

// Failed reports whether n has been marked failed.
func (c *Cla) Failed(n aig.ID) bool { return c.failed[n] }

// Prepare scans the current oracle state and groups candidate nodes into
// classes (spec.md §4.2 "prepare(latchCorr, maxLevel)"). If latchCorr is
// set, only latch-output nodes are considered (register correspondence
// mode); otherwise all internal AND nodes up to level maxLevel. A
// temporary hash table sized to the candidate count buckets nodes by
// oracle.NodeHash; within a bucket, pairwise probing with
// oracle.NodesEqual forms the actual classes. Constant-simulating nodes
// go into the Const1 class instead.
func (c *Cla) Prepare(latchCorr bool, maxLevel int) error {
	var candidates []aig.ID
	if latchCorr {
		candidates = append(candidates, c.aigm.LatchOuts()...)
	} else {
		c.aigm.IterTopo(func(n *aig.Node) {
			if n.Type != aig.TypeAnd {
				return
			}
			if maxLevel > 0 && n.Level > maxLevel {
				return
			}
			candidates = append(candidates, n.ID)
		})
	}
	if len(candidates) == 0 {
		return nil
	}

	tableSize := len(candidates)
	buckets := make(map[int][]aig.ID, tableSize)
	for _, id := range candidates {
		if c.oracle.IsConst(id) {
			c.addToConstClass(id, c.oracle.ConstValue(id))
			continue
		}
		h := c.oracle.NodeHash(id, tableSize)
		buckets[h] = append(buckets[h], id)
	}

	c.classes = c.classes[:0]
	for _, bucket := range buckets {
		c.splitBucketIntoClasses(bucket)
	}
	c.sortClasses()
	return nil
}

// splitBucketIntoClasses partitions one hash bucket into one or more
// actual classes via pairwise oracle.NodesEqual probing, discards
// resulting singletons, and appends the multi-member groups to c.classes.
func (c *Cla) splitBucketIntoClasses(bucket []aig.ID) {
	assigned := make([]bool, len(bucket))
	for i := range bucket {
		if assigned[i] {
			continue
		}
		group := []aig.ID{bucket[i]}
		signs := []bool{false}
		assigned[i] = true
		for j := i + 1; j < len(bucket); j++ {
			if assigned[j] {
				continue
			}
			if c.oracle.NodesEqual(bucket[i], bucket[j]) {
				group = append(group, bucket[j])
				signs = append(signs, !c.oracle.SameSign(bucket[i], bucket[j]))
				assigned[j] = true
			}
		}
		if len(group) < 2 {
			c.clearRepr(group[0])
			continue
		}
		group, signs = rebaseToMinID(group, signs)
		cls := &Class{Members: group, Signs: signs}
		c.classes = append(c.classes, cls)
		c.wireClassRepr(cls)
	}
}

// rebaseToMinID reorders members/signs so the lowest-id member leads
// (Signs[0] == false always) and the remaining members follow in
// ascending id order, recomputing each sign relative to the new leader.
func rebaseToMinID(members []aig.ID, signs []bool) ([]aig.ID, []bool) {
	minIdx := 0
	for i, m := range members {
		if m < members[minIdx] {
			minIdx = i
		}
	}
	base := signs[minIdx]
	type pair struct {
		id   aig.ID
		sign bool
	}
	rest := make([]pair, 0, len(members)-1)
	for i, m := range members {
		if i == minIdx {
			continue
		}
		rest = append(rest, pair{id: m, sign: signs[i] != base})
	}
	sort.Slice(rest, func(a, b int) bool { return rest[a].id < rest[b].id })

	outMembers := make([]aig.ID, 0, len(members))
	outSigns := make([]bool, 0, len(members))
	outMembers = append(outMembers, members[minIdx])
	outSigns = append(outSigns, false)
	for _, p := range rest {
		outMembers = append(outMembers, p.id)
		outSigns = append(outSigns, p.sign)
	}
	return outMembers, outSigns
}

func (c *Cla) wireClassRepr(cls *Class) {
	repr := cls.Repr()
	for i, m := range cls.Members[1:] {
		c.setRepr(m, aig.Ref{ID: repr, Inv: cls.Signs[i+1]})
	}
}

func (c *Cla) sortClasses() {
	sort.Slice(c.classes, func(i, j int) bool {
		return c.classes[i].Repr() < c.classes[j].Repr()
	})
}

// String renders a short human-readable summary, used by logging call
// sites and in test failure messages.
func (c *Cla) String() string {
	return fmt.Sprintf("class.Cla{classes=%d const1=%d}", len(c.classes), len(c.constClass.Members)-1)
}
