package sim

import "github.com/gitrdm/gofraig/aig"

// constSentinel is the hash bucket reserved for nodes whose hashed words
// are constantly zero or constantly one (spec.md: "Constant-0 or
// constant-1 vectors hash to a sentinel").
const constSentinel = 0

// NodeHash returns a 32-bit running mix of n's hashed simulation words,
// normalized by phase so nodes equivalent up to complementation hash
// identically, reduced modulo tableSize (spec.md §4.1 "node_hash").
func (m *Mgr) NodeHash(id aig.ID, tableSize int) int {
	if tableSize <= 0 {
		panic("sim: NodeHash called with non-positive tableSize")
	}
	if m.IsConst(id) {
		return constSentinel
	}
	words := m.hashedWords(id)
	phase := m.aigm.Node(id).Phase
	var h uint32 = 2166136261 // FNV-1a offset basis
	for _, w := range words {
		if phase {
			w = ^w
		}
		h ^= w
		h *= 16777619
	}
	if h == 0 {
		h = 1 // the raw mix is never 0, but the modulo below can still map a non-constant node to bucket 0
	}
	return int(h) % tableSize
}

// IsConst reports whether n's hashed words are constantly zero or
// constantly one once normalized by phase (spec.md §4.1 "is_const").
func (m *Mgr) IsConst(id aig.ID) bool {
	words := m.hashedWords(id)
	if len(words) == 0 {
		return true
	}
	first := words[0]
	for _, w := range words[1:] {
		if w != first {
			return false
		}
	}
	return first == 0 || first == ^uint32(0)
}

// ConstValue reports the constant value a node already known to be
// constant simulates to: true if its raw hashed words are all-ones.
func (m *Mgr) ConstValue(id aig.ID) bool {
	words := m.hashedWords(id)
	if len(words) == 0 {
		return true
	}
	return words[0] == ^uint32(0)
}

// NodesEqual reports whether a and b's hashed words are equal or
// bitwise-complementary throughout, meaning the candidate equivalence
// "a == b" or "a == NOT b" survives this simulation state (spec.md §4.1
// "nodes_equal").
func (m *Mgr) NodesEqual(a, b aig.ID) bool {
	equal, _ := m.sense(a, b)
	return equal
}

// SameSign reports, given NodesEqual(a, b) holds, whether the survived
// relation is "a == b" (true) rather than "a == NOT b" (false). Feeds the
// class manager's representative-reference inversion bit (spec.md §4.5).
func (m *Mgr) SameSign(a, b aig.ID) bool {
	_, sameSign := m.sense(a, b)
	return sameSign
}

// sense computes both NodesEqual and SameSign in one pass over the
// hashed words.
func (m *Mgr) sense(a, b aig.ID) (equal, sameSign bool) {
	wa, wb := m.hashedWords(a), m.hashedWords(b)
	if len(wa) != len(wb) {
		return false, false
	}
	sameSense, compSense := true, true
	for i := range wa {
		if wa[i] != wb[i] {
			sameSense = false
		}
		if wa[i] != ^wb[i] {
			compSense = false
		}
		if !sameSense && !compSense {
			return false, false
		}
	}
	return sameSense || compSense, sameSense
}

// ClauseAlwaysHolds reports whether the two-literal clause
// (a^complA) OR (b^complB) is true in every simulated pattern across the
// hashed (non-prefix) frames, where a complX flag of true means the
// literal is the node's negation. Grounded directly on
// Fra_OneHotNodesAreClause in
// original_source/abc/src/proof/fra/fraHot.c, generalized from that
// function's hard-coded one-hot (complA=complB=true) case to an
// arbitrary polarity pair so the same bit-parallel check also serves
// implication candidates ((false,true) and (true,false)), which the
// one-hotness and implications subsystems both derive their candidate
// pairs from before handing them to the SAT-level confirmation step.
func (m *Mgr) ClauseAlwaysHolds(a, b aig.ID, complA, complB bool) bool {
	wa, wb := m.hashedWords(a), m.hashedWords(b)
	if len(wa) != len(wb) {
		return false
	}
	for i := range wa {
		la, lb := wa[i], wb[i]
		if complA {
			la = ^la
		}
		if complB {
			lb = ^lb
		}
		if (la | lb) != ^uint32(0) {
			return false
		}
	}
	return true
}
