// Package sim implements the bit-parallel simulator (spec.md §4.1): it
// maintains a per-node block of simulation words, drives random and
// counter-example-replay simulation over combinational and unrolled
// sequential circuits, and supplies the node_hash/is_const/nodes_equal
// oracles the class manager refines against.
package sim

import (
	"fmt"

	"github.com/gitrdm/gofraig/aig"
	"github.com/gitrdm/gofraig/internal/randgen"
)

// wordBits is the width of one simulation word (spec.md §4.1 "Packing":
// "Simulation words are 32-bit").
const wordBits = 32

// Mgr is the simulation manager (SimMgr in spec.md). It owns one flat
// array of simulation words indexed by nodeID*W + wordOffset, where W is
// nWordsFrame*nFrames.
type Mgr struct {
	aigm *aig.Manager

	nPref       int // prefix frame count, excluded from hashing
	nFrames     int // total frames simulated (>= nPref)
	nWordsFrame int // words per node per frame
	wordsTotal  int // nWordsFrame * nFrames, per node

	data []uint32 // len == nNodes * wordsTotal

	rng *randgen.Stream

	// pendingCex holds a counter-example pattern staged by SetPendingFromCex,
	// consumed by the next ResimulatePending call (spec.md's
	// save_pattern/resimulate).
	pendingCex *Cex
}

func (m *Mgr) nNodes() int { return len(m.data) / m.wordsTotal }

func (m *Mgr) base(id aig.ID) int { return int(id) * m.wordsTotal }

// frameBase returns the starting word offset of node id's data within
// timeframe f (0-indexed, including the prefix frames).
func (m *Mgr) frameBase(id aig.ID, f int) int {
	return m.base(id) + f*m.nWordsFrame
}

// Start allocates a fresh simulation state over aigm, sized for nPref
// prefix frames plus (nFrames-nPref) hashed frames of nWordsFrame words
// each, seeds fresh pseudorandom patterns into every PI word of every
// frame, zeroes latch-output words in frame 0 (the reset state), and
// propagates values through AND gates frame by frame, wiring each
// frame's latch-input values into the next frame's latch-output words
// (spec.md §4.1 "start").
func Start(a *aig.Manager, nPref, nFrames, nWordsFrame int, seed uint32) (*Mgr, error) {
	if nFrames < nPref {
		return nil, fmt.Errorf("sim: nFrames (%d) must be >= nPref (%d)", nFrames, nPref)
	}
	if nWordsFrame <= 0 {
		return nil, fmt.Errorf("sim: nWordsFrame must be positive, got %d", nWordsFrame)
	}
	m := &Mgr{
		aigm:        a,
		nPref:       nPref,
		nFrames:     nFrames,
		nWordsFrame: nWordsFrame,
		wordsTotal:  nWordsFrame * nFrames,
		rng:         randgen.New(seed),
	}
	m.data = make([]uint32, a.NumNodes()*m.wordsTotal)
	c1 := m.base(a.Const1())
	for i := 0; i < m.wordsTotal; i++ {
		m.data[c1+i] = ^uint32(0) // Const1 is 1 in every pattern
	}

	for f := 0; f < nFrames; f++ {
		m.randomizePIs(f)
		if f == 0 {
			m.zeroLatchOuts(0)
		}
		m.propagateFrame(f)
		if f+1 < nFrames {
			m.transferLatches(f, f+1)
		}
	}
	return m, nil
}

// SimulateComb runs a single combinational frame (nPref=0, nFrames=1),
// randomizing PIs and propagating once — the variant used by the
// combinational-only prover (spec.md §4.1 "simulate_comb").
func SimulateComb(a *aig.Manager, nWords int, seed uint32) (*Mgr, error) {
	return Start(a, 0, 1, nWords, seed)
}

func (m *Mgr) randomizePIs(f int) {
	for _, pi := range m.aigm.PIs() {
		off := m.frameBase(pi, f)
		m.rng.Fill(m.data[off : off+m.nWordsFrame])
	}
	if f > 0 {
		return
	}
	// frame 0's latch outputs represent the reset state and are zeroed
	// below by zeroLatchOuts, not randomized; nothing else to do here.
}

func (m *Mgr) zeroLatchOuts(f int) {
	for _, lo := range m.aigm.LatchOuts() {
		off := m.frameBase(lo, f)
		for i := 0; i < m.nWordsFrame; i++ {
			m.data[off+i] = 0
		}
	}
}

// propagateFrame evaluates every AND and LatchIn node's words for frame f
// from already-populated fanin words (PIs and, for f>0, latch-outs are
// assumed already populated by randomizePIs/transferLatches). LatchIn
// nodes are copied after every AND node, since a latch-input's driver can
// carry a higher id than the latch-input itself.
func (m *Mgr) propagateFrame(f int) {
	m.aigm.IterTopo(func(n *aig.Node) {
		if n.Type == aig.TypeAnd {
			m.evalAnd(n, f)
		}
	})
	for _, li := range m.aigm.LatchIns() {
		m.copyRef(li, m.aigm.Node(li).Fanin0, f)
	}
}

func (m *Mgr) evalAnd(n *aig.Node, f int) {
	out := m.frameBase(n.ID, f)
	in0 := m.frameBase(n.Fanin0.ID, f)
	in1 := m.frameBase(n.Fanin1.ID, f)
	var c0, c1 uint32
	if n.Fanin0.Inv {
		c0 = ^uint32(0)
	}
	if n.Fanin1.Inv {
		c1 = ^uint32(0)
	}
	for i := 0; i < m.nWordsFrame; i++ {
		w0 := m.data[in0+i] ^ c0
		w1 := m.data[in1+i] ^ c1
		m.data[out+i] = w0 & w1
	}
}

func (m *Mgr) copyRef(dst aig.ID, src aig.Ref, f int) {
	out := m.frameBase(dst, f)
	in := m.frameBase(src.ID, f)
	var c uint32
	if src.Inv {
		c = ^uint32(0)
	}
	for i := 0; i < m.nWordsFrame; i++ {
		m.data[out+i] = m.data[in+i] ^ c
	}
}

// transferLatches copies each latch-input's frame-f words into the
// matching latch-output's frame f+1 words, implementing the register
// semantics "latch-input in frame f feeds latch-output in frame f+1".
func (m *Mgr) transferLatches(f, fNext int) {
	for i, loID := range m.aigm.LatchOuts() {
		liID := m.aigm.LatchIns()[i]
		src := m.frameBase(liID, f)
		dst := m.frameBase(loID, fNext)
		copy(m.data[dst:dst+m.nWordsFrame], m.data[src:src+m.nWordsFrame])
	}
}

// Resimulate injects cex into bit 0 of the first word of every PI's
// pattern in each frame and re-propagates, matching spec.md's
// "resimulate(cex)": "Injects a SAT counter-example into bit 0 of one
// word of the PI pattern and re-propagates; used right after a
// candidate is refuted to trigger class refinement." cex is indexed by
// (frame*numPIs + piIndex).
func (m *Mgr) Resimulate(cex []bool) error {
	pis := m.aigm.PIs()
	want := m.nFrames * len(pis)
	if len(cex) != want {
		return fmt.Errorf("sim: resimulate expects %d cex bits, got %d", want, len(cex))
	}
	idx := 0
	for f := 0; f < m.nFrames; f++ {
		if f == 0 {
			m.zeroLatchOuts(0)
		}
		for _, pi := range pis {
			off := m.frameBase(pi, f)
			bit := uint32(0)
			if cex[idx] {
				bit = 1
			}
			idx++
			m.data[off] = (m.data[off] &^ 1) | bit
		}
		m.propagateFrame(f)
		if f+1 < m.nFrames {
			m.transferLatches(f, f+1)
		}
	}
	return nil
}

// ResimulateSeq is Resimulate generalized to an arbitrary frame-0
// register state instead of the all-zero reset: it injects piCex into
// bit 0 of each frame's first PI word as Resimulate does, but also injects
// initBits into bit 0 of each latch output's first frame-0 word before
// propagating
// (spec.md §4.6: "extract the PI pattern across all frames plus the
// initial register state, inject into the simulator's sequential
// replay"). Used by the induction driver, whose counter-examples arise
// from an unrolling that leaves frame 0's register state free rather
// than pinned to reset.
func (m *Mgr) ResimulateSeq(piCex, initBits []bool) error {
	pis := m.aigm.PIs()
	want := m.nFrames * len(pis)
	if len(piCex) != want {
		return fmt.Errorf("sim: resimulateSeq expects %d pi cex bits, got %d", want, len(piCex))
	}
	los := m.aigm.LatchOuts()
	if len(initBits) != len(los) {
		return fmt.Errorf("sim: resimulateSeq expects %d register bits, got %d", len(los), len(initBits))
	}
	idx := 0
	for f := 0; f < m.nFrames; f++ {
		if f == 0 {
			for i, lo := range los {
				off := m.frameBase(lo, 0)
				bit := uint32(0)
				if initBits[i] {
					bit = 1
				}
				m.data[off] = (m.data[off] &^ 1) | bit
			}
		}
		for _, pi := range pis {
			off := m.frameBase(pi, f)
			bit := uint32(0)
			if piCex[idx] {
				bit = 1
			}
			idx++
			m.data[off] = (m.data[off] &^ 1) | bit
		}
		m.propagateFrame(f)
		if f+1 < m.nFrames {
			m.transferLatches(f, f+1)
		}
	}
	return nil
}

// NPref, NFrames, NWordsFrame expose the sizing parameters this Mgr was
// started with.
func (m *Mgr) NPref() int        { return m.nPref }
func (m *Mgr) NFrames() int      { return m.nFrames }
func (m *Mgr) NWordsFrame() int  { return m.nWordsFrame }
func (m *Mgr) AIG() *aig.Manager { return m.aigm }

// hashedWords returns the word slice for node id across the non-prefix
// frames only — the portion invariant (2)/(3) and node_hash/is_const/
// nodes_equal all operate on (spec.md: "the first nPref frames form the
// prefix and are excluded from hashing").
func (m *Mgr) hashedWords(id aig.ID) []uint32 {
	start := m.base(id) + m.nPref*m.nWordsFrame
	end := m.base(id) + m.wordsTotal
	return m.data[start:end]
}
