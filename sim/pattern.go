package sim

import "fmt"

// Cex is a counter-example pattern: a bit-packed vector of length
// (number of PIs × frames + number of registers), where bit i is the
// value assigned to the i-th combinational input of the unrolled miter
// (spec.md §3 "Counter-example (CEX)").
type Cex struct {
	Bits    []bool
	NumPIs  int // PIs per frame, for decoding Bits into per-frame slices
	NumRegs int // trailing register-init bits, used by the induction driver
}

// PIFrame returns the PI bits belonging to frame f.
func (c *Cex) PIFrame(f int) []bool {
	start := f * c.NumPIs
	return c.Bits[start : start+c.NumPIs]
}

// RegBits returns the trailing register-initialization bits.
func (c *Cex) RegBits() []bool {
	start := len(c.Bits) - c.NumRegs
	return c.Bits[start:]
}

// SavePattern copies a SAT model's PI assignments into a freshly built
// Cex, reading one bit per entry of piVars via value (spec.md §4.1
// "save_pattern(mgr, model, nPiVars)"). numFrames and numRegs size the
// Cex for callers that need to distinguish per-frame PI bits from
// trailing register bits (used by the induction driver's counter-example
// lifting); pass numRegs=0 for purely combinational callers.
func SavePattern(value func(piVar int) bool, piVars []int, numFrames, numRegs int) (*Cex, error) {
	if numFrames <= 0 {
		return nil, fmt.Errorf("sim: SavePattern requires numFrames > 0, got %d", numFrames)
	}
	if len(piVars)%numFrames != 0 {
		return nil, fmt.Errorf("sim: len(piVars)=%d not divisible by numFrames=%d", len(piVars), numFrames)
	}
	numPIs := len(piVars) / numFrames
	bits := make([]bool, len(piVars)+numRegs)
	for i, v := range piVars {
		bits[i] = value(v)
	}
	return &Cex{Bits: bits, NumPIs: numPIs, NumRegs: numRegs}, nil
}

// SetPendingFromCex stages c for the next plain Resimulate call that
// reads directly from the Mgr's own pending buffer rather than a
// caller-supplied slice — used when the SAT prover and the simulator are
// driven from the same sweep loop and want to avoid re-threading the
// pattern through intermediate calls.
func (m *Mgr) SetPendingFromCex(c *Cex) error {
	if c.NumPIs != len(m.aigm.PIs()) {
		return fmt.Errorf("sim: cex has %d PIs per frame, manager has %d", c.NumPIs, len(m.aigm.PIs()))
	}
	m.pendingCex = c
	return nil
}

// ResimulatePending re-propagates using the pattern staged by the most
// recent SetPendingFromCex call.
func (m *Mgr) ResimulatePending() error {
	if m.pendingCex == nil {
		return fmt.Errorf("sim: no pending counter-example pattern staged")
	}
	bits := m.pendingCex.Bits
	want := m.nFrames * len(m.aigm.PIs())
	if len(bits) < want {
		return fmt.Errorf("sim: pending cex too short: have %d bits, need %d", len(bits), want)
	}
	return m.Resimulate(bits[:want])
}
