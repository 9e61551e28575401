package engine

import (
	"log"
	"time"

	"github.com/gitrdm/gofraig/satprove"
)

// Config parameterizes one engine run, invariant across the call (spec.md
// §6's configuration table). Field names follow Go convention; comments
// give the ABC-era flag each one replaces.
type Config struct {
	// NumSimWords is the simulation words per frame (nSimWords, default
	// 32 ≡ 1024 patterns/frame).
	NumSimWords int

	// SimSaturation is the class-shrink ratio below which simulation is
	// deemed saturated (dSimSatur, default 0.005).
	SimSaturation float64

	// ConflictUnit is the wall-clock duration treated as one SAT
	// conflict-budget unit (satprove.Budget.ConflictUnit).
	ConflictUnit time.Duration

	// NodeBudget and MiterBudget are nBTLimitNode/nBTLimitMiter: the base
	// per-call SAT conflict budget for a single-node query and a
	// two-node/miter query respectively.
	NodeBudget  int
	MiterBudget int

	// GlobalConflictBudget is the running conflict-budget ceiling across
	// the whole run (nBTLimitGlobal); 0 disables the global cap.
	GlobalConflictBudget int

	// NumFramesPrefix and NumFramesK are nFramesP/nFramesK: the BMC
	// prefix length and the induction unrolling depth.
	NumFramesPrefix int
	NumFramesK      int

	// Speculate toggles substituting class representatives during
	// timeframe unrolling (fSpeculate). The induction driver in this
	// module always speculates — spec.md never describes a non-
	// speculative unrolling mode — so this flag exists for interface
	// completeness; no code path reads it, and setting it false has no
	// effect.
	Speculate bool

	// SkipSparseConst is fDoSparse. No code path reads it: classes that
	// have simulated as Const0 many rounds running are re-proved like any
	// other, whatever its value. See DESIGN.md's engine entry for this
	// scoping decision.
	SkipSparseConst bool

	// ConeBias is fConeBias plus its two tunables, passed straight
	// through to satprove.ConeBiasConfig.
	ConeBias satprove.ConeBiasConfig

	// LatchCorr is fLatchCorr: restrict candidate classes to
	// latch-output nodes only (register correspondence mode).
	LatchCorr bool

	// Rewrite is fRewrite: run AIG rewriting on speculative timeframes
	// before the prover. Not implemented — see DESIGN.md's engine entry;
	// the field is retained so Config's shape matches spec.md §6
	// completely and a caller setting it observes an explicit error
	// rather than a silently ignored flag.
	Rewrite bool

	// Seed is the simulator's xorshift32 seed, required for the
	// determinism property in spec.md §8.
	Seed uint32

	// MaxInductionIters bounds the induction loop's refine/rebuild
	// rounds (induction.Config.MaxIters).
	MaxInductionIters int

	// UseImplications is fUseImps: threaded straight through to
	// induction.Config.UseImplications. Off by default, matching the
	// original's own default.
	UseImplications bool

	// Logger receives progress messages; nil disables logging entirely
	// (every call site on this field is a nil-checked guard, never a
	// bare field store, mirroring the teacher's "safe to call on nil"
	// monitor convention).
	Logger *log.Logger
}

// DefaultConfig returns the semantic defaults named in spec.md §6 for a
// combinational run (NumFramesPrefix/NumFramesK both 0 — call
// RunSequential or set them directly for a sequential run).
func DefaultConfig() Config {
	return Config{
		NumSimWords:       32,
		SimSaturation:     0.005,
		ConflictUnit:      10 * time.Microsecond,
		NodeBudget:        100,
		MiterBudget:       500_000,
		NumFramesPrefix:   0,
		NumFramesK:        0,
		Speculate:         true,
		SkipSparseConst:   true,
		ConeBias:          satprove.ConeBiasConfig{ConeRatio: 0.3, BumpMax: 5.0, Enabled: true},
		LatchCorr:         false,
		Rewrite:           false,
		Seed:              1,
		MaxInductionIters: 64,
		UseImplications:   false,
	}
}

func (c Config) logf(format string, args ...any) {
	if c.Logger == nil {
		return
	}
	c.Logger.Printf(format, args...)
}
