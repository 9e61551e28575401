package class

import "github.com/gitrdm/gofraig/aig"

// Oracle is the pluggable refinement capability set the class manager
// refines against (spec.md §4.2 "Oracle plug-in": "The class manager
// stores three function references: node_hash, node_is_const,
// nodes_equal. These are swapped by the BMC driver to the 'equal across
// all prefix frames' variant and then restored."). The simulator
// (package sim) is the normal implementation; the BMC stage supplies an
// alternate one for register-correspondence refinement.
type Oracle interface {
	NodeHash(id aig.ID, tableSize int) int
	IsConst(id aig.ID) bool
	NodesEqual(a, b aig.ID) bool

	// SameSign reports, given NodesEqual(a, b) already holds, whether a
	// and b agree in the same polarity (true) or are related by
	// complementation (false). Its result is unspecified when
	// NodesEqual(a, b) is false. The class manager uses it to record the
	// correct inversion bit on each member's representative reference
	// (spec.md §4.5 "up to complement determined by phases").
	SameSign(a, b aig.ID) bool

	// ConstValue reports the constant value (true means always-1) a node
	// already known to be constant (IsConst(id) == true) simulates to.
	// Its result is unspecified when IsConst(id) is false.
	ConstValue(id aig.ID) bool
}
