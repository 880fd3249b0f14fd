// Package element implements the device library from spec §4.1: the
// four element kinds (resistor, independent voltage/current source,
// piecewise-linear diode), their classification, and their stamp rules.
//
// The teacher's open Device/NonLinear/TimeDependent/ACElement interface
// zoo (pkg/device/device.go) existed to support transient and AC
// analysis, both out of scope here (spec §1 Non-goals). This package
// collapses that down to the single closed contract spec §4.1 actually
// asks for: PinCount, Classify, Stamp.
package element

import "github.com/nodalsim/mnacore/pkg/matrix"

// Classification drives solver dispatch (spec §4.1).
type Classification int

const (
	// PassiveLinear elements (resistor, independent current source)
	// contribute only to the existing node rows.
	PassiveLinear Classification = iota
	// ExtraUnknown elements (independent voltage source) introduce an
	// auxiliary branch-current unknown and its own MNA row.
	ExtraUnknown
	// NonlinearPassive elements (the diode) are linearized at the
	// current trial solution on every Newton iteration.
	NonlinearPassive
)

func (c Classification) String() string {
	switch c {
	case PassiveLinear:
		return "passive_linear"
	case ExtraUnknown:
		return "extra_unknown"
	case NonlinearPassive:
		return "nonlinear_passive"
	default:
		return "unknown"
	}
}

// StampContext is the read-only view into the Network a stamp needs:
// row lookups for node voltages and, for ExtraUnknown elements, for
// their own branch-current row. Both return ok=false when the row is
// absent (ground, or no extra unknown reserved) — spec §4.1 says any
// stamp term referencing an absent row is simply dropped.
type StampContext interface {
	RowOfNode(nodeID int) (row int, ok bool)
	RowOfExtraUnknown(elementID int) (row int, ok bool)
}

// Element is the closed contract every device kind satisfies.
type Element interface {
	ID() int
	SetID(id int)

	PinCount() int
	Classify() Classification

	// Connect records that pinIndex is wired to nodeID. Network is the
	// source of truth for this mapping (spec §3, "connections"); this
	// mirrors it onto the element so Stamp can resolve its own pins'
	// rows via ctx without Network having to know each element's
	// internal stamp shape.
	Connect(pinIndex, nodeID int) error
	// PinNode reports the node an element's pin is wired to, or
	// ok=false if that pin is unconnected.
	PinNode(pinIndex int) (nodeID int, ok bool)

	// Stamp adds this element's contribution to (A, z), given the
	// current trial solution x (ignored by elements that don't need
	// it). x may be nil on an element's very first stamp before any
	// trial solution exists; NonlinearPassive elements must treat a
	// nil x as an all-zero operating point.
	Stamp(ctx StampContext, sys matrix.System, x []float64) error
}

// basePins gives every element a fixed 2-pin connection table and the
// bookkeeping Connect/PinNode need. Mirrors the teacher's BaseDevice
// embedding pattern (pkg/device/device.go) generalized to pin/node ids
// instead of pre-resolved row indices.
type basePins struct {
	id    int
	nodes [2]int
	wired [2]bool
}

func (b *basePins) ID() int       { return b.id }
func (b *basePins) SetID(id int)  { b.id = id }
func (b *basePins) PinCount() int { return 2 }

func (b *basePins) Connect(pinIndex, nodeID int) error {
	if pinIndex < 0 || pinIndex >= 2 {
		return pinOutOfRangeError(pinIndex)
	}
	b.nodes[pinIndex] = nodeID
	b.wired[pinIndex] = true
	return nil
}

func (b *basePins) PinNode(pinIndex int) (int, bool) {
	if pinIndex < 0 || pinIndex >= 2 {
		return 0, false
	}
	return b.nodes[pinIndex], b.wired[pinIndex]
}

// rowsOf resolves an element's two pins to MNA rows through ctx,
// returning ok=false per row when that pin is unconnected or grounded.
func rowsOf(b *basePins, ctx StampContext) (a int, aok bool, c int, cok bool) {
	if n, wired := b.PinNode(0); wired {
		a, aok = ctx.RowOfNode(n)
	}
	if n, wired := b.PinNode(1); wired {
		c, cok = ctx.RowOfNode(n)
	}
	return
}
