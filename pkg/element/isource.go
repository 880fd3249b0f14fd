package element

import "github.com/nodalsim/mnacore/pkg/matrix"

// CurrentSource is an ideal independent current source: it injects I
// into pin0 and extracts I from pin1. Purely a right-hand-side
// contribution, so it classifies as PassiveLinear (it needs no
// auxiliary unknown).
//
// Grounded on the teacher's pkg/device/isource.go, trimmed to DC only
// (SIN/PULSE/PWL/AC are transient/AC features, out of scope here).
type CurrentSource struct {
	basePins
	current float64
}

// NewCurrentSource builds a DC current source of the given value.
func NewCurrentSource(current float64) *CurrentSource {
	return &CurrentSource{current: current}
}

func (i *CurrentSource) Classify() Classification { return PassiveLinear }

func (i *CurrentSource) Current() float64 { return i.current }

// SetCurrent mutates the source's value through its stable id.
func (i *CurrentSource) SetCurrent(current float64) { i.current = current }

func (i *CurrentSource) Stamp(ctx StampContext, sys matrix.System, _ []float64) error {
	a, aok, c, cok := rowsOf(&i.basePins, ctx)

	if aok {
		sys.AddRHS(a, i.current)
	}
	if cok {
		sys.AddRHS(c, -i.current)
	}
	return nil
}
