package element

import (
	"fmt"

	"github.com/nodalsim/mnacore/internal/consts"
	"github.com/nodalsim/mnacore/pkg/matrix"
	"github.com/nodalsim/mnacore/pkg/mnaerr"
)

// Resistor is a linear two-terminal element of conductance G = 1/R.
// Grounded on the teacher's pkg/device/resistor.go Stamp, dropping its
// temperature-coefficient model (Tc1/Tc2/Tnom) — a transient/thermal
// refinement this spec doesn't call for — and its AC-mode branch, since
// AC analysis is out of scope here.
type Resistor struct {
	basePins
	resistance float64
}

// NewResistor validates resistance > 0 per spec §4.1. If clampOnZero is
// true, a non-positive value is clamped to consts.MinResistance instead
// of being rejected; the clamp is documented here per spec's
// "implementations may clamp ... but must document the behavior".
func NewResistor(resistance float64, clampOnZero bool) (*Resistor, error) {
	if resistance <= 0 {
		if !clampOnZero {
			return nil, mnaerr.NewConfigurationError("add_resistor", fmt.Sprintf("resistance must be > 0, got %g", resistance))
		}
		resistance = consts.MinResistance
	}
	return &Resistor{resistance: resistance}, nil
}

func (r *Resistor) Classify() Classification { return PassiveLinear }

func (r *Resistor) Resistance() float64 { return r.resistance }

// SetResistance mutates the element's parameter through its stable id
// (spec §9's "shared mutable element ownership" note); it invalidates
// any previously computed solution but does not itself track that —
// callers re-solve.
func (r *Resistor) SetResistance(resistance float64, clampOnZero bool) error {
	if resistance <= 0 {
		if !clampOnZero {
			return mnaerr.NewConfigurationError("set_resistance", fmt.Sprintf("resistance must be > 0, got %g", resistance))
		}
		resistance = consts.MinResistance
	}
	r.resistance = resistance
	return nil
}

func (r *Resistor) Stamp(ctx StampContext, sys matrix.System, _ []float64) error {
	g := 1.0 / r.resistance
	a, aok, c, cok := rowsOf(&r.basePins, ctx)

	if aok {
		sys.AddElement(a, a, g)
	}
	if cok {
		sys.AddElement(c, c, g)
	}
	if aok && cok {
		sys.AddElement(a, c, -g)
		sys.AddElement(c, a, -g)
	}
	return nil
}
