package element

import (
	"fmt"

	"github.com/nodalsim/mnacore/pkg/matrix"
	"github.com/nodalsim/mnacore/pkg/mnaerr"
)

// Diode is the spec's piecewise-linear diode model (spec §3):
//
//	I(Vd) = 0                  if Vd <= Vthr
//	I(Vd) = Gd * (Vd - Vthr)   if Vd >  Vthr
//
// where Vd = v(anode) - v(cathode), anode = pin0, cathode = pin1. It is
// linearized at the current trial solution on every Newton iteration,
// so it classifies as NonlinearPassive.
//
// Grounded on the teacher's pkg/device/diode.go shape (node-row stamp,
// companion-model RHS term) but replacing its exponential Shockley
// model (Is/N/thermal-voltage) with the two-segment model spec §3
// prescribes, which exists specifically to guarantee Newton convergence
// (see GLOSSARY) — the exponential model, junction capacitance, and AC
// admittance stamp are all out of scope here.
type Diode struct {
	basePins
	vThr float64
	gD   float64
}

// NewDiode validates Vthr >= 0 and Gd > 0 per spec §4.1.
func NewDiode(vThr, gD float64) (*Diode, error) {
	if vThr < 0 {
		return nil, mnaerr.NewConfigurationError("add_diode", fmt.Sprintf("V_thr must be >= 0, got %g", vThr))
	}
	if gD <= 0 {
		return nil, mnaerr.NewConfigurationError("add_diode", fmt.Sprintf("G_d must be > 0, got %g", gD))
	}
	return &Diode{vThr: vThr, gD: gD}, nil
}

func (d *Diode) Classify() Classification { return NonlinearPassive }

func (d *Diode) Threshold() float64   { return d.vThr }
func (d *Diode) Conductance() float64 { return d.gD }

// operatingVoltage reads Vd* off the current trial solution x, treating
// an absent pin (ground or unconnected) as 0 V and a nil x (the very
// first stamp, before any trial solution exists) as the all-zero
// operating point spec §9's Newton loop starts from.
func (d *Diode) operatingVoltage(ctx StampContext, x []float64) float64 {
	var va, vc float64
	if n, wired := d.PinNode(0); wired && x != nil {
		if row, ok := ctx.RowOfNode(n); ok {
			va = x[row]
		}
	}
	if n, wired := d.PinNode(1); wired && x != nil {
		if row, ok := ctx.RowOfNode(n); ok {
			vc = x[row]
		}
	}
	return va - vc
}

func (d *Diode) Stamp(ctx StampContext, sys matrix.System, x []float64) error {
	vd := d.operatingVoltage(ctx, x)

	g := 0.0
	if vd > d.vThr {
		g = d.gD
	}

	a, aok, c, cok := rowsOf(&d.basePins, ctx)

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

	if vd > d.vThr {
		companion := d.vThr * d.gD
		if aok {
			sys.AddRHS(a, companion)
		}
		if cok {
			sys.AddRHS(c, -companion)
		}
	}
	return nil
}
