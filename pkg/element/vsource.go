package element

import (
	"github.com/nodalsim/mnacore/pkg/matrix"
)

// VoltageSource is an ideal independent voltage source: v(pin0) -
// v(pin1) = V. It introduces one auxiliary branch-current unknown
// (spec §3), so it classifies as ExtraUnknown.
//
// Grounded on the teacher's pkg/device/vsource.go, trimmed to the DC
// case only: the SIN/PULSE/PWL waveform variants and the AC stamp are
// out of scope (transient/AC analysis is a non-goal here). The
// teacher's bias-only accessor (SetValue) is kept as set_voltage from
// spec §6.
type VoltageSource struct {
	basePins
	voltage float64
}

// NewVoltageSource builds a DC voltage source of the given value. Any
// value is acceptable (spec §4.1 gives no constraint on V).
func NewVoltageSource(voltage float64) *VoltageSource {
	return &VoltageSource{voltage: voltage}
}

func (v *VoltageSource) Classify() Classification { return ExtraUnknown }

func (v *VoltageSource) Voltage() float64 { return v.voltage }

// SetVoltage mutates the source's value through its stable id; allowed
// at any time per spec §6 and invalidates any cached solution.
func (v *VoltageSource) SetVoltage(voltage float64) { v.voltage = voltage }

func (v *VoltageSource) Stamp(ctx StampContext, sys matrix.System, _ []float64) error {
	a, aok, c, cok := rowsOf(&v.basePins, ctx)
	k, kok := ctx.RowOfExtraUnknown(v.ID())
	if !kok {
		return nil // no row reserved: nothing to stamp (shouldn't happen for a wired network)
	}

	if aok {
		sys.AddElement(a, k, 1)
		sys.AddElement(k, a, 1)
	}
	if cok {
		sys.AddElement(c, k, -1)
		sys.AddElement(k, c, -1)
	}
	sys.SetRHS(k, v.voltage)
	return nil
}
