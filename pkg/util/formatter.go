// Package util holds small presentation helpers for cmd/spice; nothing
// here affects solve() itself.
//
// Grounded on the teacher's pkg/util/formatter.go FormatValueFactor,
// folded down to the two units this core ever emits — node voltages
// and branch currents — and dropping FormatFrequency/
// FormatMagnitudePhase, which exist in the teacher only to print AC
// sweep results.
package util

import (
	"fmt"
	"math"
)

// FormatVoltage renders a node voltage with an SI prefix sized to its
// magnitude, e.g. FormatVoltage(0.0131) -> "13.100 mV".
func FormatVoltage(value float64) string { return formatValueFactor(value, "V") }

// FormatCurrent renders a branch current the same way, e.g.
// FormatCurrent(0.0131) -> "13.100 mA".
func FormatCurrent(value float64) string { return formatValueFactor(value, "A") }

func formatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}
