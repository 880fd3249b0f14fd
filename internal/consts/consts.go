// Package consts holds the small set of numeric defaults shared across
// the element, network, and solver packages.
package consts

const (
	// GroundNode is the reserved id of the reference (zero-potential) node.
	// It always exists and never receives an MNA row/column.
	GroundNode = 0

	// DefaultTolerance is the default absolute tolerance on the residual
	// 2-norm a Newton-Raphson solve converges against.
	DefaultTolerance = 1e-4

	// DefaultMaxIterations bounds the work a single solve can do.
	DefaultMaxIterations = 100

	// MinResistance is the floor a zero or negative resistance is clamped
	// to when clamp-on-zero behavior is requested, to avoid a division by
	// zero when computing conductance.
	MinResistance = 1e-9
)
