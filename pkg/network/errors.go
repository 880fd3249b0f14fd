package network

import "errors"

// ErrGroundHasNoRow is returned by RowOfNode for the ground node: it is
// not a failure, just the "None" case spec §4.2 documents — ground is
// never assigned a row.
var ErrGroundHasNoRow = errors.New("ground node has no row")

// ErrNotExtraUnknown is the cause wrapped into the ConfigurationError
// that RowOfExtraUnknown (and so branch_current) returns for an element
// that doesn't introduce a branch current.
var ErrNotExtraUnknown = errors.New("element does not introduce an extra unknown")

// ErrWrongElementKind is returned when a mutation/inspection call is
// made against an element id of the wrong device kind, e.g.
// SetResistance on a diode.
var ErrWrongElementKind = errors.New("element is not of the expected kind")
