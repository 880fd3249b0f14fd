package network

import (
	"fmt"

	"github.com/nodalsim/mnacore/pkg/element"
	"github.com/nodalsim/mnacore/pkg/mnaerr"
)

// AddResistor builds and installs a resistor of resistance R, clamping
// a non-positive value to a small positive floor rather than rejecting
// it (spec §4.1's documented clamp-on-zero behavior). Use
// element.NewResistor directly with clampOnZero=false plus AddElement
// if construction errors on non-positive R are preferred instead.
func (n *Network) AddResistor(resistance float64) (int, error) {
	r, err := element.NewResistor(resistance, true)
	if err != nil {
		return 0, err
	}
	return n.AddElement(r), nil
}

// AddDiode builds and installs the piecewise-linear diode with the
// given threshold and on-conductance.
func (n *Network) AddDiode(vThr, gD float64) (int, error) {
	d, err := element.NewDiode(vThr, gD)
	if err != nil {
		return 0, err
	}
	return n.AddElement(d), nil
}

// AddVoltageSource builds and installs an ideal DC voltage source.
func (n *Network) AddVoltageSource(voltage float64) int {
	return n.AddElement(element.NewVoltageSource(voltage))
}

// AddCurrentSource builds and installs an ideal DC current source.
func (n *Network) AddCurrentSource(current float64) int {
	return n.AddElement(element.NewCurrentSource(current))
}

// SetVoltage mutates a voltage source's value through its stable id
// (spec §6). Invalidates any cached solution — callers must re-solve.
func (n *Network) SetVoltage(elementID int, voltage float64) error {
	e, err := n.elementByID(elementID)
	if err != nil {
		return err
	}
	v, ok := e.(*element.VoltageSource)
	if !ok {
		return mnaerr.WrapConfigurationError(ErrWrongElementKind, "set_voltage", fmt.Sprintf("element %d is not a voltage source", elementID))
	}
	v.SetVoltage(voltage)
	return nil
}

// SetResistance mutates a resistor's value through its stable id (spec
// §6), clamping a non-positive value per spec §4.1.
func (n *Network) SetResistance(elementID int, resistance float64) error {
	e, err := n.elementByID(elementID)
	if err != nil {
		return err
	}
	r, ok := e.(*element.Resistor)
	if !ok {
		return mnaerr.WrapConfigurationError(ErrWrongElementKind, "set_resistance", fmt.Sprintf("element %d is not a resistor", elementID))
	}
	return r.SetResistance(resistance, true)
}
