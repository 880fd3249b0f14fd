package solver_test

import (
	"errors"
	"math"
	"testing"

	"github.com/nodalsim/mnacore/pkg/mnaerr"
	"github.com/nodalsim/mnacore/pkg/network"
	"github.com/nodalsim/mnacore/pkg/solver"
)

func approxEqual(t *testing.T, got, want, tol float64, what string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %g, want %g (tol %g)", what, got, want, tol)
	}
}

// Scenario 1 (spec §8): voltage divider.
func TestVoltageDivider(t *testing.T) {
	net := network.New()
	n1 := net.AddNode()
	n2 := net.AddNode()

	v1 := net.AddVoltageSource(5)
	must(t, net.Connect(v1, 0, n1))
	must(t, net.ConnectToGround(v1, 1))

	r1, err := net.AddResistor(330)
	must(t, err)
	must(t, net.Connect(r1, 0, n1))
	must(t, net.Connect(r1, 1, n2))

	r2, err := net.AddResistor(170)
	must(t, err)
	must(t, net.Connect(r2, 0, n2))
	must(t, net.ConnectToGround(r2, 1))

	sol, err := solver.New(net, solver.DefaultConfig()).Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	approxEqual(t, sol.NodeVoltage(n1), 5.0, 1e-3, "v(N1)")
	approxEqual(t, sol.NodeVoltage(n2), 5.0*170.0/500.0, 1e-3, "v(N2)")

	i, err := sol.BranchCurrent(v1)
	if err != nil {
		t.Fatal(err)
	}
	approxEqual(t, i, -0.01, 1e-4, "I(V1)")
}

// Scenario 2 (spec §8): single source, single resistor to ground.
func TestSingleSourceSingleResistor(t *testing.T) {
	net := network.New()
	n1 := net.AddNode()

	v1 := net.AddVoltageSource(5)
	must(t, net.Connect(v1, 0, n1))
	must(t, net.ConnectToGround(v1, 1))

	r1, err := net.AddResistor(5)
	must(t, err)
	must(t, net.Connect(r1, 0, n1))
	must(t, net.ConnectToGround(r1, 1))

	sol, err := solver.New(net, solver.DefaultConfig()).Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	approxEqual(t, sol.NodeVoltage(n1), 5.0, 1e-3, "v(N1)")
	i, err := sol.BranchCurrent(v1)
	if err != nil {
		t.Fatal(err)
	}
	approxEqual(t, i, -1.0, 1e-3, "I(V1)")
}

// Scenario 3 (spec §8): open branch — no current, no drop.
func TestOpenBranch(t *testing.T) {
	net := network.New()
	n1 := net.AddNode()
	n2 := net.AddNode()

	v1 := net.AddVoltageSource(5)
	must(t, net.Connect(v1, 0, n1))
	must(t, net.ConnectToGround(v1, 1))

	r1, err := net.AddResistor(330)
	must(t, err)
	must(t, net.Connect(r1, 0, n1))
	must(t, net.Connect(r1, 1, n2)) // n2 has no other connection

	sol, err := solver.New(net, solver.DefaultConfig()).Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	approxEqual(t, sol.NodeVoltage(n1), 5.0, 1e-3, "v(N1)")
	approxEqual(t, sol.NodeVoltage(n2), 5.0, 1e-3, "v(N2)")
	i, err := sol.BranchCurrent(v1)
	if err != nil {
		t.Fatal(err)
	}
	approxEqual(t, i, 0.0, 1e-3, "I(V1)")
}

// Scenario 4 (spec §8): diode off.
func TestDiodeOff(t *testing.T) {
	net := network.New()
	n1 := net.AddNode()
	n2 := net.AddNode()

	v1 := net.AddVoltageSource(0.5)
	must(t, net.Connect(v1, 0, n1))
	must(t, net.ConnectToGround(v1, 1))

	r1, err := net.AddResistor(330)
	must(t, err)
	must(t, net.Connect(r1, 0, n1))
	must(t, net.Connect(r1, 1, n2))

	d1, err := net.AddDiode(0.674, 0.191)
	must(t, err)
	must(t, net.Connect(d1, 0, n2)) // anode
	must(t, net.ConnectToGround(d1, 1))

	sol, err := solver.New(net, solver.DefaultConfig()).Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	approxEqual(t, sol.NodeVoltage(n2), 0.5, 1e-3, "v(N2)")
}

// Scenario 5 (spec §8): diode on.
func TestDiodeOn(t *testing.T) {
	net := network.New()
	n1 := net.AddNode()
	n2 := net.AddNode()

	v1 := net.AddVoltageSource(5)
	must(t, net.Connect(v1, 0, n1))
	must(t, net.ConnectToGround(v1, 1))

	r1, err := net.AddResistor(330)
	must(t, err)
	must(t, net.Connect(r1, 0, n1))
	must(t, net.Connect(r1, 1, n2))

	d1, err := net.AddDiode(0.674, 0.191)
	must(t, err)
	must(t, net.Connect(d1, 0, n2))
	must(t, net.ConnectToGround(d1, 1))

	sol, trace, err := solver.New(net, solver.DefaultConfig()).SolveWithTrace()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if trace.Iterations > 10 {
		t.Errorf("converged in %d iterations, want <= ~10", trace.Iterations)
	}

	vN2 := sol.NodeVoltage(n2)
	if vN2 <= 0.674 {
		t.Errorf("v(N2) = %g, want > V_thr (0.674)", vN2)
	}
	// KCL at N2: (5-v)/330 = 0.191*(v-0.674) => v = 47.48222/64.03 ~= 0.74156.
	approxEqual(t, vN2, 0.74156, 2e-3, "v(N2)")

	resistorCurrent := (sol.NodeVoltage(n1) - vN2) / 330.0
	diodeCurrent := 0.191 * (vN2 - 0.674)
	approxEqual(t, resistorCurrent, diodeCurrent, 1e-3, "resistor vs diode current")
	approxEqual(t, diodeCurrent, 0.0129, 2e-3, "I(D1)")
}

// Scenario 6 (spec §8): singular network.
func TestSingularNetwork(t *testing.T) {
	net := network.New()
	v1 := net.AddVoltageSource(5)
	must(t, net.ConnectToGround(v1, 0))
	must(t, net.ConnectToGround(v1, 1))

	_, err := solver.New(net, solver.DefaultConfig()).Solve()
	if err == nil {
		t.Fatal("Solve on a voltage source shorted to ground: want SingularMatrix, got nil error")
	}
	var singular *mnaerr.SingularMatrix
	if !errors.As(err, &singular) {
		t.Fatalf("Solve error = %v (%T), want *mnaerr.SingularMatrix", err, err)
	}
}

// spec §8 universal invariant: reordering resistors must not change x
// except by floating-point rounding.
func TestReorderingResistorsDoesNotChangeSolution(t *testing.T) {
	build := func(r1First bool) *solver.Solution {
		net := network.New()
		n1 := net.AddNode()
		n2 := net.AddNode()

		v1 := net.AddVoltageSource(5)
		must(t, net.Connect(v1, 0, n1))
		must(t, net.ConnectToGround(v1, 1))

		addR1 := func() {
			r1, err := net.AddResistor(330)
			must(t, err)
			must(t, net.Connect(r1, 0, n1))
			must(t, net.Connect(r1, 1, n2))
		}
		addR2 := func() {
			r2, err := net.AddResistor(170)
			must(t, err)
			must(t, net.Connect(r2, 0, n2))
			must(t, net.ConnectToGround(r2, 1))
		}

		if r1First {
			addR1()
			addR2()
		} else {
			addR2()
			addR1()
		}

		sol, err := solver.New(net, solver.DefaultConfig()).Solve()
		must(t, err)
		return sol
	}

	a := build(true)
	b := build(false)

	if len(a.Vector()) != len(b.Vector()) {
		t.Fatalf("dimension changed across reordering: %d vs %d", len(a.Vector()), len(b.Vector()))
	}
	for i := range a.Vector() {
		approxEqual(t, a.Vector()[i], b.Vector()[i], 1e-9, "x[i] across resistor reordering")
	}
}

// spec §8 universal invariant: reordering voltage sources changes
// branch-current ordering but not node voltages.
func TestReorderingVoltageSourcesPreservesNodeVoltages(t *testing.T) {
	build := func(vaFirst bool) (*solver.Solution, int, int) {
		net := network.New()
		n1 := net.AddNode()
		n2 := net.AddNode()

		addVA := func() int {
			id := net.AddVoltageSource(5)
			must(t, net.Connect(id, 0, n1))
			must(t, net.ConnectToGround(id, 1))
			return id
		}
		addVB := func() int {
			id := net.AddVoltageSource(2)
			must(t, net.Connect(id, 0, n2))
			must(t, net.ConnectToGround(id, 1))
			return id
		}

		var va, vb int
		if vaFirst {
			va = addVA()
			vb = addVB()
		} else {
			vb = addVB()
			va = addVA()
		}

		sol, err := solver.New(net, solver.DefaultConfig()).Solve()
		must(t, err)
		return sol, va, vb
	}

	solA, vaA, _ := build(true)
	solB, vaB, _ := build(false)

	approxEqual(t, solA.NodeVoltage(1), solB.NodeVoltage(1), 1e-9, "v(N1) across voltage-source reordering")
	approxEqual(t, solA.NodeVoltage(2), solB.NodeVoltage(2), 1e-9, "v(N2) across voltage-source reordering")

	iA, err := solA.BranchCurrent(vaA)
	must(t, err)
	iB, err := solB.BranchCurrent(vaB)
	must(t, err)
	approxEqual(t, iA, iB, 1e-9, "I(VA) across voltage-source reordering")

	// VA's element id itself changes with insertion order (it's the
	// first or second element added); network_test.go's
	// TestRowOfExtraUnknownInsertionOrder covers the row-assignment
	// side of this invariant directly.
	if vaFirst := vaA == 0; vaFirst == (vaB == 0) {
		t.Fatalf("expected VA's element id to differ in insertion-order position: vaA=%d vaB=%d", vaA, vaB)
	}
}

// spec §8: calling Solve twice on an unchanged Network yields
// bit-identical x.
func TestIdempotence(t *testing.T) {
	net := network.New()
	n1 := net.AddNode()

	v1 := net.AddVoltageSource(5)
	must(t, net.Connect(v1, 0, n1))
	must(t, net.ConnectToGround(v1, 1))

	r1, err := net.AddResistor(5)
	must(t, err)
	must(t, net.Connect(r1, 0, n1))
	must(t, net.ConnectToGround(r1, 1))

	sv := solver.New(net, solver.DefaultConfig())
	sol1, err := sv.Solve()
	must(t, err)
	sol2, err := sv.Solve()
	must(t, err)

	for i := range sol1.Vector() {
		if sol1.Vector()[i] != sol2.Vector()[i] {
			t.Fatalf("solve is not idempotent at index %d: %g vs %g", i, sol1.Vector()[i], sol2.Vector()[i])
		}
	}
}

// spec §8: purely linear networks converge in exactly one Newton step.
func TestLinearNetworkConvergesInOneStep(t *testing.T) {
	net := network.New()
	n1 := net.AddNode()
	n2 := net.AddNode()

	v1 := net.AddVoltageSource(5)
	must(t, net.Connect(v1, 0, n1))
	must(t, net.ConnectToGround(v1, 1))

	r1, err := net.AddResistor(330)
	must(t, err)
	must(t, net.Connect(r1, 0, n1))
	must(t, net.Connect(r1, 1, n2))

	r2, err := net.AddResistor(170)
	must(t, err)
	must(t, net.Connect(r2, 0, n2))
	must(t, net.ConnectToGround(r2, 1))

	_, trace, err := solver.New(net, solver.DefaultConfig()).SolveWithTrace()
	must(t, err)
	if trace.Iterations != 1 {
		t.Fatalf("linear network converged in %d iterations, want 1", trace.Iterations)
	}
}

// spec §8: dimension() formula.
func TestDimensionFormula(t *testing.T) {
	net := network.New()
	n1 := net.AddNode()
	net.AddNode()

	v1 := net.AddVoltageSource(1)
	must(t, net.Connect(v1, 0, n1))
	must(t, net.ConnectToGround(v1, 1))

	r1, err := net.AddResistor(100)
	must(t, err)
	must(t, net.Connect(r1, 0, n1))
	must(t, net.ConnectToGround(r1, 1))

	want := net.NonGroundNodeCount() + 1 // one extra-unknown element (v1)
	if got := net.Dimension(); got != want {
		t.Fatalf("Dimension() = %d, want %d", got, want)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
