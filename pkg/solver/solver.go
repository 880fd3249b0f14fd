// Package solver implements the Newton-Raphson outer loop from spec
// §4.3: allocate the working system, stamp every element each
// iteration, solve the linear correction by dense LU, and report
// convergence or a typed failure.
//
// Grounded on the teacher's pkg/analysis/op.go doNRiter, but following
// spec's textbook update x <- x - A^-1*(A*x - z) rather than the
// original Rust source's x <- A^-1*z shortcut (spec §9, Open
// Questions) and dropping the teacher's gmin-stepping/source-stepping
// convergence aids, which aren't part of this spec's solver contract.
package solver

import (
	"math"

	"github.com/nodalsim/mnacore/internal/consts"
	"github.com/nodalsim/mnacore/pkg/matrix"
	"github.com/nodalsim/mnacore/pkg/mnaerr"
	"github.com/nodalsim/mnacore/pkg/network"
	"gonum.org/v1/gonum/mat"
)

// Config holds the two convergence knobs spec §4.3 names.
type Config struct {
	Tolerance     float64 // absolute tolerance on ||A*x - z||_2; default 1e-4
	MaxIterations int     // default 100
}

// DefaultConfig returns spec §4.3's defaults.
func DefaultConfig() Config {
	return Config{
		Tolerance:     consts.DefaultTolerance,
		MaxIterations: consts.DefaultMaxIterations,
	}
}

// Solver drives Newton-Raphson over a single Network. It holds no
// solve-to-solve state of its own beyond its Config: every Solve call
// starts fresh from x=0, per spec §4.3 step 2 and the "no observable
// state leaks between solves" state-machine note in spec §4.3.
type Solver struct {
	net *network.Network
	cfg Config
}

// New builds a Solver for net with the given config.
func New(net *network.Network, cfg Config) *Solver {
	return &Solver{net: net, cfg: cfg}
}

// Solution is the result of a converged solve: the trial vector x plus
// a reference to the Network, used to answer node_voltage/branch_current
// inspection queries (spec §6). x itself is never changed after the
// solve, so parameter mutations leave it as stale data. Row lookups go
// through the live Network, though: after nodes or elements are added,
// NodeVoltage/BranchCurrent may resolve to rows that no longer match x.
type Solution struct {
	x   []float64
	net *network.Network
}

// NodeVoltage looks up x[row_of_node(nodeID)], returning 0 for ground.
func (s *Solution) NodeVoltage(nodeID int) float64 {
	row, err := s.net.RowOfNode(nodeID)
	if err != nil {
		return 0 // ground, or an id the caller shouldn't have asked about
	}
	return s.x[row]
}

// BranchCurrent returns the branch current of an extra-unknown element
// (only voltage sources reserve one in this spec).
func (s *Solution) BranchCurrent(elementID int) (float64, error) {
	row, err := s.net.RowOfExtraUnknown(elementID)
	if err != nil {
		return 0, err
	}
	return s.x[row], nil
}

// Vector exposes the raw trial solution, length Network.Dimension().
func (s *Solution) Vector() []float64 { return s.x }

// Solve runs Newton-Raphson to convergence or a typed failure, per spec
// §4.3's numbered algorithm.
func (sv *Solver) Solve() (*Solution, error) {
	x, _, _, err := sv.run()
	if err != nil {
		return nil, err
	}
	return &Solution{x: x, net: sv.net}, nil
}

// Trace reports solver introspection (iteration count, final residual
// norm) alongside x. Used by tests to check the "linear networks
// converge in one Newton step" property (spec §8) without reaching into
// solver internals.
type Trace struct {
	Iterations int
	FinalNorm  float64
}

// SolveWithTrace is the same algorithm as Solve, additionally returning
// a Trace. It exists only to make spec §8's convergence-speed property
// assertable from tests — the core contract is Solve.
func (sv *Solver) SolveWithTrace() (*Solution, Trace, error) {
	x, iterations, norm, err := sv.run()
	if err != nil {
		return nil, Trace{Iterations: iterations, FinalNorm: norm}, err
	}
	return &Solution{x: x, net: sv.net}, Trace{Iterations: iterations, FinalNorm: norm}, nil
}

func (sv *Solver) run() (x []float64, iterations int, lastNorm float64, err error) {
	dim := sv.net.Dimension()
	if dim == 0 {
		return []float64{}, 0, 0, nil
	}

	cfg := sv.cfg
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = consts.DefaultTolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = consts.DefaultMaxIterations
	}

	x = make([]float64, dim)
	sys := matrix.New(dim)
	ctx := sv.net.StampContext()
	elements := sv.net.Elements()

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		sys.Clear()

		for _, e := range elements {
			if serr := e.Stamp(ctx, sys, x); serr != nil {
				return nil, iter, 0, serr
			}
		}

		r := sys.Residual(x)
		norm := l2Norm(r)
		iterations = iter
		lastNorm = norm

		if norm < cfg.Tolerance {
			return x, iterations, norm, nil
		}

		delta := mat.NewVecDense(dim, nil)
		if serr := delta.SolveVec(sys.A, mat.NewVecDense(dim, r)); serr != nil {
			return nil, iterations, norm, mnaerr.NewSingularMatrix(iter, serr)
		}

		for i := 0; i < dim; i++ {
			x[i] -= delta.AtVec(i)
		}
	}

	return nil, cfg.MaxIterations, lastNorm, mnaerr.NewMaxIterationsExceeded(cfg.MaxIterations, lastNorm)
}

func l2Norm(v []float64) float64 {
	sum := 0.0
	for _, vi := range v {
		sum += vi * vi
	}
	return math.Sqrt(sum)
}
