package walk

import (
	"context"

	"gonum.org/v1/gonum/floats"
)

// Config holds the solver parameters. Validation happens at detector
// construction; the solver assumes the values are sane.
type Config struct {
	// Alpha is the damping factor in (0, 1]: each step keeps alpha of the
	// walked mass and redistributes 1-alpha uniformly.
	Alpha float64
	// Tol is the L1 convergence tolerance on successive iterates.
	Tol float64
	// MaxIter caps the number of power-iteration passes.
	MaxIter int
}

// Info reports how a solve went. Non-convergence is a soft condition:
// the returned vector is the best effort reached at the iteration cap.
type Info struct {
	Iterations int
	Converged  bool
	Residual   float64
	Components int
}

// Stationary computes the stationary distribution of the biased walk by
// damped power iteration:
//
//	pi' = alpha * M^T pi + (1-alpha) * u
//
// with u uniform, renormalizing after every pass so the vector always sums
// to 1. Iteration starts from the uniform vector and stops when the L1
// change between passes drops below cfg.Tol or cfg.MaxIter is reached.
// Disconnected components each settle to their own equilibrium; the global
// vector still sums to 1. An empty matrix yields an empty vector.
//
// The context is checked between passes so long solves can be abandoned.
func Stationary(ctx context.Context, m *Matrix, cfg Config) ([]float64, Info, error) {
	n := m.Dim()
	if n == 0 {
		return nil, Info{Converged: true}, nil
	}

	info := Info{Components: ComponentCount(m)}

	uniform := 1 / float64(n)
	pi := make([]float64, n)
	next := make([]float64, n)
	for i := range pi {
		pi[i] = uniform
	}

	teleport := (1 - cfg.Alpha) * uniform
	for it := 1; it <= cfg.MaxIter; it++ {
		if err := ctx.Err(); err != nil {
			return nil, info, err
		}

		for j := range next {
			next[j] = teleport
		}
		for i, row := range m.rows {
			w := cfg.Alpha * pi[i]
			if w == 0 {
				continue
			}
			for _, e := range row {
				next[e.col] += w * e.p
			}
		}
		// Rows with no outgoing mass leak walked probability; renormalize
		// so the vector remains a distribution.
		if sum := floats.Sum(next); sum > 0 {
			floats.Scale(1/sum, next)
		}

		info.Iterations = it
		info.Residual = floats.Distance(pi, next, 1)
		pi, next = next, pi
		if info.Residual <= cfg.Tol {
			info.Converged = true
			break
		}
	}

	if sum := floats.Sum(pi); sum > 0 {
		floats.Scale(1/sum, pi)
	}
	return pi, info, nil
}
