package walk

import (
	"math"
	"sort"

	"github.com/hupe1980/cbrw/counter"
)

// Matrix is a sparse row-indexed transition matrix over item indices.
// Row i holds the outgoing probability distribution of item i; non-empty
// rows sum to 1. Rows are sorted by column for deterministic iteration.
type Matrix struct {
	n    int
	rows [][]edge
}

type edge struct {
	col int
	p   float64
}

// Dim returns the number of items (rows).
func (m *Matrix) Dim() int { return m.n }

// OutDegree returns the number of outgoing transitions of item i.
func (m *Matrix) OutDegree(i int) int { return len(m.rows[i]) }

// Prob returns the transition probability from item i to item j,
// or 0 if there is no edge.
func (m *Matrix) Prob(i, j int) float64 {
	row := m.rows[i]
	k := sort.Search(len(row), func(k int) bool { return row[k].col >= j })
	if k < len(row) && row[k].col == j {
		return row[k].p
	}
	return 0
}

// Biases computes the per-item bias factors from the current counts.
// Within a field whose most common value occurs m times out of t total
// observations, a value with count c receives
//
//	bias = (((1 - m/t) + (1 - c/m)) / 2) ^ exponent
//
// so the dominant value of a dominant field tends toward zero bias and rare
// values toward larger bias. The exponent (default 1) sharpens or softens
// the discount. The result is indexed by item index.
func Biases(c *counter.Counter, exponent float64) []float64 {
	biases := make([]float64, c.Len())
	for _, field := range c.Fields() {
		fc := c.FieldCounts(field)
		mode, total := 0, 0
		for _, n := range fc {
			total += n
			if n > mode {
				mode = n
			}
		}
		if mode == 0 {
			continue
		}
		base := 1 - float64(mode)/float64(total)
		for it, n := range fc {
			idx, ok := c.IndexOf(it)
			if !ok {
				continue
			}
			b := (base + (1 - float64(n)/float64(mode))) / 2
			if exponent != 1 {
				b = math.Pow(b, exponent)
			}
			biases[idx] = b
		}
	}
	return biases
}

// Transitions builds the biased transition matrix from the accumulated
// counts. For each observed pair (u, v) with joint count j the unnormalized
// weight of the u->v transition is bias(v) * j / count(v), and symmetrically
// for v->u. Each non-empty row is then normalized to sum to 1. A row whose
// total bias-weighted mass is zero is left empty: such an item propagates no
// probability and receives mass only through the solver's damping term.
func Transitions(c *counter.Counter, biasExponent float64) *Matrix {
	n := c.Len()
	m := &Matrix{n: n, rows: make([][]edge, n)}
	if n == 0 {
		return m
	}

	biases := Biases(c, biasExponent)
	c.RangeJoint(func(p counter.Pair, joint int) bool {
		ia, _ := c.IndexOf(p.A)
		ib, _ := c.IndexOf(p.B)
		ca := float64(c.Count(p.A))
		cb := float64(c.Count(p.B))
		m.rows[ia] = append(m.rows[ia], edge{col: ib, p: biases[ib] * float64(joint) / cb})
		m.rows[ib] = append(m.rows[ib], edge{col: ia, p: biases[ia] * float64(joint) / ca})
		return true
	})

	for i, row := range m.rows {
		if len(row) == 0 {
			continue
		}
		// Joint counts iterate in map order; sort for determinism.
		sort.Slice(row, func(a, b int) bool { return row[a].col < row[b].col })
		var sum float64
		for _, e := range row {
			sum += e.p
		}
		if sum <= 0 {
			m.rows[i] = nil
			continue
		}
		for k := range row {
			row[k].p /= sum
		}
	}
	return m
}
