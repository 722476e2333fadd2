package fold

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
)

// table names one of the dynamic programming matrices
type table int

const (
	// zBP is the partition function for structures that pair i and j
	zBP table = iota

	// zCut combines a segment from i to a cutpoint and another from after it to j
	zCut

	// zCoax is the partition function for coaxial stacks of (i,k) on (k+1,j)
	zCoax

	// cEff is the effective molarity of a loop segment from i to j
	cEff

	// cEffNoCoaxSinglet is cEff without the term for a lone coaxial stack from i to j
	cEffNoCoaxSinglet

	// cEffNoBPSinglet is cEff without the term for a lone helix from i to j
	cEffNoBPSinglet

	// zLinear is the partition function from i to j with all intervening residues connected
	zLinear

	numTables
)

var tableNames = [numTables]string{"Z_BP", "Z_cut", "Z_coax", "C_eff", "C_eff_no_coax_singlet", "C_eff_no_BP_singlet", "Z_linear"}

func (t table) String() string { return tableNames[t] }

// fillOrder is the order tables are filled for each (i,j). C_eff and Z_linear
// depend on Z_BP and Z_coax at the same (i,j)
var fillOrder = []table{zCut, zBP, zCoax, cEffNoCoaxSinglet, cEffNoBPSinglet, cEff, zLinear}

// matrix is an N x N dynamic programming table
type matrix [][]float64

func newMatrix(n int) matrix {
	m := make(matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// semiring is how the contributions to a cell are combined
type semiring int

const (
	// sumProduct fills partition functions
	sumProduct semiring = iota

	// maxProduct fills the weight of the single best structure
	maxProduct
)

func (s semiring) add(a, b float64) float64 {
	if s == maxProduct {
		if b > a {
			return b
		}
		return a
	}
	return a + b
}

// ref is a cell in one of the tables
type ref struct {
	t    table
	i, j int
}

// term is one contribution to a cell: its weight and the cells it's built from
type term struct {
	w    float64
	refs [3]ref
	n    int
}

func mk(w float64, refs ...ref) term {
	t := term{w: w, n: len(refs)}
	copy(t.refs[:], refs)
	return t
}

// emitter receives each term of a recursion
type emitter func(term)

// engine holds the sequence, model and filled tables for one fold
type engine struct {
	*strands
	m  *Model
	sr semiring

	// kd[i][j] is the Kd of the pair (i,j), 0 if they can't pair
	kd matrix

	q [numTables]matrix

	// zFinal[i] is the total partition function computed by ligating (or cutting) at i
	zFinal []float64
}

func newEngine(m *Model, s *strands, sr semiring) *engine {
	e := &engine{strands: s, m: m, sr: sr, kd: newMatrix(s.n)}
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			if kd, ok := m.Kd(s.seq[i], s.seq[j]); ok && i != j {
				e.kd[i][j] = kd
			}
		}
	}

	for t := range e.q {
		e.q[t] = newMatrix(s.n)
	}
	for i := 0; i < s.n; i++ {
		e.q[zLinear][i][i] = 1
		e.q[cEff][i][i] = m.CInit
		e.q[cEffNoCoaxSinglet][i][i] = m.CInit
		e.q[cEffNoBPSinglet][i][i] = m.CInit
	}
	return e
}

// Q returns the value of a cell
func (e *engine) Q(r ref) float64 {
	return e.q[r.t][r.i][r.j]
}

// fill runs the recursions over every subfragment, shortest first
func (e *engine) fill(ctx context.Context) error {
	for offset := 1; offset < e.n; offset++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := 0; i < e.n; i++ {
			j := (i + offset) % e.n
			for _, t := range fillOrder {
				e.q[t][i][j] = e.eval(t, i, j)
			}
		}
	}

	e.zFinal = make([]float64, e.n)
	for i := 0; i < e.n; i++ {
		total := 0.0
		e.finalTerms(i, func(tm term) { total = e.sr.add(total, tm.w) })
		e.zFinal[i] = total
	}
	return nil
}

// eval combines the terms of a cell
func (e *engine) eval(t table, i, j int) float64 {
	total := 0.0
	e.expand(ref{t, i, j}, func(tm term) {
		if tm.w != 0 {
			total = e.sr.add(total, tm.w)
		}
	})
	return total
}

// terms collects the non-zero terms of a cell
func (e *engine) terms(r ref) []term {
	var out []term
	e.expand(r, func(tm term) {
		if tm.w > 0 {
			out = append(out, tm)
		}
	})
	return out
}

// dump writes every table, for debugging
func (e *engine) dump(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	for t := table(0); t < numTables; t++ {
		fmt.Fprintf(tw, "%s\n", t)
		for i := 0; i < e.n; i++ {
			fmt.Fprintf(tw, "%c\t", e.seq[i])
			for j := 0; j < e.n; j++ {
				fmt.Fprintf(tw, "%.4g\t", e.q[t][i][j])
			}
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
