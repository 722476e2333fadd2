// Package fold computes the partition function of a nucleic acid sequence
// (or complex of strands) under a model of loop effective molarities, base
// pair dissociation constants and coaxial stacking bonuses. It also computes
// base pair probabilities, the best structure and Boltzmann samples.
package fold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrInconsistent is a partition function that doesn't agree with itself
// when computed from different points on the backbone
var ErrInconsistent = errors.New("inconsistent partition function")

// ErrOverflow is a partition function too large for float64
var ErrOverflow = errors.New("partition function overflow")

// tolerance is the allowed relative difference between the N computations of Z
const tolerance = 1e-5

// Options for a fold
type Options struct {
	// Circle ligates the last nucleotide to the first (single strand only)
	Circle bool
}

// Result is a filled partition function.
type Result struct {
	// Model used for the fold
	Model *Model

	// Sequence is the concatenated sequence of every strand
	Sequence string

	// Strands are the lengths of each strand
	Strands []int

	// Circle is whether the sequence was circularized
	Circle bool

	// Z is the partition function, relative to the unfolded strands. With
	// more than one strand only structures that hold every strand together
	// are counted, and weights are relative to the C_std standard state, so
	// the state with the strands apart isn't part of Z.
	Z float64

	e   *engine
	bpp matrix
	mfe *Structure
}

// Fold fills the dynamic programming tables for the strands and returns
// the partition function. Each strand is a sequence, 5' to 3'.
func Fold(ctx context.Context, m *Model, seqs []string, opts Options) (*Result, error) {
	s, err := newStrands(seqs, opts.Circle)
	if err != nil {
		return nil, err
	}

	e := newEngine(m, s, sumProduct)
	if err := e.fill(ctx); err != nil {
		return nil, err
	}
	if err := crossCheck(e.zFinal); err != nil {
		return nil, err
	}

	r := &Result{
		Model:    m,
		Sequence: string(s.seq),
		Strands:  append([]int(nil), s.lengths...),
		Circle:   opts.Circle,
		Z:        e.zFinal[0],
		e:        e,
	}
	r.bpp = r.basePairProbabilities()
	return r, nil
}

// crossCheck confirms every computation of Z agrees
func crossCheck(zFinal []float64) error {
	z := zFinal[0]
	if math.IsInf(z, 0) || math.IsNaN(z) {
		return ErrOverflow
	}
	if z == 0 {
		return nil
	}
	for i, zi := range zFinal {
		if math.Abs((zi-z)/z) > tolerance {
			return fmt.Errorf("%w: Z(%d) = %g, Z(0) = %g", ErrInconsistent, i, zi, z)
		}
	}
	return nil
}

// basePairProbabilities uses Z_BP(i,j), the structures inside a pair, and
// Z_BP(j,i), the structures outside it. Their product over-counts the pair's
// 1/Kd, so one Kd is multiplied back in.
func (r *Result) basePairProbabilities() matrix {
	e := r.e
	bpp := newMatrix(e.n)
	for i := 0; i < e.n; i++ {
		for j := 0; j < e.n; j++ {
			if e.kd[i][j] == 0 {
				continue
			}
			bpp[i][j] = e.q[zBP][i][j] * e.q[zBP][j][i] * e.kd[i][j] / r.Z
		}
	}
	return bpp
}

// N is the number of nucleotides
func (r *Result) N() int {
	return r.e.n
}

// BPP returns a copy of the N x N base pair probability matrix.
func (r *Result) BPP() [][]float64 {
	out := make([][]float64, len(r.bpp))
	for i, row := range r.bpp {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// PairProbability returns the probability that i and j are paired.
func (r *Result) PairProbability(i, j int) float64 {
	return r.bpp[i][j]
}

// ExpectedPairs is the expected number of base pairs, the sum of the
// probabilities over i < j.
func (r *Result) ExpectedPairs() float64 {
	total := 0.0
	for i := range r.bpp {
		for j := i + 1; j < len(r.bpp); j++ {
			total += r.bpp[i][j]
		}
	}
	return total
}

// ZFinal returns the partition function computed from every point on the
// backbone. They all match Z to within the cross-check tolerance.
func (r *Result) ZFinal() []float64 {
	return append([]float64(nil), r.e.zFinal...)
}

// DeltaG is the ensemble free energy in kcal/mol at 37 °C.
func (r *Result) DeltaG() float64 {
	return DeltaG(r.Z)
}

// DumpMatrices writes every dynamic programming table.
func (r *Result) DumpMatrices(w io.Writer) error {
	return r.e.dump(w)
}
