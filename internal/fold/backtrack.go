package fold

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/benrogboe/zetafold/internal/secstruct"
)

// ErrBacktrack is a cell with no way back to the structures it came from
var ErrBacktrack = errors.New("backtrack failed")

// Structure is a single secondary structure from the ensemble.
type Structure struct {
	// Pairs are the base pairs, ordered by their first nucleotide
	Pairs []secstruct.Pair `json:"pairs"`

	// DotBracket is the structure in dot-bracket notation
	DotBracket string `json:"dotBracket"`

	// Weight is the statistical weight of the structure relative to the unfolded strands
	Weight float64 `json:"weight"`

	// Probability is Weight / Z
	Probability float64 `json:"probability"`

	// DeltaG is the free energy of the structure in kcal/mol
	DeltaG float64 `json:"deltaG"`
}

// chooser picks one of the terms of a cell
type chooser func(terms []term) (term, error)

// MFE returns the structure with the highest statistical weight (the
// minimum free energy structure).
func (r *Result) MFE(ctx context.Context) (Structure, error) {
	if r.mfe != nil {
		return *r.mfe, nil
	}

	best := newEngine(r.Model, r.e.strands, maxProduct)
	if err := best.fill(ctx); err != nil {
		return Structure{}, err
	}
	if err := crossCheck(best.zFinal); err != nil {
		return Structure{}, fmt.Errorf("best structure: %w", err)
	}

	argmax := func(terms []term) (term, error) {
		top := terms[0]
		for _, tm := range terms[1:] {
			if tm.w > top.w {
				top = tm
			}
		}
		return top, nil
	}

	pairs, err := best.backtrack(argmax)
	if err != nil {
		return Structure{}, err
	}
	s, err := r.structure(pairs, best.zFinal[0])
	if err != nil {
		return Structure{}, err
	}
	r.mfe = &s
	return s, nil
}

// Sample draws n structures from the Boltzmann ensemble. At each cell a
// term is chosen with probability proportional to its contribution.
func (r *Result) Sample(rng *rand.Rand, n int) ([]Structure, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative sample count: %d", n)
	}

	samples := make([]Structure, 0, n)
	for len(samples) < n {
		p := 1.0
		stochastic := func(terms []term) (term, error) {
			total := 0.0
			for _, tm := range terms {
				total += tm.w
			}
			x := rng.Float64() * total
			for _, tm := range terms {
				x -= tm.w
				if x < 0 {
					p *= tm.w / total
					return tm, nil
				}
			}
			last := terms[len(terms)-1]
			p *= last.w / total
			return last, nil
		}

		pairs, err := r.e.backtrack(stochastic)
		if err != nil {
			return nil, err
		}
		s, err := r.structure(pairs, p*r.Z)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// structure builds a Structure from its pairs and statistical weight
func (r *Result) structure(pairs []secstruct.Pair, weight float64) (Structure, error) {
	db, err := secstruct.Format(pairs, r.e.n, r.Strands)
	if err != nil {
		return Structure{}, err
	}
	return Structure{
		Pairs:       pairs,
		DotBracket:  db,
		Weight:      weight,
		Probability: weight / r.Z,
		DeltaG:      DeltaG(weight),
	}, nil
}

// backtrack walks back from the total partition function, expanding each
// cell into one of its terms, until only diagonal cells are left. Every
// Z_BP cell passed through is a base pair of the structure.
func (e *engine) backtrack(choose chooser) ([]secstruct.Pair, error) {
	var pairs []secstruct.Pair

	var final []term
	e.finalTerms(0, func(tm term) {
		if tm.w > 0 {
			final = append(final, tm)
		}
	})
	if len(final) == 0 {
		return nil, fmt.Errorf("%w: no structures", ErrBacktrack)
	}
	start, err := choose(final)
	if err != nil {
		return nil, err
	}

	stack := append([]ref(nil), start.refs[:start.n]...)
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if r.i == r.j {
			continue
		}
		if r.t == zBP {
			pairs = append(pairs, secstruct.NewPair(r.i, r.j))
		}

		terms := e.terms(r)
		if len(terms) == 0 {
			return nil, fmt.Errorf("%w: %s(%d,%d) = %g has no terms", ErrBacktrack, r.t, r.i, r.j, e.Q(r))
		}
		tm, err := choose(terms)
		if err != nil {
			return nil, err
		}
		stack = append(stack, tm.refs[:tm.n]...)
	}

	secstruct.Sort(pairs)
	return pairs, nil
}
