package fold

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSequence is an empty or malformed input sequence
var ErrSequence = errors.New("invalid sequence")

// strands is the concatenated sequence of interacting strands and where the
// backbone is broken between them.
type strands struct {
	seq []byte
	n   int

	// lengths of each strand
	lengths []int

	// cut[i] is true if there's no backbone connection between i and i+1 (mod n)
	cut []bool

	// anyCut[i][j] is true if there's a cutpoint at any of i..j-1, going around the circle
	anyCut [][]bool
}

// newStrands concatenates the strands. The last nucleotide is a cutpoint
// unless circle is true, in which case it's ligated to the first.
func newStrands(seqs []string, circle bool) (*strands, error) {
	s := &strands{}

	var b strings.Builder
	for i, seq := range seqs {
		seq = strings.Join(strings.Fields(seq), "")
		if seq == "" {
			return nil, fmt.Errorf("%w: strand %d is empty", ErrSequence, i+1)
		}
		for j := 0; j < len(seq); j++ {
			if !isUpper(seq[j]) && !isLower(seq[j]) {
				return nil, fmt.Errorf("%w: strand %d has %q at position %d", ErrSequence, i+1, seq[j], j+1)
			}
		}
		b.WriteString(seq)
		s.lengths = append(s.lengths, len(seq))
	}
	if b.Len() == 0 {
		return nil, fmt.Errorf("%w: no sequence", ErrSequence)
	}
	if circle && len(seqs) > 1 {
		return nil, fmt.Errorf("%w: only a single strand can be circularized", ErrSequence)
	}

	s.seq = []byte(b.String())
	s.n = len(s.seq)

	s.cut = make([]bool, s.n)
	end := 0
	for _, length := range s.lengths[:len(s.lengths)-1] {
		end += length
		s.cut[end-1] = true
	}
	if !circle {
		s.cut[s.n-1] = true
	}

	s.anyCut = make([][]bool, s.n)
	for i := range s.anyCut {
		s.anyCut[i] = make([]bool, s.n)
		found := false
		for offset := 0; offset < s.n; offset++ {
			j := (i + offset) % s.n
			s.anyCut[i][j] = found
			if s.cut[j] {
				found = true
			}
		}
	}

	return s, nil
}

// mod wraps an index around the circle
func (s *strands) mod(i int) int {
	return ((i % s.n) + s.n) % s.n
}
