// Package secstruct is for converting between lists of base pairs and
// dot-bracket secondary structure notation.
package secstruct

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Pair is a base pair between nucleotides I and J (0-based, I < J).
type Pair struct {
	I int `json:"i"`
	J int `json:"j"`
}

// NewPair returns the pair with its indices in order.
func NewPair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{I: i, J: j}
}

// Sort orders pairs by their first, then second, nucleotide.
func Sort(pairs []Pair) {
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].I != pairs[b].I {
			return pairs[a].I < pairs[b].I
		}
		return pairs[a].J < pairs[b].J
	})
}

// Format returns the dot-bracket string for pairs in a sequence of n
// nucleotides. strands are the lengths of each strand; a "+" separates
// neighboring strands. Pass nil for a single strand.
func Format(pairs []Pair, n int, strands []int) (string, error) {
	db := make([]byte, n)
	for i := range db {
		db[i] = '.'
	}

	for _, p := range pairs {
		p = NewPair(p.I, p.J)
		if p.I < 0 || p.J >= n || p.I == p.J {
			return "", fmt.Errorf("pair (%d, %d) is outside a sequence of length %d", p.I, p.J, n)
		}
		if db[p.I] != '.' || db[p.J] != '.' {
			return "", fmt.Errorf("nucleotide in pair (%d, %d) is already paired", p.I, p.J)
		}
		db[p.I], db[p.J] = '(', ')'
	}

	if len(strands) < 2 {
		return string(db), nil
	}

	var b strings.Builder
	start := 0
	for s, length := range strands {
		if s > 0 {
			b.WriteByte('+')
		}
		end := start + length
		if end > n {
			return "", fmt.Errorf("strand lengths %v exceed sequence length %d", strands, n)
		}
		b.Write(db[start:end])
		start = end
	}
	return b.String(), nil
}

// Parse returns the base pairs in a dot-bracket string. "+" strand
// separators are skipped, so indices refer to the concatenated sequence.
func Parse(db string) ([]Pair, error) {
	var pairs []Pair
	var stack []int

	i := 0
	for _, c := range db {
		switch c {
		case '+', '&', ' ':
			continue
		case '(':
			stack = append(stack, i)
		case ')':
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced ')' at %d in %q", i, db)
			}
			pairs = append(pairs, Pair{I: stack[len(stack)-1], J: i})
			stack = stack[:len(stack)-1]
		case '.', 'x':
		default:
			return nil, fmt.Errorf("unrecognized character %q in %q", c, db)
		}
		i++
	}

	if len(stack) > 0 {
		return nil, errors.New("unbalanced '(' in " + db)
	}

	Sort(pairs)
	return pairs, nil
}
