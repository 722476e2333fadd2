package fold

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/benrogboe/zetafold/internal/params"
)

// RT37 is RT at 37 °C in kcal/mol
const RT37 = 0.0019872 * 310.15

// ErrModel is a parameter set that can't be turned into a folding model
var ErrModel = errors.New("invalid model parameters")

// Model is the statistical mechanical model for folding. Every parameter is
// an equilibrium constant or effective molarity, in M or dimensionless.
type Model struct {
	// Params is the "name@version" of the parameter set the model came from
	Params string

	// CInit is the effective molarity for starting each loop (M)
	CInit float64

	// L is the effective molarity penalty for each linkage in a loop
	L float64

	// LBP is the effective molarity penalty for each base pair in a loop
	LBP float64

	// CEffStackedPair is the effective molarity for forming a stacked pair (M)
	CEffStackedPair float64

	// KCoax is the bonus for coaxially stacking contiguous helices. 0 turns coax off
	KCoax float64

	// LCoax is the effective molarity bonus for each coaxial stack in a loop
	LCoax float64

	// CStd is the standard state concentration (M). It drops out up to an overall scale
	CStd float64

	// MinLoopLength is the smallest apical loop allowed
	MinLoopLength int

	// AllowStrained3WJ allows three-way junctions with two coaxially stacked
	// helices and no spacer nucleotides to the third
	AllowStrained3WJ bool

	// pairKd maps an ordered nucleotide pair to its Kd (M)
	pairKd map[[2]byte]float64

	// lowercaseKd is the Kd for identical lowercase letters, 0 if they don't pair
	lowercaseKd float64
}

// canonical pairs that a generic Kd_BP applies to
var canonical = [][2]byte{{'C', 'G'}, {'G', 'C'}, {'A', 'U'}, {'U', 'A'}}

// NewModel builds a folding model from a parameter set.
//
// Kd_BP applies to C-G, A-U and identical lowercase letters. Kd_XY (e.g.
// Kd_CG, Kd_GU) applies to X-Y and Y-X pairs and Kd_matchlowercase to
// identical lowercase letters; both take precedence over Kd_BP.
func NewModel(s *params.Set) (*Model, error) {
	m := &Model{
		Params: s.ID(),
		CStd:   1.0,
		pairKd: make(map[[2]byte]float64),
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"C_init", &m.CInit},
		{"l", &m.L},
		{"l_BP", &m.LBP},
		{"C_eff_stacked_pair", &m.CEffStackedPair},
		{"K_coax", &m.KCoax},
		{"l_coax", &m.LCoax},
	}
	for _, f := range floats {
		v, err := s.Float(f.key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModel, err)
		}
		*f.dst = v
	}

	if s.Has("C_std") {
		v, err := s.Float("C_std")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModel, err)
		}
		m.CStd = v
	}

	var err error
	if m.MinLoopLength, err = s.Int("min_loop_length"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModel, err)
	}
	if m.AllowStrained3WJ, err = s.Bool("allow_strained_3WJ"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModel, err)
	}

	kdKeys := s.KdKeys()
	if len(kdKeys) == 0 {
		return nil, fmt.Errorf("%w: %s has no Kd_* parameters", ErrModel, s.ID())
	}

	// generic first, so the specific pair types override it
	if s.Has("Kd_BP") {
		kd, _ := s.Float("Kd_BP")
		for _, p := range canonical {
			m.pairKd[p] = kd
		}
		m.lowercaseKd = kd
	}
	for _, key := range kdKeys {
		kd, _ := s.Float(key)
		suffix := strings.TrimPrefix(key, "Kd_")

		switch {
		case suffix == "BP":
		case suffix == "matchlowercase":
			m.lowercaseKd = kd
		case len(suffix) == 2 && isUpper(suffix[0]) && isUpper(suffix[1]):
			m.pairKd[[2]byte{suffix[0], suffix[1]}] = kd
			m.pairKd[[2]byte{suffix[1], suffix[0]}] = kd
		default:
			return nil, fmt.Errorf("%w: %s: unrecognized base pair type %q", ErrModel, s.ID(), key)
		}
	}

	return m, nil
}

// Kd returns the dissociation constant for pairing nucleotides a and b,
// and whether they can pair at all.
func (m *Model) Kd(a, b byte) (float64, bool) {
	if a == b && isLower(a) {
		return m.lowercaseKd, m.lowercaseKd > 0
	}
	kd, ok := m.pairKd[[2]byte{a, b}]
	return kd, ok
}

// Scale returns a copy of the model with every Kd multiplied by f.
func (m *Model) Scale(f float64) *Model {
	scaled := *m
	scaled.pairKd = make(map[[2]byte]float64, len(m.pairKd))
	for p, kd := range m.pairKd {
		scaled.pairKd[p] = kd * f
	}
	scaled.lowercaseKd = m.lowercaseKd * f
	return &scaled
}

// DeltaG converts a statistical weight (relative to the unfolded state) to a
// free energy in kcal/mol at 37 °C.
func DeltaG(weight float64) float64 {
	return -RT37 * math.Log(weight)
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
