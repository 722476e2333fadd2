package params

import (
	"math"
	"strconv"
	"strings"
)

// kdPrefix marks a dissociation constant, e.g. Kd_BP or Kd_GU
const kdPrefix = "Kd_"

// rule is the declared kind of a known key and the range its value must fall in
type rule struct {
	kind Kind

	// inRange is nil if any value of kind is valid
	inRange func(float64) bool

	// rangeDesc describes inRange for error messages
	rangeDesc string
}

var (
	positive    = func(f float64) bool { return f > 0 }
	nonNegative = func(f float64) bool { return f >= 0 }
)

// schema is the set of known, non-Kd keys
var schema = map[string]rule{
	"name":    {kind: String},
	"version": {kind: String},

	"min_loop_length":    {kind: Int, inRange: nonNegative, rangeDesc: "must be >= 0"},
	"allow_strained_3WJ": {kind: Bool},

	"C_init":             {kind: Float, inRange: positive, rangeDesc: "must be > 0 M"},
	"C_eff_stacked_pair": {kind: Float, inRange: positive, rangeDesc: "must be > 0 M"},
	"C_std":              {kind: Float, inRange: positive, rangeDesc: "must be > 0 M"},

	"l":      {kind: Float, inRange: nonNegative, rangeDesc: "must be >= 0"},
	"l_BP":   {kind: Float, inRange: nonNegative, rangeDesc: "must be >= 0"},
	"l_coax": {kind: Float, inRange: nonNegative, rangeDesc: "must be >= 0"},
	"K_coax": {kind: Float, inRange: nonNegative, rangeDesc: "must be >= 0"},
}

// ruleFor returns the rule for a key, and whether the key is known
func ruleFor(key string) (rule, bool) {
	if r, ok := schema[key]; ok {
		return r, true
	}
	if strings.HasPrefix(key, kdPrefix) && len(key) > len(kdPrefix) {
		return rule{kind: Float, inRange: positive, rangeDesc: "must be > 0 M"}, true
	}
	return rule{}, false
}

// Known returns whether the key is part of the parameter schema.
func Known(key string) bool {
	_, ok := ruleFor(key)
	return ok
}

// parseBool accepts the Python-style literals used in the parameter files
func parseBool(raw string) (bool, bool) {
	switch raw {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	}
	return false, false
}

// coerce turns the raw token into a value of the declared kind
func coerce(raw string, kind Kind) (Value, bool) {
	v := Value{Kind: kind, Raw: raw}
	switch kind {
	case String:
		v.Str = raw
		return v, true
	case Bool:
		b, ok := parseBool(raw)
		v.Bool = b
		return v, ok
	case Int:
		n, err := strconv.Atoi(raw)
		v.Int = n
		return v, err == nil
	case Float:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return v, false
		}
		v.Float = f
		return v, true
	}
	return v, false
}

// infer picks a kind for a key that isn't in the schema: bool, then
// integer, then float, falling back to string
func infer(raw string) Value {
	for _, k := range []Kind{Bool, Int, Float} {
		if v, ok := coerce(raw, k); ok {
			return v
		}
	}
	v, _ := coerce(raw, String)
	return v
}
