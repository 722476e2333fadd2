// Package params is for the named, versioned parameter sets that drive the
// folding model. A parameter set is a flat table of constants (Kd's, effective
// molarities, loop rules) read from a plain-text file.
package params

import (
	"fmt"
	"strings"
)

// Kind is the type of a parameter's value
type Kind int

const (
	// String is free text, e.g. "name" and "version"
	String Kind = iota

	// Float is a real number, e.g. "Kd_CG" or "C_init"
	Float

	// Int is an integer, e.g. "min_loop_length"
	Int

	// Bool is a True/False flag, e.g. "allow_strained_3WJ"
	Bool
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Float:
		return "float"
	case Int:
		return "integer"
	case Bool:
		return "boolean"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a single typed parameter value.
type Value struct {
	Kind Kind

	// Raw is the literal token as it was written in the file
	Raw string

	Str   string
	Float float64
	Int   int
	Bool  bool
}

// AsFloat returns the value as a float64 if it's numeric.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case Float:
		return v.Float, true
	case Int:
		return float64(v.Int), true
	}
	return 0, false
}

func (v Value) String() string {
	return v.Raw
}

// Entry is a key/value line from a parameter file.
type Entry struct {
	Key   string
	Value Value

	// Line is the 1-based line number in the source (0 if not from a file)
	Line int

	// Comment is the inline comment after the value, without the "#"
	Comment string
}

// Set is a named and versioned parameter set. It's read-only once parsed.
type Set struct {
	// Name of the set, e.g. "zetafold"
	Name string

	// Version of the set, e.g. "0.15"
	Version string

	// Source is where the set was read from (a path, or "builtin:<file>")
	Source string

	entries []Entry
	index   map[string]int
	unknown []string
}

// ID returns the "name@version" reference for the set.
func (s *Set) ID() string {
	return s.Name + "@" + s.Version
}

// Entries returns a copy of the set's entries in file order.
func (s *Set) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Keys returns the set's keys in file order.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Has returns whether the key is in the set.
func (s *Set) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Get returns the value for a key.
func (s *Set) Get(key string) (Value, bool) {
	i, ok := s.index[key]
	if !ok {
		return Value{}, false
	}
	return s.entries[i].Value, true
}

// Unknown returns the keys that aren't part of the known schema.
func (s *Set) Unknown() []string {
	return append([]string(nil), s.unknown...)
}

// Float returns a numeric parameter as a float64.
func (s *Set) Float(key string) (float64, error) {
	v, ok := s.Get(key)
	if !ok {
		return 0, fmt.Errorf("%s: %w: %s", s.ID(), ErrMissingKey, key)
	}
	f, ok := v.AsFloat()
	if !ok {
		return 0, fmt.Errorf("%s: %w: %s is a %s, not a number", s.ID(), ErrBadValue, key, v.Kind)
	}
	return f, nil
}

// Int returns an integer parameter.
func (s *Set) Int(key string) (int, error) {
	v, ok := s.Get(key)
	if !ok {
		return 0, fmt.Errorf("%s: %w: %s", s.ID(), ErrMissingKey, key)
	}
	if v.Kind != Int {
		return 0, fmt.Errorf("%s: %w: %s is a %s, not an integer", s.ID(), ErrBadValue, key, v.Kind)
	}
	return v.Int, nil
}

// Bool returns a boolean parameter.
func (s *Set) Bool(key string) (bool, error) {
	v, ok := s.Get(key)
	if !ok {
		return false, fmt.Errorf("%s: %w: %s", s.ID(), ErrMissingKey, key)
	}
	if v.Kind != Bool {
		return false, fmt.Errorf("%s: %w: %s is a %s, not a boolean", s.ID(), ErrBadValue, key, v.Kind)
	}
	return v.Bool, nil
}

// Str returns a parameter's text. Any kind is accepted, numbers come
// back as they were written.
func (s *Set) Str(key string) (string, error) {
	v, ok := s.Get(key)
	if !ok {
		return "", fmt.Errorf("%s: %w: %s", s.ID(), ErrMissingKey, key)
	}
	if v.Kind == String {
		return v.Str, nil
	}
	return v.Raw, nil
}

// KdKeys returns the set's "Kd_*" keys in file order.
func (s *Set) KdKeys() []string {
	var keys []string
	for _, e := range s.entries {
		if strings.HasPrefix(e.Key, kdPrefix) {
			keys = append(keys, e.Key)
		}
	}
	return keys
}
