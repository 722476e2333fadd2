package params

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrMalformedLine is a non-blank, non-comment line without a single key and value
	ErrMalformedLine = errors.New("malformed line")

	// ErrBadValue is a value that can't be read as its key's type
	ErrBadValue = errors.New("bad value")

	// ErrOutOfRange is a value of the right type outside its allowed range
	ErrOutOfRange = errors.New("value out of range")

	// ErrMissingKey is a required key that isn't in the set
	ErrMissingKey = errors.New("missing required key")

	// ErrDuplicateKey is a key set twice in one file
	ErrDuplicateKey = errors.New("duplicate key")
)

// required keys for every parameter file
var required = []string{"name", "version"}

// ParseError is an error reading a parameter file. It names the file, line and key.
type ParseError struct {
	File string
	Line int
	Key  string
	Err  error

	// Detail is extra context appended to Err's message
	Detail string
}

func (e *ParseError) Error() string {
	loc := e.File
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}

	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	if e.Key == "" {
		return fmt.Sprintf("%s: %s", loc, msg)
	}
	return fmt.Sprintf("%s: %s: %s", loc, e.Key, msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Warning is a non-fatal problem in a parameter file, e.g. an unknown key.
type Warning struct {
	File string
	Line int
	Key  string
	Msg  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", w.File, w.Line, w.Key, w.Msg)
}

// Load reads a parameter set from a file on the local filesystem.
func Load(path string) (*Set, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open parameter file: %w", err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads a parameter set. source names the input in errors and warnings.
//
// Each line is blank, a comment starting with "#", or "key value # comment".
// Unknown keys are kept and reported as warnings.
func Parse(r io.Reader, source string) (*Set, []Warning, error) {
	s := &Set{
		Source: source,
		index:  make(map[string]int),
	}
	var warnings []Warning

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++

		body, comment := splitComment(scanner.Text())
		fields := strings.Fields(body)
		if len(fields) == 0 {
			continue
		}

		key := fields[0]
		if len(fields) == 1 {
			return nil, nil, &ParseError{File: source, Line: lineNum, Key: key, Err: ErrMalformedLine, Detail: "no value"}
		}

		if prev, dup := s.index[key]; dup {
			return nil, nil, &ParseError{
				File:   source,
				Line:   lineNum,
				Key:    key,
				Err:    ErrDuplicateKey,
				Detail: fmt.Sprintf("first set on line %d", s.entries[prev].Line),
			}
		}

		rl, known := ruleFor(key)
		var v Value
		switch {
		case len(fields) > 2 && (!known || rl.kind == String):
			// free text, e.g. "name my params", keeps its inner spacing
			v, _ = coerce(strings.TrimSpace(strings.TrimSpace(body)[len(key):]), String)
		case len(fields) > 2:
			return nil, nil, &ParseError{
				File:   source,
				Line:   lineNum,
				Key:    key,
				Err:    ErrMalformedLine,
				Detail: fmt.Sprintf("expected one %s value, got %q", rl.kind, strings.Join(fields[1:], " ")),
			}
		case known:
			var ok bool
			if v, ok = coerce(fields[1], rl.kind); !ok {
				return nil, nil, &ParseError{
					File:   source,
					Line:   lineNum,
					Key:    key,
					Err:    ErrBadValue,
					Detail: fmt.Sprintf("%q is not a valid %s", fields[1], rl.kind),
				}
			}
		default:
			v = infer(fields[1])
		}

		if known && rl.inRange != nil {
			if f, _ := v.AsFloat(); !rl.inRange(f) {
				return nil, nil, &ParseError{File: source, Line: lineNum, Key: key, Err: ErrOutOfRange, Detail: fmt.Sprintf("%s %s", v.Raw, rl.rangeDesc)}
			}
		}

		if !known {
			s.unknown = append(s.unknown, key)
			warnings = append(warnings, Warning{File: source, Line: lineNum, Key: key, Msg: "unknown parameter"})
		}

		s.index[key] = len(s.entries)
		s.entries = append(s.entries, Entry{
			Key:     key,
			Value:   v,
			Line:    lineNum,
			Comment: comment,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	for _, key := range required {
		if !s.Has(key) {
			return nil, nil, &ParseError{File: source, Key: key, Err: ErrMissingKey}
		}
	}
	s.Name, _ = s.Str("name")
	s.Version, _ = s.Str("version")

	return s, warnings, nil
}

// splitComment separates a line into its content and trailing "#" comment
func splitComment(line string) (body, comment string) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}
