package params

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"
)

// ErrNotBuiltin is a reference to a parameter set that doesn't ship with zetafold
var ErrNotBuiltin = errors.New("no built-in parameter set")

// sets are the parameter files that ship with zetafold
//
//go:embed sets/*.params
var sets embed.FS

var loadBuiltins = sync.OnceValues(func() ([]*Set, error) {
	files, err := fs.Glob(sets, "sets/*.params")
	if err != nil {
		return nil, err
	}

	var out []*Set
	for _, file := range files {
		f, err := sets.Open(file)
		if err != nil {
			return nil, err
		}
		s, _, err := Parse(f, "builtin:"+path.Base(file))
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return CompareVersions(out[i].Version, out[j].Version) < 0
	})
	return out, nil
})

// Builtins returns the parameter sets that ship with zetafold, sorted by name and version.
func Builtins() ([]*Set, error) {
	return loadBuiltins()
}

// Builtin returns a shipped parameter set by its reference: "name" for the
// latest version or "name@version" for a specific one.
func Builtin(ref string) (*Set, error) {
	all, err := Builtins()
	if err != nil {
		return nil, err
	}

	name, version := SplitRef(ref)
	var found *Set
	for _, s := range all {
		if s.Name != name {
			continue
		}
		if version == "" {
			found = s // sorted, so the last match is the latest
		} else if s.Version == version {
			return s, nil
		}
	}

	if found == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotBuiltin, ref)
	}
	return found, nil
}
