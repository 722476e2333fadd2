package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/benrogboe/zetafold/internal/params"
	"github.com/benrogboe/zetafold/internal/store"
)

// resolveParams finds a parameter set by its reference. The reference is
// tried as a file path, then as a name[@version] in the registry, then
// among the sets that ship with zetafold.
func resolveParams(ctx context.Context, ref string) (*params.Set, error) {
	if ref == "" {
		ref = conf.Params
	}

	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		set, warnings, err := params.Load(ref)
		if err != nil {
			return nil, err
		}
		logWarnings(warnings)
		return set, nil
	}

	name, version := params.SplitRef(ref)
	if s, err := openStore(false); err != nil {
		return nil, err
	} else if s != nil {
		defer s.Close()
		set, err := s.Get(ctx, name, version)
		if err == nil {
			slog.Debug("parameter set from registry", "ref", ref, "db", conf.DB)
			return set, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	set, err := params.Builtin(ref)
	if errors.Is(err, params.ErrNotBuiltin) {
		return nil, fmt.Errorf("no parameter file, imported set or built-in set named %q", ref)
	}
	return set, err
}

// openStore opens the registry. If create is false and there's no registry
// yet, it returns nil.
func openStore(create bool) (*store.Store, error) {
	if _, err := os.Stat(conf.DB); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if !create {
			return nil, nil
		}
		if err := os.MkdirAll(filepath.Dir(conf.DB), 0755); err != nil {
			return nil, err
		}
	}
	return store.Open(conf.DB)
}

// logWarnings logs the problems found in a parameter file that didn't stop it loading
func logWarnings(warnings []params.Warning) {
	for _, w := range warnings {
		slog.Warn(w.Msg, "file", w.File, "line", w.Line, "key", w.Key)
	}
}
