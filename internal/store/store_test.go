package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/benrogboe/zetafold/internal/params"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "zetafold.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func parse(t *testing.T, text string) *params.Set {
	t.Helper()
	set, _, err := params.Parse(strings.NewReader(text), "test")
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	v1 := parse(t, "name custom\nversion 1.2\nK_coax 10 # coax\nKd_BP 1e-4\n")
	v10 := parse(t, "name custom\nversion 1.10\nK_coax 5\nKd_BP 1e-4\n")
	for _, set := range []*params.Set{v10, v1} {
		if err := s.Put(ctx, set); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		version string
		want    string
		wantErr error
	}{
		{"custom", "1.2", "10", nil},
		{"custom", "1.10", "5", nil},
		{"custom", "", "5", nil},
		{"custom", "2", "", ErrNotFound},
		{"other", "", "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name+"@"+tt.version, func(t *testing.T) {
			got, err := s.Get(ctx, tt.name, tt.version)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Get() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if v, _ := got.Get("K_coax"); v.Raw != tt.want {
				t.Errorf("Get().K_coax = %s, want %s", v.Raw, tt.want)
			}
		})
	}

	got, err := s.Get(ctx, "custom", "1.2")
	if err != nil {
		t.Fatal(err)
	}
	if c := got.Entries()[2].Comment; c != "coax" {
		t.Errorf("Get() lost the inline comment: %+v", got.Entries()[2])
	}
}

func TestStore_Put_immutable(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	orig := parse(t, "name custom\nversion 1\nK_coax 10\n")
	if err := s.Put(ctx, orig); err != nil {
		t.Fatal(err)
	}

	same := parse(t, "name custom\nversion 1\nK_coax 10 # same value, new comment\n")
	if err := s.Put(ctx, same); err != nil {
		t.Errorf("Put() of identical values error = %v, want nil", err)
	}

	changed := parse(t, "name custom\nversion 1\nK_coax 11\n")
	if err := s.Put(ctx, changed); !errors.Is(err, ErrImmutable) {
		t.Errorf("Put() of changed values error = %v, want %v", err, ErrImmutable)
	}
}

func TestStore_ListDelete(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	for _, text := range []string{
		"name b\nversion 0.2\n",
		"name a\nversion 1\n",
		"name b\nversion 0.15\n",
	} {
		if err := s.Put(ctx, parse(t, text)); err != nil {
			t.Fatal(err)
		}
	}

	ids := func() []string {
		entries, err := s.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		var out []string
		for _, e := range entries {
			out = append(out, e.ID())
		}
		return out
	}

	if got, want := ids(), []string{"a@1", "b@0.2", "b@0.15"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	if err := s.Delete(ctx, "b", "0.2"); err != nil {
		t.Fatal(err)
	}
	if got, want := ids(), []string{"a@1", "b@0.15"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List() after Delete() = %v, want %v", got, want)
	}

	if err := s.Delete(ctx, "b", "0.2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want %v", err, ErrNotFound)
	}
}

func TestStore_reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "zetafold.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, parse(t, "name kept\nversion 1\n")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Get(ctx, "kept", "1"); err != nil {
		t.Errorf("Get() after reopening error = %v", err)
	}
}
