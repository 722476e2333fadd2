// Package store is a SQLite registry of imported parameter sets. A set is
// immutable once imported: its name@version always refers to the same values.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/benrogboe/zetafold/internal/params"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is a parameter set that isn't in the registry
	ErrNotFound = errors.New("parameter set not found")

	// ErrImmutable is an import that would change the values of an existing name@version
	ErrImmutable = errors.New("parameter set already imported with different values")
)

// Store is the parameter set registry
type Store struct {
	db *sql.DB
}

// Entry is a registry listing
type Entry struct {
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	Source     string    `json:"source"`
	ImportedAt time.Time `json:"importedAt"`
}

// ID returns the "name@version" reference for the entry.
func (e Entry) ID() string {
	return e.Name + "@" + e.Version
}

// Open opens, or creates, the registry at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS param_sets (
  name TEXT NOT NULL,
  version TEXT NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  body TEXT NOT NULL,
  imported_at DATETIME NOT NULL,
  PRIMARY KEY (name, version)
);
`)
	return err
}

// Put imports a parameter set. Importing the same values again is a no-op,
// importing different values under an existing name@version is ErrImmutable.
func (s *Store) Put(ctx context.Context, set *params.Set) error {
	var body strings.Builder
	if err := params.Write(&body, set, true); err != nil {
		return err
	}

	existing, err := s.Get(ctx, set.Name, set.Version)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return err
	case params.Format(existing) == params.Format(set):
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrImmutable, set.ID())
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO param_sets(name, version, source, body, imported_at)
VALUES(?, ?, ?, ?, ?);
`, set.Name, set.Version, set.Source, body.String(), time.Now().UTC())
	return err
}

// Get returns a parameter set. An empty version is the latest one imported
// under the name.
func (s *Store) Get(ctx context.Context, name, version string) (*params.Set, error) {
	if version == "" {
		entries, err := s.versions(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		version = entries[len(entries)-1].Version
	}

	row := s.db.QueryRowContext(ctx, "SELECT body FROM param_sets WHERE name=? AND version=?;", name, version)
	var body string
	err := row.Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s@%s", ErrNotFound, name, version)
	}
	if err != nil {
		return nil, err
	}

	set, _, err := params.Parse(strings.NewReader(body), "db:"+name+"@"+version)
	if err != nil {
		return nil, fmt.Errorf("stored set %s@%s is corrupt: %w", name, version, err)
	}
	return set, nil
}

// List returns every imported set, sorted by name and version.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	return s.query(ctx, "SELECT name, version, source, imported_at FROM param_sets;")
}

// versions returns the imported versions of a set, oldest first
func (s *Store) versions(ctx context.Context, name string) ([]Entry, error) {
	return s.query(ctx, "SELECT name, version, source, imported_at FROM param_sets WHERE name=?;", name)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Version, &e.Source, &e.ImportedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return params.CompareVersions(out[i].Version, out[j].Version) < 0
	})
	return out, nil
}

// Delete removes a parameter set from the registry.
func (s *Store) Delete(ctx context.Context, name, version string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM param_sets WHERE name=? AND version=?;", name, version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s@%s", ErrNotFound, name, version)
	}
	return nil
}
