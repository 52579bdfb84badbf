// Package store keeps a library of saved sessions in SQLite.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/san-kum/forcegraph/internal/codec"
)

var ErrNotFound = errors.New("store: session not found")

// Entry describes a stored session without its document.
type Entry struct {
	ID        string
	Name      string
	Nodes     int
	Links     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Store struct {
	db    *sql.DB
	codec *codec.JSONCodec
	now   func() time.Time
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory library.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" a single database and serialises
	// writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, codec: codec.NewJSONCodec(), now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		nodes INTEGER NOT NULL,
		links INTEGER NOT NULL,
		document BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put stores doc under name, replacing any session with the same name. It
// returns the session id, which is kept across replacements.
func (s *Store) Put(ctx context.Context, name string, doc *codec.Document) (string, error) {
	if name == "" {
		return "", errors.New("store: empty session name")
	}
	var buf bytes.Buffer
	if err := s.codec.Export(doc, &buf); err != nil {
		return "", err
	}

	now := s.now().UTC().UnixNano()
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, nodes, links, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			nodes = excluded.nodes,
			links = excluded.links,
			document = excluded.document,
			updated_at = excluded.updated_at
	`, id, name, len(doc.Nodes), len(doc.Links), buf.Bytes(), now, now)
	if err != nil {
		return "", fmt.Errorf("failed to store session %q: %w", name, err)
	}

	if err := s.db.QueryRowContext(ctx, `SELECT id FROM sessions WHERE name = ?`, name).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to read back session %q: %w", name, err)
	}
	return id, nil
}

// Get loads a session by id or name.
func (s *Store) Get(ctx context.Context, ref string) (*codec.Document, Entry, error) {
	var (
		e    Entry
		data []byte
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, nodes, links, document, created_at, updated_at
		FROM sessions WHERE id = ? OR name = ?
	`, ref, ref)
	if err := scanEntry(row, &e, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, Entry{}, fmt.Errorf("%q: %w", ref, ErrNotFound)
		}
		return nil, Entry{}, fmt.Errorf("failed to load session %q: %w", ref, err)
	}

	doc, err := s.codec.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, Entry{}, fmt.Errorf("stored session %q: %w", e.Name, err)
	}
	return doc, e, nil
}

// List returns every entry, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, nodes, links, NULL, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e    Entry
			data []byte
		)
		if err := scanEntry(rows, &e, &data); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes a session by id or name.
func (s *Store) Delete(ctx context.Context, ref string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ? OR name = ?`, ref, ref)
	if err != nil {
		return fmt.Errorf("failed to delete session %q: %w", ref, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%q: %w", ref, ErrNotFound)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner, e *Entry, data *[]byte) error {
	var created, updated int64
	if err := sc.Scan(&e.ID, &e.Name, &e.Nodes, &e.Links, data, &created, &updated); err != nil {
		return err
	}
	e.CreatedAt = time.Unix(0, created).UTC()
	e.UpdatedAt = time.Unix(0, updated).UTC()
	return nil
}
