// Package sqlite implements metastore.Store on SQLite via modernc.org/sqlite
// (cgo-free).
//
// Attributes live in a single `file_attributes` table keyed by (path, name).
// SQLite stores everything with TEXT affinity here, which is exactly what the
// attribute model wants: values are opaque strings.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"recprobe/pkg/metastore"
)

// Store implements metastore.Store for SQLite.
type Store struct {
	db *sql.DB
}

func init() {
	metastore.Register("sqlite", func(ctx context.Context, cfg metastore.Config) (metastore.Store, error) {
		return New(ctx, cfg.DSN)
	})
}

const createAttrTable = `
CREATE TABLE IF NOT EXISTS file_attributes (
	path  TEXT NOT NULL,
	name  TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (path, name)
)`

// New opens (and, when needed, initializes) an attribute store at dsn.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, createAttrTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create file_attributes: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() { _ = s.db.Close() }

// SetAttribute upserts one attribute value. Not part of metastore.Store;
// exposed for seeding and tests.
func (s *Store) SetAttribute(ctx context.Context, path, name, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO file_attributes (path, name, value) VALUES (?, ?, ?)
		 ON CONFLICT (path, name) DO UPDATE SET value = excluded.value`,
		path, name, value)
	return err
}

// GetAttribute implements metastore.Store.
func (s *Store) GetAttribute(ctx context.Context, path, name string) (string, error) {
	got, err := s.GetAttributes(ctx, path, name)
	if err != nil {
		return "", err
	}
	return got[name], nil
}

// GetAttributes implements metastore.Store. All requested names are read in
// one query so the caller sees a consistent snapshot.
func (s *Store) GetAttributes(ctx context.Context, path string, names ...string) (map[string]string, error) {
	// One query fetches every attribute of the path; filtering happens
	// client-side. Attribute sets per file are tiny, and a single statement
	// is what gives the snapshot guarantee.
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value FROM file_attributes WHERE path = ?`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := map[string]string{}
	for rows.Next() {
		var n, v string
		if err := rows.Scan(&n, &v); err != nil {
			return nil, err
		}
		all[n] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, metastore.ErrNotFound
	}

	out := make(map[string]string, len(names))
	for _, n := range names {
		if v, ok := all[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}
