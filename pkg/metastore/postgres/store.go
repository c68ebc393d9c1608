// Package postgres implements metastore.Store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"recprobe/pkg/metastore"
)

// Store implements metastore.Store for Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func init() {
	metastore.Register("postgres", func(ctx context.Context, cfg metastore.Config) (metastore.Store, error) {
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

// New opens a pool against dsn and ensures the attribute table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createAttrTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create file_attributes: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

// SetAttribute upserts one attribute value. Not part of metastore.Store;
// exposed for seeding and tests.
func (s *Store) SetAttribute(ctx context.Context, path, name, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO file_attributes (path, name, value) VALUES ($1, $2, $3)
		 ON CONFLICT (path, name) DO UPDATE SET value = EXCLUDED.value`,
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

// GetAttributes implements metastore.Store. One statement per call keeps the
// snapshot consistent under concurrent attribute writes.
func (s *Store) GetAttributes(ctx context.Context, path string, names ...string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, value FROM file_attributes WHERE path = $1`, path)
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
