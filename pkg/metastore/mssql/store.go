// Package mssql implements metastore.Store on SQL Server via database/sql
// and the go-mssqldb driver.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"

	"recprobe/pkg/metastore"
)

// Store implements metastore.Store for SQL Server.
type Store struct {
	db *sql.DB
}

func init() {
	metastore.Register("mssql", func(ctx context.Context, cfg metastore.Config) (metastore.Store, error) {
		return New(ctx, cfg.DSN)
	})
}

// NVARCHAR caps keep the composite primary key inside SQL Server's 900-byte
// index key limit.
const createAttrTable = `
IF OBJECT_ID('file_attributes', 'U') IS NULL
CREATE TABLE file_attributes (
	path  NVARCHAR(400) NOT NULL,
	name  NVARCHAR(128) NOT NULL,
	value NVARCHAR(MAX) NOT NULL,
	PRIMARY KEY (path, name)
)`

// New opens a connection against dsn and ensures the attribute table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlserver", dsn)
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
	// SQL Server has no ON CONFLICT; MERGE is the idiomatic upsert.
	_, err := s.db.ExecContext(ctx, `
MERGE file_attributes AS t
USING (SELECT @p1 AS path, @p2 AS name, @p3 AS value) AS src
ON t.path = src.path AND t.name = src.name
WHEN MATCHED THEN UPDATE SET value = src.value
WHEN NOT MATCHED THEN INSERT (path, name, value) VALUES (src.path, src.name, src.value);`,
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

// GetAttributes implements metastore.Store.
func (s *Store) GetAttributes(ctx context.Context, path string, names ...string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value FROM file_attributes WHERE path = @p1`, path)
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
