// Package metastore defines the metadata store consumed by record-structure
// probing: a key-value lookup of file attributes keyed by path.
//
// The store answers questions like "what is this file's kind" and "how many
// header lines does it carry". Probing only ever reads; how attributes are
// originally populated (upload/ingestion tooling) is out of scope, though
// concrete backends expose a SetAttribute writer for seeding and tests.
//
// Backends register themselves by kind, mirroring how the rest of the module
// selects storage implementations:
//
//	import _ "recprobe/pkg/metastore/sqlite"
//	st, err := metastore.New(ctx, metastore.Config{Kind: "sqlite", DSN: dsn})
package metastore

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Common attribute names probed for every file.
const (
	AttrKind         = "kind"
	AttrHeaderLength = "headerLength"
)

// ErrNotFound reports that a path has no attributes at all in the store.
// "Path exists but attribute absent" is not an error; absent attributes are
// simply missing from the result map.
var ErrNotFound = errors.New("metastore: path not found")

// Store is read-only access to per-path file attributes.
//
// Implementations must be safe for concurrent use; independent probe
// invocations may query the same store at the same time.
type Store interface {
	// GetAttribute returns the value of a single attribute for path.
	// Absent attributes yield "" with a nil error. ErrNotFound is returned
	// only when the path itself is unknown.
	GetAttribute(ctx context.Context, path, name string) (string, error)

	// GetAttributes fetches several attributes in one round trip so callers
	// observe a consistent snapshot even if metadata changes concurrently.
	// Absent attributes are absent from the returned map.
	GetAttributes(ctx context.Context, path string, names ...string) (map[string]string, error)

	// Close releases backend resources. Call once at shutdown.
	Close()
}

// Config selects and configures a registered backend.
type Config struct {
	Kind string
	DSN  string
}

// ---- backend factories ----

type factory func(ctx context.Context, cfg Config) (Store, error)

var (
	regMu     sync.RWMutex
	factories = map[string]factory{}
)

// Register installs a backend factory under kind. Backend packages call this
// from init; a duplicate kind panics because it is a wiring bug.
func Register(kind string, fn func(ctx context.Context, cfg Config) (Store, error)) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("metastore: duplicate backend %q", kind))
	}
	factories[kind] = fn
}

// New constructs a Store for cfg.Kind.
func New(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("metastore: empty backend kind")
	}
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("metastore: unsupported backend %q", cfg.Kind)
	}
	return fn(ctx, cfg)
}
