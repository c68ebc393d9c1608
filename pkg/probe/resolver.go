package probe

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"recprobe/pkg/metastore"
)

// FileMetadata is the per-path metadata probing needs: the recorded storage
// kind and the number of header lines preceding record data.
//
// It is fetched fresh on every invocation and never cached across calls;
// the underlying file (and its metadata) may change between invocations.
type FileMetadata struct {
	// Kind is the store's classification of the file's physical storage,
	// trimmed of surrounding whitespace and control characters. Empty means
	// "unclassified".
	Kind string

	// HeaderLineCount is the number of leading header lines, >= 0.
	// Absent or unparsable values default to 0.
	HeaderLineCount int
}

// Resolver answers "what is this file" by querying the metadata store.
type Resolver struct {
	Store metastore.Store
}

// Resolve fetches the file metadata for path.
//
// Both attributes are fetched in a single store round trip so the invocation
// observes a consistent snapshot even if metadata changes concurrently
// (best-effort, not transactional).
//
// Errors:
//   - Any store failure, including an unknown path, is returned as a
//     *ResolutionError. Resolve never fabricates default metadata on error.
func (r Resolver) Resolve(ctx context.Context, path string) (FileMetadata, error) {
	attrs, err := r.Store.GetAttributes(ctx, path,
		metastore.AttrKind, metastore.AttrHeaderLength)
	if err != nil {
		return FileMetadata{}, &ResolutionError{Path: path, Err: err}
	}

	return FileMetadata{
		Kind:            trimKind(attrs[metastore.AttrKind]),
		HeaderLineCount: parseHeaderLength(attrs[metastore.AttrHeaderLength]),
	}, nil
}

// trimKind strips surrounding whitespace and control characters. Stores fed
// by external tooling have been observed to carry trailing newlines.
func trimKind(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
}

// parseHeaderLength parses an unsigned header-line count, defaulting to 0
// when the attribute is absent, negative, or not a number.
func parseHeaderLength(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0
	}
	return int(n)
}
