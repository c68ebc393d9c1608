// Package layout models the declared record layout of a logical file.
//
// A layout is an ordered list of (name, type) field descriptors, optionally
// carrying a byte width for fixed-format files. Layouts are resolved for a
// path by a platform facility outside this module; this package only defines
// the shape and a JSON codec so layouts can be stored as metadata attributes
// and used as test fixtures.
package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Field describes one field of a record.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// Width is the field's byte width in fixed-format files. Zero for
	// delimited files, where widths are not meaningful.
	Width int `json:"width,omitempty"`
}

// Layout is an ordered sequence of fields describing one record.
//
// A nil or empty Layout is valid and means "no declared layout"; delimited
// datasets can still derive field names from a header line.
type Layout []Field

// Names returns the field names in declaration order.
func (l Layout) Names() []string {
	out := make([]string, 0, len(l))
	for _, f := range l {
		out = append(out, f.Name)
	}
	return out
}

// TotalWidth returns the summed byte width of all fields.
// It is zero when any field is missing a width, since a partial sum is not
// usable for fixed-format slicing.
func (l Layout) TotalWidth() int {
	total := 0
	for _, f := range l {
		if f.Width <= 0 {
			return 0
		}
		total += f.Width
	}
	return total
}

// ParseJSON decodes a layout stored as a JSON array of field objects.
//
// Edge cases:
//   - Empty or whitespace-only input yields an empty layout and no error.
//   - Fields without a name are rejected; a layout with anonymous fields
//     cannot be used for inference output.
func ParseJSON(data []byte) (Layout, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout json: %w", err)
	}
	for i, f := range l {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("parse layout json: field %d has no name", i)
		}
	}
	return l, nil
}

// MarshalJSONLayout encodes a layout back into its stored JSON form.
func MarshalJSONLayout(l Layout) ([]byte, error) {
	return json.Marshal(l)
}

// ResolveFunc resolves the layout in effect for a path at lookup time.
//
// The production implementation is platform-provided (see
// probe.StoreLayoutResolver); tests inject fixture funcs.
type ResolveFunc func(ctx context.Context, path string) (Layout, error)

// Fixed returns a ResolveFunc that always yields the given layout.
// Useful for tests and single-dataset tools.
func Fixed(l Layout) ResolveFunc {
	return func(ctx context.Context, path string) (Layout, error) {
		return l, nil
	}
}
