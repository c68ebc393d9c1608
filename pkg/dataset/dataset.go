// Package dataset describes how to read records from a logical file.
//
// A Handle binds a path to a declared layout and a read strategy. It is a
// description, not materialized data: handles are created fresh per probe
// invocation, carry no open resources, and are never mutated after
// construction.
package dataset

import (
	"recprobe/pkg/layout"
)

// Strategy selects how records are physically read from the file.
type Strategy int

const (
	// StrategyDelimited reads variable-length, delimiter-separated records,
	// optionally skipping a fixed number of header lines.
	StrategyDelimited Strategy = iota

	// StrategyFixed reads fixed-format records sliced by the declared
	// layout's field widths. No header skipping applies.
	StrategyFixed
)

func (s Strategy) String() string {
	switch s {
	case StrategyDelimited:
		return "delimited"
	case StrategyFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// DefaultDelimiter is the platform default used when a handle does not
// carry an explicit delimiter. Dispatch code must not set one; the default
// is applied at read time so the policy lives in exactly one place.
const DefaultDelimiter = ','

// Handle is a logical binding of (path, layout, read strategy).
type Handle struct {
	Path     string
	Layout   layout.Layout
	Strategy Strategy

	// HeaderSkip is the number of leading lines to skip before record data
	// starts. Meaningful only for StrategyDelimited; always zero for fixed
	// handles.
	HeaderSkip int

	// Delimiter overrides the platform default field separator for
	// delimited reads. Zero means "use DefaultDelimiter".
	Delimiter rune
}

// Delimited constructs a delimited handle over path with the given layout
// and header-skip count.
func Delimited(path string, l layout.Layout, headerSkip int) Handle {
	if headerSkip < 0 {
		headerSkip = 0
	}
	return Handle{
		Path:       path,
		Layout:     l,
		Strategy:   StrategyDelimited,
		HeaderSkip: headerSkip,
	}
}

// Fixed constructs a fixed-format handle over path with the given layout.
func Fixed(path string, l layout.Layout) Handle {
	return Handle{
		Path:     path,
		Layout:   l,
		Strategy: StrategyFixed,
	}
}

func (h Handle) delimiter() rune {
	if h.Delimiter != 0 {
		return h.Delimiter
	}
	return DefaultDelimiter
}
