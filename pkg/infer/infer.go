// Package infer proposes a "best" record structure for a dataset.
//
// The routine samples a bounded prefix of the dataset, scans each column for
// the most specific type that fits every observed value, and emits the result
// in one of three shapes:
//   - one declaration line per field (e.g. "STRING20 customer_id;")
//   - the declarations plus a companion rewrite-function block
//   - a single HTML fragment enumerating the same fields
//
// Design constraints:
//   - Sampling must be bounded in memory and time.
//   - Inference is best-effort over the sample and deterministic: the same
//     file and request always produce the same output.
//   - The routine never mutates the file or its metadata.
package infer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"recprobe/pkg/dataset"
)

// Request is a single inference invocation: constructed once, consumed once.
type Request struct {
	Dataset dataset.Handle

	// SamplingPercent is the fraction of sampled records examined, 1-100.
	// Out-of-range values are clamped.
	SamplingPercent int

	// EmitTransform requests a rewrite-function block mapping raw records
	// onto the proposed structure, appended after the declarations.
	EmitTransform bool

	// TextOutput requests a single HTML-formatted string instead of one
	// declaration line per field.
	TextOutput bool

	// MaxSampleBytes bounds the byte prefix read from the dataset.
	// Zero means dataset.DefaultSampleBytes.
	MaxSampleBytes int
}

// Record is one output row in declaration mode.
type Record struct {
	Decl string
}

// Output is the routine's native result shape. Exactly one of HTML or
// Records is populated, depending on Request.TextOutput. Callers wanting a
// mode-independent shape should re-project it (see the probe package)
// rather than consuming Output directly.
type Output struct {
	// Records holds declaration lines, in field order, followed by the
	// rewrite-function lines when EmitTransform was set.
	Records []Record

	// HTML holds the single formatted fragment in text mode.
	HTML string
}

// FieldStructure is the proposed structure of one field.
type FieldStructure struct {
	Name     string // normalized field name
	DeclType string // e.g. "STRING20", "INT", "DATE"
	kind     string // internal inference label, drives transform emission
}

// Declaration renders the field as a single declaration line.
func (f FieldStructure) Declaration() string {
	return fmt.Sprintf("%s %s;", f.DeclType, f.Name)
}

// BestRecordStructure runs sampling and inference over the dataset described
// by req and renders the requested output shape.
//
// Errors:
//   - Fatal sampling errors (unreadable file, unusable fixed layout) are
//     returned as-is.
//   - A sample with no detectable fields is an error: proposing an empty
//     structure would silently generate wrong schemas downstream.
func BestRecordStructure(ctx context.Context, req Request) (Output, error) {
	sample, err := dataset.ReadSample(ctx, req.Dataset, req.MaxSampleBytes)
	if err != nil {
		return Output{}, err
	}
	if len(sample.Names) == 0 {
		return Output{}, fmt.Errorf("infer %s: no fields detected in sample", req.Dataset.Path)
	}

	rows := strideRows(sample.Rows, clampPercent(req.SamplingPercent))
	fields := inferFields(sample.Names, rows)

	if req.TextOutput {
		return Output{HTML: renderHTML(fields, req.EmitTransform)}, nil
	}

	recs := make([]Record, 0, len(fields))
	for _, f := range fields {
		recs = append(recs, Record{Decl: f.Declaration()})
	}
	if req.EmitTransform {
		for _, line := range transformLines(fields) {
			recs = append(recs, Record{Decl: line})
		}
	}
	return Output{Records: recs}, nil
}

func clampPercent(p int) int {
	if p < 1 {
		return 1
	}
	if p > 100 {
		return 100
	}
	return p
}

// strideRows keeps roughly pct% of rows with a deterministic, order
// preserving stride, so repeated invocations over unchanged data see the
// same records.
func strideRows(rows [][]string, pct int) [][]string {
	if pct >= 100 || len(rows) == 0 {
		return rows
	}
	out := make([][]string, 0, len(rows)*pct/100+1)
	for i, r := range rows {
		if ((i+1)*pct)/100 > (i*pct)/100 {
			out = append(out, r)
		}
	}
	return out
}

// inferFields proposes one FieldStructure per column.
//
// Names are normalized into safe identifiers; a name that normalizes to
// nothing falls back to its position.
func inferFields(names []string, rows [][]string) []FieldStructure {
	out := make([]FieldStructure, 0, len(names))
	for col, raw := range names {
		name := truncateFieldName(normalizeFieldName(raw))
		if name == "" {
			name = fmt.Sprintf("field_%d", col+1)
		}

		kind, width := inferColumn(rows, col)
		out = append(out, FieldStructure{
			Name:     name,
			DeclType: declType(kind, width),
			kind:     kind,
		})
	}
	return out
}

// inferColumn scans one column for the most specific type that fits every
// non-empty value, and the maximum observed value width.
//
// Returned kind is one of: "integer", "float", "boolean", "date",
// "timestamp", "text".
func inferColumn(rows [][]string, col int) (kind string, width int) {
	var seen bool
	allInt := true
	allFloat := true
	allBool := true
	allDate := true
	allTS := true

	for _, r := range rows {
		if col >= len(r) {
			continue
		}
		v := r[col]
		if v == "" {
			continue
		}
		seen = true
		if len(v) > width {
			width = len(v)
		}

		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allFloat = false
			}
		}
		if allBool {
			if _, ok := parseBoolLoose(v); !ok {
				allBool = false
			}
		}
		if allDate {
			if _, ok := parseDateLoose(v); !ok {
				allDate = false
			}
		}
		if allTS {
			if _, ok := parseTimestampLoose(v); !ok {
				allTS = false
			}
		}
	}

	if !seen {
		return "text", width
	}
	// Prefer more specific types.
	switch {
	case allInt:
		return "integer", width
	case allBool:
		return "boolean", width
	case allDate:
		return "date", width
	case allTS:
		return "timestamp", width
	case allFloat:
		return "float", width
	default:
		return "text", width
	}
}

// declType maps an inference label onto a declaration type token.
func declType(kind string, width int) string {
	switch kind {
	case "integer":
		return "INT"
	case "float":
		return "FLOAT"
	case "boolean":
		return "BOOL"
	case "date":
		return "DATE"
	case "timestamp":
		return "DATETIME"
	default:
		if width < 1 {
			width = 1
		}
		return fmt.Sprintf("STRING%d", width)
	}
}

func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "y":
		return true, true
	case "0", "f", "false", "no", "n":
		return false, true
	default:
		return false, false
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"01/02/2006",
}

var tsLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
	"02.01.2006 15:04:05",
}

func parseDateLoose(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, lay := range dateLayouts {
		if t, err := time.Parse(lay, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTimestampLoose(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, lay := range tsLayouts {
		if t, err := time.Parse(lay, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
