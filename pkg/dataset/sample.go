package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultSampleBytes bounds how much of the file is read for probing when
// the caller does not say otherwise.
const DefaultSampleBytes = 20000

// Sample is a bounded, parsed slice of the dataset's records.
//
// Rows are rectangular: every row has exactly len(Names) values, aligned
// with Names. Values are trimmed of surrounding whitespace.
type Sample struct {
	Names []string
	Rows  [][]string
}

// ReadSample reads at most maxBytes from the start of the handle's file and
// parses it according to the handle's read strategy.
//
// The read is best-effort, as probing demands: records that do not
// align with the expected field count are skipped rather than failing the
// sample. Fatal errors (unreadable file, unusable fixed layout) are returned.
func ReadSample(ctx context.Context, h Handle, maxBytes int) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}
	if maxBytes <= 0 {
		maxBytes = DefaultSampleBytes
	}

	raw, err := peekFile(h.Path, maxBytes)
	if err != nil {
		return Sample{}, err
	}

	// Cut the sample at the last newline to avoid a half-line record at the
	// end of the bounded read.
	if i := bytes.LastIndexByte(raw, '\n'); i > 0 {
		raw = raw[:i+1]
	}

	switch h.Strategy {
	case StrategyFixed:
		return readFixedSample(raw, h)
	default:
		return readDelimitedSample(raw, h)
	}
}

func peekFile(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	lr := &io.LimitedReader{R: f, N: int64(n)}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lr); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read dataset sample: %w", err)
	}
	return buf.Bytes(), nil
}

// readDelimitedSample parses delimiter-separated records. The first skipped
// header line, when present, supplies field names unless the handle carries
// a declared layout.
func readDelimitedSample(raw []byte, h Handle) (Sample, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Sample{Names: h.Layout.Names()}, nil
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = h.delimiter()
	r.FieldsPerRecord = -1 // alignment is validated manually
	r.LazyQuotes = true

	var header []string
	for skip := 0; skip < h.HeaderSkip; skip++ {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return Sample{Names: h.Layout.Names()}, nil
			}
			return Sample{}, fmt.Errorf("read header line: %w", err)
		}
		if skip == 0 {
			header = rec
		}
	}

	rows := make([][]string, 0, 1024)
	var first []string
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Sample{}, fmt.Errorf("read record: %w", err)
		}
		if first == nil {
			first = rec
		}
		rows = append(rows, rec)
	}

	names := fieldNames(h, header, len(first))

	// Keep only rows aligned with the chosen field count, trimmed.
	out := rows[:0]
	for _, rec := range rows {
		if len(rec) != len(names) {
			continue
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		out = append(out, rec)
	}

	return Sample{Names: names, Rows: out}, nil
}

// fieldNames picks record field names in priority order: declared layout,
// then the first header line, then positional placeholders.
func fieldNames(h Handle, header []string, width int) []string {
	if names := h.Layout.Names(); len(names) > 0 {
		return names
	}
	if len(header) > 0 {
		out := make([]string, len(header))
		for i, v := range header {
			out[i] = strings.TrimSpace(v)
		}
		return out
	}
	out := make([]string, width)
	for i := range out {
		out[i] = fmt.Sprintf("field_%d", i+1)
	}
	return out
}

// readFixedSample slices newline-terminated fixed-format records by the
// declared layout's field widths. Lines shorter than the record width are
// skipped.
func readFixedSample(raw []byte, h Handle) (Sample, error) {
	total := h.Layout.TotalWidth()
	if total <= 0 {
		return Sample{}, fmt.Errorf("fixed read over %s: layout has no usable field widths", h.Path)
	}

	names := h.Layout.Names()
	rows := make([][]string, 0, 1024)

	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if len(line) < total {
			continue
		}

		rec := make([]string, 0, len(names))
		off := 0
		for _, f := range h.Layout {
			rec = append(rec, strings.TrimSpace(line[off:off+f.Width]))
			off += f.Width
		}
		rows = append(rows, rec)
	}

	return Sample{Names: names, Rows: rows}, nil
}
