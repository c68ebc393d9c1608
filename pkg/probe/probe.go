// Package probe resolves a bare file path into a typed dataset view and
// proposes a best record structure for it.
//
// The package is the glue between three collaborators it does not implement:
// the metadata store (what kind of file is this, how many header lines), the
// platform layout-resolution facility (what fields does it declare), and the
// schema-inference routine (what structure fits the data). Its job is to:
//   - resolve per-path metadata into a consistent snapshot
//   - dispatch the recorded kind onto a dataset read strategy
//   - invoke inference and normalize its mode-dependent output into one
//     canonical record shape, so callers never branch on which path ran
//
// An invocation is synchronous, call-and-return, with no internal retries,
// timeouts, or shared mutable state; independent invocations may run
// concurrently. Callers needing cancellation wrap the context.
package probe

import (
	"context"
	"errors"
	"log"
	"time"

	"recprobe/pkg/dataset"
	"recprobe/pkg/infer"
	"recprobe/pkg/layout"
	"recprobe/pkg/metastore"
	"recprobe/pkg/metrics"
)

// Record is one canonical result record: a single string field.
//
// The field's meaning depends on the invocation's output mode: an HTML
// fragment in text mode, otherwise one declaration (or rewrite-function)
// line.
type Record struct {
	Text string
}

// Result is the canonical, mode-independent result shape. Text mode yields
// exactly one record; declaration mode yields one record per line, in order.
type Result struct {
	Records []Record
}

// Strings flattens the result for display.
func (r Result) Strings() []string {
	out := make([]string, 0, len(r.Records))
	for _, rec := range r.Records {
		out = append(out, rec.Text)
	}
	return out
}

// InferFunc is the schema-inference seam. The default is
// infer.BestRecordStructure; tests inject fakes.
type InferFunc func(ctx context.Context, req infer.Request) (infer.Output, error)

// Runner wires the collaborators for path-based probing.
//
// The zero value of every optional field has a safe default; only Store is
// required. A Runner is immutable after construction and safe for
// concurrent use.
type Runner struct {
	// Store answers per-path attribute lookups. Required.
	Store metastore.Store

	// ResolveLayout yields the declared record layout for a path. Nil means
	// "no declared layout": delimited datasets then derive names from their
	// header line, while fixed datasets will fail inference (fixed reads
	// need field widths).
	ResolveLayout layout.ResolveFunc

	// Infer overrides the inference routine. Nil means infer.BestRecordStructure.
	Infer InferFunc

	// Metrics receives run counters and latency samples. Nil means discard.
	Metrics metrics.Backend

	// Logger receives policy warnings (e.g. the unknown-kind fallback).
	// Nil means the process-default logger.
	Logger *log.Logger

	// MaxSampleBytes bounds the dataset prefix read by the default
	// inference routine. Zero means dataset.DefaultSampleBytes.
	MaxSampleBytes int
}

// BestRecordStructureFromPath resolves path's metadata, builds the matching
// dataset view, and returns the inferred record structure in canonical form.
//
// Parameters:
//   - samplingPercent: fraction of sampled records examined, clamped into
//     [1, 100] (out-of-range values are clamped, not rejected).
//   - emitTransform: also emit a rewrite-function declaration.
//   - textOutput: return one HTML-formatted record instead of declaration
//     lines.
//
// Errors:
//   - *ResolutionError: metadata or layout could not be resolved. No result.
//   - *UnsupportedKindError: the recorded kind is recognized but unhandled.
//     The returned Result is empty but well-shaped (zero records, non-nil),
//     and the error carries the offending kind.
//   - Inference failures are passed through unchanged.
func (r *Runner) BestRecordStructureFromPath(ctx context.Context, path string, samplingPercent int, emitTransform, textOutput bool) (Result, error) {
	start := time.Now()

	pct := clampPercent(samplingPercent)

	md, err := Resolver{Store: r.Store}.Resolve(ctx, path)
	if err != nil {
		r.observe("unknown", "resolution_error", start)
		return Result{}, err
	}

	kind := classifyKind(md.Kind)
	if kind.class == classUnsupported {
		r.logger().Printf("probe: %s: unsupported kind %q; returning empty structure", path, kind.raw)
		r.observe(kind.label(), "unsupported_kind", start)
		return Result{Records: []Record{}}, &UnsupportedKindError{Kind: kind.raw}
	}

	lay, err := r.resolveLayout(ctx, path)
	if err != nil {
		r.observe(kind.label(), "resolution_error", start)
		return Result{}, &ResolutionError{Path: path, Err: err}
	}

	var ds dataset.Handle
	switch kind.class {
	case classFlat:
		// Fixed layouts carry no header lines; HeaderLineCount is ignored.
		ds = dataset.Fixed(path, lay)
	case classUnknown:
		r.logger().Printf("probe: %s has no recorded kind; assuming delimited text", path)
		ds = dataset.Delimited(path, lay, md.HeaderLineCount)
	default:
		ds = dataset.Delimited(path, lay, md.HeaderLineCount)
	}

	req := infer.Request{
		Dataset:         ds,
		SamplingPercent: pct,
		EmitTransform:   emitTransform,
		TextOutput:      textOutput,
		MaxSampleBytes:  r.MaxSampleBytes,
	}

	out, err := r.inferFn()(ctx, req)
	if err != nil {
		// Inference failures are the routine's own; pass through unchanged.
		r.observe(kind.label(), "inference_error", start)
		return Result{}, err
	}

	r.observe(kind.label(), "ok", start)
	return normalize(out, textOutput), nil
}

// normalize re-projects the inference routine's output field-by-field onto
// the canonical single-string-field record. The explicit mapping keeps this
// package's output contract stable even if the routine's own shape changes.
func normalize(out infer.Output, textOutput bool) Result {
	if textOutput {
		return Result{Records: []Record{{Text: out.HTML}}}
	}
	recs := make([]Record, 0, len(out.Records))
	for _, rec := range out.Records {
		recs = append(recs, Record{Text: rec.Decl})
	}
	return Result{Records: recs}
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

func (r *Runner) resolveLayout(ctx context.Context, path string) (layout.Layout, error) {
	if r.ResolveLayout == nil {
		return nil, nil
	}
	return r.ResolveLayout(ctx, path)
}

func (r *Runner) inferFn() InferFunc {
	if r.Infer != nil {
		return r.Infer
	}
	return infer.BestRecordStructure
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

func (r *Runner) observe(kind, status string, start time.Time) {
	m := r.Metrics
	if m == nil {
		return
	}
	labels := metrics.Labels{"kind": kind, "status": status}
	m.IncCounter(metrics.ProbeRunsTotal, 1, labels)
	m.ObserveHistogram(metrics.ProbeRunDurationSeconds, time.Since(start).Seconds(), labels)
}

// LayoutAttr is the metadata attribute under which StoreLayoutResolver
// expects the JSON-encoded record layout.
const LayoutAttr = "recordLayout"

// StoreLayoutResolver adapts a metadata store into a layout.ResolveFunc by
// reading the path's JSON layout attribute. An absent attribute (or a path
// unknown to the store) resolves to "no declared layout" rather than an
// error; kind dispatch decides whether that is acceptable.
func StoreLayoutResolver(store metastore.Store) layout.ResolveFunc {
	return func(ctx context.Context, path string) (layout.Layout, error) {
		raw, err := store.GetAttribute(ctx, path, LayoutAttr)
		if err != nil {
			if errors.Is(err, metastore.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		if raw == "" {
			return nil, nil
		}
		return layout.ParseJSON([]byte(raw))
	}
}
