// Package datadog implements a Datadog backend for the metrics package.
//
// NOTE ABOUT FLUSHING:
// Probing is usually short-lived (a CLI run or a single service call), but
// the backend must also behave when embedded in a long-running service that
// probes many paths. Submitting only once at process exit would turn a
// service's metrics into a single spike, so we:
//   - buffer metrics in-memory (fast, lock-protected)
//   - periodically Flush() on a ticker (default: once per minute)
//   - Flush() one final time on Close()
//
// Concurrency model:
//   - probe invocations can call IncCounter/ObserveHistogram at any time
//   - Flush snapshots+resets buffers under a mutex, then submits out-of-lock
//   - the flush loop calls Flush() periodically; Close() stops the loop
//
// If the process dies with SIGKILL/OOM, Close() won't run; no backend can
// fix that.
package datadog

import (
	"context"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"recprobe/pkg/metrics"

	dd "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

// Options controls Datadog backend configuration.
type Options struct {
	// JobName becomes tag "job:<name>" on every metric.
	// If empty, defaults to "recprobe".
	JobName string

	// Tags are extra Datadog tags (e.g. []string{"env:prod", "service:probe"}).
	Tags []string

	// FlushEvery controls how often buffered metrics are submitted.
	// If <= 0, defaults to 60 seconds.
	FlushEvery time.Duration

	// The following fields are unexported test seams. Production code never
	// sets them; unit tests use them to avoid real network submission and
	// nondeterministic clocks/tickers.
	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker
	submitter metricsSubmitter
}

// metricsSubmitter is the minimal interface needed to submit metrics.
//
// The Datadog SDK exposes a concrete *datadogV2.MetricsApi, which cannot be
// stubbed without real HTTP. Backend depends on this interface instead,
// enabling deterministic tests with a fake submitter.
type metricsSubmitter interface {
	SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error)
}

// Backend implements metrics.Backend for Datadog.
type Backend struct {
	api metricsSubmitter
	ctx context.Context

	flushEvery time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}

	baseTags []string

	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker

	mu sync.Mutex

	runCounts       map[string]float64   // kind\x00status -> count
	durationSamples map[string][]float64 // kind\x00status -> seconds
}

func resolveEnvTag() string {
	if v := strings.TrimSpace(os.Getenv("ENV")); v != "" {
		return "env:" + v
	}
	if v := strings.TrimSpace(os.Getenv("DD_ENV")); v != "" {
		return "env:" + v
	}
	return "env:unknown"
}

// NewBackend constructs a Datadog backend using the official client.
//
// Edge cases:
//   - If opts.FlushEvery <= 0, defaults to 60s.
//   - If opts.JobName is empty, defaults to "recprobe".
//   - Environment tag selection uses ENV then DD_ENV, otherwise env:unknown.
//
// Network errors occur during Flush(), not construction.
func NewBackend(parent context.Context, opts Options) (*Backend, error) {
	job := opts.JobName
	if job == "" {
		job = "recprobe"
	}

	flushEvery := opts.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 60 * time.Second
	}

	baseTags := make([]string, 0, 2+len(opts.Tags))
	baseTags = append(baseTags, resolveEnvTag(), "job:"+job)
	baseTags = append(baseTags, opts.Tags...)

	nowFn := opts.now
	if nowFn == nil {
		nowFn = time.Now
	}
	newTicker := opts.newTicker
	if newTicker == nil {
		newTicker = time.NewTicker
	}

	submitter := opts.submitter
	if submitter == nil {
		cfg := dd.NewConfiguration()
		client := dd.NewAPIClient(cfg)
		submitter = datadogV2.NewMetricsApi(client)
	}

	b := &Backend{
		api:        submitter,
		ctx:        dd.NewDefaultContext(parent),
		flushEvery: flushEvery,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),

		baseTags: baseTags,

		now:       nowFn,
		newTicker: newTicker,

		runCounts:       make(map[string]float64),
		durationSamples: make(map[string][]float64),
	}

	go b.loop()
	return b, nil
}

func (b *Backend) loop() {
	defer close(b.doneCh)

	t := b.newTicker(b.flushEvery)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			_ = b.Flush()
		case <-b.stopCh:
			return
		}
	}
}

// Close stops the background flush loop and performs one final Flush().
//
// Close must be called exactly once; a second call panics on the closed
// stop channel, matching the usual Go "close once" contract for
// process-lifetime backends.
func (b *Backend) Close() error {
	close(b.stopCh)
	<-b.doneCh
	return b.Flush()
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if delta <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch name {
	case metrics.ProbeRunsTotal:
		b.runCounts[kindStatusKey(labels["kind"], labels["status"])] += delta
	default:
		// Ignore unknown metrics by design.
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if value < 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch name {
	case metrics.ProbeRunDurationSeconds:
		k := kindStatusKey(labels["kind"], labels["status"])
		b.durationSamples[k] = append(b.durationSamples[k], value)
	default:
		// Ignore unknown histograms by design.
	}
}

// snapshot is the buffered metric state a single Flush submits.
//
// Flush() must reset buffers under a lock but submit out-of-lock; snapshot
// separates (1) collect+reset from (2) payload building+submission.
type snapshot struct {
	runCounts       map[string]float64
	durationSamples map[string][]float64
}

func (s snapshot) isEmpty() bool {
	return len(s.runCounts) == 0 && len(s.durationSamples) == 0
}

// snapshotAndReset grabs current buffered metrics and resets buffers.
// Call with no lock held; it takes the lock internally and returns
// detached maps.
func (b *Backend) snapshotAndReset() snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := snapshot{
		runCounts:       b.runCounts,
		durationSamples: b.durationSamples,
	}
	b.runCounts = make(map[string]float64)
	b.durationSamples = make(map[string][]float64)
	return s
}

// Flush submits buffered metrics to Datadog and resets local buffers.
//
// Buffers are reset even if submission fails, keeping the hot path fast and
// non-blocking. Returns nil when there is nothing to submit.
func (b *Backend) Flush() error {
	snap := b.snapshotAndReset()
	if snap.isEmpty() {
		return nil
	}

	nowUnix := b.now().Unix()
	payload := datadogV2.MetricPayload{Series: b.buildSeries(snap, nowUnix)}

	_, _, err := b.api.SubmitMetrics(b.ctx, payload, *datadogV2.NewSubmitMetricsOptionalParameters())
	return err
}

// buildSeries constructs Datadog series for a snapshot at a fixed timestamp.
// It is pure (no locks, no network, no clocks), which keeps the naming and
// tagging contract unit-testable.
func (b *Backend) buildSeries(s snapshot, nowUnix int64) []datadogV2.MetricSeries {
	series := make([]datadogV2.MetricSeries, 0, len(s.runCounts)+6*len(s.durationSamples))

	for k, v := range s.runCounts {
		if v == 0 {
			continue
		}
		kind, status := splitKindStatusKey(k)
		tags := withTags(b.baseTags, "kind:"+kind, "status:"+status)
		series = append(series, countSeries("recprobe.runs.total", v, tags, nowUnix))
	}

	for k, samples := range s.durationSamples {
		if len(samples) == 0 {
			continue
		}
		cp := append([]float64(nil), samples...)
		sort.Float64s(cp)

		kind, status := splitKindStatusKey(k)
		tags := withTags(b.baseTags, "kind:"+kind, "status:"+status)

		const prefix = "recprobe.run.duration_seconds"
		series = append(series, gaugeSeries(prefix+".p50", percentileNearestRank(cp, 0.50), tags, nowUnix))
		series = append(series, gaugeSeries(prefix+".p90", percentileNearestRank(cp, 0.90), tags, nowUnix))
		series = append(series, gaugeSeries(prefix+".p95", percentileNearestRank(cp, 0.95), tags, nowUnix))
		series = append(series, gaugeSeries(prefix+".p99", percentileNearestRank(cp, 0.99), tags, nowUnix))
		series = append(series, gaugeSeries(prefix+".max", cp[len(cp)-1], tags, nowUnix))
		series = append(series, gaugeSeries(prefix+".samples", float64(len(cp)), tags, nowUnix))
	}

	return series
}

func countSeries(metric string, value float64, tags []string, nowUnix int64) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   datadogV2.METRICINTAKETYPE_COUNT.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

func gaugeSeries(metric string, value float64, tags []string, nowUnix int64) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   datadogV2.METRICINTAKETYPE_GAUGE.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

// ParseTagsCSV splits a comma-separated tag list ("env:prod,service:probe")
// into Options.Tags form, trimming whitespace and skipping empty segments.
func ParseTagsCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, seg := range strings.Split(s, ",") {
		if t := strings.TrimSpace(seg); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func kindStatusKey(kind, status string) string {
	return kind + "\x00" + status
}

func splitKindStatusKey(k string) (kind, status string) {
	parts := strings.SplitN(k, "\x00", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return k, "unknown"
}

func withTags(base []string, extras ...string) []string {
	out := make([]string, 0, len(base)+len(extras))
	out = append(out, base...)
	out = append(out, extras...)
	return out
}

func percentileNearestRank(s []float64, p float64) float64 {
	n := len(s)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return s[0]
	}
	if p >= 1 {
		return s[n-1]
	}
	idx := int(p*float64(n-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return s[idx]
}
