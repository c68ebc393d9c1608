// Command recprobe proposes a best record structure for a file, resolving
// the file's storage kind and header length from a metadata store.
//
// The tool is the CLI face of pkg/probe: it wires a metadata store backend,
// a layout source, and optional Datadog metrics, then prints the canonical
// result one record per line.
//
// Metadata sources
//
//   - -store sqlite|postgres|mssql selects a database-backed attribute
//     store; -dsn (or the DSN environment variable) points at it.
//   - -store memory with -meta "kind=csv,headerLength=1" seeds an in-memory
//     store for ad-hoc runs against files with no recorded metadata.
//
// Layout sources
//
//   - By default the declared record layout is read from the store's
//     "recordLayout" attribute (JSON array of {name,type,width}).
//   - -layout <file.json> overrides it with a local fixture, which is the
//     practical way to probe fixed-format files during development.
//
// Exit status is non-zero on any error. An unsupported recorded kind still
// prints the (empty) result shape before exiting, so scripted consumers
// always see a well-formed record sequence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"recprobe/pkg/layout"
	"recprobe/pkg/metastore"
	"recprobe/pkg/metrics"
	"recprobe/pkg/metrics/datadog"
	"recprobe/pkg/probe"

	_ "recprobe/pkg/metastore/mssql"
	_ "recprobe/pkg/metastore/postgres"
	_ "recprobe/pkg/metastore/sqlite"
)

func main() {
	var (
		// flagPath is the path of the file to probe. The same string is the
		// metadata store key and the filesystem location of the data.
		flagPath = flag.String("path", "", "Path of the file to probe")

		// flagSample is the sampling percentage handed to inference.
		// Out-of-range values are clamped into [1,100] rather than rejected.
		flagSample = flag.Int("sample", 100, "Percent of sampled records to examine (clamped to 1-100)")

		// flagTransform additionally emits a rewrite-function declaration
		// after the field declarations.
		flagTransform = flag.Bool("transform", false, "Also emit a rewrite-function declaration")

		// flagHTML returns a single HTML fragment instead of declaration lines.
		flagHTML = flag.Bool("html", false, "Emit one HTML-formatted record instead of declaration lines")

		// flagStore selects the metadata store backend.
		flagStore = flag.String("store", "sqlite", "Metadata store backend: sqlite|postgres|mssql|memory")

		// flagDSN points at the metadata store. Falls back to the DSN
		// environment variable, then to a local sqlite file.
		flagDSN = flag.String("dsn", "", "Metadata store DSN (falls back to $DSN)")

		// flagMeta seeds attributes into the memory store, e.g.
		// "kind=csv,headerLength=1". Ignored for database-backed stores.
		flagMeta = flag.String("meta", "", "Seed attributes for -store memory, e.g. kind=csv,headerLength=1")

		// flagLayout points at a local JSON layout fixture overriding the
		// store's recordLayout attribute.
		flagLayout = flag.String("layout", "", "Path to a JSON record layout overriding the stored one")

		// flagBytes bounds how much of the file is read for sampling.
		flagBytes = flag.Int("bytes", 0, "Max bytes sampled from the file (0 = default)")

		// flagMetrics enables the Datadog metrics backend (requires the
		// usual DD_* environment).
		flagMetrics = flag.Bool("metrics", false, "Submit run metrics to Datadog")

		// flagTags adds extra Datadog tags, e.g. "env:prod,service:probe".
		flagTags = flag.String("tags", "", "Extra Datadog tags, comma separated")
	)
	flag.Parse()

	if strings.TrimSpace(*flagPath) == "" {
		log.Fatalf("recprobe: -path is required")
	}

	ctx := context.Background()

	store, err := openStore(ctx, *flagStore, *flagDSN, *flagPath, *flagMeta)
	if err != nil {
		log.Fatalf("recprobe: open metadata store: %v", err)
	}
	defer store.Close()

	resolveLayout, err := layoutSource(store, *flagLayout)
	if err != nil {
		log.Fatalf("recprobe: %v", err)
	}

	var backend metrics.Backend = metrics.Nop{}
	if *flagMetrics {
		dd, err := datadog.NewBackend(ctx, datadog.Options{
			JobName:    "recprobe",
			Tags:       datadog.ParseTagsCSV(*flagTags),
			FlushEvery: 10 * time.Second,
		})
		if err != nil {
			log.Fatalf("recprobe: datadog backend: %v", err)
		}
		defer func() {
			if err := dd.Close(); err != nil {
				log.Printf("recprobe: metrics flush: %v", err)
			}
		}()
		backend = dd
	}

	runner := &probe.Runner{
		Store:          store,
		ResolveLayout:  resolveLayout,
		Metrics:        backend,
		MaxSampleBytes: *flagBytes,
	}

	res, err := runner.BestRecordStructureFromPath(ctx, *flagPath, *flagSample, *flagTransform, *flagHTML)

	// The result shape is printable even when the run failed on an
	// unsupported kind; print first, then fail loud.
	for _, line := range res.Strings() {
		fmt.Println(line)
	}
	if err != nil {
		var uk *probe.UnsupportedKindError
		if errors.As(err, &uk) {
			log.Fatalf("recprobe: file kind %q is not supported", uk.Kind)
		}
		log.Fatalf("recprobe: %v", err)
	}
}

// openStore builds the selected metastore backend. The memory backend is
// seeded from -meta so files without recorded metadata can still be probed.
func openStore(ctx context.Context, kind, dsn, path, meta string) (metastore.Store, error) {
	if kind == "memory" {
		mem := metastore.NewMemory()
		if err := seedMemory(ctx, mem, path, meta); err != nil {
			return nil, err
		}
		return mem, nil
	}

	if dsn == "" {
		dsn = os.Getenv("DSN")
	}
	if dsn == "" && kind == "sqlite" {
		dsn = "file:recprobe_meta.db?cache=shared"
	}
	if dsn == "" {
		return nil, fmt.Errorf("backend %q needs -dsn or $DSN", kind)
	}

	return metastore.New(ctx, metastore.Config{Kind: kind, DSN: dsn})
}

// seedMemory parses "name=value,name=value" into attributes for path.
func seedMemory(ctx context.Context, mem *metastore.Memory, path, meta string) error {
	if strings.TrimSpace(meta) == "" {
		// A known path with no attributes: kind resolves to "", which
		// dispatches as delimited text.
		return mem.SetAttribute(ctx, path, metastore.AttrKind, "")
	}
	for _, pair := range strings.Split(meta, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return fmt.Errorf("bad -meta entry %q (want name=value)", pair)
		}
		if err := mem.SetAttribute(ctx, path, strings.TrimSpace(name), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

// layoutSource picks between a local layout fixture and the store's
// recordLayout attribute.
func layoutSource(store metastore.Store, layoutPath string) (layout.ResolveFunc, error) {
	if layoutPath == "" {
		return probe.StoreLayoutResolver(store), nil
	}
	raw, err := os.ReadFile(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", layoutPath, err)
	}
	l, err := layout.ParseJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", layoutPath, err)
	}
	return layout.Fixed(l), nil
}
