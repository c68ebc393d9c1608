package probe

import (
	"context"
	"errors"
	"testing"

	"recprobe/pkg/metastore"
)

// recordingStore counts round trips and replays canned attribute maps.
type recordingStore struct {
	attrs map[string]string
	err   error
	calls int
}

func (s *recordingStore) GetAttribute(ctx context.Context, path, name string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.attrs[name], nil
}

func (s *recordingStore) GetAttributes(ctx context.Context, path string, names ...string) (map[string]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]string, len(names))
	for _, n := range names {
		if v, ok := s.attrs[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

func (s *recordingStore) Close() {}

// TestResolve_SingleRoundTrip verifies both attributes are fetched in one
// store call, keeping the metadata snapshot consistent.
func TestResolve_SingleRoundTrip(t *testing.T) {
	t.Parallel()

	store := &recordingStore{attrs: map[string]string{
		metastore.AttrKind:         "csv",
		metastore.AttrHeaderLength: "3",
	}}

	md, err := Resolver{Store: store}.Resolve(context.Background(), "/data/sales.csv")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("store round trips = %d, want 1", store.calls)
	}
	if md.Kind != "csv" || md.HeaderLineCount != 3 {
		t.Fatalf("metadata = %+v, want kind csv headerLines 3", md)
	}
}

// TestResolve_StoreError verifies store failures are wrapped as resolution
// errors with the cause preserved and no fabricated defaults.
func TestResolve_StoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	store := &recordingStore{err: boom}

	md, err := Resolver{Store: store}.Resolve(context.Background(), "/data/sales.csv")
	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v (%T), want *ResolutionError", err, err)
	}
	if re.Path != "/data/sales.csv" {
		t.Fatalf("error path = %q", re.Path)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("cause not preserved: %v", err)
	}
	if md != (FileMetadata{}) {
		t.Fatalf("metadata on error = %+v, want zero", md)
	}
}

// TestResolve_AbsentAttributes verifies absent attributes resolve to the
// unclassified defaults rather than failing.
func TestResolve_AbsentAttributes(t *testing.T) {
	t.Parallel()

	store := &recordingStore{attrs: map[string]string{}}

	md, err := Resolver{Store: store}.Resolve(context.Background(), "/data/mystery")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if md.Kind != "" || md.HeaderLineCount != 0 {
		t.Fatalf("metadata = %+v, want empty kind and 0 header lines", md)
	}
}

func TestTrimKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"csv", "csv"},
		{" csv ", "csv"},
		{"csv\n", "csv"},
		{"\tflat\r\n", "flat"},
		{"csv\x00", "csv"},
		{"\x00\x01", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := trimKind(tt.in); got != tt.want {
			t.Errorf("trimKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseHeaderLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"1", 1},
		{"12", 12},
		{" 3 ", 3},
		{"", 0},
		{"-1", 0},
		{"abc", 0},
		{"1.5", 0},
		{"99999999999999999999", 0},
	}

	for _, tt := range tests {
		if got := parseHeaderLength(tt.in); got != tt.want {
			t.Errorf("parseHeaderLength(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClassifyKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		class kindClass
		label string
	}{
		{"flat", classFlat, "flat"},
		{"csv", classDelimited, "csv"},
		{"", classUnknown, "unknown"},
		{"parquet", classUnsupported, "unsupported"},
		{"CSV", classUnsupported, "unsupported"},
	}

	for _, tt := range tests {
		k := classifyKind(tt.in)
		if k.class != tt.class {
			t.Errorf("classifyKind(%q).class = %v, want %v", tt.in, k.class, tt.class)
		}
		if k.label() != tt.label {
			t.Errorf("classifyKind(%q).label() = %q, want %q", tt.in, k.label(), tt.label)
		}
		if k.raw != tt.in {
			t.Errorf("classifyKind(%q).raw = %q, want the input preserved", tt.in, k.raw)
		}
	}
}
