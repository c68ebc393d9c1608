package dataset

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"recprobe/pkg/layout"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

//
// ReadSample (delimited)
//

// TestReadSample_DelimitedHeader verifies header-skip behavior: the first
// skipped line supplies field names and data rows are trimmed and aligned.
func TestReadSample_DelimitedHeader(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "orders.csv", "customer_id,qty\nc1, 5\nc2,7\n")

	s, err := ReadSample(context.Background(), Delimited(p, nil, 1), 0)
	if err != nil {
		t.Fatalf("ReadSample error: %v", err)
	}

	if want := []string{"customer_id", "qty"}; !reflect.DeepEqual(s.Names, want) {
		t.Fatalf("Names = %v, want %v", s.Names, want)
	}
	want := [][]string{{"c1", "5"}, {"c2", "7"}}
	if !reflect.DeepEqual(s.Rows, want) {
		t.Fatalf("Rows = %v, want %v", s.Rows, want)
	}
}

// TestReadSample_LayoutNamesWin verifies a declared layout overrides header
// names.
func TestReadSample_LayoutNamesWin(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "orders.csv", "h1,h2\nc1,5\n")
	l := layout.Layout{{Name: "customer"}, {Name: "quantity"}}

	s, err := ReadSample(context.Background(), Delimited(p, l, 1), 0)
	if err != nil {
		t.Fatalf("ReadSample error: %v", err)
	}
	if want := []string{"customer", "quantity"}; !reflect.DeepEqual(s.Names, want) {
		t.Fatalf("Names = %v, want %v", s.Names, want)
	}
}

// TestReadSample_NoHeaderPositionalNames verifies headerless delimited files
// get positional field names sized by the first record.
func TestReadSample_NoHeaderPositionalNames(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "raw.csv", "a,b,c\nd,e,f\n")

	s, err := ReadSample(context.Background(), Delimited(p, nil, 0), 0)
	if err != nil {
		t.Fatalf("ReadSample error: %v", err)
	}
	if want := []string{"field_1", "field_2", "field_3"}; !reflect.DeepEqual(s.Names, want) {
		t.Fatalf("Names = %v, want %v", s.Names, want)
	}
	if len(s.Rows) != 2 {
		t.Fatalf("Rows len = %d, want 2", len(s.Rows))
	}
}

// TestReadSample_MisalignedRowsSkipped verifies best-effort parsing: rows
// with the wrong field count are dropped, not fatal.
func TestReadSample_MisalignedRowsSkipped(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "ragged.csv", "a,b\n1,2\nonly_one\n3,4\n")

	s, err := ReadSample(context.Background(), Delimited(p, nil, 1), 0)
	if err != nil {
		t.Fatalf("ReadSample error: %v", err)
	}
	if len(s.Rows) != 2 {
		t.Fatalf("Rows len = %d, want 2 (misaligned row skipped)", len(s.Rows))
	}
}

// TestReadSample_CustomDelimiter verifies the handle's delimiter override.
func TestReadSample_CustomDelimiter(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "pipes.txt", "a|b\n1|2\n")
	h := Delimited(p, nil, 1)
	h.Delimiter = '|'

	s, err := ReadSample(context.Background(), h, 0)
	if err != nil {
		t.Fatalf("ReadSample error: %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(s.Names, want) {
		t.Fatalf("Names = %v, want %v", s.Names, want)
	}
}

// TestReadSample_BoundedAtNewline verifies the byte bound cuts the sample
// at the last complete line instead of yielding a torn record.
func TestReadSample_BoundedAtNewline(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "big.csv", "a,b\n1,2\n3,4\n5,6\n")

	// 10 bytes covers "a,b\n1,2\n3," - the torn third line must not appear.
	s, err := ReadSample(context.Background(), Delimited(p, nil, 1), 10)
	if err != nil {
		t.Fatalf("ReadSample error: %v", err)
	}
	if len(s.Rows) != 1 {
		t.Fatalf("Rows len = %d, want 1", len(s.Rows))
	}
}

//
// ReadSample (fixed)
//

// TestReadSample_Fixed verifies width-based slicing and trimming.
func TestReadSample_Fixed(t *testing.T) {
	t.Parallel()

	l := layout.Layout{
		{Name: "code", Width: 4},
		{Name: "amount", Width: 6},
	}
	p := writeFile(t, "ledger.dat", "AB12    50\nCD34   125\nshort\n")

	s, err := ReadSample(context.Background(), Fixed(p, l), 0)
	if err != nil {
		t.Fatalf("ReadSample error: %v", err)
	}

	if want := []string{"code", "amount"}; !reflect.DeepEqual(s.Names, want) {
		t.Fatalf("Names = %v, want %v", s.Names, want)
	}
	want := [][]string{{"AB12", "50"}, {"CD34", "125"}}
	if !reflect.DeepEqual(s.Rows, want) {
		t.Fatalf("Rows = %v, want %v", s.Rows, want)
	}
}

// TestReadSample_FixedNeedsWidths verifies a fixed read without usable
// widths fails instead of guessing.
func TestReadSample_FixedNeedsWidths(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "ledger.dat", "AB12\n")
	l := layout.Layout{{Name: "code"}}

	if _, err := ReadSample(context.Background(), Fixed(p, l), 0); err == nil {
		t.Fatalf("ReadSample on width-less fixed layout: expected error, got nil")
	}
}

// TestReadSample_MissingFile verifies unreadable files surface an error.
func TestReadSample_MissingFile(t *testing.T) {
	t.Parallel()

	h := Delimited(filepath.Join(t.TempDir(), "absent.csv"), nil, 0)
	if _, err := ReadSample(context.Background(), h, 0); err == nil {
		t.Fatalf("ReadSample on missing file: expected error, got nil")
	}
}

//
// handle constructors
//

// TestConstructors verifies strategy and header-skip invariants of the two
// constructions.
func TestConstructors(t *testing.T) {
	t.Parallel()

	d := Delimited("/p", nil, -3)
	if d.Strategy != StrategyDelimited || d.HeaderSkip != 0 {
		t.Fatalf("Delimited(-3) = %+v, want delimited strategy with HeaderSkip 0", d)
	}

	f := Fixed("/p", nil)
	if f.Strategy != StrategyFixed || f.HeaderSkip != 0 {
		t.Fatalf("Fixed() = %+v, want fixed strategy with HeaderSkip 0", f)
	}
}
