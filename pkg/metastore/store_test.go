package metastore

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

func TestMemory_GetAttributes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	if err := m.SetAttribute(ctx, "/data/sales.csv", AttrKind, "csv"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.SetAttribute(ctx, "/data/sales.csv", AttrHeaderLength, "1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := m.GetAttributes(ctx, "/data/sales.csv", AttrKind, AttrHeaderLength, "owner")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := map[string]string{AttrKind: "csv", AttrHeaderLength: "1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("attributes = %v, want %v (absent names omitted)", got, want)
	}
}

func TestMemory_UnknownPath(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	if _, err := m.GetAttributes(context.Background(), "/nope", AttrKind); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if _, err := m.GetAttribute(context.Background(), "/nope", AttrKind); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestMemory_AbsentAttribute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	if err := m.SetAttribute(ctx, "/data/a", AttrKind, "flat"); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, err := m.GetAttribute(ctx, "/data/a", AttrHeaderLength)
	if err != nil {
		t.Fatalf("absent attribute on known path must not error: %v", err)
	}
	if v != "" {
		t.Fatalf("value = %q, want empty", v)
	}
}

func TestMemory_Overwrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	for _, v := range []string{"csv", "flat"} {
		if err := m.SetAttribute(ctx, "/data/a", AttrKind, v); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	got, err := m.GetAttribute(ctx, "/data/a", AttrKind)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "flat" {
		t.Fatalf("value = %q, want latest write flat", got)
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	if err := m.SetAttribute(ctx, "/data/a", AttrKind, "csv"); err != nil {
		t.Fatalf("set: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.SetAttribute(ctx, "/data/a", AttrHeaderLength, "1")
		}()
		go func() {
			defer wg.Done()
			_, _ = m.GetAttributes(ctx, "/data/a", AttrKind, AttrHeaderLength)
		}()
	}
	wg.Wait()
}

func TestNew_Memory(t *testing.T) {
	t.Parallel()

	st, err := New(context.Background(), Config{Kind: "memory"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*Memory); !ok {
		t.Fatalf("backend type = %T, want *Memory", st)
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{Kind: "etcd"}); err == nil {
		t.Fatalf("expected error for unregistered backend")
	}
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for empty backend kind")
	}
}
