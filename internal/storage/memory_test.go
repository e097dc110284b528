package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type doc struct {
	ID   int
	Name string
}

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[doc]()

	if err := m.Create(ctx, "1", doc{ID: 1, Name: "first"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := m.Create(ctx, "1", doc{ID: 1}); !errors.Is(err, ErrExists) {
		t.Fatalf("duplicate create: got %v, want ErrExists", err)
	}

	got, err := m.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "first" {
		t.Errorf("get: name = %q, want %q", got.Name, "first")
	}

	if err := m.Put(ctx, "1", doc{ID: 1, Name: "renamed"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, _ = m.Get(ctx, "1")
	if got.Name != "renamed" {
		t.Errorf("after put: name = %q, want %q", got.Name, "renamed")
	}

	if err := m.Put(ctx, "99", doc{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("put unknown: got %v, want ErrNotFound", err)
	}

	if err := m.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.Delete(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: got %v, want ErrNotFound", err)
	}
	if _, err := m.Get(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: got %v, want ErrNotFound", err)
	}
}

func TestMemoryListOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[doc]()

	// inserted out of order; List must come back numerically sorted
	for _, id := range []int{10, 2, 1} {
		if err := m.Create(ctx, fmt.Sprint(id), doc{ID: id}); err != nil {
			t.Fatalf("create %d: %v", id, err)
		}
	}

	list, err := m.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []int{1, 2, 10}
	for i, d := range list {
		if d.ID != want[i] {
			t.Errorf("list[%d].ID = %d, want %d", i, d.ID, want[i])
		}
	}
}

func TestMemoryNextIDAfterExplicitCreate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[doc]()

	if err := m.Create(ctx, "7", doc{ID: 7}); err != nil {
		t.Fatalf("create: %v", err)
	}
	created, err := m.CreateWithNextID(ctx, func(id int) (string, doc) {
		return fmt.Sprint(id), doc{ID: id}
	})
	if err != nil {
		t.Fatalf("create with next id: %v", err)
	}
	if created.ID != 8 {
		t.Errorf("next id = %d, want 8", created.ID)
	}
}

func TestMemoryNextIDConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[doc]()

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.CreateWithNextID(ctx, func(id int) (string, doc) {
				return fmt.Sprint(id), doc{ID: id}
			})
			if err != nil {
				t.Errorf("create with next id: %v", err)
			}
		}()
	}
	wg.Wait()

	list, err := m.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != n {
		t.Fatalf("got %d docs, want %d: duplicate ids were assigned", len(list), n)
	}
	seen := map[int]bool{}
	for _, d := range list {
		if seen[d.ID] {
			t.Errorf("id %d assigned twice", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestKeyNum(t *testing.T) {
	tests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"42", 42, true},
		{"P000123", 123, true},
		{"P1", 1, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := keyNum(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("keyNum(%q) = (%d, %v), want (%d, %v)", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}
