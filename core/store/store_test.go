package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/inkwell/core/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	body := []byte(`<w:document/>`)
	if err := s.Put(ctx, "doc-1", "First", body); err != nil {
		t.Fatalf("Put: %v", err)
	}

	doc, err := s.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Title != "First" {
		t.Errorf("Title = %q, want %q", doc.Title, "First")
	}
	if string(doc.Body) != string(body) {
		t.Errorf("Body = %q, want %q", doc.Body, body)
	}
	if len(doc.Fingerprint) != 64 {
		t.Errorf("Fingerprint length = %d, want 64 hex digits", len(doc.Fingerprint))
	}
	if doc.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
}

func TestPutReplacesAndRefingerprints(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "doc-1", "v1", []byte("one")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	first, err := s.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := s.Put(ctx, "doc-1", "v2", []byte("two")); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	second, err := s.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if second.Title != "v2" || string(second.Body) != "two" {
		t.Errorf("document not replaced: %q %q", second.Title, second.Body)
	}
	if first.Fingerprint == second.Fingerprint {
		t.Error("fingerprint unchanged after body change")
	}
}

func TestPutEmptyID(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put(context.Background(), "", "t", nil); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Put(ctx, id, "title "+id, []byte(id)); err != nil {
			t.Fatalf("Put(%s): %v", id, err)
		}
	}
	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("document count = %d, want 3", len(docs))
	}
	seen := map[string]bool{}
	for _, d := range docs {
		seen[d.ID] = true
	}
	for _, id := range []string{"a", "b", "c"} {
		if !seen[id] {
			t.Errorf("document %q missing from listing", id)
		}
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "doc-1", "t", []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "doc-1"); !errors.Is(err, errors.ErrNotFound) {
		t.Error("document still present after deletion")
	}
	if err := s.Delete(ctx, "doc-1"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDriverType(t *testing.T) {
	if dt := DriverType(); dt != "purego" && dt != "cgo" {
		t.Errorf("DriverType() = %q", dt)
	}
}
