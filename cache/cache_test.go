package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "programs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openTemp(t)

	if err := s.Put("k1", "+++."); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get("k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "+++." {
		t.Errorf("Get = %q, want %q", got, "+++.")
	}
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)
	_, err := s.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing: got %v, want ErrNotFound", err)
	}
}

func TestPutReplaces(t *testing.T) {
	s := openTemp(t)
	s.Put("k", "a")
	s.Put("k", "b")

	got, _ := s.Get("k")
	if got != "b" {
		t.Errorf("Get = %q, want %q", got, "b")
	}
	n, err := s.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}
}

func TestDeleteAndPrune(t *testing.T) {
	s := openTemp(t)
	s.Put("a", "+")
	s.Put("b", "-")

	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("a"); err != nil {
		t.Errorf("Delete twice: %v", err)
	}
	if _, err := s.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}

	n, err := s.Prune(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("Prune removed %d, want 1", n)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "programs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Put("k", "[-]")
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	e, err := s.Lookup("k")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if e.Program != "[-]" || e.Created.IsZero() {
		t.Errorf("Lookup = %+v", e)
	}
}

func TestDefaultPathEnv(t *testing.T) {
	t.Setenv("CARESS_CACHE", "/tmp/x.db")
	p, err := DefaultPath()
	if err != nil || p != "/tmp/x.db" {
		t.Errorf("DefaultPath = %q, %v", p, err)
	}
}
