package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IshaanNene/reviewmood/internal/types"
)

type failingStore struct {
	storeErr error
	closed   bool
}

func (f *failingStore) Store(reviews []types.Review) error { return f.storeErr }
func (f *failingStore) Close() error                       { f.closed = true; return nil }
func (f *failingStore) Name() string                       { return "failing" }

func TestPersistClosesOnStoreError(t *testing.T) {
	disk := errors.New("disk full")
	store := &failingStore{storeErr: disk}

	err := Persist(store, []types.Review{{Body: "ok"}})
	if !errors.Is(err, disk) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "failing store:") {
		t.Errorf("expected backend name in error, got %q", err)
	}
	if !store.closed {
		t.Error("expected store to be closed after a failed write")
	}
}

func TestPersistCSV(t *testing.T) {
	dir := t.TempDir()
	store, err := NewProductStorage(dir, "Widget", testLogger)
	if err != nil {
		t.Fatal(err)
	}
	var _ Storage = store

	if err := Persist(store, []types.Review{{Title: "Nice", Body: "works"}}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ReviewsFileName("Widget")))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "works") {
		t.Errorf("expected review in file, got %q", data)
	}
}
