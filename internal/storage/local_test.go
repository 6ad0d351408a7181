package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoreSaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore returned error: %v", err)
	}

	path, err := store.Save(context.Background(), "doc-1", "report.pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if filepath.Base(path) != "doc-1.pdf" {
		t.Errorf("storage path = %s, want per-document .pdf name", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("saved file not readable: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Errorf("saved content = %q", data)
	}

	if err := store.Delete(context.Background(), path); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after Delete")
	}

	// Deleting an already-removed file must stay best-effort.
	if err := store.Delete(context.Background(), path); err != nil {
		t.Errorf("second Delete returned error: %v", err)
	}
}
