// ABOUTME: Tests for recent documents management
// ABOUTME: Validates the current pointer, max limit, and deduplication

package recentdocs

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func entry(id, name string) Entry {
	return Entry{DocumentID: id, Filename: name, UploadedAt: time.Now()}
}

func TestLoadEmpty(t *testing.T) {
	rd := New(t.TempDir())

	docs, err := rd.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected empty list, got %d docs", len(docs))
	}
}

func TestAddAndCurrent(t *testing.T) {
	tmpDir := t.TempDir()
	rd := New(tmpDir)

	if err := rd.Add(entry("doc-1", "contract.pdf")); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := rd.Add(entry("doc-2", "lease.pdf")); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	current, ok := rd.Current()
	if !ok {
		t.Fatal("expected a current document")
	}
	if current.DocumentID != "doc-2" {
		t.Errorf("current = %s, want doc-2", current.DocumentID)
	}

	// A fresh manager over the same directory sees the persisted list.
	reopened := New(tmpDir)
	docs := reopened.List()
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	if docs[0].DocumentID != "doc-2" || docs[1].DocumentID != "doc-1" {
		t.Errorf("unexpected order: %v", docs)
	}
}

func TestAddDeduplicates(t *testing.T) {
	rd := New(t.TempDir())

	rd.Add(entry("doc-1", "contract.pdf"))
	rd.Add(entry("doc-2", "lease.pdf"))
	rd.Add(entry("doc-1", "contract.pdf"))

	docs := rd.List()
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs after re-add, got %d", len(docs))
	}
	if docs[0].DocumentID != "doc-1" {
		t.Errorf("re-added doc must move to front, got %s", docs[0].DocumentID)
	}
}

func TestMaxLimit(t *testing.T) {
	rd := New(t.TempDir())

	for i := 0; i < MaxRecentDocs+3; i++ {
		rd.Add(entry("doc-"+strconv.Itoa(i), "f.pdf"))
	}

	docs := rd.List()
	if len(docs) != MaxRecentDocs {
		t.Errorf("expected %d docs, got %d", MaxRecentDocs, len(docs))
	}
	if docs[0].DocumentID != "doc-"+strconv.Itoa(MaxRecentDocs+2) {
		t.Errorf("most recent must be first, got %s", docs[0].DocumentID)
	}
}

func TestInvalidJSONStartsFresh(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "recent.json"), []byte("not json"), 0644)

	rd := New(tmpDir)
	docs, err := rd.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected fresh list, got %d docs", len(docs))
	}
}

func TestClear(t *testing.T) {
	tmpDir := t.TempDir()
	rd := New(tmpDir)
	rd.Add(entry("doc-1", "contract.pdf"))

	if err := rd.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	if _, ok := rd.Current(); ok {
		t.Error("expected no current document after Clear")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "recent.json")); !os.IsNotExist(err) {
		t.Error("expected pointer file to be removed")
	}

	// Clearing twice must not error.
	if err := rd.Clear(); err != nil {
		t.Fatalf("second Clear() error: %v", err)
	}
}
