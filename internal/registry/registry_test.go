package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mateonavarro/rag-qa-api/internal/models"
)

func record(id string) models.DocumentRecord {
	return models.DocumentRecord{
		DocumentID: id,
		Filename:   id + ".pdf",
		PageCount:  3,
		ChunkCount: 12,
		UploadTime: time.Now(),
	}
}

func TestAddAndGet(t *testing.T) {
	r := New()

	if _, ok := r.Get("missing"); ok {
		t.Error("Get on empty registry returned a record")
	}

	r.Add(record("doc-1"))

	rec, ok := r.Get("doc-1")
	if !ok {
		t.Fatal("Get did not find added record")
	}
	if rec.Filename != "doc-1.pdf" || rec.PageCount != 3 || rec.ChunkCount != 12 {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestListPreservesUploadOrder(t *testing.T) {
	r := New()
	for i := 0; i < 10; i++ {
		r.Add(record(fmt.Sprintf("doc-%d", i)))
	}

	docs := r.List()
	if len(docs) != 10 {
		t.Fatalf("List returned %d records, want 10", len(docs))
	}
	for i, d := range docs {
		if want := fmt.Sprintf("doc-%d", i); d.DocumentID != want {
			t.Errorf("position %d: got %s, want %s", i, d.DocumentID, want)
		}
	}
}

func TestListIsIdempotent(t *testing.T) {
	r := New()
	r.Add(record("a"))
	r.Add(record("b"))

	first := r.List()
	second := r.List()

	if len(first) != len(second) {
		t.Fatalf("list lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].DocumentID != second[i].DocumentID {
			t.Errorf("position %d differs between calls", i)
		}
	}
}

func TestDuplicateAddKeepsOriginal(t *testing.T) {
	r := New()
	orig := record("dup")
	r.Add(orig)

	altered := record("dup")
	altered.Filename = "other.pdf"
	r.Add(altered)

	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
	rec, _ := r.Get("dup")
	if rec.Filename != "dup.pdf" {
		t.Errorf("duplicate Add overwrote original record")
	}
}

func TestConcurrentAdds(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Add(record(fmt.Sprintf("doc-%d", n)))
		}(i)
	}
	wg.Wait()

	if r.Len() != 100 {
		t.Errorf("Len = %d after concurrent adds, want 100", r.Len())
	}
	if len(r.List()) != 100 {
		t.Errorf("List length = %d, want 100", len(r.List()))
	}
}
