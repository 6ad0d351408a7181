// Package registry holds process-lifetime metadata for uploaded documents.
// It is intentionally non-durable: the mapping is rebuilt empty at every
// process start and there is no delete operation.
package registry

import (
	"sync"

	"github.com/mateonavarro/rag-qa-api/internal/models"
)

// Registry maps document identifiers to their upload metadata. Listing
// preserves upload order.
type Registry struct {
	mu      sync.RWMutex
	records map[string]models.DocumentRecord
	order   []string
}

func New() *Registry {
	return &Registry{
		records: make(map[string]models.DocumentRecord),
	}
}

// Add records a document. Keys are server-generated and unique, so an insert
// for an existing key never happens in practice; if it does, the original
// record and its position are kept.
func (r *Registry) Add(rec models.DocumentRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[rec.DocumentID]; exists {
		return
	}
	r.records[rec.DocumentID] = rec
	r.order = append(r.order, rec.DocumentID)
}

func (r *Registry) Get(documentID string) (models.DocumentRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[documentID]
	return rec, ok
}

// List returns all records in upload order.
func (r *Registry) List() []models.DocumentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.DocumentRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
