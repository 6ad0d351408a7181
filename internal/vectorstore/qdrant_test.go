package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mateonavarro/rag-qa-api/internal/chunker"
	"github.com/mateonavarro/rag-qa-api/internal/models"
)

type stubEmbedder struct {
	batches [][]string
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return []float64{1, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	s.batches = append(s.batches, texts)
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{float64(i), 1}
	}
	return out, nil
}

func newStore(t *testing.T, handler http.HandlerFunc) (*QdrantStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := NewQdrantStore(Config{
		Endpoint:   srv.URL,
		Collection: "documents",
		Dimension:  2,
	}, chunker.New(500, 50), &stubEmbedder{})
	return store, srv
}

func TestInitializeCreatesCollection(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any

	store, _ := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"result":true,"status":"ok"}`)
	})

	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/collections/documents" {
		t.Errorf("got %s %s", gotMethod, gotPath)
	}
	vectors := gotBody["vectors"].(map[string]any)
	if vectors["size"].(float64) != 2 || vectors["distance"] != "Cosine" {
		t.Errorf("unexpected collection schema: %v", gotBody)
	}
}

func TestInitializeRejectsBadDimension(t *testing.T) {
	store := NewQdrantStore(Config{Endpoint: "http://localhost:0", Collection: "c"}, chunker.New(500, 50), &stubEmbedder{})
	if err := store.Initialize(context.Background()); err == nil {
		t.Error("expected error for zero dimension")
	}
}

func TestIngestDocumentUpsertsPoints(t *testing.T) {
	var gotBody struct {
		Points []struct {
			ID      string         `json:"id"`
			Vector  []float64      `json:"vector"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}

	store, _ := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/documents/points" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("wait") != "true" {
			t.Error("upsert did not request wait=true")
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	doc := &models.ExtractedDocument{
		DocumentID: "doc-1",
		Pages: []models.Page{
			{Number: 1, Text: "alpha"},
			{Number: 2, Text: "beta"},
		},
	}

	ids, err := store.IngestDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("IngestDocument returned error: %v", err)
	}
	if len(ids) != 2 || len(gotBody.Points) != 2 {
		t.Fatalf("got %d ids and %d points, want 2 each", len(ids), len(gotBody.Points))
	}

	p := gotBody.Points[1].Payload
	if p["document_id"] != "doc-1" || p["text"] != "beta" {
		t.Errorf("unexpected payload: %v", p)
	}
	if p["page"].(float64) != 2 || p["index"].(float64) != 1 {
		t.Errorf("page/index not carried into payload: %v", p)
	}
	if gotBody.Points[0].ID != ids[0] || p["chunk_id"] != ids[1] {
		t.Error("point ids do not match returned chunk ids")
	}
}

func TestIngestDocumentEmptyDocument(t *testing.T) {
	store, _ := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty document")
	})

	_, err := store.IngestDocument(context.Background(), &models.ExtractedDocument{DocumentID: "doc-1"})
	if err == nil {
		t.Error("expected error for document with no chunks")
	}
}

func TestListChunksForwardsPagination(t *testing.T) {
	var gotBody map[string]any

	store, _ := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/documents/points/query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"result":{"points":[
			{"payload":{"chunk_id":"c1","text":"first","page":1,"index":0}},
			{"payload":{"chunk_id":"c2","text":"second","page":1,"index":1}}
		]}}`)
	})

	chunks, err := store.ListChunks(context.Background(), "doc-1", 3, 10)
	if err != nil {
		t.Fatalf("ListChunks returned error: %v", err)
	}
	if gotBody["limit"].(float64) != 10 || gotBody["offset"].(float64) != 20 {
		t.Errorf("limit/offset = %v/%v, want 10/20", gotBody["limit"], gotBody["offset"])
	}
	if len(chunks) != 2 || chunks[0].ChunkID != "c1" || chunks[1].Index != 1 {
		t.Errorf("unexpected chunks: %+v", chunks)
	}
}

func TestSearchMapsScoredPayloads(t *testing.T) {
	var gotBody map[string]any

	store, _ := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/documents/points/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"result":[
			{"score":0.91,"payload":{"chunk_id":"c9","text":"revenue grew","page":4}},
			{"score":0.77,"payload":{"chunk_id":"c2","text":"net income","page":7}}
		]}`)
	})

	sources, err := store.Search(context.Background(), "doc-1", []float64{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if gotBody["limit"].(float64) != 2 {
		t.Errorf("limit = %v, want 2", gotBody["limit"])
	}
	filter := gotBody["filter"].(map[string]any)
	must := filter["must"].([]any)[0].(map[string]any)
	if must["key"] != "document_id" {
		t.Errorf("filter not keyed on document_id: %v", filter)
	}
	if len(sources) != 2 || sources[0].Score != 0.91 || sources[1].Page != 7 {
		t.Errorf("unexpected sources: %+v", sources)
	}
}

func TestErrorStatusSurfaced(t *testing.T) {
	store, _ := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	})

	if _, err := store.ListChunks(context.Background(), "doc-1", 1, 10); err == nil {
		t.Error("expected error from non-2xx status")
	}
}
