// Package vectorstore provides the client to the external vector database.
// Indexing, similarity search and pagination all happen server-side; this is
// a thin REST client to Qdrant.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mateonavarro/rag-qa-api/internal/chunker"
	"github.com/mateonavarro/rag-qa-api/internal/embedding"
	"github.com/mateonavarro/rag-qa-api/internal/models"
	"github.com/mateonavarro/rag-qa-api/internal/utils"
)

// VectorStore is the collaborator contract the handlers depend on.
type VectorStore interface {
	// Initialize prepares the backing collection. Called once at startup;
	// failure must abort the process.
	Initialize(ctx context.Context) error

	// IngestDocument chunks, embeds and indexes an extracted document,
	// returning the identifiers of the stored chunks.
	IngestDocument(ctx context.Context, doc *models.ExtractedDocument) ([]string, error)

	// ListChunks returns one page of a document's stored chunks. Page and
	// limit are forwarded as-is; bounds are the store's concern.
	ListChunks(ctx context.Context, documentID string, page, limit int) ([]models.Chunk, error)

	// Search returns the topK most similar chunks of a document, scored,
	// in descending score order.
	Search(ctx context.Context, documentID string, vector []float64, topK int) ([]models.Source, error)
}

type QdrantStore struct {
	endpoint   string
	apiKey     string
	collection string
	dimension  int
	chunker    *chunker.Chunker
	embedder   embedding.Embedder
	client     *http.Client
}

type Config struct {
	Endpoint   string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

func NewQdrantStore(cfg Config, ch *chunker.Chunker, emb embedding.Embedder) *QdrantStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &QdrantStore{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		chunker:    ch,
		embedder:   emb,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *QdrantStore) Initialize(ctx context.Context) error {
	if s.dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", s.dimension)
	}
	// Qdrant answers 200 for an existing collection with the same schema.
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimension,
			"distance": "Cosine",
		},
	}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.endpoint, s.collection), body, nil)
}

func (s *QdrantStore) IngestDocument(ctx context.Context, doc *models.ExtractedDocument) ([]string, error) {
	chunks := s.chunker.Split(doc)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %s produced no chunks", doc.DocumentID)
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	ids := make([]string, len(chunks))
	points := make([]map[string]any, len(chunks))
	for i, ch := range chunks {
		ids[i] = utils.GenerateID()
		points[i] = map[string]any{
			"id":     ids[i],
			"vector": vectors[i],
			"payload": map[string]any{
				"document_id": doc.DocumentID,
				"chunk_id":    ids[i],
				"page":        ch.Page,
				"index":       ch.Index,
				"text":        ch.Text,
			},
		}
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.endpoint, s.collection)
	if err := s.putJSON(ctx, url, map[string]any{"points": points}, nil); err != nil {
		return nil, fmt.Errorf("failed to upsert points: %w", err)
	}
	return ids, nil
}

func (s *QdrantStore) ListChunks(ctx context.Context, documentID string, page, limit int) ([]models.Chunk, error) {
	req := map[string]any{
		"filter":       documentFilter(documentID),
		"limit":        limit,
		"offset":       (page - 1) * limit,
		"with_payload": true,
	}

	var resp struct {
		Result struct {
			Points []struct {
				Payload map[string]any `json:"payload"`
			} `json:"points"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/query", s.endpoint, s.collection)
	if err := s.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}

	chunks := make([]models.Chunk, 0, len(resp.Result.Points))
	for _, p := range resp.Result.Points {
		chunks = append(chunks, models.Chunk{
			ChunkID: payloadString(p.Payload, "chunk_id"),
			Text:    payloadString(p.Payload, "text"),
			Page:    payloadInt(p.Payload, "page"),
			Index:   payloadInt(p.Payload, "index"),
		})
	}
	return chunks, nil
}

func (s *QdrantStore) Search(ctx context.Context, documentID string, vector []float64, topK int) ([]models.Source, error) {
	if topK <= 0 {
		topK = 3
	}
	req := map[string]any{
		"vector":       vector,
		"filter":       documentFilter(documentID),
		"limit":        topK,
		"with_payload": true,
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.endpoint, s.collection)
	if err := s.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}

	sources := make([]models.Source, 0, len(resp.Result))
	for _, r := range resp.Result {
		sources = append(sources, models.Source{
			ChunkID: payloadString(r.Payload, "chunk_id"),
			Text:    payloadString(r.Payload, "text"),
			Page:    payloadInt(r.Payload, "page"),
			Score:   r.Score,
		})
	}
	return sources, nil
}

func documentFilter(documentID string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{"key": "document_id", "match": map[string]any{"value": documentID}},
		},
	}
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadInt(payload map[string]any, key string) int {
	if v, ok := payload[key].(float64); ok {
		return int(v)
	}
	return 0
}

func (s *QdrantStore) putJSON(ctx context.Context, url string, body, out any) error {
	return s.doJSON(ctx, http.MethodPut, url, body, out)
}

func (s *QdrantStore) postJSON(ctx context.Context, url string, body, out any) error {
	return s.doJSON(ctx, http.MethodPost, url, body, out)
}

func (s *QdrantStore) doJSON(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
