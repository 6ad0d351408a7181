package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mateonavarro/rag-qa-api/internal/models"
	"github.com/mateonavarro/rag-qa-api/internal/processor"
	"github.com/mateonavarro/rag-qa-api/internal/rag"
	"github.com/mateonavarro/rag-qa-api/internal/registry"
	"github.com/mateonavarro/rag-qa-api/internal/storage"
	"github.com/mateonavarro/rag-qa-api/internal/utils"
	"github.com/mateonavarro/rag-qa-api/internal/vectorstore"
)

const defaultTopK = 3

type DocumentService interface {
	UploadDocument(ctx context.Context, filename string, data []byte) (*models.UploadResponse, error)
	Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
	ListDocuments(ctx context.Context) (*models.DocumentsResponse, error)
	ListChunks(ctx context.Context, documentID string, page, limit int) (*models.ChunksResponse, error)
}

type documentService struct {
	registry  *registry.Registry
	store     storage.Store
	archive   storage.Archiver // nil when archiving is not configured
	processor processor.Processor
	vectors   vectorstore.VectorStore
	pipeline  rag.Pipeline
	logger    *utils.Logger
}

func NewService(
	reg *registry.Registry,
	store storage.Store,
	archive storage.Archiver,
	proc processor.Processor,
	vectors vectorstore.VectorStore,
	pipeline rag.Pipeline,
	logger *utils.Logger,
) DocumentService {
	return &documentService{
		registry:  reg,
		store:     store,
		archive:   archive,
		processor: proc,
		vectors:   vectors,
		pipeline:  pipeline,
		logger:    logger,
	}
}

// UploadDocument validates, stores, extracts and indexes one PDF. The
// registry entry is written only after everything succeeded; on any failure
// the stored file is removed so no partial state survives.
func (s *documentService) UploadDocument(ctx context.Context, filename string, data []byte) (*models.UploadResponse, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, utils.NewBadRequestError("Only PDF files are allowed")
	}

	documentID := utils.GenerateID()

	path, err := s.store.Save(ctx, documentID, filename, data)
	if err != nil {
		s.logger.Error("Failed to store upload", "error", err, "filename", filename)
		return nil, utils.NewInternalError(fmt.Sprintf("Error processing PDF: %v", err))
	}

	s.logger.Info("Processing PDF", "document_id", documentID, "filename", filename)
	start := time.Now()

	doc, err := s.processor.Process(ctx, path)
	if err != nil {
		return nil, s.failUpload(ctx, path, documentID, err)
	}
	doc.DocumentID = documentID
	doc.Filename = filename

	chunkIDs, err := s.vectors.IngestDocument(ctx, doc)
	if err != nil {
		return nil, s.failUpload(ctx, path, documentID, err)
	}

	if s.archive != nil {
		key := fmt.Sprintf("documents/%s/%s", documentID, filename)
		if err := s.archive.Archive(ctx, key, data, "application/pdf"); err != nil {
			return nil, s.failUpload(ctx, path, documentID, err)
		}
	}

	processingTime := roundSeconds(time.Since(start))

	s.registry.Add(models.DocumentRecord{
		DocumentID:  documentID,
		Filename:    filename,
		PageCount:   len(doc.Pages),
		ChunkCount:  len(chunkIDs),
		UploadTime:  time.Now(),
		StoragePath: path,
	})

	s.logger.Info("Document processed",
		"document_id", documentID,
		"filename", filename,
		"pages", len(doc.Pages),
		"chunks", len(chunkIDs),
		"processing_time", processingTime)

	return &models.UploadResponse{
		Success:        true,
		DocumentID:     documentID,
		Filename:       filename,
		Pages:          len(doc.Pages),
		Chunks:         len(chunkIDs),
		ProcessingTime: processingTime,
	}, nil
}

// failUpload removes the partially written file and shapes the processing
// error. Cleanup is best-effort: the surfaced error is the original cause.
func (s *documentService) failUpload(ctx context.Context, path, documentID string, cause error) error {
	s.logger.Error("Error processing PDF", "error", cause, "document_id", documentID)
	if err := s.store.Delete(ctx, path); err != nil {
		s.logger.Warn("Failed to clean up upload", "error", err, "path", path)
	}
	return utils.NewInternalError(fmt.Sprintf("Error processing PDF: %v", cause))
}

// Chat answers a question about a previously uploaded document. Validation
// and the registry lookup happen before any collaborator is invoked.
func (s *documentService) Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if req.Question == "" || req.DocumentID == "" {
		return nil, utils.NewBadRequestError("Question and document_id are required")
	}

	if _, ok := s.registry.Get(req.DocumentID); !ok {
		return nil, utils.NewNotFoundError("Document not found")
	}

	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	s.logger.Info("Processing question", "document_id", req.DocumentID, "top_k", topK)
	start := time.Now()

	result, err := s.pipeline.Query(ctx, req.Question, req.DocumentID, topK)
	if err != nil {
		s.logger.Error("Error processing question", "error", err, "document_id", req.DocumentID)
		return nil, utils.NewInternalError(fmt.Sprintf("Error processing question: %v", err))
	}

	sources := result.Sources
	if sources == nil {
		sources = []models.Source{}
	}

	return &models.ChatResponse{
		Success:        true,
		Answer:         result.Answer,
		Sources:        sources,
		ProcessingTime: roundSeconds(time.Since(start)),
	}, nil
}

// ListDocuments projects the registry in upload order.
func (s *documentService) ListDocuments(ctx context.Context) (*models.DocumentsResponse, error) {
	docs := s.registry.List()
	return &models.DocumentsResponse{
		Success:   true,
		Count:     len(docs),
		Documents: docs,
	}, nil
}

// ListChunks forwards pagination to the vector store untouched; only the
// registry membership of document_id is checked here.
func (s *documentService) ListChunks(ctx context.Context, documentID string, page, limit int) (*models.ChunksResponse, error) {
	if _, ok := s.registry.Get(documentID); !ok {
		return nil, utils.NewNotFoundError("Document not found")
	}

	chunks, err := s.vectors.ListChunks(ctx, documentID, page, limit)
	if err != nil {
		s.logger.Error("Error retrieving chunks", "error", err, "document_id", documentID)
		return nil, utils.NewInternalError(fmt.Sprintf("Error retrieving chunks: %v", err))
	}
	if chunks == nil {
		chunks = []models.Chunk{}
	}

	return &models.ChunksResponse{
		Success:    true,
		DocumentID: documentID,
		Chunks:     chunks,
		Page:       page,
		Limit:      limit,
	}, nil
}

// roundSeconds reports a duration in seconds rounded to two decimals, the
// precision the API promises for processing_time.
func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
