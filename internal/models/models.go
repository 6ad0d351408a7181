package models

import (
	"time"
)

// DocumentRecord is the registry entry created for each successful upload.
// Records are never mutated after creation and live only for the process
// lifetime. StoragePath is internal bookkeeping and never serialized.
type DocumentRecord struct {
	DocumentID  string    `json:"document_id"`
	Filename    string    `json:"filename"`
	PageCount   int       `json:"pages"`
	ChunkCount  int       `json:"chunks"`
	UploadTime  time.Time `json:"upload_time"`
	StoragePath string    `json:"-"`
}

// Page is one page of extracted PDF text.
type Page struct {
	Number int
	Text   string
}

// ExtractedDocument is the PDF processor's output handed to ingestion.
type ExtractedDocument struct {
	DocumentID string
	Filename   string
	Pages      []Page
}

// Chunk is a stored slice of document text as the vector store reports it.
type Chunk struct {
	ChunkID string `json:"chunk_id"`
	Text    string `json:"text"`
	Page    int    `json:"page"`
	Index   int    `json:"index"`
}

// Source is a retrieval citation attached to a generated answer.
type Source struct {
	ChunkID string  `json:"chunk_id"`
	Text    string  `json:"text"`
	Page    int     `json:"page"`
	Score   float64 `json:"score"`
}

// QueryResult is what the RAG pipeline produces for one question.
type QueryResult struct {
	Answer  string
	Sources []Source
}

type ChatRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id"`
	TopK       int    `json:"top_k,omitempty"`
}

type UploadResponse struct {
	Success        bool    `json:"success"`
	DocumentID     string  `json:"document_id"`
	Filename       string  `json:"filename"`
	Pages          int     `json:"pages"`
	Chunks         int     `json:"chunks"`
	ProcessingTime float64 `json:"processing_time"`
}

type ChatResponse struct {
	Success        bool     `json:"success"`
	Answer         string   `json:"answer"`
	Sources        []Source `json:"sources"`
	ProcessingTime float64  `json:"processing_time"`
}

type DocumentsResponse struct {
	Success   bool             `json:"success"`
	Count     int              `json:"count"`
	Documents []DocumentRecord `json:"documents"`
}

type ChunksResponse struct {
	Success    bool    `json:"success"`
	DocumentID string  `json:"document_id"`
	Chunks     []Chunk `json:"chunks"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}
