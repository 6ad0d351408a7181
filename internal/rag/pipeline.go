// Package rag implements the retrieval-augmented generation pipeline:
// embed the question, retrieve the most similar chunks of the selected
// document, and condition the LLM on them.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/mateonavarro/rag-qa-api/internal/embedding"
	"github.com/mateonavarro/rag-qa-api/internal/generator"
	"github.com/mateonavarro/rag-qa-api/internal/models"
	"github.com/mateonavarro/rag-qa-api/internal/utils"
)

// Pipeline answers a question about one indexed document.
type Pipeline interface {
	Query(ctx context.Context, question, documentID string, topK int) (*models.QueryResult, error)
}

// Retriever is the slice of the vector store the pipeline needs.
type Retriever interface {
	Search(ctx context.Context, documentID string, vector []float64, topK int) ([]models.Source, error)
}

type ragPipeline struct {
	embedder  embedding.Embedder
	retriever Retriever
	generator generator.Generator
	logger    *utils.Logger
}

func NewPipeline(embedder embedding.Embedder, retriever Retriever, gen generator.Generator, logger *utils.Logger) Pipeline {
	return &ragPipeline{
		embedder:  embedder,
		retriever: retriever,
		generator: gen,
		logger:    logger,
	}
}

func (p *ragPipeline) Query(ctx context.Context, question, documentID string, topK int) (*models.QueryResult, error) {
	vector, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	sources, err := p.retriever.Search(ctx, documentID, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}

	p.logger.Debug("Retrieved context", "document_id", documentID, "sources", len(sources))

	answer, err := p.generator.Generate(ctx, buildPrompt(question, sources))
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &models.QueryResult{
		Answer:  answer,
		Sources: sources,
	}, nil
}

func buildPrompt(question string, sources []models.Source) string {
	var sb strings.Builder
	sb.WriteString("You are a financial analyst assistant. Answer the question using only the document excerpts below. ")
	sb.WriteString("If the excerpts do not contain the answer, say so.\n\nExcerpts:\n")
	if len(sources) == 0 {
		sb.WriteString("(none found)\n")
	}
	for _, src := range sources {
		sb.WriteString(fmt.Sprintf("[page %d]\n%s\n\n", src.Page, src.Text))
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}
