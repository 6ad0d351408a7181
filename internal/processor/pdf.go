package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mateonavarro/rag-qa-api/internal/models"
)

// Processor extracts per-page text from a stored document.
type Processor interface {
	Process(ctx context.Context, path string) (*models.ExtractedDocument, error)
}

type pdfProcessor struct{}

func New() Processor {
	return &pdfProcessor{}
}

func (p *pdfProcessor) Process(ctx context.Context, path string) (*models.ExtractedDocument, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]models.Page, 0, numPages)
	empty := true

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable pages are skipped, the rest still counts.
			continue
		}

		text = strings.TrimSpace(text)
		if text != "" {
			empty = false
		}
		pages = append(pages, models.Page{Number: i, Text: text})
	}

	if empty {
		return nil, fmt.Errorf("no text could be extracted from PDF")
	}

	return &models.ExtractedDocument{Pages: pages}, nil
}
