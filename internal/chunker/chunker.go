// Package chunker splits extracted document pages into overlapping text
// windows sized for embedding and retrieval.
package chunker

import (
	"strings"

	"github.com/mateonavarro/rag-qa-api/internal/models"
)

type Chunker struct {
	size    int // window size in runes
	overlap int // runes carried over between adjacent windows
}

func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = 500
	}
	// Overlap must stay below the window size or the step between windows
	// goes non-positive and splitting cannot advance.
	if overlap < 0 || overlap >= size {
		overlap = size / 10
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split produces chunks for every page of the document. Chunk indices are
// global across the document; each chunk keeps the page it came from so
// answers can cite page numbers. Identifiers are assigned at ingest time.
func (c *Chunker) Split(doc *models.ExtractedDocument) []models.Chunk {
	var chunks []models.Chunk
	index := 0

	for _, page := range doc.Pages {
		text := strings.TrimSpace(page.Text)
		if text == "" {
			continue
		}

		runes := []rune(text)
		step := c.size - c.overlap

		for start := 0; start < len(runes); start += step {
			end := start + c.size
			if end > len(runes) {
				end = len(runes)
			}

			piece := strings.TrimSpace(string(runes[start:end]))
			if piece != "" {
				chunks = append(chunks, models.Chunk{
					Text:  piece,
					Page:  page.Number,
					Index: index,
				})
				index++
			}

			if end == len(runes) {
				break
			}
		}
	}

	return chunks
}
