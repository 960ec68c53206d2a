// Package pdf reads page counts and document metadata from PDF bytes.
package pdf

import (
	"bytes"
	"fmt"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/quantmind-br/ghfetch/internal/domain"
)

// pdfMagic must appear within the first headerWindow bytes of a PDF
var pdfMagic = []byte("%PDF-")

const headerWindow = 1024

// Inspector opens PDFs with MuPDF
type Inspector struct{}

var _ domain.PDFInspector = (*Inspector)(nil)

// NewInspector creates an Inspector
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect returns the page count and non-empty metadata entries of data
func (i *Inspector) Inspect(data []byte) (*domain.PDFInfo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", domain.ErrInvalidPDF)
	}

	if !hasHeader(data) {
		return nil, fmt.Errorf("%w: missing %%PDF- header", domain.ErrInvalidPDF)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", domain.ErrInvalidPDF, err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages < 0 {
		return nil, fmt.Errorf("%w: unreadable page tree", domain.ErrInvalidPDF)
	}

	metadata := make(map[string]string)
	for key, value := range doc.Metadata() {
		if value != "" {
			metadata[key] = value
		}
	}

	return &domain.PDFInfo{
		Pages:    pages,
		Metadata: metadata,
	}, nil
}

func hasHeader(data []byte) bool {
	return bytes.Contains(data[:min(len(data), headerWindow)], pdfMagic)
}
