// Package resume extracts plain text from uploaded resume PDFs so the stored
// application carries a searchable snapshot alongside the file reference.
package resume

import (
	"fmt"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// maxPages caps extraction; resumes beyond this are truncated, not rejected.
const maxPages = 10

// PDFReader reads resume PDF files and extracts their text content
type PDFReader struct {
	logger *zap.Logger
}

// NewPDFReader creates a new PDF reader
func NewPDFReader(logger *zap.Logger) *PDFReader {
	return &PDFReader{logger: logger}
}

// ExtractText returns the concatenated text of the PDF's pages
func (r *PDFReader) ExtractText(pdfPath string) (string, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("resume file not accessible: %w", err)
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		r.logger.Error("Failed to open resume PDF", zap.String("path", pdfPath), zap.Error(err))
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages > maxPages {
		pages = maxPages
	}

	var sb strings.Builder
	for i := 0; i < pages; i++ {
		text, err := doc.Text(i)
		if err != nil {
			r.logger.Warn("Failed to extract page text",
				zap.String("path", pdfPath),
				zap.Int("page", i),
				zap.Error(err))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	extracted := strings.TrimSpace(sb.String())
	r.logger.Info("Extracted resume text",
		zap.String("path", pdfPath),
		zap.Int("pages", pages),
		zap.Int("chars", len(extracted)))

	return extracted, nil
}
