package extract

import (
	"context"

	"github.com/Jayrane03/MindSet/internal/ocr"
)

// OCRAdapter presents the ocr package's extractor as a TextExtractor so the
// ingestion pipeline can treat both passes uniformly.
type OCRAdapter struct {
	e *ocr.Extractor
}

func NewOCRAdapter(e *ocr.Extractor) *OCRAdapter {
	return &OCRAdapter{e: e}
}

func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	r, err := a.e.Recognize(ctx, path)
	return TextExtractionResult{
		Text:     r.Text,
		Pages:    r.Pages,
		Method:   MethodPDFOCR,
		Duration: r.Duration,
		Warnings: r.Warnings,
	}, err
}
