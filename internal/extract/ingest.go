package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Jayrane03/MindSet/constants"
)

// Ingestor turns one selected PDF into a flat text corpus: text-layer pass
// first, OCR fallback when the document has no text layer. One instance per
// chat session; the caller owns the corpus the result carries.
type Ingestor struct {
	textLayer TextExtractor
	ocr       TextExtractor
	logger    *slog.Logger
}

func NewIngestor(textLayer, ocrFallback TextExtractor, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{textLayer: textLayer, ocr: ocrFallback, logger: logger}
}

type noopSink struct{}

func (noopSink) Message(string)                 {}
func (noopSink) Stage(constants.PipelineStatus) {}

// Ingest runs the full pipeline for the file at path. On success the result
// text is non-empty; on failure the error is one of the taxonomy sentinels
// (possibly wrapped) and the result text is empty.
func (g *Ingestor) Ingest(ctx context.Context, path string, sink StatusSink) (IngestResult, error) {
	if sink == nil {
		sink = noopSink{}
	}
	start := time.Now()
	name := filepath.Base(path)

	if !constants.IsPDFExt(filepath.Ext(path)) {
		g.logger.Warn("ingest rejected", "path", path, "reason", "not a pdf")
		return IngestResult{}, ErrUnsupportedType
	}

	var size int64
	if st, err := os.Stat(path); err == nil {
		size = st.Size()
	}
	if size > constants.LargeFileWarnBytes {
		sink.Message("Warning: This is a large file. Extraction or OCR may take a long time.")
	}

	sink.Message(fmt.Sprintf("PDF %q selected. Attempting to extract text...", name))
	sink.Stage(constants.StatusExtracting)

	g.logger.Info("ingest.start", "path", path, "bytes", size)

	text, err := g.textLayer.Extract(ctx, path)
	if err != nil {
		g.logger.Error("ingest.text_layer_failed", "path", path, "error", err)
		if errors.Is(err, ErrExtractionFailed) {
			return IngestResult{}, err
		}
		return IngestResult{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	if len(text.Text) > 0 {
		res := IngestResult{
			Text:     text.Text,
			Pages:    text.Pages,
			Method:   MethodPDFText,
			Size:     size,
			Duration: time.Since(start),
			Warnings: text.Warnings,
		}
		g.logger.Info("ingest.ok",
			"path", path, "method", res.Method, "pages", res.Pages,
			"bytes", len(res.Text), "duration_ms", res.Duration.Milliseconds())
		return res, nil
	}

	sink.Message("No text layer found. Trying to read text from images (OCR)...")
	sink.Message("Attempting OCR to extract text from images...")
	sink.Stage(constants.StatusOCRFallback)

	ocrRes, err := g.ocr.Extract(ctx, path)
	if err != nil {
		g.logger.Error("ingest.ocr_failed", "path", path, "error", err)
		if errors.Is(err, ErrOCRFailed) {
			return IngestResult{}, err
		}
		return IngestResult{}, fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}

	if len(ocrRes.Text) == 0 {
		g.logger.Warn("ingest.no_text", "path", path, "pages", ocrRes.Pages)
		return IngestResult{}, ErrNoExtractableText
	}

	res := IngestResult{
		Text:     ocrRes.Text,
		Pages:    ocrRes.Pages,
		Method:   MethodPDFOCR,
		Size:     size,
		Duration: time.Since(start),
		Warnings: append(text.Warnings, ocrRes.Warnings...),
	}
	g.logger.Info("ingest.ok",
		"path", path, "method", res.Method, "pages", res.Pages,
		"bytes", len(res.Text), "duration_ms", res.Duration.Milliseconds())
	return res, nil
}
