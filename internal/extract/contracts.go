package extract

import (
	"context"
	"errors"
	"time"

	"github.com/Jayrane03/MindSet/constants"
)

// Extraction methods recorded on results.
const (
	MethodPDFText = "pdf-text"
	MethodPDFOCR  = "pdf-ocr"
)

// Ingestion failure taxonomy. Callers match with errors.Is.
var (
	// ErrUnsupportedType means the selected file is not a PDF. The corpus is
	// left untouched.
	ErrUnsupportedType = errors.New("unsupported file type: expected a PDF")
	// ErrExtractionFailed means the text-layer pass raised an error.
	ErrExtractionFailed = errors.New("text-layer extraction failed")
	// ErrOCRFailed means the OCR fallback raised an error on any page.
	ErrOCRFailed = errors.New("ocr failed")
	// ErrNoExtractableText means both passes completed but yielded nothing.
	ErrNoExtractableText = errors.New("no extractable text in document")
)

// TextExtractor is one extraction pass: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Method   string // MethodPDFText | MethodPDFOCR
	Duration time.Duration
	Warnings []string
}

// IngestResult is the outcome of a full ingestion (text layer + OCR fallback).
type IngestResult struct {
	Text     string
	Pages    int
	Method   string
	Size     int64
	Duration time.Duration
	Warnings []string
}

// StatusSink receives pipeline progress while an ingestion runs. Message
// carries user-facing status text (file selected, OCR attempt, ...) and is
// the pipeline's only coupling to the conversation log; Stage reports state
// machine transitions.
type StatusSink interface {
	Message(text string)
	Stage(status constants.PipelineStatus)
}
