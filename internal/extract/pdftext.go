package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// PDFTextExtractor reads the embedded text layer of a PDF, page by page in
// document order. It never rasterizes anything; scanned documents come back
// with empty text and no error.
type PDFTextExtractor struct {
	logger *slog.Logger
}

func NewPDFTextExtractor(logger *slog.Logger) *PDFTextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFTextExtractor{logger: logger}
}

func (e *PDFTextExtractor) Extract(ctx context.Context, path string) (res TextExtractionResult, err error) {
	start := time.Now()

	// The pdf package panics on some malformed content streams; a broken
	// document must surface as ErrExtractionFailed, not take the session down.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("pdf text layer panic", "path", path, "panic", r)
			res = TextExtractionResult{Method: MethodPDFText, Duration: time.Since(start)}
			err = fmt.Errorf("%w: %v", ErrExtractionFailed, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return TextExtractionResult{Method: MethodPDFText}, fmt.Errorf("%w: open: %v", ErrExtractionFailed, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("pdf close error", "path", path, "error", cerr)
		}
	}()

	pages := reader.NumPage()
	var b strings.Builder
	var warns []string

	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return TextExtractionResult{Method: MethodPDFText}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			warns = append(warns, fmt.Sprintf("page %d: null page object", i))
			continue
		}
		collectText(&b, page.Content().Text)
	}

	text := strings.TrimSpace(b.String())
	dur := time.Since(start)
	e.logger.Debug("pdf text layer done",
		"path", path, "pages", pages, "bytes", len(text), "duration_ms", dur.Milliseconds())

	return TextExtractionResult{
		Text:     text,
		Pages:    pages,
		Method:   MethodPDFText,
		Duration: dur,
		Warnings: warns,
	}, nil
}

// collectText appends a page's text items to the corpus builder. A single
// space separates items, including across page boundaries, so the corpus is
// one space-delimited string.
func collectText(b *strings.Builder, items []pdf.Text) {
	for _, item := range items {
		if item.S == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(item.S)
	}
}
