package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Pages are rasterized at an upscale over the nominal 72 DPI page size
// before recognition; pdftoppm takes the product as a DPI value.
const (
	baseDPI        = 72
	DefaultUpscale = 2.0
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang        string  // default "eng"
	Upscale     float64 // rasterization upscale factor, default 2.0
	TessdataDir string
	MaxPages    int // 0 = no limit
}

type Result struct {
	Text     string
	Pages    int
	Duration time.Duration
	Warnings []string
}

// Extractor runs optical character recognition over a PDF, one page at a
// time in document order, so only a single raster surface is alive at any
// moment.
type Extractor struct {
	cfg       Config
	runner    Runner
	pageCount func(path string) (int, error)
	logger    *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.Upscale <= 0 {
		cfg.Upscale = DefaultUpscale
	}
	return &Extractor{
		cfg:       cfg,
		runner:    execRunner{logger: logger},
		pageCount: api.PageCountFile,
		logger:    logger,
	}
}

// Recognize rasterizes and OCRs every page of the PDF at path. Any page's
// failure aborts the whole attempt; partial text is never returned.
func (e *Extractor) Recognize(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	pages, err := e.pageCount(path)
	if err != nil {
		return Result{}, fmt.Errorf("page count: %w", err)
	}
	if e.cfg.MaxPages > 0 && pages > e.cfg.MaxPages {
		pages = e.cfg.MaxPages
	}

	dpi := int(baseDPI * e.cfg.Upscale)
	var b strings.Builder
	var warns []string

	for page := 1; page <= pages; page++ {
		txt, w, err := e.recognizePage(ctx, path, page, dpi)
		warns = append(warns, w...)
		if err != nil {
			return Result{Pages: pages, Warnings: warns}, fmt.Errorf("page %d: %w", page, err)
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(txt)
	}

	res := Result{
		Text:     strings.TrimSpace(b.String()),
		Pages:    pages,
		Duration: time.Since(start),
		Warnings: warns,
	}
	e.logger.Debug("ocr done",
		"path", path, "pages", pages, "bytes", len(res.Text),
		"duration_ms", res.Duration.Milliseconds())
	return res, nil
}

// recognizePage renders exactly one page to a scoped temp dir, OCRs it, and
// removes the raster before returning, success or not.
func (e *Extractor) recognizePage(ctx context.Context, path string, page, dpi int) (string, []string, error) {
	tmpDir, err := os.MkdirTemp("", "mindset-raster-*")
	if err != nil {
		return "", nil, err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("failed to remove raster temp dir", "dir", tmpDir, "error", rerr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f N -l N -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", fmt.Sprintf("%d", page), "-l", fmt.Sprintf("%d", page),
		"-r", fmt.Sprintf("%d", dpi), "-png", path, prefix)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("pdftoppm: %w", err)
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		return "", []string{"pdftoppm produced no image"}, fmt.Errorf("page not rendered")
	}

	args := []string{matches[0], "stdout", "-l", e.cfg.Lang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	// tesseract <page.png> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(string(out)), nil, nil
}
