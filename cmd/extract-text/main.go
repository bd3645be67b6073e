package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Jayrane03/MindSet/internal/common"
	"github.com/Jayrane03/MindSet/internal/extract"
	"github.com/Jayrane03/MindSet/internal/ocr"
)

// One-shot ingestion: runs the text-layer/OCR pipeline over a PDF and reports
// what came out. Pass -text to dump the corpus to stdout.
func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	args := os.Args[1:]
	dump := false
	if len(args) > 0 && args[0] == "-text" {
		dump = true
		args = args[1:]
	}
	if len(args) != 1 {
		logger.Error("usage", "cmd", "extract-text [-text] <file.pdf>")
		os.Exit(2)
	}
	path := args[0]

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OCR.IngestTimeout)
	defer cancel()

	textLayer := extract.NewPDFTextExtractor(logger)
	ocrx := ocr.NewExtractor(ocr.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		TessdataDir: cfg.OCR.TessdataDir,
		Upscale:     cfg.OCR.Upscale,
		MaxPages:    cfg.OCR.MaxPages,
	}, logger)
	ingestor := extract.NewIngestor(textLayer, extract.NewOCRAdapter(ocrx), logger)

	start := time.Now()
	res, err := ingestor.Ingest(ctx, path, nil)
	dur := time.Since(start)

	if err != nil {
		logger.Error("ingestion failed",
			"path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("ingestion OK",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"duration_ms", dur.Milliseconds(),
	)
	if dump {
		fmt.Println(res.Text)
	}
}
