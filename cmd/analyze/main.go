package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Jayrane03/MindSet/internal/common"
	"github.com/Jayrane03/MindSet/internal/export"
	"github.com/Jayrane03/MindSet/internal/extract"
	"github.com/Jayrane03/MindSet/internal/llm"
	"github.com/Jayrane03/MindSet/internal/llm/together"
	"github.com/Jayrane03/MindSet/internal/ocr"
)

// One-shot analysis: ingests a PDF, runs the document analysis over the
// corpus, and either prints the JSON report or writes an XLSX workbook.
func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 || len(os.Args) > 3 {
		logger.Error("usage", "cmd", "analyze <file.pdf> [report.xlsx]")
		os.Exit(2)
	}
	path := os.Args[1]
	var outPath string
	if len(os.Args) == 3 {
		outPath = os.Args[2]
		if !strings.HasSuffix(strings.ToLower(outPath), ".xlsx") {
			logger.Error("output must be an .xlsx path", "arg", outPath)
			os.Exit(2)
		}
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OCR.IngestTimeout+cfg.LLM.Timeout)
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
	if err != nil {
		logger.Error("ingestion failed", "path", path, "error", err)
		os.Exit(1)
	}
	logger.Info("ingestion OK", "method", res.Method, "pages", res.Pages, "bytes", len(res.Text))

	completer := together.NewClient(together.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		TopP:        cfg.LLM.TopP,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	analyzer := llm.NewAnalyzer(completer, logger)
	analyzer.UseMock = cfg.LLM.MockAnalysis

	analysis, err := analyzer.Analyze(ctx, res.Text)
	if err != nil {
		logger.Error("analysis failed", "path", path, "error", err)
		os.Exit(1)
	}

	if outPath == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			logger.Error("encode analysis", "error", err)
			os.Exit(1)
		}
	} else {
		b, err := export.NewService(logger).ExportAnalysisXLSX(analysis, filepath.Base(path))
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(outPath, b, 0o644); err != nil {
			logger.Error("write report", "path", outPath, "error", err)
			os.Exit(1)
		}
		fmt.Println("report written to", outPath)
	}

	logger.Info("analyze OK",
		"id", analysis.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
