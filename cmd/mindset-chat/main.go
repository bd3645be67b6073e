package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/Jayrane03/MindSet/internal/chat"
	"github.com/Jayrane03/MindSet/internal/common"
	"github.com/Jayrane03/MindSet/internal/export"
	"github.com/Jayrane03/MindSet/internal/extract"
	"github.com/Jayrane03/MindSet/internal/llm"
	"github.com/Jayrane03/MindSet/internal/llm/together"
	"github.com/Jayrane03/MindSet/internal/ocr"
	"github.com/Jayrane03/MindSet/internal/present"
)

var (
	botColor    = color.New(color.FgCyan)
	userColor   = color.New(color.FgGreen)
	noticeColor = color.New(color.FgYellow)
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	session := buildSession(cfg, logger)
	printer := newPrinter()
	session.Log().SetListener(printer.onEntry)

	exporter := export.NewService(logger)

	botColor.Println("Mindset AI Assistant")
	botColor.Println(chat.WelcomeMessage)
	noticeColor.Println(`Commands: /load <file.pdf>, /analyze, /export <report.xlsx>, /quit`)

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lastAnalysis *llm.DocumentAnalysis

	for {
		userColor.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return

		case strings.HasPrefix(line, "/load "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/load "))
			ingestCtx, cancel := context.WithTimeout(ctx, cfg.OCR.IngestTimeout)
			_ = session.SelectFile(ingestCtx, path)
			cancel()

		case line == "/analyze":
			analysis, err := session.Analyze(ctx)
			if err == nil {
				lastAnalysis = &analysis
			}

		case strings.HasPrefix(line, "/export"):
			if lastAnalysis == nil {
				noticeColor.Println("Nothing to export yet. Run /analyze first.")
				continue
			}
			out := strings.TrimSpace(strings.TrimPrefix(line, "/export"))
			if out == "" {
				out = "analysis.xlsx"
			}
			b, err := exporter.ExportAnalysisXLSX(*lastAnalysis, session.DocumentName())
			if err != nil {
				noticeColor.Println("Export failed:", err)
				continue
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				noticeColor.Println("Export failed:", err)
				continue
			}
			noticeColor.Println("Report written to", out)

		case strings.HasPrefix(line, "/"):
			noticeColor.Println("Unknown command:", line)

		default:
			_ = session.Ask(ctx, line)
		}
	}
}

func buildSession(cfg *common.Config, logger *slog.Logger) *chat.Session {
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

	return chat.NewSession(ingestor, completer, analyzer, present.NewTyper(nil), logger)
}

// printer renders log changes: whole entries as lines, the in-progress entry
// as a growing line that ends when the entry is finalized.
type printer struct {
	typingShown int // bytes of the in-progress entry already printed
	typing      bool
}

func newPrinter() *printer {
	return &printer{}
}

func (p *printer) onEntry(e chat.Entry, final bool) {
	switch {
	case !final:
		if !p.typing {
			botColor.Print("Assistant: ")
			p.typing = true
			p.typingShown = 0
		}
		if len(e.Content) > p.typingShown {
			botColor.Print(e.Content[p.typingShown:])
			p.typingShown = len(e.Content)
		}
	case p.typing:
		if len(e.Content) > p.typingShown {
			botColor.Print(e.Content[p.typingShown:])
		}
		fmt.Println()
		p.typing = false
		p.typingShown = 0
	case e.Role == chat.RoleBot:
		botColor.Println("Assistant:", e.Content)
	}
	// User entries were just typed by the user; echoing them adds nothing.
}
