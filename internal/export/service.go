package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Jayrane03/MindSet/internal/llm"
)

// Service produces XLSX bytes for analysis report exports. It never touches
// the filesystem; callers decide where the bytes go.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportAnalysisXLSX returns an XLSX workbook (as bytes) for one document
// analysis: an Overview sheet with the summary and key points, and a Topics
// sheet with per-topic confidence plus the sentiment split.
func (s *Service) ExportAnalysisXLSX(analysis llm.DocumentAnalysis, documentName string) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const overview = "Overview"
	const topics = "Topics"

	// excelize creates "Sheet1" by default; rename it instead of leaving an
	// empty tab behind.
	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(defaultSheet, overview); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(topics); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(overview)
	f.SetActiveSheet(activeIndex)

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	// Overview sheet
	write(overview, 1, 1, "Analysis ID")
	write(overview, 2, 1, analysis.ID)
	write(overview, 1, 2, "Document")
	write(overview, 2, 2, documentName)
	write(overview, 1, 3, "Summary")
	write(overview, 2, 3, truncate(analysis.Summary, 2000))

	write(overview, 1, 5, "Key Points")
	row := 6
	for i, kp := range analysis.KeyPoints {
		write(overview, 1, row, fmt.Sprintf("%d", i+1))
		write(overview, 2, row, truncate(kp, 300))
		row++
	}

	// Topics sheet: topics with confidence, then the sentiment split.
	write(topics, 1, 1, "Topic")
	write(topics, 2, 1, "Confidence")
	row = 2
	for _, t := range analysis.Topics {
		write(topics, 1, row, t.Name)
		write(topics, 2, row, t.Confidence)
		row++
	}
	row++
	write(topics, 1, row, "Sentiment")
	row++
	write(topics, 1, row, "Positive")
	write(topics, 2, row, analysis.Sentiment.Positive)
	row++
	write(topics, 1, row, "Neutral")
	write(topics, 2, row, analysis.Sentiment.Neutral)
	row++
	write(topics, 1, row, "Negative")
	write(topics, 2, row, analysis.Sentiment.Negative)

	// Widen a few columns
	_ = f.SetColWidth(overview, "A", "A", 14)
	_ = f.SetColWidth(overview, "B", "B", 90)
	_ = f.SetColWidth(topics, "A", "A", 32)
	_ = f.SetColWidth(topics, "B", "B", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"analysis_id", analysis.ID,
		"topics", len(analysis.Topics),
		"key_points", len(analysis.KeyPoints),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
