package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentAnalysis is the structured report produced over one corpus.
type DocumentAnalysis struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	KeyPoints []string  `json:"key_points"`
	Topics    []Topic   `json:"topics,omitempty"`
	Sentiment Sentiment `json:"sentiment"`
}

type Topic struct {
	Name       string  `json:"name"`
	Confidence float32 `json:"confidence"`
}

// Sentiment is a three-way split; the fractions are model estimates and are
// not forced to sum to one.
type Sentiment struct {
	Positive float32 `json:"positive"`
	Neutral  float32 `json:"neutral"`
	Negative float32 `json:"negative"`
}

const analysisInstructions = `You are a document analyst. Analyze the document text below and return ONLY JSON that matches the provided JSON Schema: a concise summary, the key points, the main topics with a confidence between 0 and 1 for each, and a sentiment split (positive, neutral, negative as fractions between 0 and 1). Do not include any text before or after the JSON.`

// Analyzer runs the document-analysis operation through any Completer.
type Analyzer struct {
	completer Completer
	logger    *slog.Logger

	// UseMock makes Analyze return canned data without a network call, for
	// development without a credential.
	UseMock bool
}

func NewAnalyzer(completer Completer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{completer: completer, logger: logger}
}

// BuildAnalysisPrompt composes the analysis request for a corpus. Pure, like
// BuildPrompt; the corpus is bounded by the same context window.
func BuildAnalysisPrompt(corpus string) string {
	if len(corpus) > MaxContextChars {
		corpus = corpus[:MaxContextChars]
	}
	schema, _ := json.MarshalIndent(BuildAnalysisJSONSchema(), "", "  ")
	var b strings.Builder
	b.WriteString(analysisInstructions)
	b.WriteString("\n\nJSON Schema:\n")
	b.Write(schema)
	b.WriteString("\n\nDocument Text:\n'''\n")
	b.WriteString(corpus)
	b.WriteString("\n'''\n\nJSON:")
	return b.String()
}

func (a *Analyzer) Analyze(ctx context.Context, corpus string) (DocumentAnalysis, error) {
	if a.UseMock {
		a.logger.Warn("llm.analyze.mock", "reason", "mock mode enabled")
		return MockAnalysis(), nil
	}

	start := time.Now()
	a.logger.Info("llm.analyze.start", "corpus_bytes", len(corpus), "truncated", Truncated(corpus))

	raw, err := a.completer.Complete(ctx, BuildAnalysisPrompt(corpus))
	if err != nil {
		a.logger.Error("llm.analyze.completion_error", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return DocumentAnalysis{}, err
	}

	content := []byte(stripCodeFence(raw))
	schema := BuildAnalysisJSONSchema()
	if err := ValidateJSONAgainstSchema(schema, content); err != nil {
		a.logger.Error("llm.analyze.schema_validation_failed", "error", err, "content", string(content),
			"elapsed_ms", time.Since(start).Milliseconds())
		return DocumentAnalysis{}, fmt.Errorf("analysis schema validation failed: %w", err)
	}

	var out DocumentAnalysis
	if err := json.Unmarshal(content, &out); err != nil {
		return DocumentAnalysis{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	out.ID = "analysis-" + uuid.New().String()

	a.logger.Info("llm.analyze.ok",
		"id", out.ID,
		"key_points", len(out.KeyPoints),
		"topics", len(out.Topics),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// stripCodeFence removes a surrounding markdown fence some models insist on
// wrapping JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// MockAnalysis returns canned analysis data for development and tests.
func MockAnalysis() DocumentAnalysis {
	return DocumentAnalysis{
		ID:      "mock-analysis-" + uuid.New().String(),
		Summary: "This is a mock summary of the document. It highlights the main points and overall content, indicating that the document is well-structured and informative.",
		KeyPoints: []string{
			"Mock Key Point 1: Important concept discussed.",
			"Mock Key Point 2: Specific detail or finding.",
			"Mock Key Point 3: Future implications or recommendations.",
		},
		Topics: []Topic{
			{Name: "Mock Topic A", Confidence: 0.88},
			{Name: "Mock Topic B", Confidence: 0.75},
			{Name: "Mock Topic C", Confidence: 0.60},
		},
		Sentiment: Sentiment{Positive: 0.70, Neutral: 0.25, Negative: 0.05},
	}
}
