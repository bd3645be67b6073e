package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayrane03/MindSet/constants"
)

type stubExtractor struct {
	result TextExtractionResult
	err    error
	calls  int
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (TextExtractionResult, error) {
	s.calls++
	return s.result, s.err
}

type captureSink struct {
	messages []string
	stages   []constants.PipelineStatus
}

func (c *captureSink) Message(text string)              { c.messages = append(c.messages, text) }
func (c *captureSink) Stage(s constants.PipelineStatus) { c.stages = append(c.stages, s) }

func TestIngestTextLayerSkipsOCR(t *testing.T) {
	textLayer := &stubExtractor{result: TextExtractionResult{Text: "hello world", Pages: 3, Method: MethodPDFText}}
	ocr := &stubExtractor{result: TextExtractionResult{Text: "should not be used"}}
	sink := &captureSink{}

	res, err := NewIngestor(textLayer, ocr, nil).Ingest(context.Background(), "/tmp/doc.pdf", sink)
	require.NoError(t, err)

	assert.Equal(t, "hello world", res.Text)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, MethodPDFText, res.Method)
	assert.Zero(t, ocr.calls, "OCR must not run when the text layer yields")

	require.Len(t, sink.messages, 1)
	assert.Equal(t, `PDF "doc.pdf" selected. Attempting to extract text...`, sink.messages[0])
	assert.Equal(t, []constants.PipelineStatus{constants.StatusExtracting}, sink.stages)
}

func TestIngestFallsBackToOCR(t *testing.T) {
	textLayer := &stubExtractor{result: TextExtractionResult{Text: "", Pages: 2}}
	ocr := &stubExtractor{result: TextExtractionResult{Text: "scanned words", Pages: 2, Method: MethodPDFOCR}}
	sink := &captureSink{}

	res, err := NewIngestor(textLayer, ocr, nil).Ingest(context.Background(), "scan.pdf", sink)
	require.NoError(t, err)

	assert.Equal(t, "scanned words", res.Text)
	assert.Equal(t, MethodPDFOCR, res.Method)
	assert.Equal(t, 1, textLayer.calls)
	assert.Equal(t, 1, ocr.calls)

	assert.Equal(t, []string{
		`PDF "scan.pdf" selected. Attempting to extract text...`,
		"No text layer found. Trying to read text from images (OCR)...",
		"Attempting OCR to extract text from images...",
	}, sink.messages)
	assert.Equal(t, []constants.PipelineStatus{
		constants.StatusExtracting,
		constants.StatusOCRFallback,
	}, sink.stages)
}

func TestIngestRejectsNonPDF(t *testing.T) {
	textLayer := &stubExtractor{}
	ocr := &stubExtractor{}

	_, err := NewIngestor(textLayer, ocr, nil).Ingest(context.Background(), "notes.txt", nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Zero(t, textLayer.calls)
	assert.Zero(t, ocr.calls)
}

func TestIngestNoExtractableText(t *testing.T) {
	textLayer := &stubExtractor{result: TextExtractionResult{Text: ""}}
	ocr := &stubExtractor{result: TextExtractionResult{Text: "", Pages: 4}}

	_, err := NewIngestor(textLayer, ocr, nil).Ingest(context.Background(), "empty.pdf", nil)
	assert.ErrorIs(t, err, ErrNoExtractableText)
}

func TestIngestWrapsTextLayerFailure(t *testing.T) {
	textLayer := &stubExtractor{err: errors.New("malformed xref table")}
	ocr := &stubExtractor{}

	_, err := NewIngestor(textLayer, ocr, nil).Ingest(context.Background(), "bad.pdf", nil)
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.Contains(t, err.Error(), "malformed xref table")
	assert.Zero(t, ocr.calls, "a text-layer error is terminal, not an OCR trigger")
}

func TestIngestWrapsOCRFailure(t *testing.T) {
	textLayer := &stubExtractor{result: TextExtractionResult{Text: ""}}
	ocr := &stubExtractor{err: errors.New("tesseract exited 1")}

	_, err := NewIngestor(textLayer, ocr, nil).Ingest(context.Background(), "scan.pdf", nil)
	assert.ErrorIs(t, err, ErrOCRFailed)
	assert.Contains(t, err.Error(), "tesseract exited 1")
}

func TestIngestPreservesSentinelWrapping(t *testing.T) {
	// Extractors that already classify their failures must not be double
	// wrapped.
	textLayer := &stubExtractor{err: ErrExtractionFailed}
	_, err := NewIngestor(textLayer, &stubExtractor{}, nil).Ingest(context.Background(), "a.pdf", nil)
	assert.Equal(t, ErrExtractionFailed, err)

	ocr := &stubExtractor{err: ErrOCRFailed}
	_, err = NewIngestor(&stubExtractor{}, ocr, nil).Ingest(context.Background(), "b.pdf", nil)
	assert.Equal(t, ErrOCRFailed, err)
}

func TestIngestNilSink(t *testing.T) {
	textLayer := &stubExtractor{result: TextExtractionResult{Text: "fine", Pages: 1}}

	res, err := NewIngestor(textLayer, &stubExtractor{}, nil).Ingest(context.Background(), "ok.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "fine", res.Text)
}
