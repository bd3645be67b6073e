package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner simulates pdftoppm and tesseract: the rasterization call writes
// a page image under the requested prefix, the recognition call returns the
// canned text for that page.
type fakeRunner struct {
	pageText map[int]string
	failPage int // tesseract fails on this page (0 = never)

	rasterCalls []rasterCall
	lastPage    int
}

type rasterCall struct {
	page int
	dpi  int
}

func (f *fakeRunner) Run(_ context.Context, bin string, args ...string) ([]byte, []byte, error) {
	switch bin {
	case "pdftoppm":
		page, dpi := atoiArg(args, "-f"), atoiArg(args, "-r")
		f.rasterCalls = append(f.rasterCalls, rasterCall{page: page, dpi: dpi})
		f.lastPage = page
		prefix := args[len(args)-1]
		img := fmt.Sprintf("%s-%d.png", prefix, page)
		if err := os.WriteFile(img, []byte("png"), 0o644); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	case "tesseract":
		if f.failPage != 0 && f.lastPage == f.failPage {
			return nil, []byte("Error in pixReadStream"), errors.New("exit status 1")
		}
		return []byte(f.pageText[f.lastPage] + "\n"), nil, nil
	default:
		return nil, nil, fmt.Errorf("unexpected binary %q", bin)
	}
}

func atoiArg(args []string, flag string) int {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			n, _ := strconv.Atoi(args[i+1])
			return n
		}
	}
	return 0
}

func newTestExtractor(cfg Config, runner Runner, pages int) *Extractor {
	e := NewExtractor(cfg, nil)
	e.runner = runner
	e.pageCount = func(string) (int, error) { return pages, nil }
	return e
}

func TestRecognizeJoinsPagesInOrder(t *testing.T) {
	runner := &fakeRunner{pageText: map[int]string{1: "first page", 2: "second page", 3: "third"}}
	e := newTestExtractor(Config{}, runner, 3)

	res, err := e.Recognize(context.Background(), "doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, "first page second page third", res.Text)
	assert.Equal(t, 3, res.Pages)

	require.Len(t, runner.rasterCalls, 3)
	for i, call := range runner.rasterCalls {
		assert.Equal(t, i+1, call.page, "pages must be rasterized in document order")
	}
}

func TestRecognizeDefaultUpscaleDPI(t *testing.T) {
	runner := &fakeRunner{pageText: map[int]string{1: "x"}}
	e := newTestExtractor(Config{}, runner, 1)

	_, err := e.Recognize(context.Background(), "doc.pdf")
	require.NoError(t, err)

	require.Len(t, runner.rasterCalls, 1)
	assert.Equal(t, 144, runner.rasterCalls[0].dpi, "72 DPI at the 2.0 default upscale")
}

func TestRecognizeCustomUpscale(t *testing.T) {
	runner := &fakeRunner{pageText: map[int]string{1: "x"}}
	e := newTestExtractor(Config{Upscale: 3.0}, runner, 1)

	_, err := e.Recognize(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, 216, runner.rasterCalls[0].dpi)
}

func TestRecognizePageFailureAbortsWholeAttempt(t *testing.T) {
	runner := &fakeRunner{
		pageText: map[int]string{1: "good", 2: "never read", 3: "never read"},
		failPage: 2,
	}
	e := newTestExtractor(Config{}, runner, 3)

	res, err := e.Recognize(context.Background(), "doc.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	assert.Contains(t, err.Error(), "tesseract")
	assert.Empty(t, res.Text, "partial text is never returned")
	assert.Len(t, runner.rasterCalls, 2, "page 3 must not be attempted")
}

func TestRecognizePageCountFailure(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	e.runner = &fakeRunner{}
	e.pageCount = func(string) (int, error) { return 0, errors.New("not a pdf") }

	_, err := e.Recognize(context.Background(), "bad.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page count")
}

func TestRecognizeMaxPagesCap(t *testing.T) {
	runner := &fakeRunner{pageText: map[int]string{1: "one", 2: "two", 3: "three"}}
	e := newTestExtractor(Config{MaxPages: 2}, runner, 3)

	res, err := e.Recognize(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "one two", res.Text)
	assert.Equal(t, 2, res.Pages)
	assert.Len(t, runner.rasterCalls, 2)
}

func TestNewExtractorDefaults(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	assert.Equal(t, "pdftoppm", e.cfg.Pdftoppm)
	assert.Equal(t, "tesseract", e.cfg.Tesseract)
	assert.Equal(t, "eng", e.cfg.Lang)
	assert.Equal(t, DefaultUpscale, e.cfg.Upscale)
	require.NotNil(t, e.pageCount)
}
