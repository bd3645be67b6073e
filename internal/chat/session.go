package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/Jayrane03/MindSet/constants"
	"github.com/Jayrane03/MindSet/internal/extract"
	"github.com/Jayrane03/MindSet/internal/llm"
	"github.com/Jayrane03/MindSet/internal/present"
)

// Ingestor is the slice of the extraction pipeline the session needs.
type Ingestor interface {
	Ingest(ctx context.Context, path string, sink extract.StatusSink) (extract.IngestResult, error)
}

// ErrSuperseded is returned by SelectFile when its ingestion finished after a
// newer file selection already took over the session.
var ErrSuperseded = errors.New("ingestion superseded by a newer file selection")

// Session owns one conversation: the corpus, the pipeline state machine, and
// the log. Exactly one per open chat; no cross-session sharing.
//
// Errors never escape unhandled: every failure becomes a human-readable
// conversation entry, and the typed error is returned to the caller for
// logging only.
type Session struct {
	log      *Log
	ingestor Ingestor
	complete llm.Completer
	analyzer *llm.Analyzer
	typer    *present.Typer
	logger   *slog.Logger

	mu         sync.Mutex
	status     constants.PipelineStatus
	corpus     string
	docName    string
	generation uint64
	busy       bool // a completion request is in flight
}

func NewSession(ingestor Ingestor, completer llm.Completer, analyzer *llm.Analyzer, typer *present.Typer, logger *slog.Logger) *Session {
	if typer == nil {
		typer = present.NewTyper(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		log:      NewLog(),
		ingestor: ingestor,
		complete: completer,
		analyzer: analyzer,
		typer:    typer,
		logger:   logger,
		status:   constants.StatusIdle,
	}
}

func (s *Session) Log() *Log { return s.log }

func (s *Session) Status() constants.PipelineStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Corpus returns the extracted text, or "" when no document is ready.
func (s *Session) Corpus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.corpus
}

func (s *Session) DocumentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docName
}

// Ready reports whether a corpus is loaded and questions can be asked.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == constants.StatusReady
}

// genSink forwards pipeline progress into the log and state machine, but only
// while its generation is still the session's current one. A slow superseded
// ingestion goes silent instead of corrupting the newer one.
type genSink struct {
	s   *Session
	gen uint64
}

func (g *genSink) Message(text string) {
	g.s.mu.Lock()
	current := g.gen == g.s.generation
	g.s.mu.Unlock()
	if current {
		g.s.log.Append(RoleBot, text)
	}
}

func (g *genSink) Stage(status constants.PipelineStatus) {
	g.s.mu.Lock()
	if g.gen == g.s.generation {
		g.s.status = status
	}
	g.s.mu.Unlock()
}

// SelectFile ingests a new document. Any previous conversation and corpus are
// discarded first; the log restarts at the welcome entry. If another
// SelectFile begins while this one is still extracting, this one's result is
// dropped (stale-result guard).
func (s *Session) SelectFile(ctx context.Context, path string) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.corpus = ""
	s.docName = filepath.Base(path)
	s.status = constants.StatusIdle
	s.mu.Unlock()
	s.log.Reset()

	res, err := s.ingestor.Ingest(ctx, path, &genSink{s: s, gen: gen})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Info("ingest result discarded", "path", path, "generation", gen)
		return ErrSuperseded
	}

	if err != nil {
		s.corpus = ""
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			s.status = constants.StatusIdle
			s.docName = ""
			s.log.Append(RoleBot, "Please upload a PDF file.")
		case errors.Is(err, extract.ErrNoExtractableText):
			s.status = constants.StatusError
			s.log.Append(RoleBot, "Sorry, I was unable to extract any readable text from that PDF.")
		default:
			// ExtractionFailed, OCRFailed, or anything unforeseen.
			s.status = constants.StatusError
			s.log.Append(RoleBot, "Sorry, I encountered an error processing that PDF. Please try again later.")
		}
		return err
	}

	s.corpus = res.Text
	s.status = constants.StatusReady
	if res.Method == extract.MethodPDFOCR {
		s.log.Append(RoleBot, fmt.Sprintf("OCR completed. Text extracted from %q. You can now ask me questions about its content.", s.docName))
	} else {
		s.log.Append(RoleBot, fmt.Sprintf("Text extracted from %q. You can now ask me questions about its content.", s.docName))
	}
	return nil
}

// Ask sends one question about the loaded document. At most one completion
// request is in flight per session; a question during one gets a "still
// processing" notice instead of queueing. Completion failures leave the
// corpus and ready state intact so the user can simply re-ask.
func (s *Session) Ask(ctx context.Context, question string) error {
	s.mu.Lock()
	s.log.Append(RoleUser, question)

	if s.busy || s.status == constants.StatusExtracting || s.status == constants.StatusOCRFallback {
		s.mu.Unlock()
		s.log.Append(RoleBot, "I am currently processing. Please wait.")
		return nil
	}
	if s.corpus == "" || s.status != constants.StatusReady {
		s.mu.Unlock()
		s.log.Append(RoleBot, "Sorry, I cannot answer questions because I have no extracted document text.")
		return nil
	}

	s.busy = true
	s.status = constants.StatusProcessing
	corpus := s.corpus
	gen := s.generation
	s.mu.Unlock()

	if llm.Truncated(corpus) {
		s.log.Append(RoleBot, "Note: Document text was truncated to fit the AI context window.")
	}

	answer, err := s.complete.Complete(ctx, llm.BuildPrompt(corpus, question))
	if err != nil {
		s.logger.Error("chat.ask.failed", "error", err)
		s.log.Append(RoleBot, messageForCompletionError(err))
		s.settle(gen)
		return err
	}

	if terr := s.typer.Type(ctx, answer, s.log); terr != nil {
		s.logger.Warn("chat.ask.typing_interrupted", "error", terr)
	}
	s.settle(gen)
	return nil
}

// settle returns the state machine to ready after a question, unless a new
// file selection moved it on in the meantime.
func (s *Session) settle(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if gen == s.generation && s.status == constants.StatusProcessing {
		s.status = constants.StatusReady
	}
}

// Analyze runs the structured document analysis over the loaded corpus. Same
// in-flight and readiness rules as Ask.
func (s *Session) Analyze(ctx context.Context) (llm.DocumentAnalysis, error) {
	s.mu.Lock()
	if s.analyzer == nil {
		s.mu.Unlock()
		return llm.DocumentAnalysis{}, errors.New("analysis not configured")
	}
	if s.busy {
		s.mu.Unlock()
		s.log.Append(RoleBot, "I am currently processing. Please wait.")
		return llm.DocumentAnalysis{}, errors.New("completion already in flight")
	}
	if s.corpus == "" || s.status != constants.StatusReady {
		s.mu.Unlock()
		s.log.Append(RoleBot, "Sorry, I cannot answer questions because I have no extracted document text.")
		return llm.DocumentAnalysis{}, errors.New("no document ready")
	}
	s.busy = true
	s.status = constants.StatusProcessing
	corpus := s.corpus
	gen := s.generation
	s.mu.Unlock()

	analysis, err := s.analyzer.Analyze(ctx, corpus)
	if err != nil {
		s.logger.Error("chat.analyze.failed", "error", err)
		s.log.Append(RoleBot, messageForCompletionError(err))
		s.settle(gen)
		return llm.DocumentAnalysis{}, err
	}
	s.log.Append(RoleBot, fmt.Sprintf("Analysis complete: %s", analysis.Summary))
	s.settle(gen)
	return analysis, nil
}

// messageForCompletionError converts a completion failure into the
// user-facing copy for the conversation.
func messageForCompletionError(err error) string {
	var cerr *llm.CompletionError
	if !errors.As(err, &cerr) {
		return "Sorry, an unexpected error occurred. Please try again."
	}
	switch cerr.Kind {
	case llm.KindAuth:
		return "Configuration error: My AI access is not set up correctly."
	case llm.KindContextTooLarge:
		return "Sorry, the document plus your question is too large for me to process at once."
	case llm.KindNetwork:
		return "Sorry, I could not reach the AI service. Please check your connection and try again."
	case llm.KindEmptyResponse:
		return "Sorry, I received an empty response from the AI. Could you please try again?"
	default:
		// Rate limits and generic server failures read the same to the user.
		return "Sorry, I encountered an error. Please try again."
	}
}
