package llm

import (
	"context"
	"fmt"
)

// Completer issues exactly one single-turn completion request per call. No
// automatic retry at any layer; recovery is always user-initiated.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrorKind classifies completion failures for the session layer, which maps
// each kind to a user-facing conversation entry.
type ErrorKind string

const (
	// KindAuth means the credential was rejected (401/403). Fatal for the
	// session's chat capability until reconfigured.
	KindAuth ErrorKind = "AUTH"
	// KindContextTooLarge means the server rejected the request on
	// length/token grounds. No automatic re-truncation.
	KindContextTooLarge ErrorKind = "CONTEXT_TOO_LARGE"
	// KindRateLimited means the server returned 429.
	KindRateLimited ErrorKind = "RATE_LIMITED"
	// KindServer covers other non-2xx responses.
	KindServer ErrorKind = "SERVER"
	// KindNetwork means no response was received at all.
	KindNetwork ErrorKind = "NETWORK"
	// KindEmptyResponse means the request succeeded but carried no content.
	// Non-fatal; the user may simply re-ask.
	KindEmptyResponse ErrorKind = "EMPTY_RESPONSE"
)

// CompletionError is the typed failure of one completion request.
type CompletionError struct {
	Kind    ErrorKind
	Status  int // HTTP status, 0 when no response was received
	Message string
}

func (e *CompletionError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("completion failed (%s, status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("completion failed (%s): %s", e.Kind, e.Message)
}
