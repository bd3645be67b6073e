// Package present reveals a finalized answer to the user word by word, to
// simulate live generation. Purely cosmetic: the full text already exists
// before the first token is shown.
package present

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// Delay is the inter-token pause strategy. Tests substitute ZeroDelay for
// determinism.
type Delay func() time.Duration

// UniformDelay draws uniformly from [min, max).
func UniformDelay(min, max time.Duration) Delay {
	return func() time.Duration {
		return min + time.Duration(rand.Int63n(int64(max-min)))
	}
}

// DefaultDelay is the standard typing cadence.
func DefaultDelay() Delay {
	return UniformDelay(50*time.Millisecond, 100*time.Millisecond)
}

// ZeroDelay types instantly.
func ZeroDelay() time.Duration { return 0 }

// Sink is the single in-progress conversation entry the typer mutates.
// Update replaces the entry's text; Finalize assigns it a permanent identity,
// after which no further mutation occurs.
type Sink interface {
	Update(partial string)
	Finalize(full string)
}

// Typer reveals space-delimited tokens strictly in answer order. It runs in
// the caller's goroutine, cooperatively with whatever loop drives it; it
// never spawns one of its own.
type Typer struct {
	delay Delay
}

func NewTyper(delay Delay) *Typer {
	if delay == nil {
		delay = DefaultDelay()
	}
	return &Typer{delay: delay}
}

// Type reveals text into sink. Finite and not restartable: once the entry is
// finalized the sequence is over. Tokens are split on single spaces, so
// newlines and tabs travel inside their token and the finalized text is
// byte-equal to the answer. Blank text finalizes immediately.
func (t *Typer) Type(ctx context.Context, text string, sink Sink) error {
	if strings.TrimSpace(text) == "" {
		sink.Finalize(text)
		return nil
	}
	tokens := strings.Split(text, " ")

	for i := range tokens {
		if err := ctx.Err(); err != nil {
			// Cancelled mid-reveal: finalize with what the user has seen.
			sink.Finalize(strings.Join(tokens[:i], " "))
			return err
		}
		sink.Update(strings.Join(tokens[:i+1], " "))
		if i < len(tokens)-1 {
			select {
			case <-time.After(t.delay()):
			case <-ctx.Done():
				sink.Finalize(strings.Join(tokens[:i+1], " "))
				return ctx.Err()
			}
		}
	}
	sink.Finalize(strings.Join(tokens, " "))
	return nil
}
