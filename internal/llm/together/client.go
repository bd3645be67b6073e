package together

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jayrane03/MindSet/internal/llm"
)

// markers in a 400 body that mean the prompt blew the model's context limit.
var contextLimitMarkers = []string{"limit", "context window", "length", "token"}

// Complete implements llm.Completer against the Together chat/completions
// endpoint. Exactly one request per call; failures come back as
// *llm.CompletionError and are never retried here.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.complete.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"top_p", c.cfg.TopP,
		"max_tokens", c.cfg.MaxTokens,
		"prompt_len", len(prompt),
	)

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
		"top_p":       c.cfg.TopP,
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, status, httpErr := llm.PostJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if httpErr != nil {
		cerr := classify(status, raw, httpErr)
		c.logger.Error("llm.complete.http_error",
			"req_id", rid, "kind", string(cerr.Kind), "status", status,
			"error", httpErr, "elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", cerr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.complete.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", &llm.CompletionError{Kind: llm.KindEmptyResponse, Status: status, Message: "unreadable response body"}
	}
	if len(cc.Choices) == 0 || strings.TrimSpace(cc.Choices[0].Message.Content) == "" {
		c.logger.Error("llm.complete.empty_response",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", &llm.CompletionError{Kind: llm.KindEmptyResponse, Status: status, Message: "no content in response"}
	}

	answer := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.logger.Info("llm.complete.ok",
		"req_id", rid, "answer_len", len(answer),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return answer, nil
}

// classify maps transport/HTTP outcomes onto the completion error taxonomy.
func classify(status int, raw []byte, err error) *llm.CompletionError {
	if status == 0 {
		return &llm.CompletionError{Kind: llm.KindNetwork, Message: err.Error()}
	}

	msg := errorMessage(raw)
	switch {
	case status == 401 || status == 403:
		return &llm.CompletionError{Kind: llm.KindAuth, Status: status, Message: msg}
	case status == 400 && mentionsContextLimit(msg):
		return &llm.CompletionError{Kind: llm.KindContextTooLarge, Status: status, Message: msg}
	case status == 429:
		return &llm.CompletionError{Kind: llm.KindRateLimited, Status: status, Message: msg}
	default:
		return &llm.CompletionError{Kind: llm.KindServer, Status: status, Message: msg}
	}
}

// errorMessage digs the human-readable message out of an error envelope,
// which Together returns either flat or nested under "error".
func errorMessage(raw []byte) string {
	var flat struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil {
		if flat.Error.Message != "" {
			return flat.Error.Message
		}
		if flat.Message != "" {
			return flat.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

func mentionsContextLimit(msg string) bool {
	m := strings.ToLower(msg)
	for _, marker := range contextLimitMarkers {
		if strings.Contains(m, marker) {
			return true
		}
	}
	return false
}
