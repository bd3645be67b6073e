package together

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayrane03/MindSet/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	return c, srv
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestCompleteSuccess(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(completionBody("  Blue.  ")))
	})

	answer, err := c.Complete(context.Background(), "What color is the sky?")
	require.NoError(t, err)
	assert.Equal(t, "Blue.", answer)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.2", gotBody["model"])
	assert.EqualValues(t, 700, gotBody["max_tokens"])
	assert.InDelta(t, 0.1, gotBody["temperature"].(float64), 0.001)
	assert.InDelta(t, 0.9, gotBody["top_p"].(float64), 0.001)

	msgs := gotBody["messages"].([]any)
	require.Len(t, msgs, 1, "single-message payload")
	msg := msgs[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "What color is the sky?", msg["content"])
}

func TestCompleteErrorClassification(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		wantKind llm.ErrorKind
	}{
		{"unauthorized", 401, `{"error": {"message": "invalid api key"}}`, llm.KindAuth},
		{"forbidden", 403, `{"message": "forbidden"}`, llm.KindAuth},
		{"context too large", 400, `{"error": {"message": "input exceeds the model context window"}}`, llm.KindContextTooLarge},
		{"token limit", 400, `{"message": "too many tokens"}`, llm.KindContextTooLarge},
		{"plain bad request", 400, `{"message": "malformed body"}`, llm.KindServer},
		{"rate limited", 429, `{"message": "slow down"}`, llm.KindRateLimited},
		{"server error", 500, `oops`, llm.KindServer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := c.Complete(context.Background(), "q")
			require.Error(t, err)

			var cerr *llm.CompletionError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tc.wantKind, cerr.Kind)
			assert.Equal(t, tc.status, cerr.Status)
		})
	}
}

func TestCompleteNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	srv.Close() // nothing listening anymore

	_, err := c.Complete(context.Background(), "q")
	require.Error(t, err)

	var cerr *llm.CompletionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, llm.KindNetwork, cerr.Kind)
	assert.Zero(t, cerr.Status)
}

func TestCompleteEmptyResponse(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no choices", `{"choices": []}`},
		{"blank content", completionBody("   ")},
		{"not json", "<html></html>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := c.Complete(context.Background(), "q")
			require.Error(t, err)

			var cerr *llm.CompletionError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, llm.KindEmptyResponse, cerr.Kind)
		})
	}
}

func TestCompleteSendsExactlyOneRequest(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Complete(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "no automatic retry")
}
