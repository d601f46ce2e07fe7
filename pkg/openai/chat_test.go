package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completion(content string) string {
	return fmt.Sprintf(`{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-4",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
	}`, content)
}

func newTestService(t *testing.T, status int, body string) *chatGPTService {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return newChatGPT(openai.NewClientWithConfig(cfg), openai.GPT4)
}

func TestChatGPT_ClassifyIntent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "valid intent",
			content: `{"domain":"category","action":"create","target":"","confidence":0.92}`,
			want:    "category_create",
		},
		{
			name:    "missing confidence",
			content: `{"domain":"category","action":"create"}`,
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			content: `{"domain":"unit","action":"delete","confidence":4}`,
			wantErr: true,
		},
		{
			name:    "not json",
			content: `kategori ekle`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, http.StatusOK, completion(tt.content))

			got, err := svc.ClassifyIntent(context.Background(), "kategori ekle")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Domain+"_"+got.Action)
		})
	}
}

func TestChatGPT_GenerateText(t *testing.T) {
	svc := newTestService(t, http.StatusOK, completion("Merhaba!"))

	got, err := svc.GenerateText(context.Background(), "selam")
	require.NoError(t, err)
	assert.Equal(t, "Merhaba!", got)
}

func TestIsRateLimit(t *testing.T) {
	svc := newTestService(t, http.StatusTooManyRequests,
		`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`)

	_, err := svc.GenerateText(context.Background(), "selam")
	require.Error(t, err)
	assert.True(t, IsRateLimit(err))

	svc = newTestService(t, http.StatusBadRequest,
		`{"error":{"message":"bad request","type":"invalid_request_error"}}`)
	_, err = svc.GenerateText(context.Background(), "selam")
	require.Error(t, err)
	assert.False(t, IsRateLimit(err))
}
