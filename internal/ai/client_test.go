package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBrief = "We need a developer to build an e-commerce site for $10k in 2 months."

// newChatServer поднимает фейковый OpenAI-совместимый сервер, отдающий
// content как текст первого choice.
func newChatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		writeChatResponse(t, w, content)
	}))
}

func writeChatResponse(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	require.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func TestGenerateProposal_ParsesModelOutput(t *testing.T) {
	content := `{
		"title": "E-Commerce Website Proposal",
		"clientName": "Unknown Client",
		"clientCompany": "",
		"scope": ["Catalog", "Checkout"],
		"deliverables": "Website",
		"timeline": "8 weeks",
		"pricing": {"items":[{"name":"Build","description":"Full site","price":10000}],"total":10000,"currency":"USD"},
		"terms": "50% upfront"
	}`
	srv := newChatServer(t, content)
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "gpt-4o-mini", 5*time.Second)
	generated, err := client.GenerateProposal(context.Background(), testBrief, "development", "USD")
	require.NoError(t, err)

	assert.Equal(t, "E-Commerce Website Proposal", generated.Title)
	assert.Equal(t, []any{"Catalog", "Checkout"}, generated.Scope)

	// pricing сохраняет исходные байты значения из ответа модели
	assert.JSONEq(t,
		`{"items":[{"name":"Build","description":"Full site","price":10000}],"total":10000,"currency":"USD"}`,
		string(generated.Pricing))
}

func TestGenerateProposal_StripsMarkdownFence(t *testing.T) {
	content := "Here is the proposal:\n```json\n{\"title\":\"Fenced\",\"pricing\":{\"total\":1}}\n```"
	srv := newChatServer(t, content)
	defer srv.Close()

	client := NewClient(srv.URL, "", "gpt-4o-mini", 5*time.Second)
	generated, err := client.GenerateProposal(context.Background(), testBrief, "design", "USD")
	require.NoError(t, err)
	assert.Equal(t, "Fenced", generated.Title)
}

func TestGenerateProposal_GarbageContent(t *testing.T) {
	srv := newChatServer(t, "sorry, I cannot help with that")
	defer srv.Close()

	client := NewClient(srv.URL, "", "gpt-4o-mini", 5*time.Second)
	_, err := client.GenerateProposal(context.Background(), testBrief, "consulting", "USD")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelResponse)
}

func TestGenerateProposal_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "gpt-4o-mini", 5*time.Second)
	_, err := client.GenerateProposal(context.Background(), testBrief, "consulting", "USD")
	assert.ErrorIs(t, err, ErrModelResponse)
}

func TestGenerateProposal_HTTPErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error": "upstream overload"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "gpt-4o-mini", 5*time.Second)
	_, err := client.GenerateProposal(context.Background(), testBrief, "marketing", "USD")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestGenerateProposal_RetriesTransportFailureOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			// Первый запрос обрываем на уровне соединения
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		writeChatResponse(t, w, `{"title":"Second try"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "gpt-4o-mini", 5*time.Second)
	generated, err := client.GenerateProposal(context.Background(), testBrief, "development", "USD")
	require.NoError(t, err)
	assert.Equal(t, "Second try", generated.Title)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGenerateProposal_UnreachableHost(t *testing.T) {
	// Сервер закрыт до запроса: оба обращения упираются в отказ соединения
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, "", "gpt-4o-mini", time.Second)
	_, err := client.GenerateProposal(context.Background(), testBrief, "development", "USD")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestGenerateProposal_EmptyBaseURL(t *testing.T) {
	client := NewClient("", "", "gpt-4o-mini", time.Second)
	_, err := client.GenerateProposal(context.Background(), testBrief, "development", "USD")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"чистый объект", `{"a":1}`, `{"a":1}`, true},
		{"текст вокруг", `note {"a":1} done`, `{"a":1}`, true},
		{"markdown без языка", "```\n{\"a\":1}\n```", `{"a":1}`, true},
		{"нет JSON", "plain text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSON(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.JSONEq(t, tt.want, got)
			}
		})
	}
}
