// Package ai содержит клиента OpenAI-совместимого API, который превращает
// описание задачи от клиента в структурированное коммерческое предложение.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ignatzorin/proposal-backend/internal/logger"
	"github.com/ignatzorin/proposal-backend/internal/models"
)

// Ошибки клиента. Наружу оба вида схлопываются в общий 500, но в логах
// «модель недоступна» и «модель вернула мусор» различаются.
var (
	// ErrModelUnavailable сетевая или HTTP ошибка при обращении к модели.
	ErrModelUnavailable = errors.New("ai: модель недоступна")
	// ErrModelResponse модель ответила, но тело пустое или не парсится как JSON.
	ErrModelResponse = errors.New("ai: невалидный ответ модели")
)

// Client обращается к OpenAI-совместимому API за генерацией предложений.
// Клиент создаётся явно при старте и передаётся в сервис зависимостью,
// никакого процессного синглтона.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateProposal просит модель составить предложение по описанию задачи.
// Схему ответа модель соблюдает приблизительно, поэтому поля результата
// остаются нетипизированными: их приводит к тексту вызывающая сторона.
func (c *Client) GenerateProposal(ctx context.Context, brief, template, currency string) (*models.GeneratedProposal, error) {
	prompt := buildPrompt(brief, template, currency)

	content, err := c.chatCompletion(ctx, []map[string]string{
		{"role": "user", "content": prompt},
	})
	if err != nil {
		return nil, err
	}

	var generated models.GeneratedProposal
	if err := json.Unmarshal([]byte(content), &generated); err != nil {
		// Некоторые модели заворачивают JSON в markdown или добавляют текст
		// вокруг — пробуем вырезать объект прежде чем сдаться.
		extracted, ok := extractJSON(content)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrModelResponse, err)
		}
		if err := json.Unmarshal([]byte(extracted), &generated); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModelResponse, err)
		}
	}

	return &generated, nil
}

// buildPrompt формирует инструкцию для модели. Текст промпта английский:
// модель отвечает на языке инструкции, а продукт англоязычный.
func buildPrompt(brief, template, currency string) string {
	if currency == "" {
		currency = "USD"
	}

	return fmt.Sprintf(`Generate a professional %s proposal based on this brief:

%s

Currency: %s

Return a JSON object with these fields:
- title: proposal title
- clientName: extracted client name
- clientCompany: extracted company name
- scope: detailed scope of work
- deliverables: list of deliverables
- timeline: project timeline
- pricing: pricing breakdown with currency as {items: [{name, description, price}], total, currency}
- terms: payment terms and conditions`, template, brief, currency)
}

// chatCompletion выполняет запрос к /chat/completions и возвращает текст
// первого ответа. Транзиентная сетевая ошибка повторяется один раз.
func (c *Client) chatCompletion(ctx context.Context, messages []map[string]string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("%w: baseURL не задан", ErrModelUnavailable)
	}

	payload := map[string]any{
		"model":           c.model,
		"messages":        messages,
		"response_format": map[string]string{"type": "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	url := c.baseURL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	url += "chat/completions"

	resp, err := c.post(ctx, url, body)
	if err != nil {
		// Один повтор на сетевую ошибку: обрыв соединения или DNS.
		// HTTP ошибки не повторяем, модель ответила осознанно.
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
		logger.WithComponent("ai").WithError(err).Warn("запрос к модели не прошёл, повторяем")
		resp, err = c.post(ctx, url, body)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", fmt.Errorf("%w: код ответа %d: %v", ErrModelUnavailable, resp.StatusCode, errorBody)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelResponse, err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: пустой ответ", ErrModelResponse)
	}

	return result.Choices[0].Message.Content, nil
}

// post выполняет один HTTP запрос к API модели.
func (c *Client) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return c.httpClient.Do(req)
}

// extractJSON пытается вырезать JSON объект из текста с markdown или
// посторонними символами вокруг.
func extractJSON(text string) (string, bool) {
	// Markdown блок с кодом
	if strings.Contains(text, "```") {
		start := strings.Index(text, "```")
		rest := text[start+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end != -1 {
			candidate := strings.TrimSpace(rest[:end])
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
	}

	// Первый { и последний }
	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart != -1 && jsonEnd > jsonStart {
		candidate := text[jsonStart : jsonEnd+1]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}

	return "", false
}
