package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GroqClient speaks the OpenAI-compatible chat completions API. Schema and
// thinking hints are not supported there and are ignored.
type GroqClient struct {
	base   string
	client *http.Client
}

func NewGroq(base string, hc *http.Client) *GroqClient {
	return &GroqClient{
		base:   strings.TrimRight(base, "/"),
		client: pickHTTPClient(hc),
	}
}

func (c *GroqClient) GenerateContent(ctx context.Context, req Request) (string, error) {
	if req.APIKey == "" {
		return "", fmt.Errorf("groq: missing api key")
	}

	msgs := make([]map[string]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := m.Role
		if role == "" {
			role = "user"
		}
		msgs = append(msgs, map[string]string{"role": role, "content": m.Text})
	}
	payload := map[string]any{
		"model":    req.Model,
		"messages": msgs,
	}
	if req.Temperature != nil {
		payload["temperature"] = *req.Temperature
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.base)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("groq API error: %s (%s)", resp.Status, string(raw))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("groq API returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
