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

// GeminiClient talks to the generative-language REST API
// (models/{model}:generateContent).
type GeminiClient struct {
	base   string
	client *http.Client
}

func NewGemini(base string, hc *http.Client) *GeminiClient {
	return &GeminiClient{
		base:   strings.TrimRight(base, "/"),
		client: pickHTTPClient(hc),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiThinkingConfig struct {
	ThinkingLevel string `json:"thinkingLevel"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string                `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema               `json:"responseSchema,omitempty"`
	Temperature      *float64              `json:"temperature,omitempty"`
	ThinkingConfig   *geminiThinkingConfig `json:"thinkingConfig,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

func (c *GeminiClient) GenerateContent(ctx context.Context, req Request) (string, error) {
	if req.APIKey == "" {
		return "", fmt.Errorf("gemini: missing api key")
	}

	body := geminiRequest{}
	for _, m := range req.Messages {
		// Gemini has no system role on this endpoint; fold everything into user turns.
		body.Contents = append(body.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Text}}})
	}
	gc := &geminiGenerationConfig{
		ResponseMIMEType: req.ResponseMIMEType,
		ResponseSchema:   req.ResponseSchema,
		Temperature:      req.Temperature,
	}
	if req.Thinking != "" {
		gc.ThinkingConfig = &geminiThinkingConfig{ThinkingLevel: string(req.Thinking)}
	}
	if gc.ResponseMIMEType != "" || gc.ResponseSchema != nil || gc.Temperature != nil || gc.ThinkingConfig != nil {
		body.GenerationConfig = gc
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.base, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", req.APIKey)

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
		return "", fmt.Errorf("gemini API error: %s (%s)", resp.Status, string(raw))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []geminiPart `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini API returned no candidates")
	}
	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
