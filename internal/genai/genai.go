package genai

import (
	"context"
	"net/http"
	"time"
)

// Generations can run for minutes on large structured outputs; rely on the
// caller's context for cancellation.
const defaultHTTPTimeout = 3 * time.Minute

type ThinkingLevel string

const ThinkingHigh ThinkingLevel = "HIGH"

type Message struct {
	Role string // "system" or "user"
	Text string
}

// Request is one model call. ResponseSchema and Thinking are hints honored
// by providers that support them and ignored otherwise.
type Request struct {
	Model            string
	Messages         []Message
	ResponseMIMEType string
	ResponseSchema   *Schema
	Thinking         ThinkingLevel
	Temperature      *float64
	MaxTokens        int
	APIKey           string // per-call key; callers resolve defaults before the call
}

// Client issues a single generation request and returns the raw text payload.
type Client interface {
	GenerateContent(ctx context.Context, req Request) (string, error)
}

func UserMessage(text string) []Message {
	return []Message{{Role: "user", Text: text}}
}

func Temp(v float64) *float64 { return &v }

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}
