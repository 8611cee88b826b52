// Package tutor proxies course-grounded chat questions to a model. Same
// request/response shape as the monograph generator's model call, minus the
// schema and the fallback.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/satishskid/greylearn/internal/genai"
)

var (
	ErrMissingKey     = errors.New("api key not provided")
	ErrMissingMessage = errors.New("message is required")
)

const systemPrompt = `You are an expert tutor for GreyLearn.
Your goal is to help students understand the course material.
Answer the student's question based strictly on the provided course context.
If the answer is not in the context, say "I cannot find the answer in the course material."
Keep answers concise and educational.

Course Context:
%s
`

type Service struct {
	gemini genai.Client
	groq   genai.Client

	geminiModel string
	groqModel   string
}

func NewService(gemini, groq genai.Client, geminiModel, groqModel string) *Service {
	if geminiModel == "" {
		geminiModel = "gemini-3-flash-preview"
	}
	if groqModel == "" {
		groqModel = "llama3-70b-8192"
	}
	return &Service{gemini: gemini, groq: groq, geminiModel: geminiModel, groqModel: groqModel}
}

type AskRequest struct {
	Message  string
	Context  string // course material the answer must come from
	Provider string // "google" (default) or "groq"
	APIKey   string
}

func (s *Service) Ask(ctx context.Context, req AskRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrMissingMessage
	}
	if req.APIKey == "" {
		return "", ErrMissingKey
	}
	sys := fmt.Sprintf(systemPrompt, req.Context)

	if req.Provider == "groq" {
		return s.groq.GenerateContent(ctx, genai.Request{
			Model: s.groqModel,
			Messages: []genai.Message{
				{Role: "system", Text: sys},
				{Role: "user", Text: req.Message},
			},
			Temperature: genai.Temp(0.5),
			MaxTokens:   1024,
			APIKey:      req.APIKey,
		})
	}

	reply, err := s.gemini.GenerateContent(ctx, genai.Request{
		Model: s.geminiModel,
		Messages: []genai.Message{
			{Role: "user", Text: sys},
			{Role: "user", Text: req.Message},
		},
		Temperature: genai.Temp(0.5),
		APIKey:      req.APIKey,
	})
	if err != nil {
		return "", err
	}
	if reply == "" {
		reply = "No response generated."
	}
	return reply, nil
}
