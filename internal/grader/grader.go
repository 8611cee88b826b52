// Package grader grades assignment submissions against course material via
// a single high-reasoning model call.
package grader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/satishskid/greylearn/internal/genai"
)

var (
	ErrMissingKey        = errors.New("api key not provided")
	ErrMissingSubmission = errors.New("submission is required")
	ErrGradingFailed     = errors.New("failed to grade assignment")
)

const gradePrompt = `
You are an expert examiner.
Your task is to grade a student's answer to an assignment based on the provided course material.

Course Material:
%s

Student Submission:
%s

Evaluate the submission for accuracy and completeness based strictly on the course material.
If the submission is correct and demonstrates understanding, mark it as 'passed'.
If it is incorrect or missing key information, mark it as 'failed'.
Provide constructive feedback explaining the grade.

Return ONLY a valid JSON object with the following structure:
{
  "status": "passed" | "failed",
  "feedback": "string"
}
`

type Grade struct {
	Status   string `json:"status"` // passed|failed
	Feedback string `json:"feedback"`
}

type Service struct {
	client genai.Client
	model  string
}

func NewService(client genai.Client, model string) *Service {
	if model == "" {
		model = "gemini-3-pro-preview"
	}
	return &Service{client: client, model: model}
}

func (s *Service) Grade(ctx context.Context, submission, courseContext, apiKey string) (Grade, error) {
	if strings.TrimSpace(submission) == "" {
		return Grade{}, ErrMissingSubmission
	}
	if apiKey == "" {
		return Grade{}, ErrMissingKey
	}

	text, err := s.client.GenerateContent(ctx, genai.Request{
		Model:            s.model,
		Messages:         genai.UserMessage(fmt.Sprintf(gradePrompt, courseContext, submission)),
		ResponseMIMEType: "application/json",
		Thinking:         genai.ThinkingHigh,
		APIKey:           apiKey,
	})
	if err != nil {
		log.Printf("grader: model call failed: %v", err)
		return Grade{}, ErrGradingFailed
	}
	if text == "" {
		return Grade{}, ErrGradingFailed
	}

	var g Grade
	if err := json.Unmarshal([]byte(text), &g); err != nil {
		log.Printf("grader: unparsable grade response: %v", err)
		return Grade{}, ErrGradingFailed
	}
	return g, nil
}
