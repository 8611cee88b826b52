package monograph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/satishskid/greylearn/internal/genai"
)

// fakeClient scripts per-call responses and records every request.
type fakeClient struct {
	calls []genai.Request
	// resp/err consumed in order; last entry repeats.
	resps []string
	errs  []error
}

func (f *fakeClient) GenerateContent(_ context.Context, req genai.Request) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, req)
	if i >= len(f.resps) {
		i = len(f.resps) - 1
	}
	return f.resps[i], f.errs[i]
}

const goodJSON = `{
	"title": "Quantum Entanglement",
	"summary": "An overview.",
	"sections": [
		{"heading": "History", "content": "Long ago...", "key_concepts": ["EPR"]},
		{"heading": "Mechanics", "content": "Spooky action.", "subsections": [
			{"heading": "Bell Tests", "content": "Inequalities."}
		]}
	],
	"quiz": [
		{"question": "Q1", "options": ["A", "B"], "answer": "A", "explanation": "because"}
	]
}`

func TestGenerateSuccessPrimary(t *testing.T) {
	fc := &fakeClient{resps: []string{goodJSON}, errs: []error{nil}}
	g := NewGenerator(fc, "pro", "flash")

	m, err := g.Generate(context.Background(), "Quantum Entanglement", "key-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if m.Title != "Quantum Entanglement" || len(m.Sections) != 2 || len(m.Quiz) != 1 {
		t.Fatalf("unexpected monograph: %+v", m)
	}
	if m.Sections[1].Subsections[0].Heading != "Bell Tests" {
		t.Fatalf("subsection not decoded: %+v", m.Sections[1])
	}

	if len(fc.calls) != 1 {
		t.Fatalf("want 1 model call, got %d", len(fc.calls))
	}
	req := fc.calls[0]
	if req.Model != "pro" {
		t.Errorf("model = %q, want pro", req.Model)
	}
	if req.ResponseMIMEType != "application/json" {
		t.Errorf("mime = %q", req.ResponseMIMEType)
	}
	if req.ResponseSchema == nil || req.ResponseSchema.Type != genai.TypeObject {
		t.Errorf("schema missing or wrong type: %+v", req.ResponseSchema)
	}
	if req.Thinking != genai.ThinkingHigh {
		t.Errorf("thinking = %q, want HIGH", req.Thinking)
	}
	if req.APIKey != "key-1" {
		t.Errorf("api key = %q", req.APIKey)
	}
	prompt := req.Messages[0].Text
	for _, want := range []string{
		"**Topic**: Quantum Entanglement",
		"Exhaustive Depth",
		"Generate 5 challenging questions",
		"**Thinking Process**",
		`Use your "Thinking Mode" to plan the monograph structure`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateFallbackOrdering(t *testing.T) {
	fc := &fakeClient{
		resps: []string{"", goodJSON},
		errs:  []error{errors.New("503 overloaded"), nil},
	}
	g := NewGenerator(fc, "pro", "flash")

	m, err := g.Generate(context.Background(), "topic", "k")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if m.Title == "" {
		t.Fatal("fallback result not used")
	}
	if len(fc.calls) != 2 {
		t.Fatalf("want exactly 2 calls, got %d", len(fc.calls))
	}
	if fc.calls[0].Model != "pro" || fc.calls[1].Model != "flash" {
		t.Fatalf("call order = [%s %s], want [pro flash]", fc.calls[0].Model, fc.calls[1].Model)
	}
	// The fallback retries without high thinking.
	if fc.calls[1].Thinking != "" {
		t.Errorf("fallback thinking = %q, want unset", fc.calls[1].Thinking)
	}
	if fc.calls[1].ResponseSchema == nil {
		t.Error("fallback dropped the response schema")
	}
}

func TestGenerateBothModelsFail(t *testing.T) {
	boom := errors.New("boom")
	fc := &fakeClient{resps: []string{"", ""}, errs: []error{boom, boom}}
	g := NewGenerator(fc, "pro", "flash")

	_, err := g.Generate(context.Background(), "topic", "k")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
	if len(fc.calls) != 2 {
		t.Fatalf("want exactly 2 calls (no retry loop), got %d", len(fc.calls))
	}
}

func TestGenerateConfigErrors(t *testing.T) {
	fc := &fakeClient{resps: []string{goodJSON}, errs: []error{nil}}
	g := NewGenerator(fc, "pro", "flash")

	if _, err := g.Generate(context.Background(), "   ", "k"); !errors.Is(err, ErrMissingTopic) {
		t.Errorf("blank topic: err = %v, want ErrMissingTopic", err)
	}
	if _, err := g.Generate(context.Background(), "topic", ""); !errors.Is(err, ErrMissingKey) {
		t.Errorf("no key: err = %v, want ErrMissingKey", err)
	}
	if len(fc.calls) != 0 {
		t.Fatalf("config errors must not reach the model; got %d calls", len(fc.calls))
	}
}

func TestGenerateUnparsableBody(t *testing.T) {
	fc := &fakeClient{resps: []string{"I'm sorry, I can't do that."}, errs: []error{nil}}
	g := NewGenerator(fc, "pro", "flash")

	_, err := g.Generate(context.Background(), "topic", "k")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestGenerateEmptyBody(t *testing.T) {
	fc := &fakeClient{resps: []string{""}, errs: []error{nil}}
	g := NewGenerator(fc, "pro", "flash")

	_, err := g.Generate(context.Background(), "topic", "k")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestGeneratePermissiveParse(t *testing.T) {
	// Missing quiz and summary decode to zero values, not an error.
	fc := &fakeClient{resps: []string{`{"title":"T","sections":[]}`}, errs: []error{nil}}
	g := NewGenerator(fc, "pro", "flash")

	m, err := g.Generate(context.Background(), "topic", "k")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if m.Title != "T" || m.Summary != "" || len(m.Quiz) != 0 {
		t.Fatalf("unexpected: %+v", m)
	}
}

func TestSchemaShape(t *testing.T) {
	s := monographSchema()
	for _, k := range []string{"title", "summary", "sections", "quiz"} {
		if _, ok := s.Properties[k]; !ok {
			t.Errorf("schema missing %q", k)
		}
	}
	sec := s.Properties["sections"].Items
	if sec == nil {
		t.Fatal("sections schema has no items")
	}
	sub, ok := sec.Properties["subsections"]
	if !ok {
		t.Fatal("section schema has no subsections")
	}
	// Two levels only: a subsection has no subsections of its own.
	if _, ok := sub.Items.Properties["subsections"]; ok {
		t.Error("subsection schema must not nest further")
	}
}
