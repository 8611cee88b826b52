package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiRequestShape(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  hello "}]}}]}`))
	}))
	defer srv.Close()

	c := NewGemini(srv.URL, srv.Client())
	out, err := c.GenerateContent(context.Background(), Request{
		Model:            "gemini-3-pro-preview",
		Messages:         UserMessage("write something"),
		ResponseMIMEType: "application/json",
		ResponseSchema:   &Schema{Type: TypeObject, Properties: map[string]*Schema{"title": {Type: TypeString}}},
		Thinking:         ThinkingHigh,
		Temperature:      Temp(0.5),
		APIKey:           "secret-key",
	})
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if out != "hello" {
		t.Errorf("out = %q (should be trimmed)", out)
	}
	if gotPath != "/v1beta/models/gemini-3-pro-preview:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret-key" {
		t.Errorf("api key header = %q", gotKey)
	}

	contents := gotBody["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("contents = %v", contents)
	}
	first := contents[0].(map[string]any)
	if first["role"] != "user" {
		t.Errorf("role = %v", first["role"])
	}

	gc, ok := gotBody["generationConfig"].(map[string]any)
	if !ok {
		t.Fatal("generationConfig missing")
	}
	if gc["responseMimeType"] != "application/json" {
		t.Errorf("responseMimeType = %v", gc["responseMimeType"])
	}
	schema, ok := gc["responseSchema"].(map[string]any)
	if !ok || schema["type"] != "OBJECT" {
		t.Errorf("responseSchema = %v", gc["responseSchema"])
	}
	tc, ok := gc["thinkingConfig"].(map[string]any)
	if !ok || tc["thinkingLevel"] != "HIGH" {
		t.Errorf("thinkingConfig = %v", gc["thinkingConfig"])
	}
	if gc["temperature"] != 0.5 {
		t.Errorf("temperature = %v", gc["temperature"])
	}
}

func TestGeminiOmitsEmptyGenerationConfig(t *testing.T) {
	var gotBody map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGemini(srv.URL, srv.Client())
	if _, err := c.GenerateContent(context.Background(), Request{
		Model: "m", Messages: UserMessage("hi"), APIKey: "k",
	}); err != nil {
		t.Fatal(err)
	}
	if _, ok := gotBody["generationConfig"]; ok {
		t.Error("generationConfig sent with no config set")
	}
}

func TestGeminiJoinsParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"foo"},{"text":"bar"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGemini(srv.URL, srv.Client())
	out, err := c.GenerateContent(context.Background(), Request{Model: "m", Messages: UserMessage("hi"), APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "foobar" {
		t.Errorf("out = %q", out)
	}
}

func TestGeminiErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		c := NewGemini("http://unused.invalid", nil)
		if _, err := c.GenerateContent(context.Background(), Request{Model: "m", Messages: UserMessage("hi")}); err == nil {
			t.Fatal("want error for missing key")
		}
	})

	t.Run("http 400", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"API key not valid"}}`, http.StatusBadRequest)
		}))
		defer srv.Close()
		c := NewGemini(srv.URL, srv.Client())
		_, err := c.GenerateContent(context.Background(), Request{Model: "m", Messages: UserMessage("hi"), APIKey: "bad"})
		if err == nil || !strings.Contains(err.Error(), "gemini API error") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()
		c := NewGemini(srv.URL, srv.Client())
		if _, err := c.GenerateContent(context.Background(), Request{Model: "m", Messages: UserMessage("hi"), APIKey: "k"}); err == nil {
			t.Fatal("want error for empty candidates")
		}
	})
}
