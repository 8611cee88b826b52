package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGroqRequestShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hi there"}}]}`))
	}))
	defer srv.Close()

	c := NewGroq(srv.URL, srv.Client())
	out, err := c.GenerateContent(context.Background(), Request{
		Model: "llama3-70b-8192",
		Messages: []Message{
			{Role: "system", Text: "you are a tutor"},
			{Role: "user", Text: "question"},
		},
		Temperature: Temp(0.5),
		MaxTokens:   1024,
		APIKey:      "gsk-test",
	})
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if out != "hi there" {
		t.Errorf("out = %q", out)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer gsk-test" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody["model"] != "llama3-70b-8192" {
		t.Errorf("model = %v", gotBody["model"])
	}
	msgs := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", msgs)
	}
	if m := msgs[0].(map[string]any); m["role"] != "system" || m["content"] != "you are a tutor" {
		t.Errorf("system message = %v", m)
	}
	if gotBody["temperature"] != 0.5 || gotBody["max_tokens"] != float64(1024) {
		t.Errorf("tuning = %v / %v", gotBody["temperature"], gotBody["max_tokens"])
	}
}

func TestGroqNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()
	c := NewGroq(srv.URL, srv.Client())
	if _, err := c.GenerateContent(context.Background(), Request{Model: "m", Messages: UserMessage("hi"), APIKey: "k"}); err == nil {
		t.Fatal("want error for empty choices")
	}
}

func TestGroqDefaultsRoleToUser(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()
	c := NewGroq(srv.URL, srv.Client())
	if _, err := c.GenerateContent(context.Background(), Request{Model: "m", Messages: []Message{{Text: "plain"}}, APIKey: "k"}); err != nil {
		t.Fatal(err)
	}
	m := gotBody["messages"].([]any)[0].(map[string]any)
	if m["role"] != "user" {
		t.Errorf("role = %v", m["role"])
	}
}
