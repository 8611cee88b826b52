package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/satishskid/greylearn/internal/genai"
)

type keyCheckClient struct {
	gotModel, gotKey string
	err              error
}

func (c *keyCheckClient) GenerateContent(_ context.Context, req genai.Request) (string, error) {
	c.gotModel, c.gotKey = req.Model, req.APIKey
	return "ok", c.err
}

func validateKey(t *testing.T, client genai.Client, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/validate-key", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ValidateKeyHandler(client, "gemini-1.5-flash")(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestValidateKeyHandler(t *testing.T) {
	t.Run("valid google key", func(t *testing.T) {
		client := &keyCheckClient{}
		rec, out := validateKey(t, client, `{"apiKey":"good","provider":"google"}`)
		if rec.Code != http.StatusOK || out["valid"] != true {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		if client.gotModel != "gemini-1.5-flash" || client.gotKey != "good" {
			t.Errorf("probe call = %q/%q", client.gotModel, client.gotKey)
		}
	})

	t.Run("invalid google key", func(t *testing.T) {
		rec, out := validateKey(t, &keyCheckClient{err: errors.New("401")}, `{"apiKey":"bad","provider":"google"}`)
		if rec.Code != http.StatusBadRequest || out["valid"] != false {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		if out["error"] != "Invalid Gemini Key" {
			t.Errorf("error = %v", out["error"])
		}
	})

	t.Run("missing key", func(t *testing.T) {
		rec, out := validateKey(t, &keyCheckClient{}, `{"provider":"google"}`)
		if rec.Code != http.StatusBadRequest || out["error"] != "API Key is missing" {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
	})

	t.Run("unreadable body", func(t *testing.T) {
		rec, out := validateKey(t, &keyCheckClient{}, `{not json`)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", rec.Code)
		}
		if out["valid"] != false || out["error"] != "Validation failed" {
			t.Errorf("body = %s", rec.Body)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		rec, out := validateKey(t, &keyCheckClient{}, `{"apiKey":"k","provider":"cohere"}`)
		if rec.Code != http.StatusBadRequest || out["error"] != "Unknown provider" {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
	})
}
