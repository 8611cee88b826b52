package http

import (
	"encoding/json"
	"net/http"

	"github.com/satishskid/greylearn/internal/genai"
)

// ValidateKeyHandler checks a caller-supplied key with a lightweight model
// call: POST /api/validate-key {"apiKey": "...", "provider": "google"}.
func ValidateKeyHandler(gemini genai.Client, validateModel string) http.HandlerFunc {
	type out struct {
		Valid bool   `json:"valid"`
		Error string `json:"error,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			APIKey   string `json:"apiKey"`
			Provider string `json:"provider"`
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(out{Valid: false, Error: "Validation failed"})
			return
		}
		if req.APIKey == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(out{Valid: false, Error: "API Key is missing"})
			return
		}

		switch req.Provider {
		case "", "google":
			_, err := gemini.GenerateContent(r.Context(), genai.Request{
				Model:    validateModel,
				Messages: genai.UserMessage("Test"),
				APIKey:   req.APIKey,
			})
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(out{Valid: false, Error: "Invalid Gemini Key"})
				return
			}
			_ = json.NewEncoder(w).Encode(out{Valid: true})
		case "groq":
			// Groq validation not implemented yet; accept and let the first
			// real call surface errors.
			_ = json.NewEncoder(w).Encode(out{Valid: true})
		default:
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(out{Valid: false, Error: "Unknown provider"})
		}
	}
}
