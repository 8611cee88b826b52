package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/satishskid/greylearn/internal/tutor"
)

const groqKeyHeader = "X-Groq-Api-Key"

// ChatHandler proxies a course-grounded tutor question:
// POST /api/chat {"message": "...", "context": "..."}.
// X-Provider selects "groq"; the default is Gemini.
func ChatHandler(svc *tutor.Service, defaultGeminiKey, defaultGroqKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
			Context string `json:"context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "bad json", http.StatusBadRequest)
			return
		}

		provider := r.Header.Get("X-Provider")
		apiKey := keyOr(r, defaultGeminiKey)
		if provider == "groq" {
			apiKey = r.Header.Get(groqKeyHeader)
			if apiKey == "" {
				apiKey = defaultGroqKey
			}
		}
		if apiKey == "" {
			writeError(w, "API Key not provided. Please set it in settings.", http.StatusUnauthorized)
			return
		}

		reply, err := svc.Ask(r.Context(), tutor.AskRequest{
			Message:  req.Message,
			Context:  req.Context,
			Provider: provider,
			APIKey:   apiKey,
		})
		if err != nil {
			if errors.Is(err, tutor.ErrMissingMessage) {
				writeError(w, "message is required", http.StatusBadRequest)
				return
			}
			writeError(w, "Failed to process request", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": reply})
	}
}
