package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	authmw "github.com/satishskid/greylearn/internal/auth/middleware"
	"github.com/satishskid/greylearn/internal/monograph"
	"github.com/satishskid/greylearn/internal/monograph/viewer"
	syncx "github.com/satishskid/greylearn/internal/sync"
)

// Handlers only; routes are declared in main.go

const apiKeyHeader = "X-Goog-Api-Key"

// keyOr resolves the caller-supplied API key, falling back to the
// server-side default.
func keyOr(r *http.Request, def string) string {
	if k := r.Header.Get(apiKeyHeader); k != "" {
		return k
	}
	return def
}

// ResearchHandler runs one synchronous monograph generation:
// POST /api/research {"topic": "..."} → Monograph JSON.
func ResearchHandler(gen *monograph.Generator, defaultKey string, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Topic string `json:"topic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Topic is required", http.StatusBadRequest)
			return
		}
		topic := strings.TrimSpace(req.Topic)
		if topic == "" {
			writeError(w, "Topic is required", http.StatusBadRequest)
			return
		}
		apiKey := keyOr(r, defaultKey)
		if apiKey == "" {
			writeError(w, "API Key not provided", http.StatusUnauthorized)
			return
		}

		m, err := gen.Generate(r.Context(), topic, apiKey)
		if err != nil {
			writeError(w, "Failed to generate monograph", http.StatusInternalServerError)
			return
		}

		if events != nil {
			sub := authmw.SubjectFromContext(r.Context())
			_ = events.Append(r.Context(), syncx.Event{
				Type: syncx.EventMonographGenerated,
				Key:  sub,
				DataJSON: mustJSON(map[string]any{
					"topic": topic, "sections": len(m.Sections), "quiz": len(m.Quiz),
				}),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(m)
	}
}

// Sessions holds one research viewer per user. Monographs live only in
// memory for the server's lifetime; nothing is written to the database.
type Sessions struct {
	mu  sync.Mutex
	gen monograph.GenerateFunc
	m   map[string]*viewer.Session
}

func NewSessions(gen monograph.GenerateFunc) *Sessions {
	return &Sessions{gen: gen, m: map[string]*viewer.Session{}}
}

func (s *Sessions) For(userID string) *viewer.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[userID]
	if !ok {
		sess = viewer.NewSession(s.gen)
		s.m[userID] = sess
	}
	return sess
}

// SubmitResearchHandler starts an async generation in the caller's session:
// POST /api/research/session {"topic": "..."}. A submission while one is in
// flight is ignored and reported as 409.
func SubmitResearchHandler(sessions *Sessions, defaultKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		if sub == "" {
			writeError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req struct {
			Topic string `json:"topic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Topic is required", http.StatusBadRequest)
			return
		}
		topic := strings.TrimSpace(req.Topic)
		if topic == "" {
			writeError(w, "Topic is required", http.StatusBadRequest)
			return
		}
		if keyOr(r, defaultKey) == "" {
			writeError(w, "API Key not provided", http.StatusUnauthorized)
			return
		}

		// The generation outlives this request; detach it from the request
		// context but keep the resolved key with it.
		ctx := withAPIKey(context.Background(), keyOr(r, defaultKey))
		if !sessions.For(sub).Submit(ctx, topic) {
			writeError(w, "generation already in progress", http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": string(monograph.StatusLoading)})
	}
}

// ResearchStatusHandler reports the session's lifecycle state and, once
// ready, the rendered document. ?open=<heading> toggles the accordion first.
func ResearchStatusHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		if sub == "" {
			writeError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		sess := sessions.For(sub)
		if open := r.URL.Query().Get("open"); open != "" {
			_ = sess.Toggle(open) // no-op until a monograph is ready
		}

		snap := sess.Status()
		out := map[string]any{"topic": snap.Topic, "status": snap.Status}
		if snap.Error != "" {
			out["error"] = snap.Error
		}
		if doc, err := sess.Document(); err == nil {
			out["document"] = doc
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// QuizSelectHandler: POST /api/research/session/quiz/{index}/select {"option": "..."}
func QuizSelectHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizOp(w, r, sessions, func(sess *viewer.Session, i int) error {
			var req struct {
				Option string `json:"option"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return errBadJSON
			}
			return sess.SelectOption(i, req.Option)
		})
	}
}

// QuizCheckHandler: POST /api/research/session/quiz/{index}/check
func QuizCheckHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizOp(w, r, sessions, func(sess *viewer.Session, i int) error {
			return sess.CheckAnswer(i)
		})
	}
}

var errBadJSON = errors.New("bad json")

func quizOp(w http.ResponseWriter, r *http.Request, sessions *Sessions, op func(*viewer.Session, int) error) {
	sub := authmw.SubjectFromContext(r.Context())
	if sub == "" {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, "bad question index", http.StatusBadRequest)
		return
	}
	sess := sessions.For(sub)
	if err := op(sess, idx); err != nil {
		switch {
		case errors.Is(err, errBadJSON):
			writeError(w, "bad json", http.StatusBadRequest)
		case errors.Is(err, viewer.ErrNotReady):
			writeError(w, "no monograph ready", http.StatusConflict)
		default:
			writeError(w, "no such question", http.StatusNotFound)
		}
		return
	}
	qv, err := sess.Question(idx)
	if err != nil {
		writeError(w, "no such question", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(qv)
}

func writeError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ---- per-call API key plumbing for session generations ----

type apiKeyCtx struct{}

func withAPIKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, apiKeyCtx{}, key)
}

// APIKeyFromContext returns the key attached by SubmitResearchHandler.
func APIKeyFromContext(ctx context.Context) string {
	if v := ctx.Value(apiKeyCtx{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
