package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	api "github.com/satishskid/greylearn/internal/api/http"
	googleauth "github.com/satishskid/greylearn/internal/auth"
	auth "github.com/satishskid/greylearn/internal/auth/middleware"
	"github.com/satishskid/greylearn/internal/config"
	"github.com/satishskid/greylearn/internal/course"
	"github.com/satishskid/greylearn/internal/db"
	"github.com/satishskid/greylearn/internal/genai"
	"github.com/satishskid/greylearn/internal/grader"
	"github.com/satishskid/greylearn/internal/monograph"
	rbac "github.com/satishskid/greylearn/internal/rbac"
	syncx "github.com/satishskid/greylearn/internal/sync"
	"github.com/satishskid/greylearn/internal/tutor"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	courses := course.NewSQLStore(dbh)
	events := syncx.NewEventRepo(dbh)

	// --- GenAI upstreams ---
	gemini := genai.NewGemini(cfg.GenAIBaseURL, nil)
	groq := genai.NewGroq(cfg.GroqBaseURL, nil)

	gen := monograph.NewGenerator(gemini, cfg.ResearchPrimaryModel, cfg.ResearchFallbackModel)
	sessions := api.NewSessions(func(ctx context.Context, topic string) (monograph.Monograph, error) {
		return gen.Generate(ctx, topic, api.APIKeyFromContext(ctx))
	})
	chat := tutor.NewService(gemini, groq, cfg.ChatModel, "llama3-70b-8192")
	grade := grader.NewService(gemini, cfg.GraderModel)

	// --- Auth (local JWT for offline/dev) ---
	secret := getenvOr("AUTH_HMAC_SECRET", "supersecret-dev-key")
	authSvc := auth.NewAuthService(secret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute)) // research calls can run long

	if cfg.Mode == config.ModeOnline {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOriginsOnline,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Goog-Api-Key", "X-Groq-Api-Key", "X-Provider"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOriginsOffline,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Goog-Api-Key", "X-Groq-Api-Key", "X-Provider"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Local login (enabled in offline mode by default; can be enabled online via env)
	if cfg.EnableLocalAuth {
		r.Post("/api/auth/login", auth.LoginHandler(authSvc, dbh))
	}
	if cfg.EnableGoogleAuth {
		r.Get("/api/auth/google/login", googleauth.GoogleLoginHandler(cfg))
		r.Get("/api/auth/google/callback", googleauth.GoogleCallbackHandler(authSvc, dbh, cfg))
	}

	// Key validation needs no account; the key itself is the credential.
	r.Post("/api/validate-key", api.ValidateKeyHandler(gemini, cfg.ValidateModel))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Profile and password work even while pending.
		pr.Get("/api/me", api.MeHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/api/users/change-password", api.ChangePasswordHandler(dbh))

		pr.Group(func(ar chi.Router) {
			ar.Use(auth.RequireApproved())

			// Deep-research monograph pipeline
			ar.With(rbac.Require("research:generate")).
				Post("/api/research", api.ResearchHandler(gen, cfg.GeminiAPIKey, events))
			ar.With(rbac.Require("research:generate")).
				Post("/api/research/session", api.SubmitResearchHandler(sessions, cfg.GeminiAPIKey))
			ar.With(rbac.Require("research:generate")).
				Get("/api/research/session", api.ResearchStatusHandler(sessions))
			ar.With(rbac.Require("research:generate")).
				Post("/api/research/session/quiz/{index}/select", api.QuizSelectHandler(sessions))
			ar.With(rbac.Require("research:generate")).
				Post("/api/research/session/quiz/{index}/check", api.QuizCheckHandler(sessions))

			// AI tutor + grading
			ar.With(rbac.Require("chat:ask")).
				Post("/api/chat", api.ChatHandler(chat, cfg.GeminiAPIKey, cfg.GroqAPIKey))
			ar.With(rbac.Require("grade:submit")).
				Post("/api/grade", api.GradeHandler(grade, courses, events, cfg.GeminiAPIKey))

			// Courses
			ar.With(rbac.Require("course:view")).
				Get("/api/courses", api.ListCoursesHandler(courses))
			ar.With(rbac.Require("course:view")).
				Get("/api/courses/{courseID}", api.GetCourseHandler(courses))
			ar.With(rbac.Require("course:create")).
				Post("/api/courses", api.CreateCourseHandler(courses))
			ar.With(rbac.Require("course:delete")).
				Delete("/api/courses/{courseID}", api.DeleteCourseHandler(courses))
			ar.With(rbac.Require("course:register")).
				Post("/api/courses/{courseID}/register", api.RegisterCourseHandler(courses, events))
			ar.With(rbac.RequireAny("course:register", "registrations:manage")).
				Get("/api/registrations", api.ListRegistrationsHandler(courses))
			ar.With(rbac.Require("registrations:manage")).
				Post("/api/registrations/{regID}/confirm", api.ConfirmRegistrationHandler(courses))
			ar.With(rbac.Require("grade:submit")).
				Get("/api/submissions", api.ListSubmissionsHandler(courses))
			ar.With(rbac.Require("certificate:view")).
				Get("/api/certificates/{courseID}", api.CertificateHandler(courses))

			// Admin
			ar.With(rbac.Require("users:list")).
				Get("/api/admin/users", api.ListUsersHandler(dbh))
			ar.With(rbac.Require("users:manage")).
				Post("/api/admin/users", api.CreateUserHandler(dbh, events))
			ar.With(rbac.Require("users:manage")).
				Post("/api/admin/users/{userID}/approve", api.ApproveUserHandler(dbh))
			ar.With(rbac.Require("users:manage")).
				Post("/api/admin/users/bulk", api.BulkUpsertUsersHandler(dbh))
			ar.With(rbac.Require("analytics:view")).
				Get("/api/admin/analytics", api.AnalyticsHandler(dbh, events))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

func getenvOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
