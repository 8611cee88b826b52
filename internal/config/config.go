package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode      Mode
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	EnableLocalAuth bool

	AdminEmails []string // auto-approved as admin on first sign-in

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	EnableGoogleAuth bool

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string // e.g., PUBLIC_URL + "/api/auth/google/callback"
	GoogleAllowedHD    string // optional: restrict to a workspace domain

	// Generative-language upstream. GenAIBaseURL is overridable for tests.
	GenAIBaseURL string
	GeminiAPIKey string // server-side default; callers may override per request
	GroqAPIKey   string
	GroqBaseURL  string

	ResearchPrimaryModel  string
	ResearchFallbackModel string
	ChatModel             string
	GraderModel           string
	ValidateModel         string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	pub := os.Getenv("PUBLIC_URL")
	return Config{
		Mode:               mode,
		HTTPAddr:           addr,
		PublicURL:          pub,
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		EnableLocalAuth:    envBool("ENABLE_LOCAL_AUTH", true),
		AdminEmails:        csvOr("ADMIN_EMAILS", ""),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://greylearn.app"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:3010"),

		EnableGoogleAuth:   envBool("ENABLE_GOOGLE_AUTH", false),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  envOr("GOOGLE_REDIRECT_URI", strings.TrimSuffix(pub, "/")+"/api/auth/google/callback"),
		GoogleAllowedHD:    os.Getenv("GOOGLE_ALLOWED_HD"),

		GenAIBaseURL: envOr("GENAI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:  envOr("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),

		ResearchPrimaryModel:  envOr("RESEARCH_PRIMARY_MODEL", "gemini-3-pro-preview"),
		ResearchFallbackModel: envOr("RESEARCH_FALLBACK_MODEL", "gemini-2.0-flash"),
		ChatModel:             envOr("CHAT_MODEL", "gemini-3-flash-preview"),
		GraderModel:           envOr("GRADER_MODEL", "gemini-3-pro-preview"),
		ValidateModel:         envOr("VALIDATE_MODEL", "gemini-1.5-flash"),
	}
}
func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
