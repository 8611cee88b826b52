package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/satishskid/greylearn/internal/rbac"
)

type AuthService struct{ hmac []byte }

func NewAuthService(secret string) *AuthService { return &AuthService{hmac: []byte(secret)} }

type Claims struct {
	Sub    string `json:"sub"`
	Role   string `json:"role"`   // "student" or "admin"
	Status string `json:"status"` // "pending" or "approved"
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(sub, role, status string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:    sub,
		Role:   role,
		Status: status,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "greylearn",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil || !token.Valid {
		return nil, err
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// POST /api/auth/login  { "username": "...", "password": "..." }
func LoginHandler(a *AuthService, db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		var id, hash, role, status string
		err := db.QueryRowContext(r.Context(),
			`SELECT id, password_hash, role, status FROM users WHERE username=$1`, req.Username).
			Scan(&id, &hash, &role, &status)
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		_, _ = db.ExecContext(r.Context(), `UPDATE users SET last_login_at=$1 WHERE id=$2`, time.Now().Unix(), id)
		tok, err := a.IssueJWT(id, role, status)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok, "role": role, "status": status})
	}
}

// JWTMiddleware validates the bearer token and stashes subject, role and
// approval status in the request context.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			claims, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			ctx := WithSubject(r.Context(), claims.Sub)
			ctx = rbac.WithRole(ctx, claims.Role)
			ctx = WithStatus(ctx, claims.Status)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireApproved gates surfaces that pending (un-whitelisted) accounts may
// not use. Admins are implicitly approved.
func RequireApproved() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rbac.RoleFromContext(r.Context()) == "admin" {
				next.ServeHTTP(w, r)
				return
			}
			if StatusFromContext(r.Context()) != "approved" {
				http.Error(w, "account pending approval", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
