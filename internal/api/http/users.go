package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/satishskid/greylearn/internal/auth/middleware"
	"github.com/satishskid/greylearn/internal/rbac"
	syncx "github.com/satishskid/greylearn/internal/sync"
)

type userRow struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Password string `json:"password,omitempty"` // only on create
}

// MeHandler returns the caller's profile.
func MeHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		var u userRow
		err := db.QueryRowContext(r.Context(),
			`SELECT id, username, email, name, role, status FROM users WHERE id=$1`, sub).
			Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.Role, &u.Status)
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, "user not found", http.StatusNotFound)
			return
		}
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(u)
	}
}

func ListUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		var rows *sql.Rows
		var err error
		if status == "" {
			rows, err = db.QueryContext(r.Context(),
				`SELECT id, username, email, name, role, status FROM users ORDER BY username`)
		} else {
			rows, err = db.QueryContext(r.Context(),
				`SELECT id, username, email, name, role, status FROM users WHERE status=$1 ORDER BY username`, status)
		}
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		out := []userRow{}
		for rows.Next() {
			var u userRow
			if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.Role, &u.Status); err != nil {
				writeError(w, "db error", http.StatusInternalServerError)
				return
			}
			out = append(out, u)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// ApproveUserHandler flips a pending account to approved (the whitelist
// toggle): POST /api/admin/users/{userID}/approve.
func ApproveUserHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		res, err := db.ExecContext(r.Context(),
			`UPDATE users SET status='approved' WHERE id=$1`, userID)
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			writeError(w, "user not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CreateUserHandler adds a local-auth user (admin only).
func CreateUserHandler(db *sql.DB, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userRow
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
			strings.TrimSpace(req.Username) == "" || req.Password == "" {
			writeError(w, "username and password required", http.StatusBadRequest)
			return
		}
		if req.Role == "" {
			req.Role = "student"
		}
		if req.Role != "student" && req.Role != "admin" {
			writeError(w, "invalid role: "+req.Role, http.StatusBadRequest)
			return
		}
		if req.Status == "" {
			req.Status = "pending"
		}
		if req.ID == "" {
			req.ID = "local|" + req.Username
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			writeError(w, "hash error", http.StatusInternalServerError)
			return
		}
		_, err = db.ExecContext(r.Context(),
			`INSERT INTO users (id, username, email, name, password_hash, role, status, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			req.ID, req.Username, req.Email, req.Name, string(hash), req.Role, req.Status, time.Now().Unix())
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		if events != nil {
			_ = events.Append(r.Context(), syncx.Event{
				Type:     syncx.EventUserRegistered,
				Key:      req.ID,
				DataJSON: mustJSON(map[string]string{"username": req.Username, "role": req.Role}),
			})
		}
		req.Password = ""
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(req)
	}
}

// BulkUpsertUsersHandler seeds or updates accounts in one call (admin only):
// POST /api/admin/users/bulk with a JSON array of users. Existing rows keep
// their password unless a new one is supplied.
func BulkUpsertUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reqs []userRow
		if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
			writeError(w, "bad json", http.StatusBadRequest)
			return
		}
		now := time.Now().Unix()
		var upserted int
		for _, u := range reqs {
			if strings.TrimSpace(u.Username) == "" {
				continue
			}
			if u.ID == "" {
				u.ID = "local|" + u.Username
			}
			if u.Role == "" {
				u.Role = "student"
			}
			if u.Status == "" {
				u.Status = "pending"
			}
			hash := ""
			if u.Password != "" {
				b, err := bcrypt.GenerateFromPassword([]byte(u.Password), 12)
				if err != nil {
					writeError(w, "hash error", http.StatusInternalServerError)
					return
				}
				hash = string(b)
			}
			res, err := db.ExecContext(r.Context(),
				`UPDATE users SET email=$1, name=$2, role=$3, status=$4,
				        password_hash = CASE WHEN $5 = '' THEN password_hash ELSE $5 END
				  WHERE username=$6`,
				u.Email, u.Name, u.Role, u.Status, hash, u.Username)
			if err != nil {
				writeError(w, "db error", http.StatusInternalServerError)
				return
			}
			if n, _ := res.RowsAffected(); n == 0 {
				if _, err := db.ExecContext(r.Context(),
					`INSERT INTO users (id, username, email, name, password_hash, role, status, created_at)
					 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
					u.ID, u.Username, u.Email, u.Name, hash, u.Role, u.Status, now); err != nil {
					writeError(w, "db error", http.StatusInternalServerError)
					return
				}
			}
			upserted++
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"upserted": upserted})
	}
}

// AnalyticsHandler summarizes platform activity from the event log plus a
// few table counts: GET /api/admin/analytics.
func AnalyticsHandler(db *sql.DB, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rbac.RoleFromContext(r.Context()) != "admin" {
			writeError(w, "forbidden", http.StatusForbidden)
			return
		}
		counts, err := events.CountsByType(r.Context())
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		var users, pending, courses, regs int64
		_ = db.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM users`).Scan(&users)
		_ = db.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM users WHERE status='pending'`).Scan(&pending)
		_ = db.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM courses`).Scan(&courses)
		_ = db.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM registrations`).Scan(&regs)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"users":         users,
			"pending_users": pending,
			"courses":       courses,
			"registrations": regs,
			"events":        counts,
		})
	}
}
