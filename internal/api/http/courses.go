package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/satishskid/greylearn/internal/auth/middleware"
	"github.com/satishskid/greylearn/internal/course"
	"github.com/satishskid/greylearn/internal/rbac"
	syncx "github.com/satishskid/greylearn/internal/sync"
)

func CreateCourseHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Content     string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			writeError(w, "bad json", http.StatusBadRequest)
			return
		}
		c, err := store.Create(r.Context(), course.Course{
			Title:       req.Title,
			Description: req.Description,
			Content:     req.Content,
			CreatedBy:   sub,
		})
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c)
	}
}

func ListCoursesHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := store.List(r.Context())
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func GetCourseHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.Get(r.Context(), chi.URLParam(r, "courseID"))
		if errors.Is(err, course.ErrNotFound) {
			writeError(w, "course not found", http.StatusNotFound)
			return
		}
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c)
	}
}

func DeleteCourseHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.Delete(r.Context(), chi.URLParam(r, "courseID"))
		if errors.Is(err, course.ErrNotFound) {
			writeError(w, "course not found", http.StatusNotFound)
			return
		}
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RegisterCourseHandler enrolls the caller; re-registering refreshes the
// existing registration rather than duplicating it.
func RegisterCourseHandler(store course.Store, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		courseID := chi.URLParam(r, "courseID")
		reg, err := store.Register(r.Context(), courseID, sub)
		if errors.Is(err, course.ErrNotFound) {
			writeError(w, "course not found", http.StatusNotFound)
			return
		}
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		if events != nil {
			_ = events.Append(r.Context(), syncx.Event{
				Type:     syncx.EventCourseRegistered,
				Key:      sub,
				DataJSON: mustJSON(map[string]string{"course_id": courseID}),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reg)
	}
}

// ListRegistrationsHandler: admins see everything, students their own.
func ListRegistrationsHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		var (
			out []course.Registration
			err error
		)
		if rbac.RoleFromContext(r.Context()) == "admin" {
			out, err = store.ListRegistrations(r.Context())
		} else {
			out, err = store.ListRegistrationsForUser(r.Context(), sub)
		}
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func ConfirmRegistrationHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.ConfirmRegistration(r.Context(), chi.URLParam(r, "regID"))
		if errors.Is(err, course.ErrNotFound) {
			writeError(w, "registration not found", http.StatusNotFound)
			return
		}
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ListSubmissionsHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		out, err := store.ListSubmissionsForUser(r.Context(), sub)
		if err != nil {
			writeError(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}
