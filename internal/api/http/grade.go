package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	authmw "github.com/satishskid/greylearn/internal/auth/middleware"
	"github.com/satishskid/greylearn/internal/course"
	"github.com/satishskid/greylearn/internal/grader"
	syncx "github.com/satishskid/greylearn/internal/sync"
)

// GradeHandler grades an assignment submission against the course material:
// POST /api/grade {"course_id": "...", "submission": "...", "context": "..."}.
// When course_id is set and context is empty, the course's own content is
// used as grading material, and the result is persisted.
func GradeHandler(svc *grader.Service, courses course.Store, events *syncx.EventRepo, defaultKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourseID   string `json:"course_id"`
			Submission string `json:"submission"`
			Context    string `json:"context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Submission) == "" {
			writeError(w, "submission is required", http.StatusBadRequest)
			return
		}
		apiKey := keyOr(r, defaultKey)
		if apiKey == "" {
			writeError(w, "API Key not provided", http.StatusUnauthorized)
			return
		}

		material := req.Context
		if material == "" && req.CourseID != "" {
			if c, err := courses.Get(r.Context(), req.CourseID); err == nil {
				material = c.Content
			}
		}

		g, err := svc.Grade(r.Context(), req.Submission, material, apiKey)
		if err != nil {
			writeError(w, "Failed to grade assignment", http.StatusInternalServerError)
			return
		}

		sub := authmw.SubjectFromContext(r.Context())
		if req.CourseID != "" {
			if _, err := courses.SaveSubmission(r.Context(), course.Submission{
				CourseID:   req.CourseID,
				UserID:     sub,
				Submission: req.Submission,
				Status:     g.Status,
				Feedback:   g.Feedback,
			}); err != nil {
				log.Printf("grade: save submission: %v", err)
			}
		}
		if events != nil {
			_ = events.Append(r.Context(), syncx.Event{
				Type:     syncx.EventAssignmentGraded,
				Key:      sub,
				DataJSON: mustJSON(map[string]string{"course_id": req.CourseID, "status": g.Status}),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(g)
	}
}
