package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authmw "github.com/satishskid/greylearn/internal/auth/middleware"
	"github.com/satishskid/greylearn/internal/course"
	"github.com/satishskid/greylearn/internal/rbac"
)

const certDateFormat = "January 2, 2006"

// CertificateHandler releases certificate data only after verifying the
// caller completed the course: GET /api/certificates/{courseID}. Admins
// without a completion of their own get a preview payload.
func CertificateHandler(courses course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		courseID := chi.URLParam(r, "courseID")

		cert, err := courses.Certificate(r.Context(), courseID, sub)
		if errors.Is(err, course.ErrNotFound) {
			if rbac.RoleFromContext(r.Context()) == "admin" {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]string{
					"student_name":    "Admin",
					"course_title":    "Demo Course Title (Admin Preview)",
					"completion_date": time.Now().Format(certDateFormat),
				})
				return
			}
			writeError(w, "Certificate not found. You have not completed this course yet.", http.StatusNotFound)
			return
		}
		if err != nil {
			writeError(w, "Failed to verify certificate.", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"student_name":    cert.StudentName,
			"course_title":    cert.CourseTitle,
			"completion_date": time.Unix(cert.CompletedAt, 0).Format(certDateFormat),
		})
	}
}
