package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/satishskid/greylearn/internal/course"
	"github.com/satishskid/greylearn/internal/rbac"
)

// fakeCertStore overrides only Certificate; other Store calls panic via the
// embedded nil interface.
type fakeCertStore struct {
	course.Store
	gotCourse, gotUser string
	cert               course.Certificate
	err                error
}

func (f *fakeCertStore) Certificate(_ context.Context, courseID, userID string) (course.Certificate, error) {
	f.gotCourse, f.gotUser = courseID, userID
	return f.cert, f.err
}

func certRequest(t *testing.T, store course.Store, user, role, courseID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/certificates/"+courseID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("courseID", courseID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = rbac.WithRole(ctx, role)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	CertificateHandler(store)(rec, asUser(req, user))
	return rec
}

func TestCertificateHandler(t *testing.T) {
	t.Run("completed course", func(t *testing.T) {
		completed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC).Unix()
		store := &fakeCertStore{cert: course.Certificate{
			StudentName: "Asha Rao",
			CourseTitle: "Cell Biology",
			CompletedAt: completed,
		}}
		rec := certRequest(t, store, "u1", "student", "c-1")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body)
		}
		if store.gotCourse != "c-1" || store.gotUser != "u1" {
			t.Errorf("verified %q/%q", store.gotCourse, store.gotUser)
		}
		var out map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatal(err)
		}
		if out["student_name"] != "Asha Rao" || out["course_title"] != "Cell Biology" {
			t.Fatalf("body: %v", out)
		}
		if want := time.Unix(completed, 0).Format(certDateFormat); out["completion_date"] != want {
			t.Errorf("completion_date = %q, want %q", out["completion_date"], want)
		}
	})

	t.Run("not completed", func(t *testing.T) {
		store := &fakeCertStore{err: course.ErrNotFound}
		rec := certRequest(t, store, "u1", "student", "c-1")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "not completed this course") {
			t.Errorf("body = %s", rec.Body)
		}
	})

	t.Run("admin preview", func(t *testing.T) {
		store := &fakeCertStore{err: course.ErrNotFound}
		rec := certRequest(t, store, "admin-1", "admin", "c-1")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body)
		}
		var out map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
		if out["course_title"] != "Demo Course Title (Admin Preview)" {
			t.Errorf("body: %v", out)
		}
	})

	t.Run("admin with own completion", func(t *testing.T) {
		store := &fakeCertStore{cert: course.Certificate{
			StudentName: "Admin One", CourseTitle: "Real Course", CompletedAt: time.Now().Unix(),
		}}
		rec := certRequest(t, store, "admin-1", "admin", "c-1")
		var out map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
		if out["course_title"] != "Real Course" {
			t.Errorf("preview shadowed a real certificate: %v", out)
		}
	})
}
