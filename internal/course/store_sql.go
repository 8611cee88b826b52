package course

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("course not found")

type Store interface {
	Create(ctx context.Context, c Course) (Course, error)
	Get(ctx context.Context, id string) (Course, error)
	List(ctx context.Context) ([]Course, error)
	Delete(ctx context.Context, id string) error

	Register(ctx context.Context, courseID, userID string) (Registration, error)
	ListRegistrations(ctx context.Context) ([]Registration, error)
	ListRegistrationsForUser(ctx context.Context, userID string) ([]Registration, error)
	ConfirmRegistration(ctx context.Context, id string) error

	SaveSubmission(ctx context.Context, s Submission) (Submission, error)
	ListSubmissionsForUser(ctx context.Context, userID string) ([]Submission, error)

	Certificate(ctx context.Context, courseID, userID string) (Certificate, error)
}

type sqlStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) Store { return &sqlStore{db: db} }

func (s *sqlStore) Create(ctx context.Context, c Course) (Course, error) {
	if c.ID == "" {
		c.ID = "c-" + uuid.NewString()
	}
	c.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id, title, description, content, created_by, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Title, c.Description, c.Content, c.CreatedBy, c.CreatedAt)
	return c, err
}

func (s *sqlStore) Get(ctx context.Context, id string) (Course, error) {
	var c Course
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, content, created_by, created_at FROM courses WHERE id=$1`, id).
		Scan(&c.ID, &c.Title, &c.Description, &c.Content, &c.CreatedBy, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, ErrNotFound
	}
	return c, err
}

func (s *sqlStore) List(ctx context.Context) ([]Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, created_by, created_at FROM courses ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Course{} // [] not null in JSON
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *sqlStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Register upserts: re-registering refreshes the existing row instead of
// creating a duplicate.
func (s *sqlStore) Register(ctx context.Context, courseID, userID string) (Registration, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return Registration{}, err
	}
	now := time.Now().Unix()

	var existing Registration
	err := s.db.QueryRowContext(ctx,
		`SELECT id, course_id, user_id, status, created_at FROM registrations
		  WHERE course_id=$1 AND user_id=$2`, courseID, userID).
		Scan(&existing.ID, &existing.CourseID, &existing.UserID, &existing.Status, &existing.CreatedAt)
	if err == nil {
		_, err = s.db.ExecContext(ctx, `UPDATE registrations SET created_at=$1 WHERE id=$2`, now, existing.ID)
		existing.CreatedAt = now
		return existing, err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Registration{}, err
	}

	reg := Registration{
		ID:        "r-" + uuid.NewString(),
		CourseID:  courseID,
		UserID:    userID,
		Status:    "pending",
		CreatedAt: now,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO registrations (id, course_id, user_id, status, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		reg.ID, reg.CourseID, reg.UserID, reg.Status, reg.CreatedAt)
	return reg, err
}

func (s *sqlStore) ListRegistrations(ctx context.Context) ([]Registration, error) {
	return s.scanRegistrations(ctx,
		`SELECT id, course_id, user_id, status, created_at FROM registrations ORDER BY created_at DESC`)
}

func (s *sqlStore) ListRegistrationsForUser(ctx context.Context, userID string) ([]Registration, error) {
	return s.scanRegistrations(ctx,
		`SELECT id, course_id, user_id, status, created_at FROM registrations
		  WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (s *sqlStore) scanRegistrations(ctx context.Context, q string, args ...any) ([]Registration, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Registration{}
	for rows.Next() {
		var r Registration
		if err := rows.Scan(&r.ID, &r.CourseID, &r.UserID, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqlStore) ConfirmRegistration(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE registrations SET status='confirmed' WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqlStore) SaveSubmission(ctx context.Context, sub Submission) (Submission, error) {
	if sub.ID == "" {
		sub.ID = "sub-" + uuid.NewString()
	}
	sub.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assignment_submissions (id, course_id, user_id, submission, status, feedback, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		sub.ID, sub.CourseID, sub.UserID, sub.Submission, sub.Status, sub.Feedback, sub.CreatedAt)
	return sub, err
}

// Certificate verifies completion: the latest passed submission for the
// user+course, joined with the course title and the student's display name.
// ErrNotFound means the course has not been completed (or does not exist).
func (s *sqlStore) Certificate(ctx context.Context, courseID, userID string) (Certificate, error) {
	var c Certificate
	var name, username string
	err := s.db.QueryRowContext(ctx,
		`SELECT u.name, u.username, co.title, sub.created_at
		   FROM assignment_submissions sub
		   JOIN courses co ON co.id = sub.course_id
		   JOIN users u ON u.id = sub.user_id
		  WHERE sub.course_id=$1 AND sub.user_id=$2 AND sub.status='passed'
		  ORDER BY sub.created_at DESC LIMIT 1`, courseID, userID).
		Scan(&name, &username, &c.CourseTitle, &c.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Certificate{}, ErrNotFound
	}
	if err != nil {
		return Certificate{}, err
	}
	c.StudentName = name
	if c.StudentName == "" {
		c.StudentName = username
	}
	return c, nil
}

func (s *sqlStore) ListSubmissionsForUser(ctx context.Context, userID string) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, course_id, user_id, submission, status, feedback, created_at
		   FROM assignment_submissions WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Submission{}
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.CourseID, &sub.UserID, &sub.Submission, &sub.Status, &sub.Feedback, &sub.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}
