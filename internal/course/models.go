package course

type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"` // markdown course material
	CreatedBy   string `json:"created_by,omitempty"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

type Registration struct {
	ID        string `json:"id"`
	CourseID  string `json:"course_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"` // pending|confirmed
	CreatedAt int64  `json:"created_at"`
}

// Certificate is the verified completion record released once a course has a
// passed submission for the student.
type Certificate struct {
	StudentName string `json:"student_name"`
	CourseTitle string `json:"course_title"`
	CompletedAt int64  `json:"completed_at"`
}

type Submission struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id"`
	UserID     string `json:"user_id"`
	Submission string `json:"submission"`
	Status     string `json:"status"` // passed|failed
	Feedback   string `json:"feedback"`
	CreatedAt  int64  `json:"created_at"`
}
