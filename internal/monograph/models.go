package monograph

// Monograph is the full generated study document.
type Monograph struct {
	Title    string         `json:"title"`
	Summary  string         `json:"summary"`
	Sections []Section      `json:"sections"`
	Quiz     []QuizQuestion `json:"quiz"`
}

// Section is one top-level unit of monograph content. Nesting is bounded to
// one extra level: subsections never carry subsections of their own.
type Section struct {
	Heading     string       `json:"heading"`
	Content     string       `json:"content"` // markdown prose
	KeyConcepts []string     `json:"key_concepts,omitempty"`
	Subsections []Subsection `json:"subsections,omitempty"`
}

type Subsection struct {
	Heading     string   `json:"heading"`
	Content     string   `json:"content"`
	KeyConcepts []string `json:"key_concepts,omitempty"`
}

// QuizQuestion's Answer is expected to equal one of Options by exact string
// match; the generator is asked to uphold that but nothing enforces it, so
// consumers must tolerate an answer that matches none.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}
