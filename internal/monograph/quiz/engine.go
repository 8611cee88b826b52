// Package quiz drives the per-question answer/check state machine for a
// monograph's quiz. Each question is independent; there is no overall score.
package quiz

import (
	"errors"

	"github.com/satishskid/greylearn/internal/monograph"
)

type State string

const (
	Unanswered State = "unanswered"
	Selected   State = "selected"
	Graded     State = "graded" // terminal; no reset
)

var ErrNoSuchQuestion = errors.New("no such question")

type attempt struct {
	selected  string
	state     State
	isCorrect bool
}

// Engine owns the attempt state for one quiz, keyed by question index. It
// reads the questions but never mutates them.
type Engine struct {
	questions []monograph.QuizQuestion
	attempts  map[int]*attempt
}

func NewEngine(questions []monograph.QuizQuestion) *Engine {
	return &Engine{questions: questions, attempts: map[int]*attempt{}}
}

func (e *Engine) at(i int) (*attempt, error) {
	if i < 0 || i >= len(e.questions) {
		return nil, ErrNoSuchQuestion
	}
	a, ok := e.attempts[i]
	if !ok {
		a = &attempt{state: Unanswered}
		e.attempts[i] = a
	}
	return a, nil
}

// Select records the chosen option. Re-selecting while Selected overwrites
// the choice; once graded it is a no-op.
func (e *Engine) Select(i int, option string) error {
	a, err := e.at(i)
	if err != nil {
		return err
	}
	if a.state == Graded {
		return nil
	}
	a.selected = option
	a.state = Selected
	return nil
}

// Check grades the selected option by exact string equality against the
// question's answer and is terminal for that question. An answer that
// matches none of the options simply grades as incorrect.
func (e *Engine) Check(i int) error {
	a, err := e.at(i)
	if err != nil {
		return err
	}
	if a.state != Selected {
		return nil
	}
	a.isCorrect = a.selected == e.questions[i].Answer
	a.state = Graded
	return nil
}

type OptionView struct {
	Text            string `json:"text"`
	Selected        bool   `json:"selected"`
	MarkedCorrect   bool   `json:"marked_correct,omitempty"`
	MarkedIncorrect bool   `json:"marked_incorrect,omitempty"`
}

type QuestionView struct {
	Question    string       `json:"question"`
	Options     []OptionView `json:"options"`
	State       State        `json:"state"`
	IsCorrect   *bool        `json:"is_correct,omitempty"`
	Explanation string       `json:"explanation,omitempty"` // revealed once graded
}

// Render reports the visual state for question i. Once graded, the option
// equal to the answer is marked correct regardless of the user's choice; a
// wrong selection is additionally marked incorrect. A malformed answer that
// matches no option marks nothing correct.
func (e *Engine) Render(i int) (QuestionView, error) {
	a, err := e.at(i)
	if err != nil {
		return QuestionView{}, err
	}
	q := e.questions[i]
	out := QuestionView{Question: q.Question, State: a.state}
	for _, opt := range q.Options {
		ov := OptionView{Text: opt, Selected: a.state != Unanswered && opt == a.selected}
		if a.state == Graded {
			if opt == q.Answer {
				ov.MarkedCorrect = true
			}
			if !a.isCorrect && opt == a.selected {
				ov.MarkedIncorrect = true
			}
		}
		out.Options = append(out.Options, ov)
	}
	if a.state == Graded {
		c := a.isCorrect
		out.IsCorrect = &c
		out.Explanation = q.Explanation
	}
	return out, nil
}

func (e *Engine) Len() int { return len(e.questions) }
