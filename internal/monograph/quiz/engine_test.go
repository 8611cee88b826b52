package quiz

import (
	"errors"
	"testing"

	"github.com/satishskid/greylearn/internal/monograph"
)

func questions() []monograph.QuizQuestion {
	return []monograph.QuizQuestion{
		{
			Question:    "Which organelle is the powerhouse of the cell?",
			Options:     []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi"},
			Answer:      "Mitochondria",
			Explanation: "Mitochondria produce ATP.",
		},
		{
			Question: "Broken question",
			Options:  []string{"A", "B"},
			Answer:   "C", // matches no option
		},
	}
}

func TestSelectThenCheckCorrect(t *testing.T) {
	e := NewEngine(questions())

	if err := e.Select(0, "Mitochondria"); err != nil {
		t.Fatal(err)
	}
	qv, _ := e.Render(0)
	if qv.State != Selected {
		t.Fatalf("state = %s", qv.State)
	}
	if qv.Explanation != "" || qv.IsCorrect != nil {
		t.Fatal("grading fields leaked before check")
	}

	if err := e.Check(0); err != nil {
		t.Fatal(err)
	}
	qv, _ = e.Render(0)
	if qv.State != Graded || qv.IsCorrect == nil || !*qv.IsCorrect {
		t.Fatalf("after check: %+v", qv)
	}
	if qv.Explanation != "Mitochondria produce ATP." {
		t.Errorf("explanation = %q", qv.Explanation)
	}
	for _, o := range qv.Options {
		if o.Text == "Mitochondria" && !o.MarkedCorrect {
			t.Error("answer not marked correct")
		}
		if o.MarkedIncorrect {
			t.Errorf("option %q marked incorrect on a correct attempt", o.Text)
		}
	}
}

func TestWrongSelectionMarksBoth(t *testing.T) {
	e := NewEngine(questions())
	_ = e.Select(0, "Nucleus")
	_ = e.Check(0)

	qv, _ := e.Render(0)
	if qv.IsCorrect == nil || *qv.IsCorrect {
		t.Fatalf("wrong answer graded correct: %+v", qv)
	}
	var sawCorrect, sawIncorrect bool
	for _, o := range qv.Options {
		if o.Text == "Mitochondria" {
			sawCorrect = o.MarkedCorrect
		}
		if o.Text == "Nucleus" {
			sawIncorrect = o.MarkedIncorrect && o.Selected
		}
	}
	if !sawCorrect {
		t.Error("true answer not revealed after a wrong attempt")
	}
	if !sawIncorrect {
		t.Error("wrong selection not flagged")
	}
}

func TestGradedIsTerminal(t *testing.T) {
	e := NewEngine(questions())
	_ = e.Select(0, "Nucleus")
	_ = e.Check(0)

	// Further selects and checks change nothing.
	if err := e.Select(0, "Mitochondria"); err != nil {
		t.Fatal(err)
	}
	if err := e.Check(0); err != nil {
		t.Fatal(err)
	}
	qv, _ := e.Render(0)
	if qv.IsCorrect == nil || *qv.IsCorrect {
		t.Fatal("post-grade select altered the verdict")
	}
	for _, o := range qv.Options {
		if o.Text == "Mitochondria" && o.Selected {
			t.Error("post-grade select recorded")
		}
	}
}

func TestReselectBeforeCheck(t *testing.T) {
	e := NewEngine(questions())
	_ = e.Select(0, "Nucleus")
	_ = e.Select(0, "Mitochondria")
	_ = e.Check(0)
	qv, _ := e.Render(0)
	if qv.IsCorrect == nil || !*qv.IsCorrect {
		t.Fatal("last selection before check should win")
	}
}

func TestCheckWithoutSelection(t *testing.T) {
	e := NewEngine(questions())
	if err := e.Check(0); err != nil {
		t.Fatal(err)
	}
	qv, _ := e.Render(0)
	if qv.State != Unanswered {
		t.Fatalf("check without selection changed state to %s", qv.State)
	}
}

func TestAnswerMatchingNoOption(t *testing.T) {
	e := NewEngine(questions())
	_ = e.Select(1, "A")
	_ = e.Check(1)

	qv, _ := e.Render(1)
	if qv.IsCorrect == nil || *qv.IsCorrect {
		t.Fatal("impossible question graded correct")
	}
	for _, o := range qv.Options {
		if o.MarkedCorrect {
			t.Errorf("option %q marked correct though the answer matches none", o.Text)
		}
		if o.Text == "A" && !o.MarkedIncorrect {
			t.Error("selection not flagged incorrect")
		}
	}
}

func TestOutOfRange(t *testing.T) {
	e := NewEngine(questions())
	if err := e.Select(5, "A"); !errors.Is(err, ErrNoSuchQuestion) {
		t.Errorf("select: err = %v", err)
	}
	if err := e.Check(-1); !errors.Is(err, ErrNoSuchQuestion) {
		t.Errorf("check: err = %v", err)
	}
	if _, err := e.Render(2); !errors.Is(err, ErrNoSuchQuestion) {
		t.Errorf("render: err = %v", err)
	}
	if e.Len() != 2 {
		t.Errorf("len = %d", e.Len())
	}
}
