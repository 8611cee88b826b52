// Package viewer ties one user's monograph store to its document view and
// quiz engine. View and quiz state belong to the monograph they were built
// from and are discarded whenever the store produces a new one.
package viewer

import (
	"context"
	"errors"
	"sync"

	"github.com/satishskid/greylearn/internal/monograph"
	"github.com/satishskid/greylearn/internal/monograph/docview"
	"github.com/satishskid/greylearn/internal/monograph/quiz"
)

var ErrNotReady = errors.New("no monograph ready")

type Session struct {
	store *monograph.Store

	mu        sync.Mutex
	viewToken uint64
	view      *docview.View
	quiz      *quiz.Engine
}

func NewSession(gen monograph.GenerateFunc) *Session {
	return &Session{store: monograph.NewStore(gen)}
}

// Submit starts a generation; false means one is already in flight and the
// request was ignored.
func (s *Session) Submit(ctx context.Context, topic string) bool {
	return s.store.Submit(ctx, topic)
}

func (s *Session) Status() monograph.Snapshot {
	return s.store.Snapshot()
}

// sync rebuilds view and quiz when the store holds a monograph newer than
// the one they were built from.
func (s *Session) sync() (snap monograph.Snapshot, ready bool) {
	snap = s.store.Snapshot()
	if snap.Status != monograph.StatusReady {
		return snap, false
	}
	if snap.Token != s.viewToken || s.view == nil {
		s.view = docview.New(snap.Monograph)
		s.quiz = quiz.NewEngine(snap.Monograph.Quiz)
		s.viewToken = snap.Token
	}
	return snap, true
}

func (s *Session) Toggle(heading string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sync(); !ok {
		return ErrNotReady
	}
	s.view.Toggle(heading)
	return nil
}

func (s *Session) Document() (docview.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sync(); !ok {
		return docview.Document{}, ErrNotReady
	}
	return s.view.Render(), nil
}

func (s *Session) SelectOption(i int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sync(); !ok {
		return ErrNotReady
	}
	return s.quiz.Select(i, option)
}

func (s *Session) CheckAnswer(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sync(); !ok {
		return ErrNotReady
	}
	return s.quiz.Check(i)
}

func (s *Session) Question(i int) (quiz.QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sync(); !ok {
		return quiz.QuestionView{}, ErrNotReady
	}
	return s.quiz.Render(i)
}

func (s *Session) QuizLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sync(); !ok {
		return 0
	}
	return s.quiz.Len()
}
