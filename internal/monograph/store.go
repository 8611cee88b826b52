package monograph

import (
	"context"
	"sync"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// userFacingError is the only message a failed generation surfaces; details
// stay in the server log.
const userFacingError = "Failed to generate monograph. Please try again."

// GenerateFunc runs one generation for a topic.
type GenerateFunc func(ctx context.Context, topic string) (Monograph, error)

// Store holds at most one generation result. A submission while another is
// in flight is ignored; every accepted submission gets a generation token,
// and completions carrying a superseded token are discarded so a slow stale
// call can never overwrite a newer result.
type Store struct {
	gen GenerateFunc

	mu        sync.Mutex
	token     uint64
	topic     string
	status    Status
	monograph *Monograph
	errMsg    string
}

func NewStore(gen GenerateFunc) *Store {
	return &Store{gen: gen, status: StatusIdle}
}

// Snapshot is the read surface: status plus whichever of monograph/error is set.
type Snapshot struct {
	Topic     string     `json:"topic"`
	Status    Status     `json:"status"`
	Monograph *Monograph `json:"monograph,omitempty"`
	Error     string     `json:"error,omitempty"`
	Token     uint64     `json:"-"`
}

// Submit starts a generation. Returns false if one is already in flight.
// Loading state and the cleared prior result are visible synchronously,
// before the model call begins.
func (s *Store) Submit(ctx context.Context, topic string) bool {
	s.mu.Lock()
	if s.status == StatusLoading {
		s.mu.Unlock()
		return false
	}
	s.token++
	tok := s.token
	s.topic = topic
	s.status = StatusLoading
	s.monograph = nil
	s.errMsg = ""
	s.mu.Unlock()

	go func() {
		m, err := s.gen(ctx, topic)
		s.complete(tok, m, err)
	}()
	return true
}

func (s *Store) complete(tok uint64, m Monograph, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.token {
		return // superseded; discard
	}
	if err != nil {
		s.status = StatusFailed
		s.errMsg = userFacingError
		s.monograph = nil
		return
	}
	s.status = StatusReady
	s.monograph = &m
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Snapshot{Topic: s.topic, Status: s.status, Token: s.token}
	if s.status == StatusReady {
		out.Monograph = s.monograph
	}
	if s.status == StatusFailed {
		out.Error = s.errMsg
	}
	return out
}
