package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultQuestionsPerPage is the page size for quiz navigation.
const DefaultQuestionsPerPage = 100

// Session errors.
var (
	ErrSessionNotFound  = errors.New("quiz: session not found")
	ErrSessionSubmitted = errors.New("quiz: session already submitted")
)

// Session is one user's pass through an exam. Callers receive copies;
// all mutation goes through the Manager.
type Session struct {
	Token     string         `json:"token"`
	Exam      string         `json:"exam"`
	Page      int            `json:"page"`
	Answers   map[int]string `json:"answers"`
	Submitted bool           `json:"submitted"`
	StartedAt time.Time      `json:"started_at"`
}

func (s *Session) clone() Session {
	out := *s
	out.Answers = make(map[int]string, len(s.Answers))
	for id, ans := range s.Answers {
		out.Answers[id] = ans
	}
	return out
}

// Manager tracks active sessions by token. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Start opens a session for an exam.
func (m *Manager) Start(exam string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		Token:     uuid.NewString(),
		Exam:      exam,
		Answers:   make(map[int]string),
		StartedAt: time.Now(),
	}
	m.sessions[s.Token] = s
	return s.clone()
}

// Get returns a copy of the session for a token.
func (m *Manager) Get(token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s.clone(), nil
}

// SaveAnswers merges answers into a session's cache.
func (m *Manager) SaveAnswers(token string, answers map[int]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return ErrSessionNotFound
	}
	if s.Submitted {
		return ErrSessionSubmitted
	}
	for id, ans := range answers {
		s.Answers[id] = ans
	}
	return nil
}

// SetPage moves a session's page cursor. Negative pages clamp to zero.
func (m *Manager) SetPage(token string, page int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return ErrSessionNotFound
	}
	if page < 0 {
		page = 0
	}
	s.Page = page
	return nil
}

// Submit marks a session finished and returns its final state. A
// second submit fails so an attempt is never recorded twice.
func (m *Manager) Submit(token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.Submitted {
		return Session{}, ErrSessionSubmitted
	}
	s.Submitted = true
	return s.clone(), nil
}

// End discards a session.
func (m *Manager) End(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// PageBounds returns the half-open index range covering one page of n
// questions. Pages count from zero; out-of-range pages clamp to an
// empty range at the end.
func PageBounds(page, perPage, n int) (start, end int) {
	if perPage <= 0 {
		perPage = DefaultQuestionsPerPage
	}
	if page < 0 {
		page = 0
	}
	start = page * perPage
	if start > n {
		start = n
	}
	end = start + perPage
	if end > n {
		end = n
	}
	return start, end
}

// TotalPages returns the number of pages n questions span.
func TotalPages(n, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultQuestionsPerPage
	}
	return (n + perPage - 1) / perPage
}
