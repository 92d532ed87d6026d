package interview

import (
	"slices"
	"sync"
)

const (
	maxAskedQuestions = 10
	maxQuestionLength = 1000
)

// Session is the interview state of one user
type Session struct {
	Level           Level
	Section         Section
	CurrentQuestion string
	AskedQuestions  []string // most recent only, used as prompt context
	Asked           int
	Answered        int
	Skipped         int
}

// Store keeps sessions in memory. Sessions are lost on restart.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{sessions: make(map[int64]Session)}
}

// Get returns a copy of the user's session
func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, false
	}
	sess.AskedQuestions = slices.Clone(sess.AskedQuestions)
	return sess, true
}

// Save stores the session, keeping only the most recent questions
func (s *Store) Save(userID int64, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = compact(sess)
}

// Delete removes the user's session and reports whether one existed
func (s *Store) Delete(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return sess, ok
}

func compact(sess Session) Session {
	asked := sess.AskedQuestions
	if len(asked) > maxAskedQuestions {
		asked = asked[len(asked)-maxAskedQuestions:]
	}
	sess.AskedQuestions = slices.Clone(asked)
	sess.CurrentQuestion = truncateRunes(sess.CurrentQuestion, maxQuestionLength)
	return sess
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
