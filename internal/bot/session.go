package bot

import (
	"sync"

	"github.com/betweenlines/betweenlines/internal/chatlog"
)

// step is where a conversation is in the you/them selection dialogue.
type step int

const (
	stepChooseYou step = iota
	stepChooseThem
)

// session is the per-conversation state between receiving an export and
// showing the report. Each chat gets its own slot; parsed messages are never
// shared across conversations.
type session struct {
	step         step
	messages     []chatlog.Message
	participants []string
	you          string
}

type sessionStore struct {
	mu sync.Mutex
	m  map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{m: make(map[int64]*session)}
}

func (s *sessionStore) put(chatID int64, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[chatID] = sess
}

func (s *sessionStore) get(chatID int64) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.m[chatID]

	return sess, ok
}

func (s *sessionStore) delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, chatID)
}
