package assistant

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
)

// Session is one conversation history. All access goes through the
// mutex so a session can be shared between handler goroutines.
type Session struct {
	ID string

	mu       sync.Mutex
	messages []llms.MessageContent
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []llms.MessageContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llms.MessageContent(nil), s.messages...)
}

// Len reports how many messages the session holds.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// SessionStore holds active sessions keyed by id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Create starts a new session with a generated id.
func (st *SessionStore) Create() *Session {
	session := &Session{ID: uuid.NewString()}
	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()
	return session
}

// Get looks up a session by id.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[id]
	return session, ok
}

// GetOrCreate returns the session with the given id, creating it when
// absent. An empty id always creates a fresh session.
func (st *SessionStore) GetOrCreate(id string) *Session {
	if id == "" {
		return st.Create()
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if session, ok := st.sessions[id]; ok {
		return session
	}
	session := &Session{ID: id}
	st.sessions[id] = session
	return session
}

// Delete removes a session.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len reports how many sessions are active.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
