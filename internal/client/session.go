package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Session is the explicit replacement for the dashboard's global token
// storage: created once at startup, filled by login, torn down by logout
// or the first 401 a response interceptor sees.
type Session struct {
	mu       sync.Mutex
	path     string
	token    string
	username string
}

type sessionState struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// LoadSession reads any persisted credentials from the state file; a
// missing file just means an unauthenticated session.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	state := sessionState{}
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	s.token = state.Token
	s.username = state.Username
	return s, nil
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Set stores the credentials and persists them.
func (s *Session) Set(token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.username = username
	return s.persist()
}

// Clear wipes the credentials and the state file.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.username = ""
	if s.path == "" {
		return nil
	}
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Session) persist() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.Marshal(sessionState{Token: s.token, Username: s.username})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}
