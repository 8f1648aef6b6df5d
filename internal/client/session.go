package client

import "sync"

// UserInfo is the authenticated identity attached to a session.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// Session holds the bearer token for an authenticated client. It is safe for
// concurrent use; the zero value is a logged-out session.
type Session struct {
	mu    sync.RWMutex
	token string
	user  UserInfo
}

// Set stores the token and identity after a successful login or registration.
func (s *Session) Set(token string, user UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// Clear drops the token. Used on logout and whenever the server answers 401.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = UserInfo{}
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the identity of the logged-in user.
func (s *Session) User() UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
