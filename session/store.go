package session

import (
	"sync"

	"github.com/eventhub/eventhub/users"
)

// Store holds the client's session state: the current token pair and the
// logged-in user record. All methods are safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         *users.User
}

func NewStore() *Store {
	return &Store{}
}

// SetSession replaces the whole session after a successful login.
func (s *Store) SetSession(user *users.User, accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

// SetAccessToken swaps in a freshly refreshed access token, keeping the
// refresh token and user record.
func (s *Store) SetAccessToken(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

func (s *Store) User() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Clear wipes all session state (logout, or a refresh that came back 401).
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
}
