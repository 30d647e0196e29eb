// ABOUTME: File-backed session store holding the current identity and bearer token
// ABOUTME: The identity and token are written and cleared together, never separately

package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lexibridge/lexibridge-cli/internal/client"
)

// ErrNoSession is returned by operations that require a logged-in session.
var ErrNoSession = errors.New("no active session")

const sessionFile = "session.json"

// AuthAPI is the slice of the backend client the store needs to establish a
// session. Injected rather than constructed so tests can fake it.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Register(ctx context.Context, fullName, email, password string) (*client.AuthResponse, error)
}

// Identity holds the attributes of the authenticated user
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// state is the on-disk session shape. Identity and Token always travel
// together: both set or both absent.
type state struct {
	Identity *Identity `json:"identity"`
	Token    string    `json:"token"`
	SavedAt  time.Time `json:"savedAt"`
}

// Store owns the single current-session value, persisted as one JSON file
// in the config directory.
type Store struct {
	configDir string

	mu      sync.Mutex
	current *state
	loaded  bool
}

// New creates a session store rooted at the given config directory
func New(configDir string) *Store {
	return &Store{configDir: configDir}
}

// DefaultConfigDir returns the config directory following the XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lexibridge")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lexibridge")
}

// Login authenticates against the backend and persists the resulting
// identity and token. The auth failure contract lives in the client: any
// failure arrives here as *client.AuthError.
func (s *Store) Login(ctx context.Context, api AuthAPI, email, password string) (*Identity, error) {
	resp, err := api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.adopt(resp)
}

// Register creates an account and persists the resulting session, same
// contract as Login.
func (s *Store) Register(ctx context.Context, api AuthAPI, fullName, email, password string) (*Identity, error) {
	resp, err := api.Register(ctx, fullName, email, password)
	if err != nil {
		return nil, err
	}
	return s.adopt(resp)
}

// adopt stores the identity and token from a successful auth response
func (s *Store) adopt(resp *client.AuthResponse) (*Identity, error) {
	id := &Identity{
		UserID:   resp.User.ID,
		Username: resp.User.Username,
		Email:    resp.User.Email,
		FullName: resp.User.FullName,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &state{Identity: id, Token: resp.AccessToken, SavedAt: time.Now()}
	s.loaded = true
	if err := s.save(); err != nil {
		return nil, err
	}
	return id, nil
}

// Logout clears the session from memory and disk. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.loaded = true
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove session file", "error", err)
	}
}

// Token returns the persisted bearer token, or empty when absent.
// Pure read, no side effects.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Invalidate implements client.TokenSource: called on a 401 so the stale
// credentials are cleared before the error reaches the user.
func (s *Store) Invalidate() {
	slog.Debug("session invalidated by backend")
	s.Logout()
}

// IsAuthenticated reports whether both an identity and a token are present
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.current != nil && s.current.Identity != nil && s.current.Token != ""
}

// Identity returns the current user record, or nil when logged out
func (s *Store) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	if s.current == nil {
		return nil
	}
	id := *s.current.Identity
	return &id
}

// UpdateUser merges the non-empty fields into the current identity and
// persists the result. Returns ErrNoSession when logged out.
func (s *Store) UpdateUser(partial Identity) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	if s.current == nil || s.current.Identity == nil {
		return nil, ErrNoSession
	}

	id := s.current.Identity
	if partial.Username != "" {
		id.Username = partial.Username
	}
	if partial.Email != "" {
		id.Email = partial.Email
	}
	if partial.FullName != "" {
		id.FullName = partial.FullName
	}
	if err := s.save(); err != nil {
		return nil, err
	}

	merged := *id
	return &merged, nil
}

// TokenExpiresAt reports the bearer token's expiry claim when the token is a
// parseable JWT. The token is treated as opaque otherwise; no signature
// verification happens client-side.
func (s *Store) TokenExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// load reads the session file once; callers must hold the mutex
func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := os.ReadFile(s.path())
	if err != nil {
		return
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		slog.Warn("discarding corrupt session file", "error", err)
		return
	}
	// A token without an identity (or vice versa) violates the session
	// invariant; treat the file as logged out.
	if st.Identity == nil || st.Token == "" {
		return
	}
	s.current = &st
}

// save writes the session file; callers must hold the mutex
func (s *Store) save() error {
	if err := os.MkdirAll(s.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), data, 0o600)
}

func (s *Store) path() string {
	return filepath.Join(s.configDir, sessionFile)
}
