// Package session persists the InterU authentication session (access and
// refresh tokens) in the user's config directory.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSession is returned when no session is stored, either because the
// user never logged in or because the session was cleared.
var ErrNoSession = errors.New("no stored session")

// Session holds the token pair issued by the auth service.
// Field names match the wire format of the JWT create endpoint.
type Session struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// Store reads and writes the session file. Operations are independent
// key-value style reads/writes; the store keeps no in-memory cache.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "interu", "session.json"), nil
}

// Save writes both tokens, overwriting any prior session. The file is
// written with owner-only permissions and replaced atomically.
func (s *Store) Save(sess Session) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "session-*.json")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Load returns the stored session, or ErrNoSession when absent.
func (s *Store) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parse session file: %w", err)
	}
	if sess.AccessToken == "" && sess.RefreshToken == "" {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// Clear removes the stored session. Clearing an absent session is not an
// error so logout can always succeed.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// AccessToken returns the current access token, or ErrNoSession when no
// session is stored or the session has no access token.
func (s *Store) AccessToken() (string, error) {
	sess, err := s.Load()
	if err != nil {
		return "", err
	}
	if sess.AccessToken == "" {
		return "", ErrNoSession
	}
	return sess.AccessToken, nil
}

// SetAccessToken replaces only the access token, leaving the refresh token
// unchanged. Used by the credential refresh flow.
func (s *Store) SetAccessToken(token string) error {
	sess, err := s.Load()
	if err != nil {
		return err
	}
	sess.AccessToken = token
	return s.Save(sess)
}
