// Package auth persists the session token handed back by the
// AgentForge login endpoint so subsequent runs stay signed in.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"agentforge/internal/config"
	"agentforge/internal/logging"
)

// Credentials is the on-disk record for one signed-in session.
type Credentials struct {
	Token    string    `json:"token"`
	Email    string    `json:"email,omitempty"`
	ServerID string    `json:"server,omitempty"`
	SavedAt  time.Time `json:"savedAt"`
}

// Store manages the credentials file under the forge home directory.
type Store struct {
	filePath string
	creds    *Credentials
	loadedAt time.Time

	mu sync.RWMutex
}

// NewStore opens the credentials store, loading any existing session.
// A missing or unreadable file just means nobody is signed in.
func NewStore() *Store {
	s := &Store{
		filePath: filepath.Join(config.Dir(), "credentials.json"),
	}
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		logging.BootError("Failed to load credentials: %v", err)
	}
	return s
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("credentials file is corrupt: %w", err)
	}
	s.creds = &creds
	s.loadedAt = time.Now()
	return nil
}

// Save records a fresh token, replacing any existing session.
func (s *Store) Save(token, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = &Credentials{
		Token:   token,
		Email:   email,
		SavedAt: time.Now(),
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	data, err := json.MarshalIndent(s.creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	// Tokens are secrets, keep the file owner-only.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	s.loadedAt = time.Now()
	return nil
}

// Clear signs the user out by removing the stored session.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = nil
	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// Token returns the current token, or empty when signed out. FORGE_TOKEN
// wins over the stored session. The file is re-read when another process
// (a second terminal running login) replaced it.
func (s *Store) Token() string {
	if t := os.Getenv("FORGE_TOKEN"); t != "" {
		return t
	}
	s.maybeReload()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Token
}

// maybeReload picks up a credentials file written after the last load.
func (s *Store) maybeReload() {
	info, err := os.Stat(s.filePath)
	if err != nil {
		return
	}
	s.mu.RLock()
	stale := info.ModTime().After(s.loadedAt)
	s.mu.RUnlock()
	if stale {
		_ = s.load()
	}
}

// Email returns the signed-in account email, if recorded.
func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Email
}

// SignedIn reports whether a token is available.
func (s *Store) SignedIn() bool {
	return s.Token() != ""
}
