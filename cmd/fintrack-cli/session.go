package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/backend"
)

// errNotLoggedIn is returned when no usable session file exists.
var errNotLoggedIn = errors.New("not logged in, run 'fintrack login' first")

// savedSession is the on-disk form of a login.
type savedSession struct {
	Token    string    `json:"access_token"`
	Username string    `json:"username"`
	Server   string    `json:"server"`
	SavedAt  time.Time `json:"saved_at"`
}

func (a *app) sessionPath() (string, error) {
	if p := a.v.GetString("session_file"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "fintrack", "session.json"), nil
}

func (a *app) saveSession(s savedSession) error {
	path, err := a.sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	// replaced atomically
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (a *app) loadSession() (savedSession, error) {
	path, err := a.sessionPath()
	if err != nil {
		return savedSession{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return savedSession{}, errNotLoggedIn
	}
	if err != nil {
		return savedSession{}, fmt.Errorf("read session file: %w", err)
	}
	var s savedSession
	if err := json.Unmarshal(data, &s); err != nil || s.Token == "" {
		return savedSession{}, errNotLoggedIn
	}
	if (backend.Session{Token: s.Token}).Expired(time.Now()) {
		_ = a.removeSession()
		return savedSession{}, errors.New("session expired, please log in again")
	}
	return s, nil
}

func (a *app) removeSession() error {
	path, err := a.sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
