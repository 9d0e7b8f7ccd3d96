// Package session stores the CLI's sign-in token. The OS keyring is the
// primary backend; headless systems fall back to a file under the user's
// config directory.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "electodo"
	keyringUser    = "session-token"
	tokenFileName  = "token"
	configDirName  = ".electodo"
)

// ErrNotSignedIn is returned when no token has been stored.
var ErrNotSignedIn = errors.New("not signed in; run 'electodo login' first")

var (
	fallbackMode    bool
	fallbackModeMu  sync.Mutex
	fallbackChecked bool
)

// keyringAvailable tests the system keyring with a throwaway entry once
// per process.
func keyringAvailable() bool {
	fallbackModeMu.Lock()
	defer fallbackModeMu.Unlock()

	if fallbackChecked {
		return !fallbackMode
	}
	fallbackChecked = true

	testKey := "electodo-keyring-test"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		fallbackMode = true
		return false
	}
	_ = keyring.Delete(keyringService, testKey)
	return true
}

func tokenFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, tokenFileName), nil
}

// SaveToken persists the session token.
func SaveToken(token string) error {
	if keyringAvailable() {
		if err := keyring.Set(keyringService, keyringUser, token); err != nil {
			return fmt.Errorf("failed to store token in keyring: %w", err)
		}
		return nil
	}

	path, err := tokenFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

// LoadToken returns the stored session token.
func LoadToken() (string, error) {
	if keyringAvailable() {
		token, err := keyring.Get(keyringService, keyringUser)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("failed to read token from keyring: %w", err)
		}
		return "", ErrNotSignedIn
	}

	path, err := tokenFilePath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", ErrNotSignedIn
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotSignedIn
	}
	return token, nil
}

// ClearToken signs the CLI out. Clearing an absent token succeeds.
func ClearToken() error {
	if keyringAvailable() {
		err := keyring.Delete(keyringService, keyringUser)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to remove token from keyring: %w", err)
		}
		return nil
	}

	path, err := tokenFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
