// Package secrets wraps the OS credential manager behind a small store
// interface, keyed by fixed entry names scoped to the application.
package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// service scopes all entries to this application in the OS store.
const service = "ample"

// Fixed logical entry names.
const (
	EntryPassword     = "password"
	EntryAPISecret    = "api-secret"
	EntrySessionToken = "session-token"
)

// ErrNotFound is returned by Get when no entry exists under that name.
var ErrNotFound = errors.New("secrets: entry not found")

// Store reads and writes named secrets.
type Store interface {
	Get(name string) (string, error)
	Set(name, value string) error
	Delete(name string) error
}

// Keyring is a Store backed by the OS credential manager.
type Keyring struct{}

func (Keyring) Get(name string) (string, error) {
	value, err := keyring.Get(service, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("secrets: failed to read %s: %w", name, err)
	}
	return value, nil
}

func (Keyring) Set(name, value string) error {
	if err := keyring.Set(service, name, value); err != nil {
		return fmt.Errorf("secrets: failed to write %s: %w", name, err)
	}
	return nil
}

// Delete removes an entry. Deleting an absent entry is not an error.
func (Keyring) Delete(name string) error {
	if err := keyring.Delete(service, name); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("secrets: failed to delete %s: %w", name, err)
	}
	return nil
}
