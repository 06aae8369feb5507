package credstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/timshannon/badgerhold/v4"

	"github.com/papertrade/portal/internal/common"
)

// kvEntry is a key-value pair stored in BadgerDB.
type kvEntry struct {
	Key   string `badgerhold:"key"`
	Value string
}

// BadgerStore implements Store on top of BadgerDB.
type BadgerStore struct {
	store  *badgerhold.Store
	logger *common.Logger
}

// OpenBadger opens (creating if necessary) a Badger-backed credential store
// at the given path.
func OpenBadger(path string, logger *common.Logger) (*BadgerStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	logger.Debug().Str("path", path).Msg("opening credential store")

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &BadgerStore{store: store, logger: logger}, nil
}

// Save writes the credential durably.
func (s *BadgerStore) Save(token string) error {
	entry := kvEntry{Key: credentialKey, Value: token}
	if err := s.store.Upsert(credentialKey, &entry); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Load retrieves the credential. A missing key or a read failure both report
// absence; a broken store must not block startup.
func (s *BadgerStore) Load() (string, bool) {
	var entry kvEntry
	err := s.store.Get(credentialKey, &entry)
	if err != nil {
		if err != badgerhold.ErrNotFound {
			s.logger.Warn().Str("error", err.Error()).Msg("credential store read failed, treating as absent")
		}
		return "", false
	}
	if entry.Value == "" {
		return "", false
	}
	return entry.Value, true
}

// Clear deletes the credential. Deleting an absent credential is not an error.
func (s *BadgerStore) Clear() error {
	err := s.store.Delete(credentialKey, kvEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
