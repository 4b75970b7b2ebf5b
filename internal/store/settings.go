package store

import (
	"database/sql"
	"errors"
)

// Well-known setting keys.
const (
	// KeyBackend is the last selected inference backend.
	KeyBackend = "backend"
	// KeyAnglePair is the landmark index pair for the angle readout,
	// stored as "a,b".
	KeyAnglePair = "angle_pair"
)

// ErrNotFound is returned when a setting has never been written.
var ErrNotFound = errors.New("setting not found")

// SettingsStore reads and writes operator preferences.
type SettingsStore struct {
	db *sql.DB
}

// Get returns the value for key, or ErrNotFound.
func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set writes the value for key, replacing any previous value.
func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}

// GetDefault returns the value for key, or def if it has never been written.
func (s *SettingsStore) GetDefault(key, def string) string {
	value, err := s.Get(key)
	if err != nil {
		return def
	}
	return value
}
