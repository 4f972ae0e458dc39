package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/spamwall/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.OptionStore = (*OptionRepo)(nil)

// OptionRepo is the SQLite implementation of the OptionStore port interface.
// Values are stored as given; secrets arrive already encrypted.
type OptionRepo struct {
	db *DB
}

// NewOptionRepo creates a new OptionRepo backed by the given DB.
func NewOptionRepo(db *DB) *OptionRepo {
	return &OptionRepo{db: db}
}

// Get returns the value stored under key, or fallback when no row exists.
func (r *OptionRepo) Get(ctx context.Context, key, fallback string) (string, error) {
	const query = `SELECT value FROM options WHERE name = ?`

	var value string
	err := r.db.Reader.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get option %q: %w", key, err)
	}
	return value, nil
}

// Set stores or replaces the value for key.
func (r *OptionRepo) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO options (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.Writer.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set option %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (r *OptionRepo) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM options WHERE name = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete option %q: %w", key, err)
	}
	return nil
}
