package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (r *Repository) GetState(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query state %s: %w", key, err)
	}
	return value, nil
}

func (r *Repository) PutState(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to put state %s: %w", key, err)
	}
	return nil
}

// EnsureState writes candidate under key only if the key does not exist yet
// and returns whatever value ended up stored. Concurrent callers racing on
// an unset key all get the single value that won the insert.
func (r *Repository) EnsureState(ctx context.Context, key, candidate string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO app_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT(key) DO NOTHING
	`, key, candidate); err != nil {
		return "", fmt.Errorf("failed to insert state %s: %w", key, err)
	}

	var value string
	if err := tx.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = $1`, key).Scan(&value); err != nil {
		return "", fmt.Errorf("failed to read back state %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit state %s: %w", key, err)
	}

	return value, nil
}

// TakeState reads and deletes a key in one transaction. The second of two
// concurrent callers gets ErrStateNotFound, never a duplicate value.
func (r *Repository) TakeState(ctx context.Context, key string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var value string
	err = tx.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query state %s: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM app_state WHERE key = $1`, key); err != nil {
		return "", fmt.Errorf("failed to delete state %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit take of state %s: %w", key, err)
	}

	return value, nil
}
