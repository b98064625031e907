package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/ragboard/internal/repository"
)

// APIKeyRepository implements repository.APIKeyRepository for SQLite
type APIKeyRepository struct {
	db  *DB
	now func() time.Time
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db, now: time.Now}
}

// Add stores a key hash for an owner
func (r *APIKeyRepository) Add(ctx context.Context, key repository.APIKey) error {
	if key.KeyHash == "" || key.Owner == "" {
		return fmt.Errorf("key hash and owner are required: %w", repository.ErrInvalidInput)
	}
	createdAt := key.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, owner, description, created_at) VALUES (?, ?, ?, ?)`,
		key.KeyHash, key.Owner, key.Description, createdAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("api key: %w", repository.ErrConflict)
		}
		return fmt.Errorf("failed to add api key: %w", err)
	}
	return nil
}

// ResolveOwner returns the owner of a key hash and records its use
func (r *APIKeyRepository) ResolveOwner(ctx context.Context, keyHash string) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx,
		`SELECT owner FROM api_keys WHERE key_hash = ?`, keyHash).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, r.now().UTC(), keyHash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return owner, nil
}

// Get returns the stored key record
func (r *APIKeyRepository) Get(ctx context.Context, keyHash string) (*repository.APIKey, error) {
	var key repository.APIKey
	var lastUsed sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT key_hash, owner, description, created_at, last_used FROM api_keys WHERE key_hash = ?`,
		keyHash).Scan(&key.KeyHash, &key.Owner, &key.Description, &key.CreatedAt, &lastUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	if lastUsed.Valid {
		key.LastUsed = &lastUsed.Time
	}
	return &key, nil
}
