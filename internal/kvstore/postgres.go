package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/trafficshawarma/storefront/internal/database"
	"github.com/trafficshawarma/storefront/internal/models"
)

// PostgresStore backs the Store interface with a single kv_store table
// (key TEXT primary key, value JSONB).
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a PostgresStore on an open connection pool.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var value []byte
	err := s.db.Pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}

	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q: marshal: %w", key, err)
	}

	query := `
		INSERT INTO kv_store (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	if _, err := s.db.Pool.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = $1`

	if _, err := s.db.Pool.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}

	return nil
}

func (s *PostgresStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	entries, err := s.ListByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	values := make([][]byte, 0, len(entries))
	for _, e := range entries {
		values = append(values, e.Value)
	}

	return values, nil
}

func (s *PostgresStore) ListByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	query := `SELECT key, value FROM kv_store WHERE key LIKE $1`

	rows, err := s.db.Pool.Query(ctx, query, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("kv prefix scan %q: %w", prefix, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("kv prefix scan %q: %w", prefix, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv prefix scan %q: %w", prefix, err)
	}

	return entries, nil
}

// escapeLike escapes LIKE metacharacters so prefixes containing
// underscores or percent signs match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
