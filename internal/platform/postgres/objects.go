package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/wallet-wrapped/internal/store"
)

// URLScheme prefixes object URLs when no public base URL is configured.
const URLScheme = "pg://wrapped_objects/"

// Querier is satisfied by *sql.DB and *sql.Tx, so tests can run the store
// inside a transaction that is rolled back.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ObjectStore implements store.ObjectStore on the wrapped_objects table.
type ObjectStore struct {
	db      Querier
	baseURL string
}

// NewObjectStore creates an ObjectStore. Object URLs are baseURL + "/" + key,
// or pg://wrapped_objects/key when baseURL is empty.
func NewObjectStore(db Querier, baseURL string) *ObjectStore {
	return &ObjectStore{db: db, baseURL: strings.TrimRight(baseURL, "/")}
}

// Put implements store.ObjectStore.
func (s *ObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO wrapped_objects (key, content_type, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO NOTHING
	`, key, contentType, data)
	if err != nil {
		return "", MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: %s", store.ErrObjectExists, key)
	}
	return s.url(key), nil
}

// List implements store.ObjectStore.
func (s *ObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM wrapped_objects WHERE starts_with(key, $1)`, prefix)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, MapError(err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return keys, nil
}

// Get implements store.ObjectStore.
func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM wrapped_objects WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, MapError(err)
	}
	return data, nil
}

func (s *ObjectStore) url(key string) string {
	if s.baseURL == "" {
		return URLScheme + key
	}
	return s.baseURL + "/" + key
}
