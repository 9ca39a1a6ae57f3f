// Package postgres implements the persistence interfaces over
// PostgreSQL using pgx connection pooling and goose migrations.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okrhub/okrhub/internal/application/okr"
)

// Store provides the PostgreSQL implementation of the repository
// interfaces. All reads go through hand-written SQL against the
// connection pool; this engine never writes OKR data.
type Store struct {
	pool *pgxpool.Pool
}

// Compile-time verification that Store implements the repository
// interfaces.
var (
	_ okr.Repository      = (*Store)(nil)
	_ okr.ProfileResolver = (*Store)(nil)
)

// NewStore creates a new PostgreSQL store with the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
