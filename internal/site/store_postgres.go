package site

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// invalidTextRepresentation is raised when the submitted id is not a number.
const invalidTextRepresentation pq.ErrorCode = "22P02"

const schema = `
CREATE TABLE IF NOT EXISTS sites (
	id     BIGINT PRIMARY KEY,
	domain TEXT NOT NULL DEFAULT '',
	path   TEXT NOT NULL DEFAULT '/'
)`

// PostgresStore reads sites from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed site store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the sites table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create sites table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, site Site) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sites (id, domain, path) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET domain = EXCLUDED.domain, path = EXCLUDED.path`,
		site.ID, site.Domain, site.Path,
	)
	if err != nil {
		return fmt.Errorf("add site: %w", err)
	}
	return nil
}

// CountSitesMatching counts sites whose id equals id. Postgres does the
// text to bigint cast, so a non-numeric id counts as no match.
func (s *PostgresStore) CountSitesMatching(ctx context.Context, id string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sites WHERE id = $1`, id).Scan(&count)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation {
			return 0, nil
		}
		return 0, fmt.Errorf("count sites: %w", err)
	}
	return count, nil
}
