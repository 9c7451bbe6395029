package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meikuraledutech/flowchart"
)

// PGStore implements flowchart.Store using PostgreSQL via pgx.
type PGStore struct {
	db *pgxpool.Pool
}

var _ flowchart.Store = (*PGStore)(nil)

// New creates a new PGStore backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// isNoRows checks if the error is pgx's "no rows" error.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
