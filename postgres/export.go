package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meikuraledutech/flowchart"
)

// SaveExport stores a rasterised flowchart in private storage.
// A second save with the same idempotency key returns the first row's ID
// without writing anything.
func (s *PGStore) SaveExport(ctx context.Context, e *flowchart.Export) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.IdempotencyKey == "" {
		e.IdempotencyKey = e.ID
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO flowchart_exports (id, flowchart_id, title, category, idempotency_key, mime, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (idempotency_key) DO NOTHING
		 RETURNING id, created_at`,
		e.ID, e.FlowchartID, e.Title, e.Category, e.IdempotencyKey, e.MIME, e.Image,
	).Scan(&e.ID, &e.CreatedAt)
	if err == nil {
		return e.ID, nil
	}
	if !isNoRows(err) {
		return "", fmt.Errorf("flowchart: insert export: %w", err)
	}

	// Conflict: the delivery already landed.
	if err := s.db.QueryRow(ctx,
		`SELECT id, created_at FROM flowchart_exports WHERE idempotency_key = $1`, e.IdempotencyKey,
	).Scan(&e.ID, &e.CreatedAt); err != nil {
		return "", fmt.Errorf("flowchart: find export: %w", err)
	}
	return e.ID, nil
}

// GetExport fetches a stored export by its ID.
// Returns nil, nil if not found.
func (s *PGStore) GetExport(ctx context.Context, id string) (*flowchart.Export, error) {
	var e flowchart.Export
	err := s.db.QueryRow(ctx,
		`SELECT id, flowchart_id, title, category, idempotency_key, mime, image, created_at
		 FROM flowchart_exports WHERE id = $1`, id,
	).Scan(&e.ID, &e.FlowchartID, &e.Title, &e.Category, &e.IdempotencyKey, &e.MIME, &e.Image, &e.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("flowchart: get export: %w", err)
	}
	return &e, nil
}
