package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meikuraledutech/flowchart"
)

// SaveFlowchart saves a full flowchart (nodes + edges) in one transaction,
// replacing whatever was stored under the same ID.
// A flowchart without an ID gets an auto-generated UUID.
// Returns the flowchart with its ID filled in.
func (s *PGStore) SaveFlowchart(ctx context.Context, f *flowchart.Flowchart) (*flowchart.Flowchart, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if err := flowchart.Validate(f); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("flowchart: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO flowcharts (id, name) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()`,
		f.ID, f.Name,
	); err != nil {
		return nil, fmt.Errorf("flowchart: upsert flowchart: %w", err)
	}

	// Replace semantics: edges go first, then nodes.
	if _, err := tx.Exec(ctx, `DELETE FROM flowchart_edges WHERE flowchart_id = $1`, f.ID); err != nil {
		return nil, fmt.Errorf("flowchart: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM flowchart_nodes WHERE flowchart_id = $1`, f.ID); err != nil {
		return nil, fmt.Errorf("flowchart: delete nodes: %w", err)
	}

	if err := insertNodes(ctx, tx, f.ID, f.Nodes); err != nil {
		return nil, err
	}
	if err := insertEdges(ctx, tx, f.ID, f.Edges); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("flowchart: commit: %w", err)
	}
	return f, nil
}

// GetFlowchart retrieves a full flowchart (nodes + edges) by its ID.
// Returns nil, nil if it does not exist.
func (s *PGStore) GetFlowchart(ctx context.Context, id string) (*flowchart.Flowchart, error) {
	f := &flowchart.Flowchart{ID: id}
	err := s.db.QueryRow(ctx, `SELECT name FROM flowcharts WHERE id = $1`, id).Scan(&f.Name)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("flowchart: get flowchart: %w", err)
	}

	if f.Nodes, err = listNodes(ctx, s.db, id); err != nil {
		return nil, err
	}
	if f.Edges, err = listEdges(ctx, s.db, id); err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFlowchart removes a flowchart; nodes and edges cascade.
// No error if the ID doesn't exist.
func (s *PGStore) DeleteFlowchart(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM flowcharts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("flowchart: delete flowchart: %w", err)
	}
	return nil
}

// ListFlowcharts returns a summary row per saved flowchart, most recently
// updated first. Returns an empty slice (not nil) if none found.
func (s *PGStore) ListFlowcharts(ctx context.Context) ([]flowchart.Summary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT f.id, f.name, f.updated_at,
		       (SELECT COUNT(*) FROM flowchart_nodes n WHERE n.flowchart_id = f.id),
		       (SELECT COUNT(*) FROM flowchart_edges e WHERE e.flowchart_id = f.id)
		FROM flowcharts f
		ORDER BY f.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("flowchart: list flowcharts: %w", err)
	}
	defer rows.Close()

	out := []flowchart.Summary{}
	for rows.Next() {
		var sm flowchart.Summary
		if err := rows.Scan(&sm.ID, &sm.Name, &sm.UpdatedAt, &sm.Nodes, &sm.Edges); err != nil {
			return nil, fmt.Errorf("flowchart: scan summary: %w", err)
		}
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("flowchart: rows summaries: %w", err)
	}
	return out, nil
}
