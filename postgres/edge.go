package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/flowchart"
)

// insertEdges writes edges in order. Endpoints must already be inserted.
func insertEdges(ctx context.Context, q querier, flowchartID string, edges []flowchart.Edge) error {
	for i, e := range edges {
		if _, err := q.Exec(ctx,
			`INSERT INTO flowchart_edges (flowchart_id, id, ord, source, target, animated, style) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			flowchartID, e.ID, i, e.Source, e.Target, e.Animated, e.Style,
		); err != nil {
			return fmt.Errorf("flowchart: insert edge %s: %w", e.ID, err)
		}
	}
	return nil
}

// listEdges returns all edges of a flowchart in saved order.
// Returns an empty slice (not nil) if none found.
func listEdges(ctx context.Context, q querier, flowchartID string) ([]flowchart.Edge, error) {
	rows, err := q.Query(ctx,
		`SELECT id, source, target, animated, style FROM flowchart_edges WHERE flowchart_id = $1 ORDER BY ord`, flowchartID)
	if err != nil {
		return nil, fmt.Errorf("flowchart: list edges: %w", err)
	}
	defer rows.Close()

	edges := []flowchart.Edge{}
	for rows.Next() {
		var e flowchart.Edge
		if err := rows.Scan(&e.ID, &e.Source, &e.Target, &e.Animated, &e.Style); err != nil {
			return nil, fmt.Errorf("flowchart: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("flowchart: rows edges: %w", err)
	}

	return edges, nil
}
