package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meikuraledutech/flowchart"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// insertNodes writes nodes in order; ord keeps the render order stable.
func insertNodes(ctx context.Context, q querier, flowchartID string, nodes []flowchart.Node) error {
	for i, n := range nodes {
		if _, err := q.Exec(ctx,
			`INSERT INTO flowchart_nodes (flowchart_id, id, ord, type, x, y, data) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			flowchartID, n.ID, i, string(n.Type), n.Position.X, n.Position.Y, n.Data,
		); err != nil {
			return fmt.Errorf("flowchart: insert node %s: %w", n.ID, err)
		}
	}
	return nil
}

// listNodes returns all nodes of a flowchart in saved order.
// Returns an empty slice (not nil) if none found.
func listNodes(ctx context.Context, q querier, flowchartID string) ([]flowchart.Node, error) {
	rows, err := q.Query(ctx,
		`SELECT id, type, x, y, data FROM flowchart_nodes WHERE flowchart_id = $1 ORDER BY ord`, flowchartID)
	if err != nil {
		return nil, fmt.Errorf("flowchart: list nodes: %w", err)
	}
	defer rows.Close()

	nodes := []flowchart.Node{}
	for rows.Next() {
		var (
			n   flowchart.Node
			typ string
		)
		if err := rows.Scan(&n.ID, &typ, &n.Position.X, &n.Position.Y, &n.Data); err != nil {
			return nil, fmt.Errorf("flowchart: scan node: %w", err)
		}
		n.Type = flowchart.NodeType(typ)
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("flowchart: rows nodes: %w", err)
	}

	return nodes, nil
}
