package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS flowcharts (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS flowchart_nodes (
    flowchart_id TEXT NOT NULL REFERENCES flowcharts(id) ON DELETE CASCADE,
    id           TEXT NOT NULL,
    ord          INT  NOT NULL,
    type         TEXT NOT NULL,
    x            DOUBLE PRECISION NOT NULL DEFAULT 0,
    y            DOUBLE PRECISION NOT NULL DEFAULT 0,
    data         JSONB NOT NULL DEFAULT '{}',
    PRIMARY KEY (flowchart_id, id)
);

CREATE TABLE IF NOT EXISTS flowchart_edges (
    flowchart_id TEXT NOT NULL,
    id           TEXT NOT NULL,
    ord          INT  NOT NULL,
    source       TEXT NOT NULL,
    target       TEXT NOT NULL,
    animated     BOOLEAN NOT NULL DEFAULT FALSE,
    style        TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (flowchart_id, id),
    FOREIGN KEY (flowchart_id, source) REFERENCES flowchart_nodes(flowchart_id, id) ON DELETE CASCADE,
    FOREIGN KEY (flowchart_id, target) REFERENCES flowchart_nodes(flowchart_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS flowchart_exports (
    id              TEXT PRIMARY KEY,
    flowchart_id    TEXT NOT NULL,
    title           TEXT NOT NULL DEFAULT '',
    category        TEXT NOT NULL DEFAULT '',
    idempotency_key TEXT NOT NULL UNIQUE,
    mime            TEXT NOT NULL,
    image           BYTEA NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_flowchart_edges_source  ON flowchart_edges(flowchart_id, source);
CREATE INDEX IF NOT EXISTS idx_flowchart_edges_target  ON flowchart_edges(flowchart_id, target);
CREATE INDEX IF NOT EXISTS idx_flowchart_exports_chart ON flowchart_exports(flowchart_id);
`

// CreateSchema creates the flowchart tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops every flowchart table.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS flowchart_exports, flowchart_edges, flowchart_nodes, flowcharts CASCADE;`)
	return err
}
