package flowchart

import (
	"context"
	"errors"
	"time"
)

var (
	ErrFlowchartNotFound = errors.New("flowchart: flowchart not found")
	ErrNodeNotFound      = errors.New("flowchart: node not found")
	ErrEdgeNotFound      = errors.New("flowchart: edge not found")
	ErrDanglingEdge      = errors.New("flowchart: edge references a missing node")
	ErrDuplicateID       = errors.New("flowchart: duplicate id")
	ErrUnknownNodeType   = errors.New("flowchart: unknown node type")
	ErrUnknownStatus     = errors.New("flowchart: unknown status")
)

// Summary is a listing row for a saved flowchart.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Export is a rasterised flowchart kept in private storage.
// IdempotencyKey makes repeated deliveries of the same capture collapse
// into one row.
type Export struct {
	ID             string    `json:"id"`
	FlowchartID    string    `json:"flowchart_id"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	IdempotencyKey string    `json:"idempotency_key"`
	MIME           string    `json:"mime"`
	Image          []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store defines the contract for persisting and retrieving flowcharts.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Flowcharts (bulk, replace semantics)
	SaveFlowchart(ctx context.Context, f *Flowchart) (*Flowchart, error)
	GetFlowchart(ctx context.Context, id string) (*Flowchart, error)
	DeleteFlowchart(ctx context.Context, id string) error
	ListFlowcharts(ctx context.Context) ([]Summary, error)

	// Exports
	SaveExport(ctx context.Context, e *Export) (string, error)
	GetExport(ctx context.Context, id string) (*Export, error)
}
