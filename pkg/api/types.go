package api

import (
	"context"
	"encoding/json"

	"github.com/ssargent/hoard/pkg/codec"
	"github.com/ssargent/hoard/pkg/inventory"
	"github.com/ssargent/hoard/pkg/snapshot"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind            string
	Port            int
	APIKey          string   // empty disables authentication
	BlobKeys        []string // JSON keys searched in save documents
	DamageThreshold float64
}

// SnapshotStore is the subset of snapshot.Store used by the API
type SnapshotStore interface {
	Save(ctx context.Context, snap snapshot.Snapshot) (snapshot.Snapshot, error)
	Get(id string) (snapshot.Snapshot, error)
	List() ([]snapshot.Snapshot, error)
	Delete(id string) error
}

// DecodeRequest carries either a bare blob or a whole save document
type DecodeRequest struct {
	Blob string          `json:"blob,omitempty"`
	Save json.RawMessage `json:"save,omitempty"`
	Keys []string        `json:"keys,omitempty"`
}

// DecodeResponse lists one result per decoded blob
type DecodeResponse struct {
	Inventories []InventoryResult `json:"inventories"`
}

// InventoryResult is a decoded blob with its analysis
type InventoryResult struct {
	Path       string              `json:"path,omitempty"`
	Version    int32               `json:"version"`
	Declared   int32               `json:"declared"`
	Complete   bool                `json:"complete"`
	Items      []codec.Item        `json:"items"`
	Diagnostic *DiagnosticResponse `json:"diagnostic,omitempty"`
	Summary    inventory.Summary   `json:"summary"`
	Damaged    []codec.Item        `json:"damaged,omitempty"`
}

// DiagnosticResponse explains a partial decode
type DiagnosticResponse struct {
	Record int    `json:"record"`
	Offset int    `json:"offset"`
	Error  string `json:"error"`
}

// SnapshotRequest creates a snapshot
type SnapshotRequest struct {
	Label  string `json:"label"`
	Source string `json:"source,omitempty"`
	Blob   string `json:"blob"`
}

// SnapshotInfo describes a snapshot without its blob
type SnapshotInfo struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Source     string `json:"source,omitempty"`
	CapturedAt string `json:"captured_at"`
}
