package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ssargent/hoard/pkg/codec"
	"github.com/ssargent/hoard/pkg/inventory"
	"github.com/ssargent/hoard/pkg/savejson"
	"github.com/ssargent/hoard/pkg/snapshot"
)

// maxBodyBytes bounds request bodies; save exports are a few megabytes
const maxBodyBytes = 32 << 20

// Server holds the API server state
type Server struct {
	store   SnapshotStore
	codec   *codec.ItemCodec
	config  ServerConfig
	metrics *Metrics
	logger  *zap.Logger
}

// NewServer creates a new API server
func NewServer(store SnapshotStore, config ServerConfig, metrics *Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if len(config.BlobKeys) == 0 {
		config.BlobKeys = []string{savejson.DefaultKey}
	}
	return &Server{
		store:   store,
		codec:   codec.NewItemCodec(codec.WithLogger(logger)),
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleDecode decodes a blob, or every blob found in a save document
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var blobs []savejson.Blob
	switch {
	case req.Blob != "" && len(req.Save) > 0:
		sendError(w, "Provide either blob or save, not both", http.StatusBadRequest)
		return
	case req.Blob != "":
		blobs = []savejson.Blob{{Data: req.Blob}}
	case len(req.Save) > 0:
		keys := req.Keys
		if len(keys) == 0 {
			keys = s.config.BlobKeys
		}
		found, err := savejson.Extract(req.Save, keys...)
		if errors.Is(err, savejson.ErrNoBlobs) {
			sendError(w, "No inventory blobs found in save document", http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			sendError(w, fmt.Sprintf("Invalid save document: %v", err), http.StatusBadRequest)
			return
		}
		blobs = found
	default:
		sendError(w, "Request must contain blob or save", http.StatusBadRequest)
		return
	}

	decoded, err := inventory.DecodeAll(r.Context(), s.codec, blobs)
	if err != nil {
		s.metrics.RecordDecode(nil)
		sendError(w, fmt.Sprintf("Failed to decode inventory: %v", err), http.StatusBadRequest)
		return
	}

	resp := DecodeResponse{Inventories: make([]InventoryResult, 0, len(decoded))}
	for _, d := range decoded {
		s.metrics.RecordDecode(d.Collection)
		resp.Inventories = append(resp.Inventories, s.inventoryResult(d.Path, d.Collection))
	}
	sendSuccess(w, resp)
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Blob == "" {
		sendError(w, "blob is required", http.StatusBadRequest)
		return
	}

	snap, err := s.store.Save(r.Context(), snapshot.Snapshot{
		Label:  req.Label,
		Source: req.Source,
		Blob:   req.Blob,
	})
	s.metrics.RecordSnapshotOperation("save", err == nil)
	if errors.Is(err, snapshot.ErrInvalidBlob) {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.logger.Error("failed to save snapshot", zap.Error(err))
		sendError(w, "Failed to save snapshot", http.StatusInternalServerError)
		return
	}

	sendJSON(w, http.StatusCreated, snapshotInfo(snap))
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.store.List()
	s.metrics.RecordSnapshotOperation("list", err == nil)
	if err != nil {
		s.logger.Error("failed to list snapshots", zap.Error(err))
		sendError(w, "Failed to list snapshots", http.StatusInternalServerError)
		return
	}

	infos := make([]SnapshotInfo, 0, len(snaps))
	for _, snap := range snaps {
		infos = append(infos, snapshotInfo(snap))
	}
	sendSuccess(w, infos)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	sendSuccess(w, snap)
}

func (s *Server) handleSnapshotItems(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}

	col, err := snap.Decode(s.codec)
	s.metrics.RecordDecode(col)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to decode snapshot: %v", err), http.StatusUnprocessableEntity)
		return
	}
	sendSuccess(w, s.inventoryResult(snap.Label, col))
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(id)
	s.metrics.RecordSnapshotOperation("delete", err == nil)
	if err != nil {
		s.sendStoreError(w, err)
		return
	}
	sendSuccess(w, map[string]string{"deleted": id})
}

func (s *Server) loadSnapshot(w http.ResponseWriter, r *http.Request) (snapshot.Snapshot, bool) {
	snap, err := s.store.Get(chi.URLParam(r, "id"))
	s.metrics.RecordSnapshotOperation("get", err == nil)
	if err != nil {
		s.sendStoreError(w, err)
		return snapshot.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) sendStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, snapshot.ErrInvalidID):
		sendError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, snapshot.ErrNotFound):
		sendError(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error("snapshot store failure", zap.Error(err))
		sendError(w, "Snapshot store failure", http.StatusInternalServerError)
	}
}

func (s *Server) inventoryResult(path string, col *codec.Collection) InventoryResult {
	res := InventoryResult{
		Path:     path,
		Version:  col.Version,
		Declared: col.Declared,
		Complete: col.Complete(),
		Items:    col.Items,
		Summary:  inventory.Summarize(col.Items),
		Damaged:  inventory.Damaged(col.Items, s.config.DamageThreshold),
	}
	if res.Items == nil {
		res.Items = []codec.Item{}
	}
	if d := col.Diagnostic; d != nil {
		res.Diagnostic = &DiagnosticResponse{Record: d.Record, Offset: d.Offset, Error: d.Err.Error()}
	}
	return res
}

func snapshotInfo(snap snapshot.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:         snap.ID.String(),
		Label:      snap.Label,
		Source:     snap.Source,
		CapturedAt: snap.CapturedAt.UTC().Format(time.RFC3339),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("Invalid JSON in request body: %v", err)
	}
	return nil
}
