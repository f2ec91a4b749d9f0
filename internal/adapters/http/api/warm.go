package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// maxWarmIDs caps the ids accepted by one warm request.
const maxWarmIDs = 100

// Warmer schedules background lookups.
type Warmer interface {
	Enqueue(ctx context.Context, id string) bool
}

// WarmHandler accepts batches of ids for background cache warming.
type WarmHandler struct {
	warmer Warmer
}

// NewWarmHandler creates a new warm-up handler.
func NewWarmHandler(w Warmer) *WarmHandler {
	return &WarmHandler{warmer: w}
}

type warmRequest struct {
	IDs []string `json:"ids"`
}

type warmResponse struct {
	Accepted []string `json:"accepted"`
	Rejected []string `json:"rejected"`
}

// HandleWarm handles POST /warm requests.
func (h *WarmHandler) HandleWarm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req warmRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWarmBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingID)
		return
	}
	if len(req.IDs) > maxWarmIDs {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: at most %d ids", ErrBadRequest, maxWarmIDs))
		return
	}

	resp := warmResponse{Accepted: []string{}, Rejected: []string{}}
	for _, id := range req.IDs {
		id = strings.TrimSpace(id)
		if id != "" && h.warmer.Enqueue(r.Context(), id) {
			resp.Accepted = append(resp.Accepted, id)
			continue
		}
		resp.Rejected = append(resp.Rejected, id)
	}
	writeJSON(w, http.StatusAccepted, resp)
}
