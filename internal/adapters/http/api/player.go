package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/ratingscope/internal/app"
	"github.com/okian/ratingscope/internal/domain/model"
	"github.com/okian/ratingscope/internal/domain/types"
	"github.com/okian/ratingscope/pkg/logger"
)

// Request body limits.
const (
	maxRequestBytes = 4 << 10
	maxWarmBytes    = 16 << 10
)

// PlayerHandler serves profile lookups.
type PlayerHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps Dependencies, log logger.Logger) *PlayerHandler {
	return &PlayerHandler{deps: deps, logger: log}
}

type playerResponse struct {
	Player   types.PlayerRecord `json:"player"`
	Category model.Category     `json:"category"`
	Cached   bool               `json:"cached"`
	Debug    *types.Debug       `json:"debug,omitempty"`
}

type opponentRequest struct {
	ID    string `json:"id"`
	Debug bool   `json:"debug"`
}

type opponentResponse struct {
	Success  bool               `json:"success"`
	Opponent types.PlayerRecord `json:"opponent"`
	Category model.Category     `json:"category"`
	Debug    *types.Debug       `json:"debug,omitempty"`
}

// HandleGetPlayer handles GET /players/{id}[?debug=true] requests.
func (h *PlayerHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/players/")
	if strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingID)
		return
	}
	debug, _ := strconv.ParseBool(r.URL.Query().Get("debug"))

	res, ok := h.lookup(w, r, id, debug)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, playerResponse{
		Player:   res.Record,
		Category: model.CategoryFor(res.Record.CurrentRating),
		Cached:   res.Cached,
		Debug:    res.Debug,
	})
}

// HandlePostOpponent handles POST /opponent requests.
func (h *PlayerHandler) HandlePostOpponent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req opponentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingID)
		return
	}

	res, ok := h.lookup(w, r, req.ID, req.Debug)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, opponentResponse{
		Success:  true,
		Opponent: res.Record,
		Category: model.CategoryFor(res.Record.CurrentRating),
		Debug:    res.Debug,
	})
}

func (h *PlayerHandler) lookup(w http.ResponseWriter, r *http.Request, id string, debug bool) (types.LookupResult, bool) {
	res, err := h.deps.Lookup(r.Context(), id, debug)
	switch {
	case errors.Is(err, service.ErrEmptyID):
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return res, false
	case err != nil:
		h.logger.Error(r.Context(), "profile lookup failed",
			logger.String("id", id),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return res, false
	}
	return res, true
}
