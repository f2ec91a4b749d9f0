package api

import (
	"maps"
	"net/http"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// queueLen is implemented by warmers that can report their backlog.
type queueLen interface {
	Len() int
}

// StatsHandler serves service counters, plus the warm-up backlog when a
// queue is attached.
type StatsHandler struct {
	provider StatsProvider
	queue    queueLen
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := map[string]interface{}{}
	if h.provider != nil {
		stats = maps.Clone(h.provider.GetStats())
		if stats == nil {
			stats = map[string]interface{}{}
		}
	}
	if h.queue != nil {
		stats["warmQueueDepth"] = h.queue.Len()
	}
	writeJSON(w, http.StatusOK, stats)
}
