package compare

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/snapshot"
)

// Handler handles comparison HTTP requests.
type Handler struct {
	snapshots  *snapshot.Service
	comparator *Comparator
	log        zerolog.Logger
}

// NewHandler creates a new compare handler.
func NewHandler(snapshots *snapshot.Service, comparator *Comparator, log zerolog.Logger) *Handler {
	return &Handler{
		snapshots:  snapshots,
		comparator: comparator,
		log:        log.With().Str("handler", "compare").Logger(),
	}
}

type compareRequest struct {
	TickerA string `json:"ticker_a"`
	TickerB string `json:"ticker_b"`
}

// HandleCompare runs a head-to-head between two funds of the snapshot.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid compare payload: "+err.Error())
		return
	}

	a := strings.ToUpper(strings.TrimSpace(req.TickerA))
	b := strings.ToUpper(strings.TrimSpace(req.TickerB))
	if a == "" || b == "" {
		h.writeError(w, http.StatusBadRequest, "both ticker_a and ticker_b are required")
		return
	}

	snap, err := h.snapshots.Current(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshot for comparison")
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	fa := snap.Get(a)
	if fa == nil {
		h.writeError(w, http.StatusNotFound, "unknown fund "+a)
		return
	}
	fb := snap.Get(b)
	if fb == nil {
		h.writeError(w, http.StatusNotFound, "unknown fund "+b)
		return
	}

	h.writeJSON(w, http.StatusOK, h.comparator.Compare(*fa, *fb))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
