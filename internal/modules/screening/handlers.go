package screening

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/scoring"
	"github.com/refera/fiish/internal/modules/snapshot"
)

// Handler handles screening HTTP requests.
type Handler struct {
	snapshots *snapshot.Service
	engine    *scoring.Engine
	screener  *Screener
	log       zerolog.Logger
}

// NewHandler creates a new screening handler.
func NewHandler(snapshots *snapshot.Service, engine *scoring.Engine, screener *Screener, log zerolog.Logger) *Handler {
	return &Handler{
		snapshots: snapshots,
		engine:    engine,
		screener:  screener,
		log:       log.With().Str("handler", "screening").Logger(),
	}
}

// HandleDiscount returns the discount-with-quality screen.
func (h *Handler) HandleDiscount(w http.ResponseWriter, r *http.Request) {
	funds, ok := h.scored(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.screener.DiscountWithQuality(funds))
}

// HandleLargest returns the largest funds by net assets.
func (h *Handler) HandleLargest(w http.ResponseWriter, r *http.Request) {
	funds, ok := h.scored(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.screener.Largest(funds))
}

// HandleEntryLevel returns the entry-level screen.
func (h *Handler) HandleEntryLevel(w http.ResponseWriter, r *http.Request) {
	funds, ok := h.scored(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.screener.EntryLevel(funds))
}

// HandleCustom evaluates a free-form criteria screen posted as JSON.
func (h *Handler) HandleCustom(w http.ResponseWriter, r *http.Request) {
	var criteria Criteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid criteria payload: "+err.Error())
		return
	}

	funds, ok := h.scored(w, r)
	if !ok {
		return
	}

	result, err := h.screener.Custom(funds, criteria)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) scored(w http.ResponseWriter, r *http.Request) ([]scoring.ScoredFund, bool) {
	snap, err := h.snapshots.Current(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshot for screen")
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
		return nil, false
	}
	return h.engine.ScoreAll(snap), true
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
