package portfolio

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/scoring"
	"github.com/refera/fiish/internal/modules/snapshot"
)

// Handler handles portfolio HTTP requests.
type Handler struct {
	snapshots *snapshot.Service
	engine    *scoring.Engine
	service   *Service
	log       zerolog.Logger
}

// NewHandler creates a new portfolio handler.
func NewHandler(snapshots *snapshot.Service, engine *scoring.Engine, service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		snapshots: snapshots,
		engine:    engine,
		service:   service,
		log:       log.With().Str("handler", "portfolio").Logger(),
	}
}

type reviewRequest struct {
	Positions []Position `json:"positions"`
}

// HandleReview values a posted set of positions against the snapshot.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio payload: "+err.Error())
		return
	}

	snap, err := h.snapshots.Current(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshot for review")
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	report, err := h.service.Review(req.Positions, snap.ReferenceDate, h.engine.ScoreAll(snap))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, report)
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
