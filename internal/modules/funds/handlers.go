package funds

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/scoring"
	"github.com/refera/fiish/internal/modules/snapshot"
)

// Handler handles fund HTTP requests.
type Handler struct {
	snapshots *snapshot.Service
	engine    *scoring.Engine
	service   *Service
	log       zerolog.Logger
}

// NewHandler creates a new funds handler.
func NewHandler(snapshots *snapshot.Service, engine *scoring.Engine, service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		snapshots: snapshots,
		engine:    engine,
		service:   service,
		log:       log.With().Str("handler", "funds").Logger(),
	}
}

// HandleList returns every scored fund, optionally restricted to one tier.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Current(r.Context())
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	scored := h.engine.ScoreAll(snap)

	if tier := strings.ToUpper(r.URL.Query().Get("tier")); tier != "" {
		filtered := make([]scoring.ScoredFund, 0, len(scored))
		for _, f := range scored {
			if string(f.Tier) == tier {
				filtered = append(filtered, f)
			}
		}
		scored = filtered
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"reference_date": snap.ReferenceDate,
		"funds":          scored,
	})
}

// HandleGet returns the full analysis for one fund. The simulated notional
// can be overridden with ?notional=25000.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	snap, err := h.snapshots.Current(r.Context())
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	fund, ok := h.engine.ScoreTicker(snap, ticker)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown fund "+ticker)
		return
	}

	notional := 0.0
	if raw := r.URL.Query().Get("notional"); raw != "" {
		notional, err = strconv.ParseFloat(raw, 64)
		if err != nil || notional <= 0 {
			h.writeError(w, http.StatusBadRequest, "notional must be a positive number")
			return
		}
	}

	h.writeJSON(w, http.StatusOK, h.service.Analyze(fund, notional))
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
