package snapshot

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler handles snapshot HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new snapshot handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "snapshot").Logger(),
	}
}

// HandleGetSnapshot returns cache metadata for the active snapshot.
func (h *Handler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Current(r.Context()); err != nil {
		h.writeLoadError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.Info())
}

type ingestRequest struct {
	ReferenceDate string          `json:"reference_date"`
	Funds         []RawFundRecord `json:"funds"`
}

// HandleIngest replaces the stored dataset with the posted raw rows. The
// scraper calls this once per day after collecting the fund table.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid ingest payload: "+err.Error())
		return
	}

	if err := h.service.Ingest(r.Context(), req.ReferenceDate, req.Funds); err != nil {
		if req.ReferenceDate == "" || len(req.Funds) == 0 {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("reference_date", req.ReferenceDate).Msg("Failed to ingest dataset")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ingested",
		"reference_date": req.ReferenceDate,
		"rows":           len(req.Funds),
	})
}

// HandleInvalidate discards the cached snapshot.
func (h *Handler) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	h.service.Invalidate()
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) writeLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNoData) {
		h.writeError(w, http.StatusServiceUnavailable, "no fund dataset has been ingested yet")
		return
	}
	h.log.Error().Err(err).Msg("Failed to load snapshot")
	h.writeError(w, http.StatusInternalServerError, err.Error())
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
