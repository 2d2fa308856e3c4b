package marketdata

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles market data HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new market data handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "marketdata").Logger(),
	}
}

// HandleHistory returns the analyzed price history for a fund.
// Query: ?period=6m (default) and ?sma=28 (0 disables the overlay).
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "6m"
	}

	smaWindow := 28
	if raw := r.URL.Query().Get("sma"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, "sma must be a non-negative integer")
			return
		}
		smaWindow = n
	}

	analysis, err := h.service.History(r.Context(), ticker, period, smaWindow)
	if err != nil {
		if strings.Contains(err.Error(), "unknown period") {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to analyze price history")
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, analysis)
}

// HandleDividends returns the summarized payout history for a fund.
func (h *Handler) HandleDividends(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	summary, err := h.service.Dividends(r.Context(), ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to fetch dividends")
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
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
