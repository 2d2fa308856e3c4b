package news

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles news HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new news handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "news").Logger(),
	}
}

// HandleFundNews returns recent headlines for a fund.
func (h *Handler) HandleFundNews(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))
	days := queryInt(r, "days")
	limit := queryInt(r, "limit")

	items, err := h.service.FundNewsWithin(r.Context(), ticker, days, limit)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to fetch fund news")
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if items == nil {
		items = []Item{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": ticker,
		"items":  items,
	})
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
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
