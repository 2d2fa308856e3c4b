package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/refera/fiish/internal/modules/snapshot"
	"github.com/refera/fiish/internal/scheduler"
)

// SystemHandlers handles monitoring and operational endpoints.
type SystemHandlers struct {
	snapshots *snapshot.Service
	scheduler *scheduler.Scheduler
	startedAt time.Time
	log       zerolog.Logger
}

// NewSystemHandlers creates a new system handlers instance.
func NewSystemHandlers(log zerolog.Logger, snapshots *snapshot.Service, sched *scheduler.Scheduler) *SystemHandlers {
	return &SystemHandlers{
		snapshots: snapshots,
		scheduler: sched,
		startedAt: time.Now(),
		log:       log.With().Str("component", "system_handlers").Logger(),
	}
}

// SystemStatusResponse is the /api/system/status payload.
type SystemStatusResponse struct {
	Status      string         `json:"status"`
	UptimeHours float64        `json:"uptime_hours"`
	CPUPercent  float64        `json:"cpu_percent"`
	RAMPercent  float64        `json:"ram_percent"`
	Goroutines  int            `json:"goroutines"`
	Snapshot    *snapshot.Meta `json:"snapshot"` // nil when nothing is cached
	Jobs        []string       `json:"jobs"`
}

// HandleSystemStatus returns process and host health plus cache state.
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	resp := SystemStatusResponse{
		Status:      "running",
		UptimeHours: time.Since(h.startedAt).Hours(),
		Goroutines:  runtime.NumGoroutine(),
		Snapshot:    h.snapshots.Info(),
		Jobs:        h.scheduler.JobNames(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		resp.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.RAMPercent = vm.UsedPercent
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleTriggerSnapshotRefresh runs the refresh job immediately.
// POST /api/jobs/snapshot-refresh
func (h *SystemHandlers) HandleTriggerSnapshotRefresh(w http.ResponseWriter, r *http.Request) {
	h.log.Info().Msg("Manual snapshot refresh triggered")

	if err := h.scheduler.RunNow("snapshot-refresh"); err != nil {
		h.log.Error().Err(err).Msg("Failed to refresh snapshot")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Snapshot refreshed",
	})
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
