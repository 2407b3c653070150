package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/parlor-chat/parlor/internal/dispatch"
)

// MemoryStats is a compact view of runtime memory usage.
type MemoryStats struct {
	AllocBytes uint64 `json:"allocBytes"`
	SysBytes   uint64 `json:"sysBytes"`
	NumGC      uint32 `json:"numGC"`
	Goroutines int    `json:"goroutines"`
}

// StatsResponse represents the GET /stats response.
type StatsResponse struct {
	Router dispatch.Stats `json:"router"`
	Uptime string         `json:"uptime"`
	Memory MemoryStats    `json:"memory"`
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h.JSON(w, http.StatusOK, StatsResponse{
		Router: h.router.Stats(),
		Uptime: time.Since(h.startedAt).Round(time.Second).String(),
		Memory: MemoryStats{
			AllocBytes: m.Alloc,
			SysBytes:   m.Sys,
			NumGC:      m.NumGC,
			Goroutines: runtime.NumGoroutine(),
		},
	})
}
