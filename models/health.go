package models

import "time"

const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"

	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
)

// Health is the liveness report served by /api/health.
type Health struct {
	Status      string       `json:"status"`
	Timestamp   time.Time    `json:"timestamp"`
	Uptime      float64      `json:"uptime"`
	Environment string       `json:"environment"`
	Version     string       `json:"version"`
	Database    string       `json:"database"`
	Memory      HealthMemory `json:"memory"`
}

// HealthMemory mirrors the Go runtime heap statistics, in megabytes.
type HealthMemory struct {
	HeapAllocMB  float64 `json:"heapAllocMB"`
	HeapSysMB    float64 `json:"heapSysMB"`
	NumGoroutine int     `json:"numGoroutine"`
}

// Healthy reports whether every dependency is reachable.
func (h Health) Healthy() bool {
	return h.Status == HealthStatusOK
}
