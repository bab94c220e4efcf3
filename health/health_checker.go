// Package health provides health checking functionality for the prescription API.
package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/giygas/mediscript-api/interfaces"
)

const (
	ServiceName    = "MediScript Pro Backend"
	ServiceVersion = "1.0.0"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store     interfaces.MedicineStore
	startTime time.Time
	now       func() time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(store interfaces.MedicineStore, startTime time.Time) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		store:     store,
		startTime: startTime,
		now:       time.Now,
	}
}

// HealthCheck always reports healthy: the catalog lives in memory and cannot be unavailable
func (h *HealthCheckerImpl) HealthCheck() map[string]any {
	now := h.now()

	return map[string]any{
		"status":         "healthy",
		"timestamp":      now.UTC().Format("2006-01-02T15:04:05.000Z"),
		"service":        ServiceName,
		"version":        ServiceVersion,
		"uptime":         formatUptimeHuman(now.Sub(h.startTime)),
		"medicine_count": h.store.Count(),
	}
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
