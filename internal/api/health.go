package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"solana-token-scanner/internal/storage"
)

// SlotReader reads the current slot of a Solana node.
type SlotReader interface {
	GetSlot(ctx context.Context) (int64, error)
}

// rpcChecker adapts a SlotReader to storage.HealthChecker.
type rpcChecker struct {
	rpc SlotReader
}

func (c rpcChecker) HealthCheck(ctx context.Context) error {
	_, err := c.rpc.GetSlot(ctx)
	return err
}

// HealthHandler handles health check requests
type HealthHandler struct {
	checks map[string]storage.HealthChecker
	events storage.LookupEventStore
	start  time.Time
	now    func() time.Time
}

// NewHealthHandler creates a new health handler. checks are probed by /ready;
// events, when set, backs /status.
func NewHealthHandler(rpc SlotReader, checks map[string]storage.HealthChecker, events storage.LookupEventStore) *HealthHandler {
	all := make(map[string]storage.HealthChecker, len(checks)+1)
	for name, c := range checks {
		if c != nil {
			all[name] = c
		}
	}
	if rpc != nil {
		all["solana_rpc"] = rpcChecker{rpc: rpc}
	}
	return &HealthHandler{
		checks: all,
		events: events,
		start:  time.Now(),
		now:    time.Now,
	}
}

// HealthResponse represents the readiness response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status   string           `json:"status"`
	Uptime   string           `json:"uptime"`
	Lookups  map[string]int64 `json:"lookups_24h"`
	Services []string         `json:"services"`
}

// Health handles GET /health (liveness)
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /ready. Every dependency must answer within the timeout.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "ready",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string, len(h.checks)),
	}

	for name, c := range h.checks {
		if err := c.HealthCheck(ctx); err != nil {
			response.Status = "unavailable"
			response.Services[name] = "unhealthy: " + err.Error()
		} else {
			response.Services[name] = "healthy"
		}
	}

	status := http.StatusOK
	if response.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, response)
}

// Status handles GET /status
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:   "running",
		Uptime:   h.now().Sub(h.start).Truncate(time.Second).String(),
		Lookups:  map[string]int64{},
		Services: make([]string, 0, len(h.checks)),
	}
	for name := range h.checks {
		resp.Services = append(resp.Services, name)
	}
	sort.Strings(resp.Services)

	if h.events != nil {
		since := h.now().Add(-24 * time.Hour).UnixMilli()
		counts, err := h.events.CountByOutcome(r.Context(), since)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to count lookups")
			return
		}
		resp.Lookups = counts
	}

	respondJSON(w, http.StatusOK, resp)
}
