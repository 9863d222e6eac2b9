package api

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports the health of each named dependency.
type Pinger func(ctx context.Context) map[string]error

type HealthHandler struct {
	ping    Pinger
	env     string
	version string
}

func NewHealthHandler(ping Pinger, env, version string) *HealthHandler {
	return &HealthHandler{
		ping:    ping,
		env:     env,
		version: version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

// Readiness is "error" when storage is down and "degraded" when only the
// lock backend is.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string)
	status := "ok"
	for name, err := range h.ping(ctx) {
		if err == nil {
			deps[name] = "ok"
			continue
		}
		deps[name] = "down"
		if name == "storage" {
			status = "error"
		} else if status == "ok" {
			status = "degraded"
		}
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	})
}
