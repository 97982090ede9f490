// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/niichapats/ku-polls/db"
	"github.com/niichapats/ku-polls/middleware"
)

// Lifecycle reports where the process is in its startup sequence.
type Lifecycle interface {
	Serving() bool
	Phase() string
}

// ReadyResponse is the body of GET /ready
type ReadyResponse struct {
	Status string           `json:"status"`
	Phase  string           `json:"phase"`
	Checks []db.ProbeResult `json:"checks"`
}

type HealthHandler struct {
	lifecycle Lifecycle
	probe     *db.Probe
	timeout   time.Duration
}

func NewHealthHandler(lifecycle Lifecycle, probe *db.Probe) *HealthHandler {
	return &HealthHandler{lifecycle: lifecycle, probe: probe, timeout: 2 * time.Second}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Ready handles GET /ready
// Ready only once migrations have finished and the database answers.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Phase: h.lifecycle.Phase(), Checks: []db.ProbeResult{}}
	ok := h.lifecycle.Serving()

	if h.probe != nil {
		result := h.probe.Check(ctx)
		resp.Checks = append(resp.Checks, result)
		ok = ok && result.OK
	}

	status := http.StatusOK
	if !ok {
		resp.Status = "not ready"
		status = http.StatusServiceUnavailable
	}
	middleware.JSONResponse(w, status, resp)
}
