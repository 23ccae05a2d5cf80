// System HTTP handlers.
//
// This file exposes the operational endpoints of the service:
//   - GET /health                 (liveness, always 200)
//   - GET /                       (service metadata)
//   - GET /api/v1/                (API version landing)
//   - GET /api/v1/status/zerodb   (data platform reachability)
//
// Handlers are transport-thin: they validate input, call the underlying
// components, and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docflow/go-hr-backend/internal/config"
)

// docsURL points API consumers at the endpoint reference. There is no
// embedded documentation UI; the README is the contract.
const docsURL = "https://github.com/docflow/go-hr-backend#readme"

// PlatformStatus reports reachability of the remote data platform.
//
// Implementations must never fail: an unreachable backend is reported as
// false, not as an error.
type PlatformStatus interface {
	HealthCheck(ctx context.Context) bool
}

// HealthResponse is the liveness payload returned by GET /health.
type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	Version     string `json:"version" example:"1.0.0"`
	Environment string `json:"environment" example:"production"`
	Timestamp   string `json:"timestamp" example:"2025-03-01T12:00:00Z"`
}

// SystemHandlers groups the operational endpoints. It depends on the service
// configuration for metadata and on an abstract platform-status probe so
// transport concerns stay separate from the HTTP client.
type SystemHandlers struct {
	cfg    *config.Config
	status PlatformStatus
}

// NewSystemHandlers constructs SystemHandlers bound to cfg and status.
func NewSystemHandlers(cfg *config.Config, status PlatformStatus) *SystemHandlers {
	return &SystemHandlers{cfg: cfg, status: status}
}

// Health handles GET /health.
//
// Liveness only: it reports that the process is up and serving, without
// probing downstream dependencies, so orchestrators never restart the
// service because the data platform is degraded.
func (h *SystemHandlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Version:     h.cfg.AppVersion,
		Environment: h.cfg.Environment,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Root handles GET / and returns service metadata with pointers to the main
// entry points.
func (h *SystemHandlers) Root(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{
		"name":        h.cfg.AppName,
		"version":     h.cfg.AppVersion,
		"environment": h.cfg.Environment,
		"docs":        docsURL,
		"health":      "/health",
		"api":         h.cfg.APIBasePath + "/",
	})
}

// V1Root handles GET /api/v1/ and returns the API version landing payload.
func (h *SystemHandlers) V1Root(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{
		"message": h.cfg.AppName + " API v1",
		"version": h.cfg.AppVersion,
		"docs":    docsURL,
	})
}

// ZeroDBStatus handles GET /api/v1/status/zerodb.
//
// The probe is bounded by a short timeout independent of the client's
// request deadline so a hung backend cannot stall the status page.
func (h *SystemHandlers) ZeroDBStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := "unhealthy"
	if h.status.HealthCheck(ctx) {
		status = "healthy"
	}
	ok(c, http.StatusOK, gin.H{
		"zerodb":     status,
		"checked_at": time.Now().UTC().Format(time.RFC3339),
	})
}
