// Package handlers implements HTTP handlers for the listing-notifier API.
package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// StatusResponse is the body of the health and readiness probes.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// Pinger reports whether the seen-set store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s Pinger) *HealthHandler {
	return &HealthHandler{store: s}
}

// Healthz returns 200 if the process is running.
//
// @Summary Liveness check
// @Description Returns 200 if the process is running.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if the seen-set store is reachable, 503 otherwise.
//
// @Summary Readiness check
// @Description Returns 200 if the seen-set store is reachable, 503 otherwise.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} StatusResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(
			http.StatusServiceUnavailable,
			StatusResponse{Status: "unavailable"},
		)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
