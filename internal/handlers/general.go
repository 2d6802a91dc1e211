package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/ytakahashi/todo-api/internal/services"
)

const greeting = "Hello from Minimal API"

// Greeting godoc
//
//	@Summary		Greeting
//	@Description	Plain-text greeting, useful as a liveness check.
//	@Tags			general
//	@Produce		plain
//	@Success		200	{string}	string
//	@Router			/ [get]
func Greeting(c echo.Context) error {
	return c.String(http.StatusOK, greeting)
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type HealthHandler struct {
	store services.ItemStore
}

func NewHealthHandler(store services.ItemStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check godoc
//
//	@Summary	Database health
//	@Tags		general
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("database ping failed")
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
