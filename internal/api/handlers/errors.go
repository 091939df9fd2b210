// Package handlers holds the gin handlers of the viewer API.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"poiviewer/internal/bridge"
	"poiviewer/internal/catalog"
	"poiviewer/internal/domain/entities"
	"poiviewer/internal/logging"
	"poiviewer/internal/repository"
	"poiviewer/internal/services"
)

// respondError maps domain errors to HTTP status codes.
//
// Go Learning Note — errors.Is:
// Errors are wrapped with fmt.Errorf("...: %w", err) on their way up, so a
// plain == comparison against a sentinel would miss them. errors.Is walks
// the wrap chain.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrPOINotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidCoordinate), errors.Is(err, bridge.ErrInvalidOutcome):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNoSelection), errors.Is(err, bridge.ErrNoPendingPrompt):
		status = http.StatusConflict
	case errors.Is(err, services.ErrSessionClosed):
		status = http.StatusGone
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
