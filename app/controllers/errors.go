package controllers

import (
	"errors"
	"net/http"

	"github.com/freshmandi/freshmandi/app/services"
	"github.com/freshmandi/freshmandi/pkg/ctx"
	"github.com/freshmandi/freshmandi/pkg/logger"
)

// respondError maps service-layer sentinel errors to HTTP responses.
// Anything unmapped is a 500 and gets logged with the request context.
func respondError(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		c.NotFound(err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized(err.Error())

	case errors.Is(err, services.ErrEmailTaken):
		c.Error(http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInvalidState):
		c.Error(http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPeriod):
		c.Error(http.StatusUnprocessableEntity, err.Error())

	default:
		logger.WithCtx(c.Context()).Error("unhandled service error",
			"path", c.Path(), "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}
