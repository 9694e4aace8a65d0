package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/banan-inc/agenthq/utils/log"
)

const genericErrorMessage = "An error occurred while processing your request"

// ErrorHandler converts every uncaught error into a JSON error object.
// Handler-raised HTTP errors keep their status; anything else is a 500 with
// a generic message so provider details never leak to the caller.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := genericErrorMessage
	if httpErr, ok := err.(*echo.HTTPError); ok {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	log.WithCtx(c.Request().Context()).Error("request failed",
		zap.Int("status", code), zap.Error(err))

	if jsonErr := c.JSON(code, map[string]string{"error": message}); jsonErr != nil {
		log.WithCtx(c.Request().Context()).Error("failed to write error response", zap.Error(jsonErr))
	}
}
