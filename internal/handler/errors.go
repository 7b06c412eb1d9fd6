package handler

import (
	"errors"
	"net/http"

	"digital-key-store/internal/dto"
	"digital-key-store/internal/model"
	"digital-key-store/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorStatus translates a domain error into the HTTP status and client
// message. Unknown errors become a generic 500.
func ErrorStatus(err error) (int, string) {
	var validation *model.ValidationError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, model.ErrUnknownProduct):
		return http.StatusBadRequest, "Invalid productId"
	case errors.Is(err, model.ErrProductNotFound):
		return http.StatusBadRequest, "Product not found"
	case errors.Is(err, model.ErrInsufficientStock):
		return http.StatusBadRequest, "Not enough stock"
	case errors.Is(err, model.ErrOrderNotFound):
		return http.StatusNotFound, "Order not found"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.As(err, &httpErr):
		if httpErr.Code >= http.StatusInternalServerError {
			return httpErr.Code, "Server error"
		}
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, msg
		}
		return httpErr.Code, http.StatusText(httpErr.Code)
	default:
		return http.StatusInternalServerError, "Server error"
	}
}

// NewHTTPErrorHandler renders every handler error as {ok:false, message}.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := ErrorStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, &dto.ErrorResponse{OK: false, Message: message})
		}
		if err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}
