package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moogar0880/problems"

	"bitversity/internal/pkg/errs"
)

const problemContentType = "application/problem+json"

// problemFor classifies err into a status code and a problem type.
func problemFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrIllegalTransition):
		return http.StatusConflict, "illegal_transition"
	case errors.Is(err, errs.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict, "concurrent_modification"
	case errors.As(err, &httpErr):
		return httpErr.Code, "http_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// ErrorHandler renders every handler error as an RFC 7807 problem.
// Internal errors are logged and their details are not exposed.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, typ := problemFor(err)
		detail := err.Error()
		var httpErr *echo.HTTPError
		switch {
		case status == http.StatusInternalServerError:
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err)
			detail = "internal error"
		case errors.As(err, &httpErr):
			detail = fmt.Sprint(httpErr.Message)
		}

		problem := problems.NewStatusProblem(status).
			WithInstance(c.Request().URL.Path).
			WithType(typ).
			WithDetail(detail)

		c.Response().Header().Set(echo.HeaderContentType, problemContentType)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, problem)
	}
}
