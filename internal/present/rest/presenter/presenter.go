package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func BadRequest(c echo.Context, err error) error {
	slog.DebugContext(c.Request().Context(), "bad request", slog.String("error", err.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	slog.DebugContext(c.Request().Context(), "bad request", slog.String("error", msg), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// ValidationFailed renders field errors as {field: [messages]}.
func ValidationFailed(c echo.Context, verr *domain.ValidationError) error {
	slog.DebugContext(c.Request().Context(), "validation failed", slog.String("error", verr.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, verr.Fields)
}

func TransitionRefused(c echo.Context, terr *domain.InvalidTransitionError) error {
	status := http.StatusBadRequest
	if terr.Forbidden {
		status = http.StatusForbidden
	}
	slog.InfoContext(
		c.Request().Context(), "transition refused",
		slog.String("error", terr.Message),
		slog.Int("status", status),
		slog.String("module", "rest"),
	)
	return c.JSON(status, messageResponse{Message: terr.Message})
}

func NotFound(c echo.Context, msg string) error {
	slog.DebugContext(c.Request().Context(), "not found", slog.String("error", msg), slog.String("module", "rest"))
	return c.JSON(http.StatusNotFound, detailResponse{Detail: msg})
}

func Unauthorized(c echo.Context, msg string) error {
	slog.DebugContext(c.Request().Context(), "unauthorized", slog.String("error", msg), slog.String("module", "rest"))
	return c.JSON(http.StatusUnauthorized, detailResponse{Detail: msg})
}

func InternalError(c echo.Context, err error) error {
	ctx := c.Request().Context()
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	slog.ErrorContext(
		ctx, "internal error",
		slog.String("error", err.Error()),
		slog.String("trace_id", span.SpanContext().TraceID().String()),
		slog.String("module", "rest"),
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// Error maps a usecase error onto its response.
func Error(c echo.Context, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return ValidationFailed(c, verr)
	}
	var terr *domain.InvalidTransitionError
	if errors.As(err, &terr) {
		return TransitionRefused(c, terr)
	}
	var aerr domain.AuthExpiredError
	if errors.As(err, &aerr) {
		return Unauthorized(c, aerr.Error())
	}
	if errors.Is(err, domain.ErrNotFound) {
		return NotFound(c, "Not found.")
	}
	return InternalError(c, err)
}
