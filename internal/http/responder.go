package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/hotel-occupancy/internal/application"
)

var (
	errBadRequestBody = errors.New("request body is not valid JSON")
	errPanic          = errors.New("handler panicked")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	return responder{logger: defaultLogger(logger)}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError answers with a plain error body. Server side failures never leak their cause.
func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" && status < http.StatusInternalServerError {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "validation",
			Message:   statusMessage(http.StatusUnprocessableEntity),
			Errors:    vErr.FieldErrors,
		})
		return
	}

	kind := application.ErrorKind(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		r.writeJSON(ctx, w, status, errorResponse{Message: statusMessage(status)})
		return
	}
	r.writeJSON(ctx, w, status, errorResponse{ErrorCode: kind, Message: err.Error()})
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusForKind(kind string) int {
	switch kind {
	case "room_not_found", "booking_not_found":
		return http.StatusNotFound
	case "invalid_period", "invalid_guest", "invalid_room_number", "invalid_capacity", "invalid_expense":
		return http.StatusUnprocessableEntity
	case "persistence", "corrupt_record", "unexpected":
		return http.StatusInternalServerError
	default:
		return http.StatusConflict
	}
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "the request could not be understood"
	case http.StatusNotFound:
		return "the requested resource does not exist"
	case http.StatusConflict:
		return "the request conflicts with the current state of the room"
	case http.StatusUnprocessableEntity:
		return "the request contains invalid values"
	default:
		return "internal server error"
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
