package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details (server-side)
//   - Returned to clients as user-friendly messages with a support code
//   - Rendered as JSON, or as an HTML alert fragment for htmx requests
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls s.respondError(w, r, err)
//  3. statusFor picks the HTTP status from the sentinel errors
//  4. core.MapError supplies the user message and code
//  5. The technical error is logged with the request id for correlation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/jaarrekening/internal/core"
	"github.com/JonMunkholm/jaarrekening/internal/web/templates"
)

var (
	errRateLimited = errors.New("rate limit exceeded")
	errNoFile      = errors.New("no file provided")
	errInvalid     = errors.New("invalid request")
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, errInvalid),
		errors.Is(err, errNoFile),
		errors.Is(err, core.ErrInvalidYear),
		errors.Is(err, core.ErrInvalidCompany):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrCompanyNotFound), errors.Is(err, core.ErrYearNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrFileTooLarge), errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, core.ErrEmptyDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrUploadBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the mapped response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		err = fmt.Errorf("%w: request body over %d bytes", core.ErrFileTooLarge, tooLarge.Limit)
	}
	status := statusFor(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", core.MapError(err).Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	writeError(w, r, status, err)
}

// writeError renders err without logging it.
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := core.MapError(err)
	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if rerr := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); rerr != nil {
			slog.Error("render error alert", "error", rerr)
		}
		return
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// isHTMX checks if the request is an htmx request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
