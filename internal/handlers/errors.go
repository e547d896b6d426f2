package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"aprende/internal/contextutil"
	"aprende/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	// Details carries the full error chain in development only.
	Details string `json:"details,omitempty"`
}

// writeJSON writes v with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	enc := json.NewEncoder(w)
	// Rendered chat HTML is returned verbatim.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	writeJSON(ctx, w, statusCode, ErrorResponse{Error: message})
}

// decodeBody decodes a JSON request body into v.
// It writes the error response itself and reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	ctx := r.Context()
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)

	if isBodyTooLarge(err) {
		writeError(ctx, w, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	writeError(ctx, w, http.StatusBadRequest, "Invalid input")
	return false
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
// When showDetails is set, 5xx responses include the error chain.
func handleServiceError(ctx context.Context, w http.ResponseWriter, err error, defaultMsg string, showDetails bool) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "validation error", "field", validationErr.Field, "error", validationErr.Message)
		writeError(ctx, w, http.StatusBadRequest, validationErr.Field+" "+validationErr.Message)
		return
	}

	// Check for wrapped errors
	if errors.Is(err, service.ErrInvalidInput) {
		logger.WarnContext(ctx, "invalid input", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(ctx, w, http.StatusNotFound, "Resource not found")
		return
	}

	logger.ErrorContext(ctx, "service error", "error", err)

	resp := ErrorResponse{Error: defaultMsg}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrExternalService):
		status = http.StatusBadGateway
		resp.Error = "External service error"
	case errors.Is(err, service.ErrGenerateResponse):
		resp.Error = "Failed to generate chat response"
	}
	if showDetails {
		resp.Details = err.Error()
	}
	writeJSON(ctx, w, status, resp)
}
