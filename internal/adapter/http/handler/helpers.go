package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/propledger/propledger/internal/adapter/http/dto"
	"github.com/propledger/propledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrReconciliationNotFound),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, domain.ErrVendorNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountAlreadyExists),
		errors.Is(err, domain.ErrEntryAlreadyVoid),
		errors.Is(err, domain.ErrTransferNotPending),
		errors.Is(err, domain.ErrReconciliationFinalized),
		errors.Is(err, domain.ErrLineAlreadyMatched),
		errors.Is(err, domain.ErrLineMismatch):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidSide),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrAccountCodeRequired),
		errors.Is(err, domain.ErrLeaseRequired),
		errors.Is(err, domain.ErrExpenseAccountRequired),
		errors.Is(err, domain.ErrUnbalancedPair),
		errors.Is(err, domain.ErrUnknownAccount),
		errors.Is(err, domain.ErrAccountInactive):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseTimeQuery parses an RFC 3339 time query parameter. A missing or
// malformed value returns the default.
func parseTimeQuery(r *http.Request, key string, defaultValue time.Time) time.Time {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return defaultValue
	}
	return t
}

// actor returns the acting user recorded in audit trails and postings.
// Callers identify themselves with the X-Actor header.
func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return "system"
}
