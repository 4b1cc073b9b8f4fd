package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"brainbuzz/internal/domain"
)

type errorPayload struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, errorPayload{Message: message}, status)
}

// respondErr maps a use-case error onto an HTTP status.
func respondErr(w http.ResponseWriter, err error) {
	respondError(w, publicMessage(err), errorStatus(err))
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound),
		errors.Is(err, domain.ErrUnknownBoard),
		errors.Is(err, domain.ErrPlayNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrBankNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrEmptyBank):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// publicMessage hides infrastructure details behind a generic message.
func publicMessage(err error) string {
	if errorStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	for _, sentinel := range []error{
		domain.ErrGameNotFound, domain.ErrUnknownBoard, domain.ErrPlayNotFound,
		domain.ErrProfileNotFound, domain.ErrBankNotFound, domain.ErrUnauthenticated,
		domain.ErrInvalidCredentials, domain.ErrAccountExists, domain.ErrUnsupported,
		domain.ErrEmptyBank,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
