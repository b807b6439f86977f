package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/scl-host/sclindexer/internal/config"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
 slog.Error("failed to write JSON response", "error", err)
	}
}

type apiError struct {
	Error apiErrorDetail `json:"error"`
}

type apiErrorDetail struct {
	Code string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a JSON error response in the standard envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: apiErrorDetail{Code: code, Message: message}})
}

// writeCommandError classifies err against the logical error taxonomy and
// writes the matching HTTP status/code, the way every read endpoint and the
// command submission endpoint report failures.
func writeCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, config.ErrPayloadGrammar):
 writeError(w, http.StatusBadRequest, config.ErrorPayloadGrammar, err.Error())
	case errors.Is(err, config.ErrChainUnavailable):
 writeError(w, http.StatusServiceUnavailable, config.ErrorChainUnavailable, err.Error())
	case errors.Is(err, config.ErrCommitmentMismatch),
 errors.Is(err, config.ErrNotConfirmed),
 errors.Is(err, config.ErrDecryptionFailed):
 writeError(w, http.StatusAccepted, config.ErrorValidationPending, err.Error())
	case errors.Is(err, config.ErrUnknownContract):
 writeError(w, http.StatusNotFound, config.ErrorContractNotFound, err.Error())
	case errors.Is(err, config.ErrIO):
 writeError(w, http.StatusInternalServerError, config.ErrorIO, err.Error())
	default:
 writeError(w, http.StatusConflict, config.ErrorStateConflict, err.Error())
	}
}
