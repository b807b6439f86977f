package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scl-host/sclindexer/internal/config"
)

func TestWriteJSON_SetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	writeJSON(rec, http.StatusCreated, map[string]int{"n": 1})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["n"] != 1 {
		t.Errorf("body = %+v, want n=1", body)
	}
}

func TestWriteCommandError_MapsTaxonomyToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"payload grammar", config.ErrPayloadGrammar, http.StatusBadRequest, config.ErrorPayloadGrammar},
		{"chain unavailable", config.ErrChainUnavailable, http.StatusServiceUnavailable, config.ErrorChainUnavailable},
		{"commitment mismatch", config.ErrCommitmentMismatch, http.StatusAccepted, config.ErrorValidationPending},
		{"not confirmed", config.ErrNotConfirmed, http.StatusAccepted, config.ErrorValidationPending},
		{"decryption failed", config.ErrDecryptionFailed, http.StatusAccepted, config.ErrorValidationPending},
		{"unknown contract", config.ErrUnknownContract, http.StatusNotFound, config.ErrorContractNotFound},
		{"io error", config.ErrIO, http.StatusInternalServerError, config.ErrorIO},
		{"unclassified", errors.New("boom"), http.StatusConflict, config.ErrorStateConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeCommandError(rec, fmt.Errorf("wrapped: %w", tt.err))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body apiError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
		})
	}
}
