package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pollsvc/internal/domain"
	apperrors "pollsvc/pkg/errors"
)

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   apperrors.ErrorType
	}{
		{"poll not found", domain.ErrPollNotFound, http.StatusNotFound, apperrors.ErrorTypeNotFound},
		{"option not found", domain.ErrOptionNotFound, http.StatusBadRequest, apperrors.ErrorTypeValidation},
		{"option poll mismatch", domain.ErrOptionPollMismatch, http.StatusBadRequest, apperrors.ErrorTypeValidation},
		{"poll inactive", domain.ErrPollInactive, http.StatusBadRequest, apperrors.ErrorTypeValidation},
		{"poll expired", domain.ErrPollExpired, http.StatusBadRequest, apperrors.ErrorTypeValidation},
		{"duplicate vote", domain.ErrDuplicateVote, http.StatusBadRequest, apperrors.ErrorTypeValidation},
		{"app error passes through", apperrors.NewRateLimitError("slow down"), http.StatusTooManyRequests, apperrors.ErrorTypeRateLimit},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, apperrors.ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp apperrors.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if resp.Error.Type != tt.wantType {
				t.Errorf("type = %q, want %q", resp.Error.Type, tt.wantType)
			}
			if resp.Error.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestRespondErrorWrappedSentinel(t *testing.T) {
	// Sentinels survive wrapping with context.
	wrapped := errors.Join(errors.New("while casting vote"), domain.ErrDuplicateVote)

	rec := httptest.NewRecorder()
	respondError(rec, wrapped)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
