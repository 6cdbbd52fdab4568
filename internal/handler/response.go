package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pollsvc/internal/domain"
	apperrors "pollsvc/pkg/errors"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	response := &apperrors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, response)
}

// respondError maps a service error onto the HTTP boundary. Admission errors
// each keep a distinct message but all land in the 400 category; unexpected
// failures surface as opaque 500s.
func respondError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		respondAppError(w, appErr)
		return
	}

	switch {
	case errors.Is(err, domain.ErrPollNotFound):
		respondAppError(w, apperrors.NewNotFoundError("Poll not found."))
	case errors.Is(err, domain.ErrOptionNotFound):
		respondAppError(w, apperrors.NewValidationError("Invalid option ID.", nil))
	case errors.Is(err, domain.ErrOptionPollMismatch):
		respondAppError(w, apperrors.NewValidationError("This option does not belong to the specified poll.", nil))
	case errors.Is(err, domain.ErrPollInactive):
		respondAppError(w, apperrors.NewValidationError("This poll is not active.", nil))
	case errors.Is(err, domain.ErrPollExpired):
		respondAppError(w, apperrors.NewValidationError("This poll has expired.", nil))
	case errors.Is(err, domain.ErrDuplicateVote):
		respondAppError(w, apperrors.NewValidationError("You have already voted in this poll.", nil))
	default:
		respondAppError(w, apperrors.NewInternalError("Internal server error", err))
	}
}
