package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pollsvc/internal/domain"
	"pollsvc/internal/service"
	apperrors "pollsvc/pkg/errors"
	"pollsvc/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// PollHandler exposes the poll lifecycle endpoints.
type PollHandler struct {
	pollService *service.PollService
	logger      *logger.Logger
}

func NewPollHandler(pollService *service.PollService, logger *logger.Logger) *PollHandler {
	return &PollHandler{pollService: pollService, logger: logger}
}

// List handles GET /api/polls
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	polls, err := h.pollService.ListPolls(r.Context(), page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("failed to list polls")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, polls)
}

// Create handles POST /api/polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, apperrors.NewValidationError("Invalid request body", nil))
		return
	}

	detail, err := h.pollService.CreatePoll(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, detail)
}

// Get handles GET /api/polls/{pollID}
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	detail, err := h.pollService.GetPoll(r.Context(), pollID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// Update handles PATCH /api/polls/{pollID}
func (h *PollHandler) Update(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	var req domain.UpdatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, apperrors.NewValidationError("Invalid request body", nil))
		return
	}

	detail, err := h.pollService.UpdatePoll(r.Context(), pollID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// Delete handles DELETE /api/polls/{pollID}
func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	if err := h.pollService.DeletePoll(r.Context(), pollID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pollIDParam parses the poll id from the URL; a non-numeric id is treated
// the same as an absent poll.
func pollIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	pollID, err := strconv.ParseInt(chi.URLParam(r, "pollID"), 10, 64)
	if err != nil {
		respondAppError(w, apperrors.NewNotFoundError("Poll not found."))
		return 0, false
	}
	return pollID, true
}
