package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"pollsvc/internal/domain"
	"pollsvc/internal/identity"
	"pollsvc/internal/middleware"
	"pollsvc/internal/service"
	apperrors "pollsvc/pkg/errors"
	"pollsvc/pkg/logger"
)

// SessionCookieName carries the anonymous voter session token.
const SessionCookieName = "voter_session"

// VotingHandler exposes vote casting, result reads, and the has-voted probe.
type VotingHandler struct {
	votingService *service.VotingService
	resolver      *identity.Resolver
	sessionTTL    time.Duration
	logger        *logger.Logger
}

func NewVotingHandler(votingService *service.VotingService, resolver *identity.Resolver, sessionTTL time.Duration, logger *logger.Logger) *VotingHandler {
	return &VotingHandler{
		votingService: votingService,
		resolver:      resolver,
		sessionTTL:    sessionTTL,
		logger:        logger,
	}
}

// Vote handles POST /api/polls/{pollID}/vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	var req domain.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, apperrors.NewValidationError("Invalid request body", nil))
		return
	}
	if req.OptionID <= 0 {
		respondAppError(w, apperrors.NewValidationError("Invalid option ID.", map[string]interface{}{
			"option_id": "This field is required.",
		}))
		return
	}

	voter := h.resolveVoter(w, r)

	vote, err := h.votingService.CastVote(r.Context(), pollID, req.OptionID, voter)
	if err != nil {
		respondError(w, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"poll_id":   pollID,
		"option_id": req.OptionID,
	}).Info("vote recorded")

	respondJSON(w, http.StatusCreated, &domain.VoteResponse{
		Message:  "Vote cast successfully",
		PollID:   vote.PollID,
		OptionID: vote.OptionID,
		VotedAt:  vote.VotedAt,
	})
}

// Results handles GET /api/polls/{pollID}/results
func (h *VotingHandler) Results(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	results, err := h.votingService.GetResults(r.Context(), pollID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// HasVoted handles GET /api/polls/{pollID}/has_voted
func (h *VotingHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	voter := h.resolveVoter(w, r)

	hasVoted, err := h.votingService.HasVoted(r.Context(), pollID, voter)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &domain.HasVotedResponse{
		HasVoted:        hasVoted,
		VoterIdentifier: voter,
	})
}

// resolveVoter derives the voter identifier for this request and, when a new
// session token was allocated, hands it back to the client as a cookie.
func (h *VotingHandler) resolveVoter(w http.ResponseWriter, r *http.Request) string {
	sig := identity.Signals{
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
		RemoteAddr:   r.RemoteAddr,
	}

	if user, ok := r.Context().Value(middleware.UserContextKey).(*domain.UserProfile); ok && user != nil {
		sig.UserID = user.Sub
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		sig.SessionToken = cookie.Value
	}

	res := h.resolver.Resolve(r.Context(), sig)

	if res.NewSession {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    res.SessionToken,
			Path:     "/",
			MaxAge:   int(h.sessionTTL / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return res.Identifier
}
