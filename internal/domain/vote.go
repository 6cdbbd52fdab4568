package domain

import (
	"time"
)

// Vote is one (poll, option, voter identity) record. Uniqueness is keyed on
// (poll, voter identifier), not (poll, option, voter identifier).
type Vote struct {
	ID              int64     `json:"id"`
	PollID          int64     `json:"poll_id"`
	OptionID        int64     `json:"option_id"`
	VoterIdentifier string    `json:"voter_identifier"`
	VotedAt         time.Time `json:"voted_at"`
}

// VoteRequest is the body of a vote submission. The voter identifier is
// resolved server-side, never supplied by the caller.
type VoteRequest struct {
	OptionID int64 `json:"option_id"`
}

// VoteResponse is returned after a successful vote.
type VoteResponse struct {
	Message  string    `json:"message"`
	PollID   int64     `json:"poll_id"`
	OptionID int64     `json:"option_id"`
	VotedAt  time.Time `json:"voted_at"`
}

// HasVotedResponse reports whether the resolved voter has voted in a poll.
type HasVotedResponse struct {
	HasVoted        bool   `json:"has_voted"`
	VoterIdentifier string `json:"voter_identifier"`
}

// OptionCount pairs an option with its aggregated vote count. Produced by a
// single aggregate query per poll.
type OptionCount struct {
	Option Option
	Count  int
}

// OptionResult is one option's share of a poll's results.
type OptionResult struct {
	ID         int64   `json:"id"`
	Text       string  `json:"text"`
	VoteCount  int     `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

// PollResults is the aggregated results document for a poll. Percentages are
// rounded independently per option and are not renormalized, so they may not
// sum to exactly 100.00.
type PollResults struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	TotalVotes  int            `json:"total_votes"`
	IsExpired   bool           `json:"is_expired"`
	Options     []OptionResult `json:"options"`
}

// UserProfile is the authenticated principal extracted from a bearer token.
type UserProfile struct {
	Sub   string `json:"sub"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}
