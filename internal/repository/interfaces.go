package repository

import (
	"context"

	"pollsvc/internal/domain"
)

// PollStore defines the interface for poll and option persistence.
type PollStore interface {
	// CreatePoll persists a poll and its options atomically in one
	// transaction, filling in generated ids and timestamps.
	CreatePoll(ctx context.Context, poll *domain.Poll, options []domain.Option) error

	// GetPoll retrieves a poll by id. Returns (nil, nil) when absent.
	GetPoll(ctx context.Context, id int64) (*domain.Poll, error)

	// GetPollOptions retrieves a poll's options in display order, ties
	// broken by id.
	GetPollOptions(ctx context.Context, pollID int64) ([]domain.Option, error)

	// UpdatePoll persists the poll's own mutable fields. Returns false
	// when the poll does not exist.
	UpdatePoll(ctx context.Context, poll *domain.Poll) (bool, error)

	// DeletePoll removes a poll; options and votes cascade. Returns false
	// when the poll does not exist.
	DeletePoll(ctx context.Context, id int64) (bool, error)

	// ListPolls returns one page of polls, newest first, plus the total count.
	ListPolls(ctx context.Context, limit, offset int) ([]domain.Poll, int, error)
}

// VoteStore defines the interface for vote admission and aggregation.
type VoteStore interface {
	// GetOption retrieves an option by id. Returns (nil, nil) when absent.
	GetOption(ctx context.Context, id int64) (*domain.Option, error)

	// GetPoll retrieves a poll by id. Returns (nil, nil) when absent.
	GetPoll(ctx context.Context, id int64) (*domain.Poll, error)

	// HasVoted reports whether a vote exists for (poll, voter identifier).
	HasVoted(ctx context.Context, pollID int64, voterIdentifier string) (bool, error)

	// CreateVote inserts a vote, filling in id and timestamp. Returns
	// domain.ErrDuplicateVote when the (poll, voter identifier) uniqueness
	// constraint is violated; the constraint, not the caller's pre-check,
	// is the authoritative duplicate guard.
	CreateVote(ctx context.Context, vote *domain.Vote) error

	// CountVotesByOption returns per-option vote counts for a poll from a
	// single aggregate query, in display order.
	CountVotesByOption(ctx context.Context, pollID int64) ([]domain.OptionCount, error)
}
