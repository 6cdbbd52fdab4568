package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"pollsvc/internal/domain"
	"pollsvc/internal/repository"

	"go.uber.org/zap"
)

// VotingService admits votes and aggregates results.
type VotingService struct {
	votes  repository.VoteStore
	cache  *CacheService
	logger *zap.Logger
}

func NewVotingService(votes repository.VoteStore, cache *CacheService, logger *zap.Logger) *VotingService {
	return &VotingService{
		votes:  votes,
		cache:  cache,
		logger: logger,
	}
}

// CastVote validates and commits a single vote. The validation pipeline
// short-circuits on the first failure, in a fixed order: option exists,
// option belongs to the poll, poll active, poll not expired, no existing
// vote. The duplicate pre-check is an optimization for the common case; the
// storage-layer uniqueness constraint is the correctness guarantee, so a
// constraint violation during the insert resolves to the same duplicate
// error. In-process locking would not help here since multiple service
// instances may run concurrently.
func (s *VotingService) CastVote(ctx context.Context, pollID, optionID int64, voterIdentifier string) (*domain.Vote, error) {
	option, err := s.votes.GetOption(ctx, optionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up option: %w", err)
	}
	if option == nil {
		return nil, domain.ErrOptionNotFound
	}

	if option.PollID != pollID {
		return nil, domain.ErrOptionPollMismatch
	}

	poll, err := s.votes.GetPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up poll: %w", err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}

	if !poll.IsActive {
		return nil, domain.ErrPollInactive
	}

	if poll.IsExpired() {
		return nil, domain.ErrPollExpired
	}

	if s.cache.HasVotedCached(ctx, pollID, voterIdentifier) {
		return nil, domain.ErrDuplicateVote
	}

	voted, err := s.votes.HasVoted(ctx, pollID, voterIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing vote: %w", err)
	}
	if voted {
		s.cache.MarkVoted(ctx, pollID, voterIdentifier)
		return nil, domain.ErrDuplicateVote
	}

	vote := &domain.Vote{
		PollID:          pollID,
		OptionID:        optionID,
		VoterIdentifier: voterIdentifier,
	}

	if err := s.votes.CreateVote(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrDuplicateVote) {
			// Lost the check-then-insert race to a concurrent request
			// from the same identity.
			s.cache.MarkVoted(ctx, pollID, voterIdentifier)
			return nil, domain.ErrDuplicateVote
		}
		return nil, fmt.Errorf("failed to save vote: %w", err)
	}

	s.cache.MarkVoted(ctx, pollID, voterIdentifier)
	s.cache.InvalidateResults(ctx, pollID)

	s.logger.Info("vote cast",
		zap.Int64("poll_id", pollID),
		zap.Int64("option_id", optionID))

	return vote, nil
}

// GetResults computes per-option counts and percentages for a poll. Counts
// come from one aggregate query so the tally is a single consistent read.
func (s *VotingService) GetResults(ctx context.Context, pollID int64) (*domain.PollResults, error) {
	poll, err := s.votes.GetPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up poll: %w", err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}

	if cached, ok := s.cache.GetCachedResults(ctx, pollID); ok {
		return cached, nil
	}

	counts, err := s.votes.CountVotesByOption(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate votes: %w", err)
	}

	results := buildPollResults(poll, counts)
	s.cache.StoreResults(ctx, pollID, results)

	return results, nil
}

// HasVoted reports whether the given voter has already voted in the poll.
func (s *VotingService) HasVoted(ctx context.Context, pollID int64, voterIdentifier string) (bool, error) {
	poll, err := s.votes.GetPoll(ctx, pollID)
	if err != nil {
		return false, fmt.Errorf("failed to look up poll: %w", err)
	}
	if poll == nil {
		return false, domain.ErrPollNotFound
	}

	if s.cache.HasVotedCached(ctx, pollID, voterIdentifier) {
		return true, nil
	}

	voted, err := s.votes.HasVoted(ctx, pollID, voterIdentifier)
	if err != nil {
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	if voted {
		s.cache.MarkVoted(ctx, pollID, voterIdentifier)
	}

	return voted, nil
}

// buildPollResults turns per-option counts into the results document.
// Percentages are rounded to two decimals independently per option; the
// rounded values are not forced to sum to 100.00.
func buildPollResults(poll *domain.Poll, counts []domain.OptionCount) *domain.PollResults {
	totalVotes := 0
	for _, oc := range counts {
		totalVotes += oc.Count
	}

	options := make([]domain.OptionResult, 0, len(counts))
	for _, oc := range counts {
		percentage := 0.0
		if totalVotes > 0 {
			percentage = roundPercentage(float64(oc.Count) / float64(totalVotes) * 100)
		}
		options = append(options, domain.OptionResult{
			ID:         oc.Option.ID,
			Text:       oc.Option.Text,
			VoteCount:  oc.Count,
			Percentage: percentage,
		})
	}

	return &domain.PollResults{
		ID:          poll.ID,
		Title:       poll.Title,
		Description: poll.Description,
		TotalVotes:  totalVotes,
		IsExpired:   poll.IsExpired(),
		Options:     options,
	}
}

func roundPercentage(v float64) float64 {
	return math.Round(v*100) / 100
}
