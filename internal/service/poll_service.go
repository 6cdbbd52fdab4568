package service

import (
	"context"
	"fmt"

	"pollsvc/internal/domain"
	"pollsvc/internal/repository"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PollService owns the poll lifecycle: create, read, edit, delete.
type PollService struct {
	polls  repository.PollStore
	logger *zap.Logger
}

func NewPollService(polls repository.PollStore, logger *zap.Logger) *PollService {
	return &PollService{polls: polls, logger: logger}
}

// CreatePoll validates and persists a poll with its options atomically.
// Fewer than two options is a validation failure, never a partial create.
func (s *PollService) CreatePoll(ctx context.Context, req *domain.CreatePollRequest) (*domain.PollDetail, error) {
	if appErr := domain.ValidateCreatePoll(req); appErr != nil {
		return nil, appErr
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	poll := &domain.Poll{
		Title:       req.Title,
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
		IsActive:    isActive,
	}

	options := make([]domain.Option, 0, len(req.Options))
	for _, opt := range req.Options {
		options = append(options, domain.Option{
			Text:         opt.Text,
			DisplayOrder: opt.Order,
		})
	}

	if err := s.polls.CreatePoll(ctx, poll, options); err != nil {
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}

	s.logger.Info("poll created",
		zap.Int64("poll_id", poll.ID),
		zap.Int("options", len(options)))

	return domain.NewPollDetail(poll, options), nil
}

// GetPoll returns the poll detail with options in display order.
func (s *PollService) GetPoll(ctx context.Context, id int64) (*domain.PollDetail, error) {
	poll, err := s.polls.GetPoll(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}

	options, err := s.polls.GetPollOptions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}

	return domain.NewPollDetail(poll, options), nil
}

// UpdatePoll applies a partial update to the poll's own fields. Options and
// votes are never touched by an edit.
func (s *PollService) UpdatePoll(ctx context.Context, id int64, req *domain.UpdatePollRequest) (*domain.PollDetail, error) {
	if appErr := domain.ValidateUpdatePoll(req); appErr != nil {
		return nil, appErr
	}

	poll, err := s.polls.GetPoll(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}

	if req.Title != nil {
		poll.Title = *req.Title
	}
	if req.Description != nil {
		poll.Description = *req.Description
	}
	if req.ExpiresAt != nil {
		poll.ExpiresAt = req.ExpiresAt
	}
	if req.IsActive != nil {
		poll.IsActive = *req.IsActive
	}

	ok, err := s.polls.UpdatePoll(ctx, poll)
	if err != nil {
		return nil, fmt.Errorf("failed to update poll: %w", err)
	}
	if !ok {
		return nil, domain.ErrPollNotFound
	}

	options, err := s.polls.GetPollOptions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}

	return domain.NewPollDetail(poll, options), nil
}

// DeletePoll removes a poll; its options and votes cascade. Irreversible.
func (s *PollService) DeletePoll(ctx context.Context, id int64) error {
	ok, err := s.polls.DeletePoll(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if !ok {
		return domain.ErrPollNotFound
	}

	s.logger.Info("poll deleted", zap.Int64("poll_id", id))
	return nil
}

// ListPolls returns one page of polls, newest first.
func (s *PollService) ListPolls(ctx context.Context, page, pageSize int) (*domain.PollListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	polls, total, err := s.polls.ListPolls(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}

	items := make([]domain.PollListItem, 0, len(polls))
	for i := range polls {
		items = append(items, domain.NewPollListItem(&polls[i]))
	}

	return &domain.PollListResponse{
		Count:    total,
		Page:     page,
		PageSize: pageSize,
		Results:  items,
	}, nil
}
