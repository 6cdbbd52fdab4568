package repository

import (
	"context"
	"fmt"

	"pollsvc/internal/domain"
	"pollsvc/pkg/database"

	"github.com/jackc/pgx/v5"
)

// PollRepository implements PollStore on PostgreSQL.
type PollRepository struct {
	db *database.PostgresDB
}

func NewPollRepository(db *database.PostgresDB) *PollRepository {
	return &PollRepository{db: db}
}

// CreatePoll persists the poll and its options in a single transaction so a
// poll can never exist with a partial option set.
func (r *PollRepository) CreatePoll(ctx context.Context, poll *domain.Poll, options []domain.Option) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO polls (title, description, expires_at, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, poll.Title, poll.Description, poll.ExpiresAt, poll.IsActive).Scan(&poll.ID, &poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	for i := range options {
		options[i].PollID = poll.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO options (poll_id, text, display_order)
			VALUES ($1, $2, $3)
			RETURNING id
		`, options[i].PollID, options[i].Text, options[i].DisplayOrder).Scan(&options[i].ID)
		if err != nil {
			return fmt.Errorf("failed to create option: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit poll creation: %w", err)
	}

	return nil
}

// GetPoll gets a poll by id.
func (r *PollRepository) GetPoll(ctx context.Context, id int64) (*domain.Poll, error) {
	var poll domain.Poll
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, title, description, created_at, expires_at, is_active
		FROM polls
		WHERE id = $1
	`, id).Scan(&poll.ID, &poll.Title, &poll.Description, &poll.CreatedAt, &poll.ExpiresAt, &poll.IsActive)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	return &poll, nil
}

// GetPollOptions gets a poll's options in display order, ties broken by id.
func (r *PollRepository) GetPollOptions(ctx context.Context, pollID int64) ([]domain.Option, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, poll_id, text, display_order
		FROM options
		WHERE poll_id = $1
		ORDER BY display_order, id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}
	defer rows.Close()

	var options []domain.Option
	for rows.Next() {
		var opt domain.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}

	return options, rows.Err()
}

// UpdatePoll persists the poll's mutable fields.
func (r *PollRepository) UpdatePoll(ctx context.Context, poll *domain.Poll) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE polls
		SET title = $2, description = $3, expires_at = $4, is_active = $5
		WHERE id = $1
	`, poll.ID, poll.Title, poll.Description, poll.ExpiresAt, poll.IsActive)
	if err != nil {
		return false, fmt.Errorf("failed to update poll: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeletePoll removes a poll; options and votes cascade at the schema level.
func (r *PollRepository) DeletePoll(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete poll: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListPolls returns one page of polls, newest first, plus the total count.
func (r *PollRepository) ListPolls(ctx context.Context, limit, offset int) ([]domain.Poll, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM polls`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count polls: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, title, description, created_at, expires_at, is_active
		FROM polls
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(&poll.ID, &poll.Title, &poll.Description, &poll.CreatedAt, &poll.ExpiresAt, &poll.IsActive); err != nil {
			return nil, 0, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}

	return polls, total, rows.Err()
}
