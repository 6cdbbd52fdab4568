package repository

import (
	"context"
	"errors"
	"fmt"

	"pollsvc/internal/domain"
	"pollsvc/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// voteUniqueConstraint guards at-most-one-vote-per-(poll, voter identifier).
const voteUniqueConstraint = "unique_vote_per_poll"

// VoteRepository implements VoteStore on PostgreSQL.
type VoteRepository struct {
	db *database.PostgresDB
}

func NewVoteRepository(db *database.PostgresDB) *VoteRepository {
	return &VoteRepository{db: db}
}

// GetOption gets an option by id.
func (r *VoteRepository) GetOption(ctx context.Context, id int64) (*domain.Option, error) {
	var opt domain.Option
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, poll_id, text, display_order
		FROM options
		WHERE id = $1
	`, id).Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.DisplayOrder)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get option: %w", err)
	}

	return &opt, nil
}

// GetPoll gets a poll by id.
func (r *VoteRepository) GetPoll(ctx context.Context, id int64) (*domain.Poll, error) {
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

// HasVoted reports whether a vote exists for (poll, voter identifier).
func (r *VoteRepository) HasVoted(ctx context.Context, pollID int64, voterIdentifier string) (bool, error) {
	var voted bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM votes WHERE poll_id = $1 AND voter_identifier = $2)
	`, pollID, voterIdentifier).Scan(&voted)
	if err != nil {
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}

	return voted, nil
}

// CreateVote inserts a vote. The unique constraint on (poll_id,
// voter_identifier) is the authoritative duplicate guard: a violation is
// translated into domain.ErrDuplicateVote so concurrent submissions from the
// same identity resolve to the same domain error as the pre-check.
func (r *VoteRepository) CreateVote(ctx context.Context, vote *domain.Vote) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO votes (poll_id, option_id, voter_identifier)
		VALUES ($1, $2, $3)
		RETURNING id, voted_at
	`, vote.PollID, vote.OptionID, vote.VoterIdentifier).Scan(&vote.ID, &vote.VotedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == voteUniqueConstraint {
			return domain.ErrDuplicateVote
		}
		return fmt.Errorf("failed to create vote: %w", err)
	}

	return nil
}

// CountVotesByOption counts votes per option for a poll in one aggregate
// query, so all counts come from a single consistent read.
func (r *VoteRepository) CountVotesByOption(ctx context.Context, pollID int64) ([]domain.OptionCount, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT o.id, o.poll_id, o.text, o.display_order, COUNT(v.id)
		FROM options o
		LEFT JOIN votes v ON v.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.poll_id, o.text, o.display_order
		ORDER BY o.display_order, o.id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	var counts []domain.OptionCount
	for rows.Next() {
		var oc domain.OptionCount
		if err := rows.Scan(&oc.Option.ID, &oc.Option.PollID, &oc.Option.Text, &oc.Option.DisplayOrder, &oc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan option count: %w", err)
		}
		counts = append(counts, oc)
	}

	return counts, rows.Err()
}
