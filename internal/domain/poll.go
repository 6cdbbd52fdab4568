package domain

import (
	"time"
)

// Poll is a question with a fixed set of options, bounded by an optional
// activity flag and expiry.
type Poll struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// IsExpired reports whether the poll has an expiry in the past. Expiry is
// always derived from the timestamp, never stored as a flag.
func (p *Poll) IsExpired() bool {
	if p.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*p.ExpiresAt)
}

// Option is one selectable choice within a poll. Display order is not
// required to be unique; ties are broken by id for determinism.
type Option struct {
	ID           int64  `json:"id"`
	PollID       int64  `json:"poll_id"`
	Text         string `json:"text"`
	DisplayOrder int    `json:"order"`
}

// OptionView is the option representation in poll detail responses.
type OptionView struct {
	ID    int64  `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// PollListItem is one entry in the paginated poll list (no options).
type PollListItem struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsExpired   bool       `json:"is_expired"`
}

// PollListResponse is the paginated list envelope.
type PollListResponse struct {
	Count    int            `json:"count"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Results  []PollListItem `json:"results"`
}

// PollDetail is the detail representation with nested options.
type PollDetail struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	IsActive    bool         `json:"is_active"`
	IsExpired   bool         `json:"is_expired"`
	Options     []OptionView `json:"options"`
}

// CreateOptionRequest is one option in a poll create request.
type CreateOptionRequest struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// CreatePollRequest creates a poll together with its options. A poll with
// fewer than two options is invalid and is never persisted partially.
type CreatePollRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	ExpiresAt   *time.Time            `json:"expires_at,omitempty"`
	IsActive    *bool                 `json:"is_active,omitempty"`
	Options     []CreateOptionRequest `json:"options"`
}

// UpdatePollRequest partially updates a poll's own fields. Options and votes
// are never touched by an edit.
type UpdatePollRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

// NewPollDetail builds the detail view from a poll and its options.
func NewPollDetail(poll *Poll, options []Option) *PollDetail {
	views := make([]OptionView, 0, len(options))
	for _, opt := range options {
		views = append(views, OptionView{ID: opt.ID, Text: opt.Text, Order: opt.DisplayOrder})
	}
	return &PollDetail{
		ID:          poll.ID,
		Title:       poll.Title,
		Description: poll.Description,
		CreatedAt:   poll.CreatedAt,
		ExpiresAt:   poll.ExpiresAt,
		IsActive:    poll.IsActive,
		IsExpired:   poll.IsExpired(),
		Options:     views,
	}
}

// NewPollListItem builds a list entry from a poll.
func NewPollListItem(poll *Poll) PollListItem {
	return PollListItem{
		ID:          poll.ID,
		Title:       poll.Title,
		Description: poll.Description,
		CreatedAt:   poll.CreatedAt,
		ExpiresAt:   poll.ExpiresAt,
		IsActive:    poll.IsActive,
		IsExpired:   poll.IsExpired(),
	}
}
