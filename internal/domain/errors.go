package domain

import "errors"

// Admission errors. Each is reported distinctly so the caller can render a
// precise message; all of them surface as client errors at the API boundary.
var (
	ErrPollNotFound       = errors.New("poll not found")
	ErrOptionNotFound     = errors.New("option not found")
	ErrOptionPollMismatch = errors.New("option does not belong to the specified poll")
	ErrPollInactive       = errors.New("poll is not active")
	ErrPollExpired        = errors.New("poll has expired")
	ErrDuplicateVote      = errors.New("voter has already voted in this poll")
)
