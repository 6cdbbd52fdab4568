package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "pollsvc/pkg/errors"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxOptionTextLength  = 200
	MinOptions           = 2
)

var (
	htmlTagPattern   = regexp.MustCompile(`<[^>]+>`)
	scriptTagPattern = regexp.MustCompile(`(?i)<script[\s\S]*?>[\s\S]*?</script>`)
)

// containsMarkup reports whether a value carries HTML or script tags.
// Markup is rejected outright rather than stripped.
func containsMarkup(value string) bool {
	return htmlTagPattern.MatchString(value) || scriptTagPattern.MatchString(value)
}

func validationError(field, reason string) *apperrors.AppError {
	return apperrors.NewValidationError(reason, map[string]interface{}{"field": field})
}

// ValidateCreatePoll checks a create request and normalizes its text fields.
// All validation happens before any mutation.
func ValidateCreatePoll(req *CreatePollRequest) *apperrors.AppError {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return validationError("title", "Poll title cannot be empty.")
	}
	if containsMarkup(req.Title) {
		return validationError("title", "HTML tags are not allowed in this field.")
	}
	if utf8.RuneCountInString(req.Title) > MaxTitleLength {
		return validationError("title", "Title must not exceed 200 characters.")
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description != "" {
		if containsMarkup(req.Description) {
			return validationError("description", "HTML tags are not allowed in this field.")
		}
		if utf8.RuneCountInString(req.Description) > MaxDescriptionLength {
			return validationError("description", "Description must not exceed 1000 characters.")
		}
	}

	if len(req.Options) < MinOptions {
		return validationError("options", "A poll must have at least 2 options.")
	}
	for i := range req.Options {
		req.Options[i].Text = strings.TrimSpace(req.Options[i].Text)
		text := req.Options[i].Text
		if text == "" {
			return validationError("options", "Option text cannot be empty.")
		}
		if containsMarkup(text) {
			return validationError("options", "HTML tags are not allowed in option text.")
		}
		if utf8.RuneCountInString(text) > MaxOptionTextLength {
			return validationError("options", "Option text must not exceed 200 characters.")
		}
	}

	return nil
}

// ValidateUpdatePoll checks the fields present in a partial update.
func ValidateUpdatePoll(req *UpdatePollRequest) *apperrors.AppError {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return validationError("title", "Poll title cannot be empty.")
		}
		if containsMarkup(title) {
			return validationError("title", "HTML tags are not allowed in this field.")
		}
		if utf8.RuneCountInString(title) > MaxTitleLength {
			return validationError("title", "Title must not exceed 200 characters.")
		}
		*req.Title = title
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description != "" {
			if containsMarkup(description) {
				return validationError("description", "HTML tags are not allowed in this field.")
			}
			if utf8.RuneCountInString(description) > MaxDescriptionLength {
				return validationError("description", "Description must not exceed 1000 characters.")
			}
		}
		*req.Description = description
	}

	return nil
}
