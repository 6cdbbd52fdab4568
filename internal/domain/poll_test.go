package domain

import (
	"testing"
	"time"
)

func TestPollIsExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name string
		poll Poll
		want bool
	}{
		{name: "no expiry", poll: Poll{ExpiresAt: nil}, want: false},
		{name: "future expiry", poll: Poll{ExpiresAt: &future}, want: false},
		{name: "past expiry", poll: Poll{ExpiresAt: &past}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poll.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPollDetailKeepsOptionOrder(t *testing.T) {
	poll := &Poll{ID: 1, Title: "Favorite language?", IsActive: true}
	options := []Option{
		{ID: 10, PollID: 1, Text: "Python", DisplayOrder: 0},
		{ID: 11, PollID: 1, Text: "Go", DisplayOrder: 1},
	}

	detail := NewPollDetail(poll, options)

	if len(detail.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(detail.Options))
	}
	if detail.Options[0].Text != "Python" || detail.Options[1].Text != "Go" {
		t.Errorf("option order changed: %+v", detail.Options)
	}
	if detail.IsExpired {
		t.Error("poll without expiry reported expired")
	}
}
