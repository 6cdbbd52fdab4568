package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"pollsvc/internal/domain"
	"pollsvc/internal/identity"
	"pollsvc/internal/service"
	"pollsvc/pkg/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// stubVoteStore backs handler tests with a single poll and in-memory votes.
type stubVoteStore struct {
	mu    sync.Mutex
	poll  *domain.Poll
	opts  map[int64]*domain.Option
	votes map[string]*domain.Vote
}

func newStubVoteStore(poll *domain.Poll, options ...*domain.Option) *stubVoteStore {
	opts := make(map[int64]*domain.Option, len(options))
	for _, opt := range options {
		opts[opt.ID] = opt
	}
	return &stubVoteStore{poll: poll, opts: opts, votes: make(map[string]*domain.Vote)}
}

func (s *stubVoteStore) GetOption(ctx context.Context, id int64) (*domain.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opt, ok := s.opts[id]; ok {
		cp := *opt
		return &cp, nil
	}
	return nil, nil
}

func (s *stubVoteStore) GetPoll(ctx context.Context, id int64) (*domain.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poll != nil && s.poll.ID == id {
		cp := *s.poll
		return &cp, nil
	}
	return nil, nil
}

func (s *stubVoteStore) HasVoted(ctx context.Context, pollID int64, voterIdentifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.votes[voterIdentifier]
	return ok, nil
}

func (s *stubVoteStore) CreateVote(ctx context.Context, vote *domain.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.votes[vote.VoterIdentifier]; exists {
		return domain.ErrDuplicateVote
	}
	vote.ID = int64(len(s.votes) + 1)
	vote.VotedAt = time.Now()
	cp := *vote
	s.votes[vote.VoterIdentifier] = &cp
	return nil
}

func (s *stubVoteStore) CountVotesByOption(ctx context.Context, pollID int64) ([]domain.OptionCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byOption := make(map[int64]int)
	for _, vote := range s.votes {
		byOption[vote.OptionID]++
	}
	var counts []domain.OptionCount
	for _, opt := range s.opts {
		counts = append(counts, domain.OptionCount{Option: *opt, Count: byOption[opt.ID]})
	}
	return counts, nil
}

func newVotingRouter(t *testing.T, store *stubVoteStore) *chi.Mux {
	t.Helper()

	log, err := logger.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	votingService := service.NewVotingService(store, nil, zap.NewNop())
	resolver := identity.NewResolver(identity.NewMemorySessionStore(), zap.NewNop())
	h := NewVotingHandler(votingService, resolver, 24*time.Hour, log)

	r := chi.NewRouter()
	r.Route("/api/polls/{pollID}", func(r chi.Router) {
		r.Post("/vote", h.Vote)
		r.Get("/results", h.Results)
		r.Get("/has_voted", h.HasVoted)
	})
	return r
}

func testPollStore() *stubVoteStore {
	return newStubVoteStore(
		&domain.Poll{ID: 1, Title: "Favorite language?", IsActive: true, CreatedAt: time.Now()},
		&domain.Option{ID: 10, PollID: 1, Text: "Python", DisplayOrder: 0},
		&domain.Option{ID: 11, PollID: 1, Text: "Go", DisplayOrder: 1},
	)
}

func TestVoteEndpoint(t *testing.T) {
	router := newVotingRouter(t, testPollStore())

	req := httptest.NewRequest(http.MethodPost, "/api/polls/1/vote", strings.NewReader(`{"option_id":10}`))
	req.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var resp domain.VoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Message != "Vote cast successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.PollID != 1 || resp.OptionID != 10 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestVoteEndpointDuplicate(t *testing.T) {
	router := newVotingRouter(t, testPollStore())

	for i, want := range []int{http.StatusCreated, http.StatusBadRequest} {
		req := httptest.NewRequest(http.MethodPost, "/api/polls/1/vote", strings.NewReader(`{"option_id":10}`))
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("request %d got %d, want %d; body: %s", i+1, rec.Code, want, rec.Body.String())
		}
	}
}

func TestVoteEndpointBadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{name: "malformed body", path: "/api/polls/1/vote", body: `{`, want: http.StatusBadRequest},
		{name: "missing option id", path: "/api/polls/1/vote", body: `{}`, want: http.StatusBadRequest},
		{name: "unknown option", path: "/api/polls/1/vote", body: `{"option_id":99}`, want: http.StatusBadRequest},
		{name: "unknown poll", path: "/api/polls/42/vote", body: `{"option_id":10}`, want: http.StatusBadRequest},
		{name: "non-numeric poll id", path: "/api/polls/abc/vote", body: `{"option_id":10}`, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newVotingRouter(t, testPollStore())

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.RemoteAddr = "10.0.0.1:5000"
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("got %d, want %d; body: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestVoteEndpointSetsSessionCookie(t *testing.T) {
	router := newVotingRouter(t, testPollStore())

	// No user, no usable address: identity falls back to a fresh session and
	// the token must come back as a cookie.
	req := httptest.NewRequest(http.MethodPost, "/api/polls/1/vote", strings.NewReader(`{"option_id":10}`))
	req.RemoteAddr = ""
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("session cookie not set")
	}

	// Replaying with the cookie resolves to the same voter and is rejected
	// as a duplicate.
	req = httptest.NewRequest(http.MethodPost, "/api/polls/1/vote", strings.NewReader(`{"option_id":11}`))
	req.RemoteAddr = ""
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
}

func TestResultsEndpoint(t *testing.T) {
	store := testPollStore()
	router := newVotingRouter(t, store)

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.3:1"} {
		body := `{"option_id":10}`
		if addr == "10.0.0.3:1" {
			body = `{"option_id":11}`
		}
		req := httptest.NewRequest(http.MethodPost, "/api/polls/1/vote", strings.NewReader(body))
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("vote from %s failed: %d", addr, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/polls/1/results", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var results domain.PollResults
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if results.TotalVotes != 3 {
		t.Errorf("total votes = %d, want 3", results.TotalVotes)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/polls/42/results", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown poll results got %d, want 404", rec.Code)
	}
}

func TestHasVotedEndpoint(t *testing.T) {
	router := newVotingRouter(t, testPollStore())

	get := func() (int, domain.HasVotedResponse) {
		req := httptest.NewRequest(http.MethodGet, "/api/polls/1/has_voted", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		var resp domain.HasVotedResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		return rec.Code, resp
	}

	code, resp := get()
	if code != http.StatusOK || resp.HasVoted {
		t.Errorf("before voting: code=%d has_voted=%v", code, resp.HasVoted)
	}
	if resp.VoterIdentifier != "ip_10.0.0.1" {
		t.Errorf("voter identifier = %q", resp.VoterIdentifier)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/polls/1/vote", strings.NewReader(`{"option_id":10}`))
	req.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("vote failed: %d", rec.Code)
	}

	code, resp = get()
	if code != http.StatusOK || !resp.HasVoted {
		t.Errorf("after voting: code=%d has_voted=%v", code, resp.HasVoted)
	}
}
