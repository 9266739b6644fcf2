// Package pipeline runs login, fetch and normalize as one operation.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/bskypulse/internal/bsky"
	"github.com/ppiankov/bskypulse/internal/config"
	"github.com/ppiankov/bskypulse/internal/fetch"
	"github.com/ppiankov/bskypulse/internal/normalize"
)

//go:generate go run go.uber.org/mock/mockgen -source=pipeline.go -destination=mocks/mock.go

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, identifier, secret string) (bsky.Session, error)
}

// PostFetcher collects posts for a handle.
type PostFetcher interface {
	Fetch(ctx context.Context, token, handle string, filter fetch.Filter) fetch.Result
}

// Request is one export/analysis run.
type Request struct {
	Handle      string
	AppPassword string
	Filter      fetch.Filter
	Location    *time.Location
}

// Validate rejects requests that must not reach the network.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Handle) == "" {
		return &config.ValidationError{Field: "account.handle", Reason: "is required"}
	}
	if r.Filter.Limit < fetch.MinLimit || r.Filter.Limit > fetch.MaxLimit {
		return &config.ValidationError{Field: "fetch.limit", Reason: "must be between 1 and 500"}
	}
	if err := r.Filter.Validate(); err != nil {
		return &config.ValidationError{Field: "fetch", Reason: err.Error()}
	}
	return nil
}

// Outcome is what a run produced. FetchErr is set when the fetch stopped on a
// transport error; Results still hold everything collected before it.
type Outcome struct {
	Results  []normalize.Result
	State    fetch.State
	Pages    int
	Skipped  int
	Degraded int
	FetchErr error
}

// Records returns the normalized records in feed order.
func (o Outcome) Records() []normalize.Record {
	return normalize.Records(o.Results)
}

// Partial reports whether the fetch ended early on an error.
func (o Outcome) Partial() bool {
	return o.FetchErr != nil
}

type Service struct {
	auth    Authenticator
	fetcher PostFetcher
	log     zerolog.Logger
}

func New(auth Authenticator, fetcher PostFetcher, log zerolog.Logger) *Service {
	return &Service{auth: auth, fetcher: fetcher, log: log}
}

// Run validates req, logs in, fetches and normalizes. Validation and login
// failures are returned as errors; a failed page is not.
func (s *Service) Run(ctx context.Context, req Request) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}

	handle := strings.TrimPrefix(strings.TrimSpace(req.Handle), "@")
	session, err := s.auth.Login(ctx, handle, req.AppPassword)
	if err != nil {
		return Outcome{}, err
	}
	s.log.Debug().Str("did", session.DID).Msg("logged in")

	res := s.fetcher.Fetch(ctx, session.AccessJWT, handle, req.Filter)
	if errors.Is(res.Err, fetch.ErrInvalidFilter) {
		return Outcome{}, &config.ValidationError{Field: "fetch", Reason: res.Err.Error()}
	}

	results := normalize.Normalize(res.Posts, req.Location)
	normalize.LogDegraded(s.log, results)

	out := Outcome{
		Results:  results,
		State:    res.State,
		Pages:    res.Pages,
		Skipped:  res.Skipped,
		Degraded: normalize.CountDegraded(results),
		FetchErr: res.Err,
	}
	if out.Partial() {
		s.log.Warn().Err(res.Err).Int("posts", len(results)).Msg("fetch stopped early, continuing with partial results")
	}
	return out, nil
}
