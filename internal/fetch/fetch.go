// Package fetch pages through an author feed and collects the posts that match
// a Filter. Paging is a small state machine: every page moves the fetch from
// Fetching either back to Fetching or into one of the terminal states.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/bskypulse/internal/bsky"
)

const (
	MinLimit = 1
	MaxLimit = 500
)

// State is the pagination state.
type State int

const (
	Fetching State = iota
	StoppedLimit
	StoppedBoundary
	StoppedExhausted
	StoppedError
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case StoppedLimit:
		return "stopped_limit"
	case StoppedBoundary:
		return "stopped_boundary"
	case StoppedExhausted:
		return "stopped_exhausted"
	case StoppedError:
		return "stopped_error"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further page will be requested.
func (s State) Terminal() bool {
	return s != Fetching
}

// Filter selects which feed items end up in the result.
// From and To are inclusive UTC bounds; nil means unbounded.
type Filter struct {
	IncludeReplies bool
	ExcludeReposts bool
	Limit          int
	From           *time.Time
	To             *time.Time
}

// ErrInvalidFilter is returned by Filter.Validate.
var ErrInvalidFilter = errors.New("invalid filter")

// Validate checks the limit range and bound ordering.
func (f Filter) Validate() error {
	if f.Limit < MinLimit || f.Limit > MaxLimit {
		return fmt.Errorf("%w: limit %d not in %d..%d", ErrInvalidFilter, f.Limit, MinLimit, MaxLimit)
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return fmt.Errorf("%w: from %s is after to %s", ErrInvalidFilter,
			f.From.Format(time.RFC3339), f.To.Format(time.RFC3339))
	}
	return nil
}

func (f Filter) feedFilter() string {
	if f.IncludeReplies {
		return bsky.FilterPostsWithReplies
	}
	return bsky.FilterPostsNoReplies
}

// PageSource returns one page of an author feed.
type PageSource interface {
	AuthorFeed(ctx context.Context, token, actor, filter, cursor string, limit int) (bsky.FeedPage, error)
}

// Result is the outcome of a fetch. Posts are in feed order (newest first).
// Err is set only when State is StoppedError; Posts then holds what was
// accumulated before the failure. Skipped counts items that could not be
// decoded or carried an unreadable timestamp.
type Result struct {
	Posts   []bsky.Post
	State   State
	Pages   int
	Skipped int
	Err     error
}

// Fetcher pages through a feed with a PageSource.
type Fetcher struct {
	source PageSource
	log    zerolog.Logger
}

// New creates a Fetcher.
func New(source PageSource, log zerolog.Logger) *Fetcher {
	return &Fetcher{source: source, log: log}
}

// Fetch collects up to filter.Limit posts by handle. It never returns a hard
// error: transport failures end the fetch with StoppedError and partial posts.
func (f *Fetcher) Fetch(ctx context.Context, token, handle string, filter Filter) Result {
	log := f.log.With().Str("handle", handle).Logger()
	log.Info().
		Bool("include_replies", filter.IncludeReplies).
		Bool("exclude_reposts", filter.ExcludeReposts).
		Int("limit", filter.Limit).
		Interface("from", filter.From).
		Interface("to", filter.To).
		Msg("fetching posts")

	if err := filter.Validate(); err != nil {
		return Result{State: StoppedError, Err: err}
	}

	c := &collector{filter: filter, log: log}
	state := Fetching
	cursor := ""

	for state == Fetching {
		page, err := f.source.AuthorFeed(ctx, token, handle, filter.feedFilter(), cursor, bsky.MaxPageSize)
		if err != nil {
			log.Warn().Err(err).Int("page", c.pages+1).Int("collected", len(c.posts)).Msg("page fetch failed, keeping partial results")
			return c.result(StoppedError, err)
		}
		c.pages++

		state = c.advance(page)
		cursor = page.Cursor

		log.Debug().
			Int("page", c.pages).
			Int("items", len(page.Feed)).
			Int("collected", len(c.posts)).
			Bool("has_cursor", page.Cursor != "").
			Stringer("state", state).
			Msg("page processed")
	}

	log.Info().
		Int("posts", len(c.posts)).
		Int("pages", c.pages).
		Int("skipped", c.skipped).
		Stringer("state", state).
		Msg("fetch finished")

	return c.result(state, nil)
}

// collector holds the state accumulated across pages.
type collector struct {
	filter  Filter
	log     zerolog.Logger
	posts   []bsky.Post
	pages   int
	skipped int
}

// advance scans one page and returns the next state. The first item in feed
// order that ends the fetch, by the From boundary or the limit, decides the
// state. Exhaustion is only checked once the whole page was scanned.
func (c *collector) advance(page bsky.FeedPage) State {
	if len(page.Feed) == 0 {
		return StoppedExhausted
	}

	for _, item := range page.Feed {
		switch c.consider(item) {
		case verdictBoundary:
			return StoppedBoundary
		case verdictAccepted:
			if len(c.posts) >= c.filter.Limit {
				return StoppedLimit
			}
		}
	}

	if page.Cursor == "" {
		return StoppedExhausted
	}
	return Fetching
}

type verdict int

const (
	verdictAccepted verdict = iota
	verdictSkipped
	verdictBoundary
)

func (c *collector) consider(item bsky.FeedItem) verdict {
	if item.DecodeErr != nil {
		c.skipped++
		c.log.Debug().Err(item.DecodeErr).Msg("skipping undecodable feed item")
		return verdictSkipped
	}
	if !item.Post.IsPost() {
		return verdictSkipped
	}
	if c.filter.ExcludeReposts && item.IsRepost() {
		return verdictSkipped
	}

	at, err := bsky.ParseTimestamp(item.Post.CreatedAt())
	if err != nil {
		c.skipped++
		c.log.Debug().Err(err).Str("uri", item.Post.URI).Msg("skipping post with unparseable timestamp")
		return verdictSkipped
	}

	// Feed is newest-first: once older than From, everything after is too.
	if c.filter.From != nil && at.Before(*c.filter.From) {
		return verdictBoundary
	}
	if c.filter.To != nil && at.After(*c.filter.To) {
		return verdictSkipped
	}

	c.posts = append(c.posts, *item.Post)
	return verdictAccepted
}

func (c *collector) result(state State, err error) Result {
	return Result{
		Posts:   c.posts,
		State:   state,
		Pages:   c.pages,
		Skipped: c.skipped,
		Err:     err,
	}
}
