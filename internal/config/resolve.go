package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ErrInvalid matches every *ValidationError.
var ErrInvalid = errors.New("invalid configuration")

// ValidationError rejects caller input before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Runtime is a validated config with parsed values.
type Runtime struct {
	Handle         string
	AppPassword    string
	BaseURL        string
	Timeout        time.Duration
	RPS            float64
	IncludeReplies bool
	ExcludeReposts bool
	Limit          int
	Location       *time.Location
	From           *time.Time // UTC, inclusive
	To             *time.Time // UTC, inclusive
	ExportDir      string
	TopTopics      int
	TopPosts       int
	Redact         []string
	RedactMentions bool
}

// Resolve validates cfg and parses timezone and date bounds.
func (c *Config) Resolve() (*Runtime, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, invalid("timezone", "unknown timezone %q", c.Timezone)
	}
	from, to, err := DateBounds(c.Fetch.From, c.Fetch.To, loc)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Handle:         strings.TrimPrefix(strings.TrimSpace(c.Account.Handle), "@"),
		AppPassword:    c.Account.AppPassword,
		BaseURL:        c.API.BaseURL,
		Timeout:        c.API.Timeout.Duration,
		RPS:            c.API.RequestsPerSecond,
		IncludeReplies: c.Fetch.IncludeReplies,
		ExcludeReposts: !c.Fetch.IncludeReposts,
		Limit:          c.Fetch.Limit,
		Location:       loc,
		From:           from,
		To:             to,
		ExportDir:      c.Export.Dir,
		TopTopics:      c.Analysis.TopTopics,
		TopPosts:       c.Analysis.TopPosts,
		Redact:         c.Privacy.Redact,
		RedactMentions: c.Privacy.RedactMentions,
	}, nil
}

// Validate checks everything that does not need credentials.
func (c *Config) Validate() error {
	if strings.TrimSpace(strings.TrimPrefix(c.Account.Handle, "@")) == "" {
		return invalid("account.handle", "is required")
	}
	if c.Fetch.Limit < MinLimit || c.Fetch.Limit > MaxLimit {
		return invalid("fetch.limit", "%d is not between %d and %d", c.Fetch.Limit, MinLimit, MaxLimit)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return invalid("timezone", "unknown timezone %q", c.Timezone)
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("api.base_url", "%q is not an absolute url", c.API.BaseURL)
	}
	if c.API.Timeout.Duration < 0 {
		return invalid("api.timeout", "must not be negative")
	}
	if c.API.RequestsPerSecond <= 0 {
		return invalid("api.requests_per_second", "must be positive")
	}
	if c.Analysis.TopTopics < 0 {
		return invalid("analysis.top_topics", "must not be negative")
	}
	if c.Analysis.TopPosts < 0 {
		return invalid("analysis.top_posts", "must not be negative")
	}
	for _, p := range c.Privacy.Redact {
		if _, err := regexp.Compile(p); err != nil {
			return invalid("privacy.redact", "bad pattern %q: %v", p, err)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return invalid("log.level", "unknown level %q (want trace, debug, info, warn, error or disabled)", c.Log.Level)
	}
	return nil
}

// DateBounds parses YYYY-MM-DD bounds in loc. from becomes the start of that
// local day and to the last nanosecond of that local day, both in UTC.
// Empty strings leave the bound open.
func DateBounds(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	var fromUTC, toUTC *time.Time

	if s := strings.TrimSpace(from); s != "" {
		day, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return nil, nil, invalid("fetch.from", "%q is not a YYYY-MM-DD date", s)
		}
		t := day.UTC()
		fromUTC = &t
	}
	if s := strings.TrimSpace(to); s != "" {
		day, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return nil, nil, invalid("fetch.to", "%q is not a YYYY-MM-DD date", s)
		}
		// Next local midnight minus 1ns keeps DST-length days correct.
		t := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond).UTC()
		toUTC = &t
	}

	if fromUTC != nil && toUTC != nil && fromUTC.After(*toUTC) {
		return nil, nil, invalid("fetch.from", "%s is after fetch.to %s", from, to)
	}
	return fromUTC, toUTC, nil
}
