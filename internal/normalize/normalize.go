// Package normalize converts raw posts into records localized to a timezone.
package normalize

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/bskypulse/internal/bsky"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"

	maxDegradedLogged = 5
)

// Record is a post localized to the target timezone. Date and Time are empty
// when the source timestamp could not be parsed.
type Record struct {
	Text       string
	Date       string
	Time       string
	LikeCount  int
	ReplyCount int
}

// HasTimestamp reports whether Date and Time are known.
func (r Record) HasTimestamp() bool {
	return r.Date != "" && r.Time != ""
}

// Status tells whether a record was normalized fully.
type Status int

const (
	StatusOK Status = iota
	StatusDegraded
)

func (s Status) String() string {
	if s == StatusDegraded {
		return "degraded"
	}
	return "ok"
}

// Result is the per-post outcome. Reason explains a degraded record.
type Result struct {
	Record Record
	Status Status
	Reason string
	URI    string
	Raw    string // createdAt as received
}

// Degraded reports whether the timestamp was lost.
func (r Result) Degraded() bool {
	return r.Status == StatusDegraded
}

// Normalize localizes every post to loc, preserving order and length.
// A nil loc means UTC.
func Normalize(posts []bsky.Post, loc *time.Location) []Result {
	if loc == nil {
		loc = time.UTC
	}
	results := make([]Result, 0, len(posts))
	for i := range posts {
		results = append(results, One(&posts[i], loc))
	}
	return results
}

// One normalizes a single post.
func One(p *bsky.Post, loc *time.Location) Result {
	if loc == nil {
		loc = time.UTC
	}
	res := Result{
		Record: Record{
			Text:       p.Text(),
			LikeCount:  nonNegative(p.LikeCount),
			ReplyCount: nonNegative(p.ReplyCount),
		},
		URI: p.URI,
		Raw: p.CreatedAt(),
	}

	at, err := bsky.ParseTimestamp(res.Raw)
	if err != nil {
		res.Status = StatusDegraded
		res.Reason = err.Error()
		return res
	}

	local := at.In(loc)
	res.Record.Date = local.Format(DateLayout)
	res.Record.Time = local.Format(TimeLayout)
	return res
}

// Records drops the per-record status.
func Records(results []Result) []Record {
	out := make([]Record, len(results))
	for i, r := range results {
		out[i] = r.Record
	}
	return out
}

// CountDegraded returns the number of degraded results.
func CountDegraded(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Degraded() {
			n++
		}
	}
	return n
}

// LogDegraded logs the first few degraded results individually and
// summarizes the rest.
func LogDegraded(log zerolog.Logger, results []Result) {
	logged := 0
	suppressed := 0
	for i, r := range results {
		if !r.Degraded() {
			continue
		}
		if logged < maxDegradedLogged {
			log.Warn().
				Int("index", i+1).
				Str("uri", r.URI).
				Str("created_at", r.Raw).
				Str("reason", r.Reason).
				Msg("could not localize timestamp, keeping post without date")
			logged++
			continue
		}
		suppressed++
	}
	if suppressed > 0 {
		log.Warn().Int("suppressed", suppressed).Msg("further timestamp errors suppressed")
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
