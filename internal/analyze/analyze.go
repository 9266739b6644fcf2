// Package analyze turns normalized records into a report.
package analyze

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/bskypulse/internal/normalize"
	"github.com/ppiankov/bskypulse/internal/report"
	"github.com/ppiankov/bskypulse/internal/store"
	"github.com/ppiankov/bskypulse/internal/topics"
)

const (
	DefaultTopTopics = 3
	DefaultTopPosts  = 10

	// MaxPostChars is how much of a post's text a report shows.
	MaxPostChars = 70
)

// Options controls report contents. Zero values fall back to the defaults.
type Options struct {
	Handle    string
	Timezone  string
	TopTopics int
	TopPosts  int
	Now       func() time.Time
}

// Build loads records into a fresh analytics frame and computes the report.
func Build(ctx context.Context, records []normalize.Record, opts Options) (report.Report, error) {
	if opts.TopTopics <= 0 {
		opts.TopTopics = DefaultTopTopics
	}
	if opts.TopPosts <= 0 {
		opts.TopPosts = DefaultTopPosts
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := report.Report{
		Handle:      opts.Handle,
		Timezone:    opts.Timezone,
		GeneratedAt: opts.Now(),
	}

	st, err := store.Open()
	if err != nil {
		return report.Report{}, fmt.Errorf("open analytics frame: %w", err)
	}
	defer func() {
		_ = st.Close()
	}()

	if err := st.Load(ctx, records); err != nil {
		return report.Report{}, fmt.Errorf("load records: %w", err)
	}

	counts, err := st.Counts(ctx)
	if err != nil {
		return report.Report{}, err
	}
	r.TotalPosts = counts.Total
	r.DatedPosts = counts.Dated
	r.TotalLikes = counts.Likes
	r.TotalReplies = counts.Replies

	hs, ok, err := st.BestHour(ctx)
	if err != nil {
		return report.Report{}, err
	}
	if ok {
		r.Best = &report.BestHour{
			Hour:     hs.Hour,
			Label:    HourLabel(hs.Hour),
			Posts:    hs.Posts,
			AvgLikes: hs.AvgLikes,
		}
	}

	cells, err := st.Heatmap(ctx)
	if err != nil {
		return report.Report{}, err
	}
	for _, c := range cells {
		r.Heatmap[c.Weekday][c.Hour] = c.Posts
	}

	days, err := st.DailyLikes(ctx)
	if err != nil {
		return report.Report{}, err
	}
	for _, d := range days {
		r.DailyLikes = append(r.DailyLikes, report.DayLikes{Date: d.Date, Likes: d.Likes})
	}

	top, err := st.TopPosts(ctx, opts.TopPosts)
	if err != nil {
		return report.Report{}, err
	}
	r.TopPosts = toPosts(top, MaxPostChars)

	timeline, err := st.Timeline(ctx)
	if err != nil {
		return report.Report{}, err
	}
	r.Timeline = toPosts(timeline, MaxPostChars)

	texts := make([]string, 0, len(records))
	for _, rec := range records {
		texts = append(texts, rec.Text)
	}
	r.Topics = topics.Top(texts, opts.TopTopics)

	r.Recommendation = Recommendation(r.Best, r.Topics, opts.Timezone)
	return r, nil
}

// HourLabel formats an hour of day as "03:00 PM".
func HourLabel(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("03:04 PM")
}

// Recommendation is the plain-text summary shown at the top of every report.
func Recommendation(best *report.BestHour, topicWords []string, timezone string) string {
	var b strings.Builder
	b.WriteString("Based on your post history data:")

	if best != nil {
		fmt.Fprintf(&b, "\n- The best time to post is around %s (%s), ", best.Label, timezone)
	} else {
		b.WriteString("\n- Unable to determine the best time to post based on your data.")
	}

	if len(topicWords) > 0 {
		quoted := make([]string, len(topicWords))
		for i, t := range topicWords {
			quoted[i] = "'" + t + "'"
		}
		fmt.Fprintf(&b, "focusing on topics like: %s.", strings.Join(quoted, ", "))
	} else {
		b.WriteString(" and we couldn't identify specific topics.")
	}
	return b.String()
}

// Truncate shortens s to max runes, appending "..." when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func toPosts(rows []store.Row, maxChars int) []report.Post {
	posts := make([]report.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, report.Post{
			Text:    Truncate(row.Text, maxChars),
			Date:    row.Date,
			Time:    row.Time,
			Likes:   row.Likes,
			Replies: row.Replies,
		})
	}
	return posts
}
