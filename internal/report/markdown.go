package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// MarkdownFormatter formats a report as Markdown.
type MarkdownFormatter struct{}

// NewMarkdown creates a Markdown formatter.
func NewMarkdown() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes the report as Markdown to w.
func (f *MarkdownFormatter) Format(w io.Writer, r Report) error {
	fmt.Fprintf(w, "# bskypulse report for @%s\n\n", r.Handle)
	fmt.Fprintf(w, "%s posts, timezone %s\n\n", humanize.Comma(int64(r.TotalPosts)), r.Timezone)

	if r.Empty() {
		fmt.Fprintln(w, "No posts found.")
		return nil
	}

	fmt.Fprintf(w, "Likes: %s, comments: %s\n\n", humanize.Comma(int64(r.TotalLikes)), humanize.Comma(int64(r.TotalReplies)))

	fmt.Fprintf(w, "## Recommendation\n\n")
	for _, line := range strings.Split(r.Recommendation, "\n") {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	if r.Best != nil {
		fmt.Fprintf(w, "**Best hour:** %s (%.1f avg likes over %d posts)\n\n", r.Best.Label, r.Best.AvgLikes, r.Best.Posts)
	}

	if len(r.Topics) > 0 {
		parts := make([]string, len(r.Topics))
		for i, t := range r.Topics {
			parts[i] = "`" + t + "`"
		}
		fmt.Fprintf(w, "**Top topics:** %s\n\n", strings.Join(parts, " "))
	}

	if len(r.TopPosts) > 0 {
		fmt.Fprintf(w, "## Top Posts (%d)\n\n", len(r.TopPosts))
		fmt.Fprintln(w, "| # | Likes | Comments | Date | Post |")
		fmt.Fprintln(w, "|---|---|---|---|---|")
		for i, p := range r.TopPosts {
			fmt.Fprintf(w, "| %d | %d | %d | %s | %s |\n",
				i+1, p.Likes, p.Replies, strings.TrimSpace(p.Date+" "+p.Time), escapeCell(p.Text))
		}
		fmt.Fprintln(w)
	}

	if len(r.DailyLikes) > 0 {
		fmt.Fprintf(w, "## Likes per Day\n\n")
		fmt.Fprintln(w, "| Date | Likes |")
		fmt.Fprintln(w, "|---|---|")
		for _, d := range r.DailyLikes {
			fmt.Fprintf(w, "| %s | %d |\n", d.Date, d.Likes)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
