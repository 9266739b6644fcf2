package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const barWidth = 40

// TerminalFormatter formats a report for terminal output.
type TerminalFormatter struct {
	color bool
}

// NewTerminal creates a terminal formatter. Set color=true for ANSI colors.
func NewTerminal(color bool) *TerminalFormatter {
	return &TerminalFormatter{color: color}
}

// Format writes the report to w.
func (f *TerminalFormatter) Format(w io.Writer, r Report) error {
	header := fmt.Sprintf("bskypulse: @%s, %s posts, %s", r.Handle, humanize.Comma(int64(r.TotalPosts)), r.Timezone)
	fmt.Fprintln(w, f.bold(header))
	fmt.Fprintln(w)

	if r.Empty() {
		fmt.Fprintln(w, "No posts found.")
		return nil
	}

	fmt.Fprintf(w, "Likes: %s  Comments: %s  Posts with a timestamp: %s\n\n",
		humanize.Comma(int64(r.TotalLikes)),
		humanize.Comma(int64(r.TotalReplies)),
		humanize.Comma(int64(r.DatedPosts)),
	)

	fmt.Fprintln(w, f.green(f.bold("--- Recommendation ---")))
	fmt.Fprintln(w, r.Recommendation)
	fmt.Fprintln(w)

	if r.Best != nil {
		fmt.Fprintf(w, "Best hour: %s (%.1f avg likes over %d posts)\n\n",
			f.bold(r.Best.Label), r.Best.AvgLikes, r.Best.Posts)
	}

	if len(r.Topics) > 0 {
		fmt.Fprintf(w, "Top topics: %s\n\n", strings.Join(r.Topics, ", "))
	}

	if len(r.TopPosts) > 0 {
		fmt.Fprintln(w, f.yellow(f.bold(fmt.Sprintf("--- Top Posts (%d) ---", len(r.TopPosts)))))
		for i, p := range r.TopPosts {
			when := f.dim(strings.TrimSpace(p.Date + " " + p.Time))
			fmt.Fprintf(w, "  %2d. [%s likes] %s %s\n", i+1, humanize.Comma(int64(p.Likes)), p.Text, when)
		}
		fmt.Fprintln(w)
	}

	if len(r.DailyLikes) > 0 {
		fmt.Fprintln(w, f.bold("--- Likes per Day ---"))
		f.writeBars(w, r.DailyLikes)
		fmt.Fprintln(w)
	}

	if r.DatedPosts > 0 {
		fmt.Fprintln(w, f.bold("--- Posting Heatmap (posts per hour) ---"))
		f.writeHeatmap(w, r.Heatmap)
	}

	return nil
}

func (f *TerminalFormatter) writeBars(w io.Writer, days []DayLikes) {
	peak := 0
	for _, d := range days {
		if d.Likes > peak {
			peak = d.Likes
		}
	}
	for _, d := range days {
		n := 0
		if peak > 0 {
			n = d.Likes * barWidth / peak
		}
		fmt.Fprintf(w, "  %s %s %s\n", d.Date, f.green(strings.Repeat("█", n)), humanize.Comma(int64(d.Likes)))
	}
}

func (f *TerminalFormatter) writeHeatmap(w io.Writer, grid [7][24]int) {
	fmt.Fprint(w, "      ")
	for h := 0; h < 24; h++ {
		fmt.Fprintf(w, "%-3d", h)
	}
	fmt.Fprintln(w)
	for d := 0; d < 7; d++ {
		fmt.Fprintf(w, "  %s ", time.Weekday(d).String()[:3])
		for h := 0; h < 24; h++ {
			fmt.Fprintf(w, "%-3s", heatCell(grid[d][h]))
		}
		fmt.Fprintln(w)
	}
}

func heatCell(n int) string {
	switch {
	case n == 0:
		return "."
	case n > 9:
		return "+"
	default:
		return fmt.Sprint(n)
	}
}

// ANSI helpers, no-op when color=false.

func (f *TerminalFormatter) bold(s string) string {
	if !f.color {
		return s
	}
	return "\033[1m" + s + "\033[0m"
}

func (f *TerminalFormatter) green(s string) string {
	if !f.color {
		return s
	}
	return "\033[32m" + s + "\033[0m"
}

func (f *TerminalFormatter) yellow(s string) string {
	if !f.color {
		return s
	}
	return "\033[33m" + s + "\033[0m"
}

func (f *TerminalFormatter) dim(s string) string {
	if !f.color {
		return s
	}
	return "\033[2m" + s + "\033[0m"
}
