// Package report renders analytics for a fetched post history.
package report

import (
	"io"
	"time"
)

// Post is one post as shown in a report.
type Post struct {
	Text    string
	Date    string
	Time    string
	Likes   int
	Replies int
}

// DayLikes is the like total for one local date.
type DayLikes struct {
	Date  string
	Likes int
}

// BestHour is the local hour with the highest average likes.
type BestHour struct {
	Hour     int
	Label    string // e.g. "03:00 PM"
	Posts    int
	AvgLikes float64
}

// Report is the full input for a report formatter.
type Report struct {
	Handle      string
	Timezone    string
	GeneratedAt time.Time

	TotalPosts   int
	DatedPosts   int
	TotalLikes   int
	TotalReplies int

	Best           *BestHour // nil when no post has a timestamp
	Topics         []string
	TopPosts       []Post
	DailyLikes     []DayLikes
	Heatmap        [7][24]int // [weekday][hour], Sunday first
	Timeline       []Post
	Recommendation string
}

// Empty reports whether there was nothing to analyze.
func (r Report) Empty() bool {
	return r.TotalPosts == 0
}

// Formatter writes a formatted report to w.
type Formatter interface {
	Format(w io.Writer, r Report) error
}
