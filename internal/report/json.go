package report

import (
	"encoding/json"
	"io"
	"time"
)

type jsonReport struct {
	Meta           jsonMeta       `json:"meta"`
	Recommendation string         `json:"recommendation"`
	BestHour       *jsonBestHour  `json:"best_hour,omitempty"`
	Topics         []string       `json:"topics"`
	TopPosts       []jsonPost     `json:"top_posts"`
	DailyLikes     []jsonDayLikes `json:"daily_likes"`
	Heatmap        [][]int        `json:"heatmap"`
	Timeline       []jsonPost     `json:"timeline"`
}

type jsonMeta struct {
	Handle       string `json:"handle"`
	Timezone     string `json:"timezone"`
	GeneratedAt  string `json:"generated_at,omitempty"`
	TotalPosts   int    `json:"total_posts"`
	DatedPosts   int    `json:"dated_posts"`
	TotalLikes   int    `json:"total_likes"`
	TotalReplies int    `json:"total_comments"`
}

type jsonBestHour struct {
	Hour     int     `json:"hour"`
	Label    string  `json:"label"`
	Posts    int     `json:"posts"`
	AvgLikes float64 `json:"avg_likes"`
}

type jsonPost struct {
	Text     string `json:"text"`
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
}

type jsonDayLikes struct {
	Date  string `json:"date"`
	Likes int    `json:"likes"`
}

// JSONFormatter formats a report as JSON.
type JSONFormatter struct{}

// NewJSON creates a JSON formatter.
func NewJSON() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the report as JSON to w. Empty lists are [] rather than null.
func (f *JSONFormatter) Format(w io.Writer, r Report) error {
	out := jsonReport{
		Meta: jsonMeta{
			Handle:       r.Handle,
			Timezone:     r.Timezone,
			TotalPosts:   r.TotalPosts,
			DatedPosts:   r.DatedPosts,
			TotalLikes:   r.TotalLikes,
			TotalReplies: r.TotalReplies,
		},
		Recommendation: r.Recommendation,
		Topics:         r.Topics,
		TopPosts:       toJSONPosts(r.TopPosts),
		DailyLikes:     make([]jsonDayLikes, 0, len(r.DailyLikes)),
		Heatmap:        make([][]int, 0, len(r.Heatmap)),
		Timeline:       toJSONPosts(r.Timeline),
	}
	if out.Topics == nil {
		out.Topics = []string{}
	}
	if !r.GeneratedAt.IsZero() {
		out.Meta.GeneratedAt = r.GeneratedAt.UTC().Format(time.RFC3339)
	}
	if r.Best != nil {
		out.BestHour = &jsonBestHour{
			Hour:     r.Best.Hour,
			Label:    r.Best.Label,
			Posts:    r.Best.Posts,
			AvgLikes: r.Best.AvgLikes,
		}
	}
	for _, d := range r.DailyLikes {
		out.DailyLikes = append(out.DailyLikes, jsonDayLikes{Date: d.Date, Likes: d.Likes})
	}
	for d := range r.Heatmap {
		row := make([]int, len(r.Heatmap[d]))
		copy(row, r.Heatmap[d][:])
		out.Heatmap = append(out.Heatmap, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSONPosts(posts []Post) []jsonPost {
	result := make([]jsonPost, 0, len(posts))
	for _, p := range posts {
		result = append(result, jsonPost{
			Text:     p.Text,
			Date:     p.Date,
			Time:     p.Time,
			Likes:    p.Likes,
			Comments: p.Replies,
		})
	}
	return result
}
