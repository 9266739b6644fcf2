package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func sampleReport() Report {
	r := Report{
		Handle:       "alice.bsky.social",
		Timezone:     "Europe/London",
		GeneratedAt:  time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
		TotalPosts:   1250,
		DatedPosts:   3,
		TotalLikes:   18,
		TotalReplies: 3,
		Best:         &BestHour{Hour: 15, Label: "03:00 PM", Posts: 2, AvgLikes: 7.5},
		Topics:       []string{"golang", "rust"},
		TopPosts: []Post{
			{Text: "golang | generics", Date: "2025-03-02", Time: "15:10:00", Likes: 10, Replies: 2},
			{Text: "rust", Date: "2025-03-02", Time: "15:40:00", Likes: 5, Replies: 1},
		},
		DailyLikes: []DayLikes{
			{Date: "2025-03-01", Likes: 3},
			{Date: "2025-03-02", Likes: 15},
		},
		Timeline: []Post{
			{Text: "old", Date: "2025-03-01", Time: "08:00:00", Likes: 3},
		},
		Recommendation: "Based on your post history data:\n- The best time to post is around 03:00 PM (Europe/London), focusing on topics like: 'golang', 'rust'.",
	}
	r.Heatmap[time.Sunday][15] = 2
	r.Heatmap[time.Saturday][8] = 12
	return r
}

// --- Terminal ---

func TestTerminal_FullReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTerminal(false).Format(&buf, sampleReport()); err != nil {
		t.Fatalf("format: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"bskypulse: @alice.bsky.social, 1,250 posts, Europe/London",
		"--- Recommendation ---",
		"around 03:00 PM (Europe/London)",
		"Best hour: 03:00 PM (7.5 avg likes over 2 posts)",
		"Top topics: golang, rust",
		"--- Top Posts (2) ---",
		"1. [10 likes] golang | generics",
		"--- Likes per Day ---",
		"2025-03-02 " + strings.Repeat("█", barWidth) + " 15",
		"--- Posting Heatmap",
		"Sun",
		"Sat",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("no ANSI codes expected when color=false")
	}
}

func TestTerminal_Color(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTerminal(true).Format(&buf, sampleReport()); err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(buf.String(), "\033[1m") {
		t.Error("expected bold ANSI code")
	}
}

func TestTerminal_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTerminal(false).Format(&buf, Report{Handle: "bob", Timezone: "UTC"}); err != nil {
		t.Fatalf("format: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No posts found.") {
		t.Errorf("expected empty message, got:\n%s", out)
	}
	if strings.Contains(out, "Recommendation") {
		t.Error("empty report should have no sections")
	}
}

func TestTerminal_NoTimestamps(t *testing.T) {
	r := Report{
		Handle:         "bob",
		Timezone:       "UTC",
		TotalPosts:     2,
		Recommendation: "Based on your post history data:\n- Unable to determine the best time to post based on your data. and we couldn't identify specific topics.",
		TopPosts:       []Post{{Text: "x", Likes: 1}},
	}
	var buf bytes.Buffer
	if err := NewTerminal(false).Format(&buf, r); err != nil {
		t.Fatalf("format: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Best hour") || strings.Contains(out, "Heatmap") {
		t.Errorf("undated report should skip time sections:\n%s", out)
	}
	if !strings.Contains(out, "Unable to determine") {
		t.Error("missing recommendation")
	}
}

func TestHeatCell(t *testing.T) {
	tests := map[int]string{0: ".", 1: "1", 9: "9", 10: "+", 42: "+"}
	for n, want := range tests {
		if got := heatCell(n); got != want {
			t.Errorf("heatCell(%d) = %q, want %q", n, got, want)
		}
	}
}

// --- JSON ---

func TestJSON_FullReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSON().Format(&buf, sampleReport()); err != nil {
		t.Fatalf("format: %v", err)
	}

	var out jsonReport
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Meta.Handle != "alice.bsky.social" || out.Meta.TotalPosts != 1250 {
		t.Errorf("meta = %+v", out.Meta)
	}
	if out.Meta.GeneratedAt != "2025-03-04T10:00:00Z" {
		t.Errorf("generated_at = %q", out.Meta.GeneratedAt)
	}
	if out.BestHour == nil || out.BestHour.Label != "03:00 PM" {
		t.Errorf("best hour = %+v", out.BestHour)
	}
	if len(out.TopPosts) != 2 || out.TopPosts[0].Comments != 2 {
		t.Errorf("top posts = %+v", out.TopPosts)
	}
	if len(out.Heatmap) != 7 || len(out.Heatmap[0]) != 24 {
		t.Fatalf("heatmap shape = %dx?", len(out.Heatmap))
	}
	if out.Heatmap[0][15] != 2 || out.Heatmap[6][8] != 12 {
		t.Errorf("heatmap values wrong: %v", out.Heatmap)
	}
}

func TestJSON_EmptyListsNotNull(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSON().Format(&buf, Report{Handle: "bob", Timezone: "UTC"}); err != nil {
		t.Fatalf("format: %v", err)
	}
	out := buf.String()
	for _, key := range []string{`"topics": []`, `"top_posts": []`, `"daily_likes": []`, `"timeline": []`} {
		if !strings.Contains(out, key) {
			t.Errorf("missing %s in:\n%s", key, out)
		}
	}
	if strings.Contains(out, "best_hour") {
		t.Error("best_hour should be omitted when unknown")
	}
}

// --- Markdown ---

func TestMarkdown_FullReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdown().Format(&buf, sampleReport()); err != nil {
		t.Fatalf("format: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# bskypulse report for @alice.bsky.social",
		"## Recommendation",
		"**Best hour:** 03:00 PM",
		"**Top topics:** `golang` `rust`",
		"## Top Posts (2)",
		`golang \| generics`,
		"| 2025-03-02 | 15 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestMarkdown_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdown().Format(&buf, Report{Handle: "bob"}); err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(buf.String(), "No posts found.") {
		t.Errorf("expected empty message, got:\n%s", buf.String())
	}
}

func TestEscapeCell(t *testing.T) {
	if got := escapeCell("a|b\nc  d"); got != `a\|b c d` {
		t.Errorf("escapeCell = %q", got)
	}
}
