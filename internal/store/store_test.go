package store

import (
	"context"
	"testing"
	"time"

	"github.com/ppiankov/bskypulse/internal/normalize"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// Feed order, newest first. 2025-03-01 is a Saturday.
func sampleRecords() []normalize.Record {
	return []normalize.Record{
		{Text: "a", Date: "2025-03-03", Time: "09:15:00", LikeCount: 10, ReplyCount: 1},
		{Text: "b", Date: "2025-03-03", Time: "09:45:00", LikeCount: 2, ReplyCount: 0},
		{Text: "c", Date: "2025-03-02", Time: "15:00:00", LikeCount: 6, ReplyCount: 2},
		{Text: "d", LikeCount: 100, ReplyCount: 7},
		{Text: "e", Date: "2025-03-01", Time: "23:59:59", LikeCount: 1, ReplyCount: 0},
	}
}

func loadedStore(t *testing.T) *Store {
	t.Helper()
	st := openTestStore(t)
	if err := st.Load(context.Background(), sampleRecords()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return st
}

func TestOpenAndMigrate(t *testing.T) {
	st := openTestStore(t)

	var version string
	if err := st.db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version != "1" {
		t.Fatalf("unexpected schema version: %s", version)
	}
}

func TestOpen_IndependentFrames(t *testing.T) {
	first := loadedStore(t)
	second := openTestStore(t)

	c, err := second.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if c.Total != 0 {
		t.Fatalf("new frame has %d records, want 0", c.Total)
	}

	c, err = first.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if c.Total != 5 {
		t.Fatalf("loaded frame has %d records, want 5", c.Total)
	}
}

func TestCounts(t *testing.T) {
	st := loadedStore(t)

	c, err := st.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	want := Counts{Total: 5, Dated: 4, Likes: 119, Replies: 10}
	if c != want {
		t.Errorf("counts = %+v, want %+v", c, want)
	}
}

func TestLoad_AppendsInOrder(t *testing.T) {
	st := loadedStore(t)
	ctx := context.Background()

	if err := st.Load(ctx, []normalize.Record{{Text: "f", LikeCount: 100}}); err != nil {
		t.Fatalf("load: %v", err)
	}

	top, err := st.TopPosts(ctx, 2)
	if err != nil {
		t.Fatalf("top posts: %v", err)
	}
	if len(top) != 2 || top[0].Text != "d" || top[1].Text != "f" {
		t.Fatalf("top = %+v, want d then f", top)
	}
	if top[1].Seq != 5 {
		t.Errorf("appended seq = %d, want 5", top[1].Seq)
	}
}

func TestLoad_Empty(t *testing.T) {
	st := openTestStore(t)
	if err := st.Load(context.Background(), nil); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestBestHour_TieGoesToEarliestHour(t *testing.T) {
	st := loadedStore(t)

	hs, ok, err := st.BestHour(context.Background())
	if err != nil {
		t.Fatalf("best hour: %v", err)
	}
	if !ok {
		t.Fatal("expected a best hour")
	}
	// Hour 9 averages (10+2)/2 = 6, hour 15 averages 6 too.
	if hs.Hour != 9 {
		t.Errorf("hour = %d, want 9", hs.Hour)
	}
	if hs.Posts != 2 || hs.AvgLikes != 6 {
		t.Errorf("stat = %+v", hs)
	}
}

func TestBestHour_NoDatedRecords(t *testing.T) {
	st := openTestStore(t)
	if err := st.Load(context.Background(), []normalize.Record{{Text: "x", LikeCount: 3}}); err != nil {
		t.Fatalf("load: %v", err)
	}

	_, ok, err := st.BestHour(context.Background())
	if err != nil {
		t.Fatalf("best hour: %v", err)
	}
	if ok {
		t.Error("expected no best hour without timestamps")
	}
}

func TestHeatmap(t *testing.T) {
	st := loadedStore(t)

	cells, err := st.Heatmap(context.Background())
	if err != nil {
		t.Fatalf("heatmap: %v", err)
	}
	want := []HeatCell{
		{Weekday: time.Sunday, Hour: 15, Posts: 1},
		{Weekday: time.Monday, Hour: 9, Posts: 2},
		{Weekday: time.Saturday, Hour: 23, Posts: 1},
	}
	if len(cells) != len(want) {
		t.Fatalf("cells = %+v", cells)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell %d = %+v, want %+v", i, cells[i], want[i])
		}
	}
}

func TestDailyLikes(t *testing.T) {
	st := loadedStore(t)

	days, err := st.DailyLikes(context.Background())
	if err != nil {
		t.Fatalf("daily likes: %v", err)
	}
	want := []DayLikes{
		{Date: "2025-03-01", Likes: 1},
		{Date: "2025-03-02", Likes: 6},
		{Date: "2025-03-03", Likes: 12},
	}
	if len(days) != len(want) {
		t.Fatalf("days = %+v", days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("day %d = %+v, want %+v", i, days[i], want[i])
		}
	}
}

func TestTopPosts(t *testing.T) {
	st := loadedStore(t)

	top, err := st.TopPosts(context.Background(), 3)
	if err != nil {
		t.Fatalf("top posts: %v", err)
	}
	var got []string
	for _, r := range top {
		got = append(got, r.Text)
	}
	if len(got) != 3 || got[0] != "d" || got[1] != "a" || got[2] != "c" {
		t.Errorf("top = %v, want [d a c]", got)
	}
	if top[0].Date != "" || top[0].Replies != 7 {
		t.Errorf("undated top post = %+v", top[0])
	}
}

func TestTopPosts_TiesKeepFeedOrder(t *testing.T) {
	st := openTestStore(t)
	err := st.Load(context.Background(), []normalize.Record{
		{Text: "first", LikeCount: 4},
		{Text: "second", LikeCount: 4},
		{Text: "third", LikeCount: 4},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	top, err := st.TopPosts(context.Background(), 2)
	if err != nil {
		t.Fatalf("top posts: %v", err)
	}
	if len(top) != 2 || top[0].Text != "first" || top[1].Text != "second" {
		t.Errorf("top = %+v", top)
	}
}

func TestTopPosts_NonPositive(t *testing.T) {
	st := loadedStore(t)
	top, err := st.TopPosts(context.Background(), 0)
	if err != nil || top != nil {
		t.Errorf("top = %v err = %v", top, err)
	}
}

func TestTimeline(t *testing.T) {
	st := loadedStore(t)

	rows, err := st.Timeline(context.Background())
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	var got []string
	for _, r := range rows {
		got = append(got, r.Text)
	}
	want := []string{"e", "c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("timeline = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("timeline = %v, want %v", got, want)
			break
		}
	}
}

func TestNilStore(t *testing.T) {
	var st *Store
	if err := st.Close(); err != nil {
		t.Errorf("close nil store: %v", err)
	}
	if err := st.Load(context.Background(), sampleRecords()); err == nil {
		t.Error("expected error loading into nil store")
	}
	if _, _, err := st.BestHour(context.Background()); err == nil {
		t.Error("expected error from nil store")
	}
}
