// Package store holds normalized records in an in-memory SQLite frame for
// the aggregate queries behind the analytics report. Nothing is written to
// disk: every Open starts empty and Close discards the data.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/bskypulse/internal/normalize"
)

const wallClockLayout = normalize.DateLayout + " " + normalize.TimeLayout

type Store struct {
	db *sql.DB
}

// Row is one stored record. Seq is its position in feed order.
type Row struct {
	Seq     int
	Text    string
	Date    string
	Time    string
	Likes   int
	Replies int
}

// HourStat aggregates the dated records posted in one local hour.
type HourStat struct {
	Hour     int
	Posts    int
	AvgLikes float64
}

// HeatCell counts dated records per local weekday and hour.
type HeatCell struct {
	Weekday time.Weekday
	Hour    int
	Posts   int
}

// DayLikes sums likes for one local date.
type DayLikes struct {
	Date  string
	Likes int
}

// Counts summarizes the frame.
type Counts struct {
	Total   int
	Dated   int
	Likes   int
	Replies int
}

// Open creates an empty in-memory frame.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load appends records in order. Records without a timestamp are stored but
// left out of every time-based query.
func (s *Store) Load(ctx context.Context, records []normalize.Record) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	var next int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), -1) + 1 FROM records").Scan(&next); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("read next seq: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (seq, text, date, time, hour, weekday, likes, replies, dated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, r := range records {
		var hour, weekday sql.NullInt64
		dated := 0
		if r.HasTimestamp() {
			if wall, err := time.Parse(wallClockLayout, r.Date+" "+r.Time); err == nil {
				hour = sql.NullInt64{Int64: int64(wall.Hour()), Valid: true}
				weekday = sql.NullInt64{Int64: int64(wall.Weekday()), Valid: true}
				dated = 1
			}
		}

		if _, err := stmt.ExecContext(ctx,
			next+i,
			r.Text,
			r.Date,
			r.Time,
			hour,
			weekday,
			r.LikeCount,
			r.ReplyCount,
			dated,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert record %d: %w", next+i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit records: %w", err)
	}
	return nil
}

// BestHour returns the hour with the highest average likes. Ties go to the
// earliest hour. ok is false when no record has a timestamp.
func (s *Store) BestHour(ctx context.Context) (HourStat, bool, error) {
	if s == nil || s.db == nil {
		return HourStat{}, false, errors.New("store is not initialized")
	}

	var hs HourStat
	err := s.db.QueryRowContext(ctx, `
		SELECT hour, COUNT(*), AVG(likes) AS avg_likes
		FROM records
		WHERE dated = 1
		GROUP BY hour
		ORDER BY avg_likes DESC, hour ASC
		LIMIT 1
	`).Scan(&hs.Hour, &hs.Posts, &hs.AvgLikes)
	if errors.Is(err, sql.ErrNoRows) {
		return HourStat{}, false, nil
	}
	if err != nil {
		return HourStat{}, false, fmt.Errorf("best hour: %w", err)
	}
	return hs, true, nil
}

// Heatmap returns non-empty weekday/hour cells, Sunday first.
func (s *Store) Heatmap(ctx context.Context) ([]HeatCell, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT weekday, hour, COUNT(*)
		FROM records
		WHERE dated = 1
		GROUP BY weekday, hour
		ORDER BY weekday, hour
	`)
	if err != nil {
		return nil, fmt.Errorf("heatmap: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var cells []HeatCell
	for rows.Next() {
		var c HeatCell
		var wd int
		if err := rows.Scan(&wd, &c.Hour, &c.Posts); err != nil {
			return nil, fmt.Errorf("scan heat cell: %w", err)
		}
		c.Weekday = time.Weekday(wd)
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate heatmap: %w", err)
	}
	return cells, nil
}

// DailyLikes returns total likes per date in ascending date order.
func (s *Store) DailyLikes(ctx context.Context) ([]DayLikes, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, SUM(likes)
		FROM records
		WHERE dated = 1
		GROUP BY date
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("daily likes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var days []DayLikes
	for rows.Next() {
		var d DayLikes
		if err := rows.Scan(&d.Date, &d.Likes); err != nil {
			return nil, fmt.Errorf("scan daily likes: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily likes: %w", err)
	}
	return days, nil
}

// TopPosts returns up to n records by likes, feed order breaking ties.
// Undated records are included.
func (s *Store) TopPosts(ctx context.Context, n int) ([]Row, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	if n <= 0 {
		return nil, nil
	}

	return s.queryRows(ctx, "top posts", `
		SELECT seq, text, date, time, likes, replies
		FROM records
		ORDER BY likes DESC, seq ASC
		LIMIT ?
	`, n)
}

// Timeline returns dated records oldest first.
func (s *Store) Timeline(ctx context.Context) ([]Row, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}

	return s.queryRows(ctx, "timeline", `
		SELECT seq, text, date, time, likes, replies
		FROM records
		WHERE dated = 1
		ORDER BY date ASC, time ASC, seq DESC
	`)
}

// Counts returns totals over the whole frame.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	if s == nil || s.db == nil {
		return Counts{}, errors.New("store is not initialized")
	}

	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(dated), 0), COALESCE(SUM(likes), 0), COALESCE(SUM(replies), 0)
		FROM records
	`).Scan(&c.Total, &c.Dated, &c.Likes, &c.Replies)
	if err != nil {
		return Counts{}, fmt.Errorf("counts: %w", err)
	}
	return c, nil
}

func (s *Store) queryRows(ctx context.Context, op, query string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", op, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(scanner rowScanner) (Row, error) {
	var r Row
	if err := scanner.Scan(&r.Seq, &r.Text, &r.Date, &r.Time, &r.Likes, &r.Replies); err != nil {
		return Row{}, fmt.Errorf("scan record: %w", err)
	}
	return r, nil
}
