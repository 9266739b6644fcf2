// Package export writes normalized records to CSV and reads them back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/bskypulse/internal/normalize"
)

// Header is the fixed column order of an export.
var Header = []string{"Post", "Date", "Time", "#likes", "#comments"}

// ErrBadHeader is returned by Read when the first row is not Header.
var ErrBadHeader = errors.New("unexpected csv header")

// Write writes Header and one row per record. With no records nothing is
// written, not even the header.
func Write(w io.Writer, records []normalize.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		row := []string{
			r.Text,
			r.Date,
			r.Time,
			strconv.Itoa(r.LikeCount),
			strconv.Itoa(r.ReplyCount),
		}
		if err := cw.Write(row); err != nil {
			return i, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(records), nil
}

// WriteFile writes records to dir/name, creating dir when needed. With no
// records no file is created and the returned path is empty.
func WriteFile(dir, name string, records []normalize.Record) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	if strings.TrimSpace(name) == "" {
		return "", errors.New("file name is required")
	}
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create export dir: %w", err)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := Write(f, records); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// FileName builds "<handle label>_posts_<zone>_<id>.csv", e.g.
// alice_posts_GMT_1a2b3c4d.csv for alice.bsky.social in Europe/London.
func FileName(handle string, loc *time.Location, now time.Time) string {
	label := strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if i := strings.Index(label, "."); i > 0 {
		label = label[:i]
	}
	if label == "" {
		label = "account"
	}

	if loc == nil {
		loc = time.UTC
	}
	zone, _ := now.In(loc).Zone()
	zone = strings.NewReplacer("/", "_", " ", "_").Replace(zone)

	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_posts_%s_%s.csv", label, zone, id)
}

// Read parses a CSV written by Write. Empty input yields no records.
// encoding/csv folds \r\n inside a quoted field to \n, so post text with
// Windows line endings comes back with plain newlines.
func Read(r io.Reader) ([]normalize.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range Header {
		if header[i] != h {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, header[i], h)
		}
	}

	var records []normalize.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		likes, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: #likes: %w", line, err)
		}
		replies, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: #comments: %w", line, err)
		}
		records = append(records, normalize.Record{
			Text:       row[0],
			Date:       row[1],
			Time:       row[2],
			LikeCount:  likes,
			ReplyCount: replies,
		})
	}
	return records, nil
}

// ReadFile opens path and calls Read.
func ReadFile(path string) ([]normalize.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}
