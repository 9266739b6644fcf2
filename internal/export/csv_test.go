package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/bskypulse/internal/normalize"
)

func sampleRecords() []normalize.Record {
	return []normalize.Record{
		{Text: "plain post", Date: "2025-03-01", Time: "09:15:00", LikeCount: 12, ReplyCount: 3},
		{Text: "comma, \"quotes\"\nand newline", Date: "2025-03-01", Time: "08:00:00", LikeCount: 0, ReplyCount: 0},
		{Text: "unknown time", Date: "", Time: "", LikeCount: 5, ReplyCount: 1},
		{Text: "ünïcödé 🦋", Date: "2025-02-28", Time: "23:59:59", LikeCount: 1, ReplyCount: 2},
	}
}

func TestWrite_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, sampleRecords()[:1])
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}
	want := "Post,Date,Time,#likes,#comments\nplain post,2025-03-01,09:15:00,12,3\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWrite_QuotesSpecialCharacters(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, sampleRecords()[1:2]); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `"comma, ""quotes""`) {
		t.Errorf("text not quoted: %q", buf.String())
	}
}

func TestWrite_EmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, nil)
	if err != nil || n != 0 {
		t.Fatalf("n = %d err = %v", n, err)
	}
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestRoundTrip(t *testing.T) {
	in := sampleRecords()

	var buf bytes.Buffer
	if _, err := Write(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("rows = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("row %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestRoundTrip_FoldsCRLFInText(t *testing.T) {
	var buf bytes.Buffer
	in := []normalize.Record{{Text: "line one\r\nline two", Date: "2025-03-01", Time: "09:15:00", LikeCount: 1}}
	if _, err := Write(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 1 || out[0].Text != "line one\nline two" {
		t.Errorf("records = %+v", out)
	}
	if out[0].Date != in[0].Date || out[0].LikeCount != 1 {
		t.Errorf("other fields changed: %+v", out[0])
	}
}

func TestRead_Empty(t *testing.T) {
	out, err := Read(strings.NewReader(""))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("records = %d, want 0", len(out))
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	out, err := Read(strings.NewReader("Post,Date,Time,#likes,#comments\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("records = %d, want 0", len(out))
	}
}

func TestRead_BadHeader(t *testing.T) {
	_, err := Read(strings.NewReader("Text,Date,Time,likes,comments\n"))
	if !errors.Is(err, ErrBadHeader) {
		t.Fatalf("err = %v, want ErrBadHeader", err)
	}
}

func TestRead_BadCount(t *testing.T) {
	_, err := Read(strings.NewReader("Post,Date,Time,#likes,#comments\nx,2025-01-01,10:00:00,many,0\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v, want line 2 error", err)
	}
}

func TestWriteFile_CreatesDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	path, err := WriteFile(dir, "alice.csv", sampleRecords())
	if err != nil {
		t.Fatalf("write file: %v", err)
	}
	if path != filepath.Join(dir, "alice.csv") {
		t.Errorf("path = %q", path)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(got) != len(sampleRecords()) {
		t.Errorf("rows = %d", len(got))
	}
}

func TestWriteFile_EmptyCreatesNoFile(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteFile(dir, "none.csv", nil)
	if err != nil {
		t.Fatalf("write file: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if _, err := os.Stat(filepath.Join(dir, "none.csv")); !os.IsNotExist(err) {
		t.Errorf("file should not exist, stat err = %v", err)
	}
}

func TestFileName(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	winter := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	name := FileName("alice.bsky.social", london, winter)
	if !regexp.MustCompile(`^alice_posts_GMT_[0-9a-f]{8}\.csv$`).MatchString(name) {
		t.Errorf("name = %q", name)
	}

	other := FileName("alice.bsky.social", london, winter)
	if other == name {
		t.Error("file names should be unique")
	}

	if got := FileName("@bob", nil, winter); !strings.HasPrefix(got, "bob_posts_UTC_") {
		t.Errorf("name = %q, want bob_posts_UTC_ prefix", got)
	}
	if got := FileName("", nil, winter); !strings.HasPrefix(got, "account_posts_") {
		t.Errorf("name = %q, want account_posts_ prefix", got)
	}
}
