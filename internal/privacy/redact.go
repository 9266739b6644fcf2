// Package privacy masks parts of post text before it leaves the process.
package privacy

import (
	"fmt"
	"regexp"

	"github.com/ppiankov/bskypulse/internal/normalize"
)

const redactedPlaceholder = "[REDACTED]"

// mentionPattern matches Bluesky handle mentions such as @alice.bsky.social.
// The @ must start the text or follow a character that cannot end an email
// local part; group 1 holds that character.
var mentionPattern = regexp.MustCompile(`(^|[^\w.+-])@[A-Za-z0-9][A-Za-z0-9.-]*[A-Za-z0-9]`)

// Redactor replaces matches of its patterns with [REDACTED].
// A nil *Redactor or one without patterns leaves text unchanged.
type Redactor struct {
	patterns []*regexp.Regexp
	mentions bool
}

// New compiles patterns. When mentions is set, handle mentions are redacted
// as well.
func New(patterns []string, mentions bool) (*Redactor, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile redact pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &Redactor{patterns: compiled, mentions: mentions}, nil
}

// Text applies every pattern to s.
func (r *Redactor) Text(s string) string {
	if r == nil {
		return s
	}
	for _, re := range r.patterns {
		s = re.ReplaceAllString(s, redactedPlaceholder)
	}
	if r.mentions {
		s = mentionPattern.ReplaceAllString(s, "${1}"+redactedPlaceholder)
	}
	return s
}

// Records returns a copy of records with redacted text.
func (r *Redactor) Records(records []normalize.Record) []normalize.Record {
	if r == nil || (len(r.patterns) == 0 && !r.mentions) {
		return records
	}
	out := make([]normalize.Record, len(records))
	for i, rec := range records {
		rec.Text = r.Text(rec.Text)
		out[i] = rec
	}
	return out
}
