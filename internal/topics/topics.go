// Package topics finds the most frequent informative words across posts.
package topics

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"mvdan.cc/xurls/v2"
)

// MinWordLength is the shortest word that counts as a topic.
const MinWordLength = 3

// Topic is a word and how many times it appeared.
type Topic struct {
	Word  string
	Count int
}

var urlPattern = xurls.Relaxed()

// Top returns the n most frequent topic words. Ties are broken alphabetically.
func Top(texts []string, n int) []string {
	ranked := Rank(texts)
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	words := make([]string, 0, len(ranked))
	for _, t := range ranked {
		words = append(words, t.Word)
	}
	return words
}

// Rank counts every topic word in texts, most frequent first.
func Rank(texts []string) []Topic {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, w := range Words(text) {
			counts[w]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	ranked := make([]Topic, 0, len(counts))
	for w, c := range counts {
		ranked = append(ranked, Topic{Word: w, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	return ranked
}

// Words lowercases text, drops URLs and punctuation, and returns the words
// that survive the stopword, length and uninformative filters, in order.
func Words(text string) []string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, " ")
	text = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, text)

	var out []string
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) < MinWordLength {
			continue
		}
		if _, ok := stopwords[w]; ok {
			continue
		}
		if _, ok := uninformative[w]; ok {
			continue
		}
		out = append(out, w)
	}
	return out
}
