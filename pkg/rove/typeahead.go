package rove

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/buoy-ui/buoy/pkg/dom"
)

// MatchFunc resolves a type-ahead query against item labels, ordered
// starting just after the current designation, and returns the index of the
// chosen label or -1 for no match.
type MatchFunc func(query string, labels []string) int

// PrefixMatch picks the first label the query is a case-insensitive prefix
// of. This is the default matcher.
func PrefixMatch(query string, labels []string) int {
	q := strings.ToLower(query)
	for i, label := range labels {
		if strings.HasPrefix(strings.ToLower(label), q) {
			return i
		}
	}
	return -1
}

// FuzzyMatch ranks labels with a fuzzy subsequence search and picks the best
// hit. Comboboxes use it to let "gp" find "Grape".
func FuzzyMatch(query string, labels []string) int {
	matches := fuzzy.Find(query, labels)
	if len(matches) == 0 {
		return -1
	}
	return matches[0].Index
}

// typeahead buffers printable keystrokes into a query and clears it after a
// silence timeout.
type typeahead struct {
	doc    *dom.Document
	reset  time.Duration
	buf    []rune
	cancel func()
}

func newTypeahead(doc *dom.Document, reset time.Duration) *typeahead {
	return &typeahead{doc: doc, reset: reset}
}

// extend appends r, restarts the silence timer, and returns the query so
// far.
func (t *typeahead) extend(r rune) string {
	t.buf = append(t.buf, r)
	if t.cancel != nil {
		t.cancel()
	}
	t.cancel = t.doc.After(t.reset, func() {
		t.buf = t.buf[:0]
		t.cancel = nil
	})
	return string(t.buf)
}

// stop clears the buffer and the pending reset timer.
func (t *typeahead) stop() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.buf = t.buf[:0]
}

// printable reports whether a key identity is a single graphic rune, the
// kind that participates in type-ahead.
func printable(key string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(key)
	if size == 0 || size != len(key) {
		return 0, false
	}
	if unicode.IsSpace(r) || !unicode.IsGraphic(r) {
		return 0, false
	}
	return r, true
}
