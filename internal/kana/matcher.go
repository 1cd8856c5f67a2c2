package kana

import (
	"strings"
	"unicode/utf8"
)

type StepKind int

const (
	// StepLiteral carries finalized kana.
	StepLiteral StepKind = iota
	// StepTrigger carries a handler bound to an exact table entry.
	StepTrigger
	// StepPassthrough carries a key the table cannot represent.
	StepPassthrough
)

// Step is one finalized unit produced while feeding a key.
type Step struct {
	Kind    StepKind
	Text    string
	Handler Handler
	Key     string
}

// Matcher transliterates keys against a table one key at a time.
type Matcher struct {
	Table         *Table
	AcceptIllegal bool
}

func NewMatcher(table *Table, acceptIllegal bool) *Matcher {
	return &Matcher{Table: table, AcceptIllegal: acceptIllegal}
}

// Feed appends key to feed and returns the finalized steps together with
// the pending feed that remains buffered.
func (m *Matcher) Feed(feed, key string) ([]Step, string) {
	var steps []Step
	rest := m.feed(feed, key, &steps)
	return steps, rest
}

func (m *Matcher) feed(feed, key string, steps *[]Step) string {
	next := feed + key
	candidates := m.Table.PrefixSearch(next)

	switch {
	case len(candidates) == 1 && candidates[0].Key == next:
		return m.finalize(candidates[0], steps)
	case len(candidates) > 0:
		return next
	case feed != "":
		m.Resolve(feed, steps)
		return m.feed("", key, steps)
	default:
		*steps = append(*steps, Step{Kind: StepPassthrough, Text: key, Key: key})
		return ""
	}
}

func (m *Matcher) finalize(entry Entry, steps *[]Step) string {
	result := entry.Result
	if result.Kind == ResultTrigger {
		*steps = append(*steps, Step{Kind: StepTrigger, Handler: result.Handler, Key: entry.Key})
		return ""
	}
	*steps = append(*steps, Step{Kind: StepLiteral, Text: result.Kana, Key: entry.Key})
	return result.Feed
}

// Resolve finalizes a pending feed on its own. A feed without an exact
// entry is kept as raw text only when illegal results are accepted.
func (m *Matcher) Resolve(feed string, steps *[]Step) {
	if feed == "" {
		return
	}
	if result, ok := m.Table.Lookup(feed); ok && result.Kind == ResultLiteral {
		*steps = append(*steps, Step{Kind: StepLiteral, Text: result.Kana, Key: feed})
		if result.Feed != "" {
			m.Resolve(result.Feed, steps)
		}
		return
	}
	if m.AcceptIllegal {
		*steps = append(*steps, Step{Kind: StepLiteral, Text: feed, Key: feed})
		return
	}
	tracer().Debugf("discarding unmatched feed %q", feed)
}

// IsNotation reports whether key is a named key such as "<bs>".
func IsNotation(key string) bool {
	return utf8.RuneCountInString(key) > 1 && strings.HasPrefix(key, "<") && strings.HasSuffix(key, ">")
}
