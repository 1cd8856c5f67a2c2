package kana

import (
	"sort"
	"strings"
	"unicode"

	"github.com/derekparker/trie"
)

type ResultKind int

const (
	ResultLiteral ResultKind = iota
	ResultTrigger
)

// Result is what a table key maps to: either kana with a residual feed, or
// a handler trigger.
type Result struct {
	Kind    ResultKind
	Kana    string
	Feed    string
	Handler Handler
}

func Literal(kana, feed string) Result {
	return Result{Kind: ResultLiteral, Kana: kana, Feed: feed}
}

func Trigger(h Handler) Result {
	return Result{Kind: ResultTrigger, Handler: h}
}

type Entry struct {
	Key    string
	Result Result
}

// Table is an immutable, ordered romaji table with a prefix index.
type Table struct {
	name    string
	entries []Entry
	index   map[string]int
	keys    *trie.Trie
}

func NewTable(name string, entries []Entry) *Table {
	t := &Table{
		name:    name,
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
		keys:    trie.New(),
	}
	for _, entry := range entries {
		if entry.Key == "" {
			continue
		}
		if pos, ok := t.index[entry.Key]; ok {
			t.entries[pos] = entry
			continue
		}
		t.index[entry.Key] = len(t.entries)
		t.entries = append(t.entries, entry)
		t.keys.Add(entry.Key, len(t.entries)-1)
	}
	return t
}

func (t *Table) Name() string { return t.name }

func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the table in definition order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) Lookup(key string) (Result, bool) {
	if t == nil {
		return Result{}, false
	}
	pos, ok := t.index[key]
	if !ok {
		return Result{}, false
	}
	return t.entries[pos].Result, true
}

// PrefixSearch returns every entry whose key starts with prefix, in
// definition order.
func (t *Table) PrefixSearch(prefix string) []Entry {
	if t == nil || prefix == "" {
		return nil
	}
	keys := t.keys.PrefixSearch(prefix)
	if len(keys) == 0 {
		return nil
	}
	positions := make([]int, 0, len(keys))
	for _, key := range keys {
		if pos, ok := t.index[key]; ok {
			positions = append(positions, pos)
		}
	}
	sort.Ints(positions)
	out := make([]Entry, 0, len(positions))
	for _, pos := range positions {
		out = append(out, t.entries[pos])
	}
	return out
}

// ShiftedKey returns the virtual key registered for an upper-case letter,
// such as "<s-l>" for "L".
func (t *Table) ShiftedKey(key string) (string, bool) {
	r := []rune(key)
	if len(r) != 1 || !unicode.IsUpper(r[0]) {
		return "", false
	}
	virtual := "<s-" + strings.ToLower(key) + ">"
	if _, ok := t.Lookup(virtual); ok {
		return virtual, true
	}
	return "", false
}

// Override returns a new table with the given entries replacing or
// extending the receiver's.
func (t *Table) Override(name string, entries []Entry) *Table {
	merged := t.Entries()
	merged = append(merged, entries...)
	return NewTable(name, merged)
}
