package dictionary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/kana"
	"github.com/gg582/skkfe/internal/types"
)

type Options struct {
	// User is the only backend that accepts writes. It may be nil.
	User Writable
	// Backends are consulted after User, in this order.
	Backends []Dictionary
	// WriteThrough saves the user dictionary after every write.
	WriteThrough bool
	// Table expands a pending romaji feed during completion.
	Table   *kana.Table
	Metrics *Metrics
}

// Library is the merge engine over an ordered list of backends.
type Library struct {
	user         Writable
	backends     []Dictionary
	writeThrough bool
	table        *kana.Table
	metrics      *Metrics
	cache        *completionCache
}

func NewLibrary(opts Options) *Library {
	backends := make([]Dictionary, 0, len(opts.Backends)+1)
	if opts.User != nil {
		backends = append(backends, opts.User)
	}
	for _, b := range opts.Backends {
		if b != nil {
			backends = append(backends, b)
		}
	}
	table := opts.Table
	if table == nil {
		table = kana.NewRomTable()
	}
	return &Library{
		user:         opts.User,
		backends:     backends,
		writeThrough: opts.WriteThrough,
		table:        table,
		metrics:      opts.Metrics,
		cache:        newCompletionCache(),
	}
}

// Lookup merges candidates from every backend. A candidate keeps the
// position given by the first backend that returned it.
func (l *Library) Lookup(ctx context.Context, okuri types.OkuriType, word string) []string {
	if word == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, b := range l.backends {
		cands := b.Lookup(ctx, okuri, word)
		l.metrics.lookup(nameOf(b), len(cands) > 0)
		for _, c := range cands {
			if _, ok := seen[c]; ok || c == "" {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	tracer().Debugf("lookup %s %q: %d candidates", okuri, word, len(out))
	return out
}

// Complete returns headwords starting with prefix, extended by every kana
// the pending feed can still turn into. Headwords holding recently
// registered candidates come first.
func (l *Library) Complete(ctx context.Context, prefix, feed string) []jisyo.Entry {
	if prefix == "" && feed == "" {
		return nil
	}
	if feed == "" && utf8.RuneCountInString(prefix) == 1 {
		cands := l.Lookup(ctx, types.OkuriNasi, prefix)
		if len(cands) == 0 {
			return nil
		}
		return []jisyo.Entry{{Word: prefix, Candidates: cands}}
	}

	order := []string{}
	merged := make(map[string][]string)
	for _, p := range l.expandPrefixes(prefix, feed) {
		for _, entry := range l.completePrefix(ctx, p) {
			list, ok := merged[entry.Word]
			if !ok {
				order = append(order, entry.Word)
			}
			for _, c := range entry.Candidates {
				if !containsString(list, c) {
					list = append(list, c)
				}
			}
			merged[entry.Word] = list
		}
	}

	entries := make([]jisyo.Entry, 0, len(order))
	for _, word := range order {
		entries = append(entries, jisyo.Entry{Word: word, Candidates: merged[word]})
	}
	var ranks map[string]int64
	if l.user != nil {
		ranks = l.user.Ranks()
	}
	return rankEntries(entries, ranks)
}

func (l *Library) expandPrefixes(prefix, feed string) []string {
	if feed == "" {
		return []string{prefix}
	}
	var out []string
	seen := make(map[string]struct{})
	for _, entry := range l.table.PrefixSearch(feed) {
		if entry.Result.Kind != kana.ResultLiteral || entry.Result.Kana == "" {
			continue
		}
		p := prefix + entry.Result.Kana
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 && prefix != "" {
		out = append(out, prefix)
	}
	return out
}

func (l *Library) completePrefix(ctx context.Context, prefix string) []jisyo.Entry {
	var out []jisyo.Entry
	index := make(map[string]int)
	for i, b := range l.backends {
		for _, entry := range l.backendComplete(ctx, i, b, prefix) {
			pos, ok := index[entry.Word]
			if !ok {
				index[entry.Word] = len(out)
				out = append(out, jisyo.Entry{Word: entry.Word, Candidates: append([]string(nil), entry.Candidates...)})
				continue
			}
			for _, c := range entry.Candidates {
				if !containsString(out[pos].Candidates, c) {
					out[pos].Candidates = append(out[pos].Candidates, c)
				}
			}
		}
	}
	return out
}

// backendComplete asks one backend, going through the cache unless the
// backend is remote. An empty remote answer may be a transient failure.
func (l *Library) backendComplete(ctx context.Context, i int, b Dictionary, prefix string) []jisyo.Entry {
	if isRemote(b) {
		return b.Complete(ctx, prefix)
	}
	if cached, ok := l.cache.get(prefix, i); ok {
		return cached
	}
	entries := b.Complete(ctx, prefix)
	l.cache.put(prefix, i, entries)
	return entries
}

// rankEntries orders entries and their candidates by rank, newest first.
// Unranked candidates keep their merged order after the ranked ones, and
// headwords without any ranked candidate follow in lexicographic order.
func rankEntries(entries []jisyo.Entry, ranks map[string]int64) []jisyo.Entry {
	type ranked struct {
		entry jisyo.Entry
		top   int64
	}
	items := make([]ranked, 0, len(entries))
	for _, e := range entries {
		cands := append([]string(nil), e.Candidates...)
		sort.SliceStable(cands, func(i, j int) bool {
			return ranks[cands[i]] > ranks[cands[j]]
		})
		var top int64
		if len(cands) > 0 {
			top = ranks[cands[0]]
		}
		items = append(items, ranked{entry: jisyo.Entry{Word: e.Word, Candidates: cands}, top: top})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.top != b.top {
			return a.top > b.top
		}
		return a.entry.Word < b.entry.Word
	})
	out := make([]jisyo.Entry, len(items))
	for i, item := range items {
		out[i] = item.entry
	}
	return out
}

// Register records candidate for word in the user dictionary. It is a
// no-op without a user dictionary or for an empty candidate.
func (l *Library) Register(okuri types.OkuriType, word, candidate string) error {
	if l.user == nil || word == "" || candidate == "" {
		return nil
	}
	l.user.Register(okuri, word, candidate)
	l.cache.invalidate(word)
	l.metrics.registered()
	if l.writeThrough {
		return l.user.Save()
	}
	return nil
}

// Purge removes candidate for word from the user dictionary only.
func (l *Library) Purge(okuri types.OkuriType, word, candidate string) error {
	if l.user == nil || word == "" || candidate == "" {
		return nil
	}
	l.user.Purge(okuri, word, candidate)
	l.cache.invalidate(word)
	if l.writeThrough {
		return l.user.Save()
	}
	return nil
}

// Save flushes the user dictionary.
func (l *Library) Save() error {
	if l.user == nil {
		return nil
	}
	return l.user.Save()
}

// Reload loads every backend that reads from a store. Failing backends
// stay empty; their errors are joined.
func (l *Library) Reload(ctx context.Context) error {
	var errs []error
	for _, b := range l.backends {
		loader, ok := b.(Loader)
		if !ok {
			continue
		}
		if err := loader.Load(ctx); err != nil {
			name := nameOf(b)
			tracer().Errorf("load %s: %v", name, err)
			l.metrics.loadFailed(name)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	l.cache.clear()
	return errors.Join(errs...)
}

// Describe lists backend names in lookup order.
func (l *Library) Describe() string {
	names := make([]string, 0, len(l.backends))
	for _, b := range l.backends {
		names = append(names, nameOf(b))
	}
	return strings.Join(names, ", ")
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
