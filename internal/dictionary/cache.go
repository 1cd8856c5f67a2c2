package dictionary

import (
	"sync"
	"unicode/utf8"

	"github.com/gg582/skkfe/internal/jisyo"
)

type cacheKey struct {
	prefix  string
	backend int
}

// completionCache keeps per-backend completion results, grouped by the
// prefix's first rune so a write only drops the group it can affect.
// Remote backends never reach it.
type completionCache struct {
	mu     sync.RWMutex
	groups map[rune]map[cacheKey][]jisyo.Entry
}

func newCompletionCache() *completionCache {
	return &completionCache{groups: make(map[rune]map[cacheKey][]jisyo.Entry)}
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func (c *completionCache) get(prefix string, backend int) ([]jisyo.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries, ok := c.groups[firstRune(prefix)][cacheKey{prefix, backend}]
	return entries, ok
}

func (c *completionCache) put(prefix string, backend int, entries []jisyo.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := firstRune(prefix)
	group, ok := c.groups[r]
	if !ok {
		group = make(map[cacheKey][]jisyo.Entry)
		c.groups[r] = group
	}
	group[cacheKey{prefix, backend}] = entries
}

// invalidate drops cached prefixes sharing word's first rune.
func (c *completionCache) invalidate(word string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.groups, firstRune(word))
}

func (c *completionCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = make(map[rune]map[cacheKey][]jisyo.Entry)
}
