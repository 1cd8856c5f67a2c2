package backend

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/derekparker/trie"

	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/types"
)

// snapshot is an in-memory jisyo with a headword trie for completion and
// the mtime of the file it was loaded from.
type snapshot struct {
	mu    sync.RWMutex
	dict  *jisyo.Jisyo
	index *trie.Trie
	mtime time.Time
}

func newSnapshot() snapshot {
	return snapshot{dict: jisyo.New(), index: trie.New()}
}

func buildIndex(j *jisyo.Jisyo) *trie.Trie {
	index := trie.New()
	for word := range j.OkuriNasi {
		index.Add(word, nil)
	}
	return index
}

// fresh reports whether the file at path still has the mtime recorded at
// the last successful load.
func (s *snapshot) fresh(info os.FileInfo) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.mtime.IsZero() && info.ModTime().Equal(s.mtime)
}

func (s *snapshot) replace(j *jisyo.Jisyo, mtime time.Time) {
	index := buildIndex(j)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dict = j
	s.index = index
	s.mtime = mtime
}

func (s *snapshot) clear() {
	s.replace(jisyo.New(), time.Time{})
}

func (s *snapshot) Lookup(_ context.Context, okuri types.OkuriType, word string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dict.Get(okuri, word)
}

func (s *snapshot) Complete(_ context.Context, prefix string) []jisyo.Entry {
	if prefix == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	words := s.index.PrefixSearch(prefix)
	sort.Strings(words)
	out := make([]jisyo.Entry, 0, len(words))
	for _, word := range words {
		cands := s.dict.Get(types.OkuriNasi, word)
		if len(cands) == 0 {
			continue
		}
		out = append(out, jisyo.Entry{Word: word, Candidates: cands})
	}
	return out
}

func (s *snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dict.Len()
}
