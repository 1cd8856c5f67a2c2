package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/types"
)

// UserDictionary is the writable backend. It keeps a recency rank per
// candidate and persists as UTF-8 jisyo text through whole-file rewrites.
// An empty path keeps everything in memory.
type UserDictionary struct {
	snapshot
	path     string
	ranks    map[string]int64
	lastRank int64
	now      func() time.Time
}

func NewUserDictionary(path string) *UserDictionary {
	return &UserDictionary{
		snapshot: newSnapshot(),
		path:     path,
		ranks:    make(map[string]int64),
		now:      time.Now,
	}
}

func (u *UserDictionary) Name() string { return "user" }

func (u *UserDictionary) Path() string { return u.path }

// Load replaces the in-memory entries with the file contents unless the
// file is unchanged. A missing file is not an error.
func (u *UserDictionary) Load(_ context.Context) error {
	if u.path == "" {
		return nil
	}
	info, err := os.Stat(u.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat user jisyo: %w", err)
	}
	if u.fresh(info) {
		return nil
	}
	j, err := jisyo.ReadFile(u.path, "utf-8")
	if err != nil {
		return err
	}
	u.replace(j, info.ModTime())
	tracer().Infof("loaded user jisyo %s: %d headwords", u.path, j.Len())
	return nil
}

// Save rewrites the whole file through a temporary file in the same
// directory.
func (u *UserDictionary) Save() error {
	if u.path == "" {
		return nil
	}
	dir := filepath.Dir(u.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create user jisyo dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".skkfe-jisyo-*")
	if err != nil {
		return fmt.Errorf("create temp jisyo: %w", err)
	}
	defer os.Remove(tmp.Name())

	u.mu.RLock()
	err = jisyo.Write(tmp, u.dict)
	u.mu.RUnlock()
	if err != nil {
		tmp.Close()
		return fmt.Errorf("write user jisyo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp jisyo: %w", err)
	}
	if err := os.Rename(tmp.Name(), u.path); err != nil {
		return fmt.Errorf("replace user jisyo: %w", err)
	}
	if info, err := os.Stat(u.path); err == nil {
		u.mu.Lock()
		u.mtime = info.ModTime()
		u.mu.Unlock()
	}
	tracer().Debugf("saved user jisyo %s", u.path)
	return nil
}

// Register moves candidate to the front of word's list and bumps its rank.
func (u *UserDictionary) Register(okuri types.OkuriType, word, candidate string) {
	if word == "" || candidate == "" {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.dict.Register(okuri, word, candidate)
	if okuri == types.OkuriNasi {
		u.index.Add(word, nil)
	}
	rank := u.now().UnixMilli()
	if rank <= u.lastRank {
		rank = u.lastRank + 1
	}
	u.lastRank = rank
	u.ranks[candidate] = rank
}

// Purge removes one candidate; the headword goes with its last candidate.
func (u *UserDictionary) Purge(okuri types.OkuriType, word, candidate string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.dict.Purge(okuri, word, candidate) {
		return
	}
	if okuri == types.OkuriNasi && len(u.dict.OkuriNasi[word]) == 0 {
		u.index.Remove(word)
	}
}

// Ranks returns a copy of the candidate rank table.
func (u *UserDictionary) Ranks() map[string]int64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make(map[string]int64, len(u.ranks))
	for k, v := range u.ranks {
		out[k] = v
	}
	return out
}
