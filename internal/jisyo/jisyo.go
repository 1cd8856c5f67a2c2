package jisyo

import (
	"sort"

	"github.com/gg582/skkfe/internal/types"
)

// Entry pairs a headword with its ordered candidates.
type Entry struct {
	Word       string
	Candidates []string
}

// Jisyo is the two-partition entry set. Candidate lists are ordered most
// recent first and never hold duplicates or empty strings.
type Jisyo struct {
	OkuriAri  map[string][]string
	OkuriNasi map[string][]string
}

func New() *Jisyo {
	return &Jisyo{
		OkuriAri:  make(map[string][]string),
		OkuriNasi: make(map[string][]string),
	}
}

func (j *Jisyo) partition(okuri types.OkuriType) map[string][]string {
	if okuri == types.OkuriAri {
		return j.OkuriAri
	}
	return j.OkuriNasi
}

// Get returns a copy of the candidates stored for word.
func (j *Jisyo) Get(okuri types.OkuriType, word string) []string {
	if j == nil {
		return nil
	}
	cands := j.partition(okuri)[word]
	if len(cands) == 0 {
		return nil
	}
	out := make([]string, len(cands))
	copy(out, cands)
	return out
}

// Add appends candidates not already present, keeping existing order.
func (j *Jisyo) Add(okuri types.OkuriType, word string, candidates ...string) {
	if word == "" {
		return
	}
	part := j.partition(okuri)
	list := part[word]
	for _, c := range candidates {
		if c == "" || contains(list, c) {
			continue
		}
		list = append(list, c)
	}
	if len(list) > 0 {
		part[word] = list
	}
}

// Register moves candidate to the front of word's list.
func (j *Jisyo) Register(okuri types.OkuriType, word, candidate string) {
	if word == "" || candidate == "" {
		return
	}
	part := j.partition(okuri)
	list := remove(part[word], candidate)
	part[word] = append([]string{candidate}, list...)
}

// Purge removes candidate from word's list and drops the headword once
// the list is empty. It reports whether anything changed.
func (j *Jisyo) Purge(okuri types.OkuriType, word, candidate string) bool {
	part := j.partition(okuri)
	list, ok := part[word]
	if !ok || !contains(list, candidate) {
		return false
	}
	list = remove(list, candidate)
	if len(list) == 0 {
		delete(part, word)
	} else {
		part[word] = list
	}
	return true
}

// Headwords lists the partition's keys in the order the jisyo file format
// requires: okuri-ari descending, okuri-nasi ascending.
func (j *Jisyo) Headwords(okuri types.OkuriType) []string {
	part := j.partition(okuri)
	words := make([]string, 0, len(part))
	for w := range part {
		words = append(words, w)
	}
	if okuri == types.OkuriAri {
		sort.Sort(sort.Reverse(sort.StringSlice(words)))
	} else {
		sort.Strings(words)
	}
	return words
}

func (j *Jisyo) Len() int {
	if j == nil {
		return 0
	}
	return len(j.OkuriAri) + len(j.OkuriNasi)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0:0]
	for _, item := range list {
		if item != s {
			out = append(out, item)
		}
	}
	return out
}
