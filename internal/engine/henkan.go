package engine

import (
	"context"
	"strings"

	"github.com/gg582/skkfe/internal/types"
)

const (
	pageSize = 7
	// selectKeys pick a candidate on the current page once paging starts.
	selectKeys = "asdfjkl"
)

// henkanTrigger looks up the composed word and enters the henkan state on
// the first candidate. An empty henkan feed is a no-op.
func (s *Session) henkanTrigger(ctx context.Context) {
	in := &s.input
	if in.HenkanFeed == "" || s.opts.Library == nil {
		return
	}
	okuri := types.OkuriNasi
	word := in.HenkanFeed
	if in.Mode == types.ModeOkuriAri {
		okuri = types.OkuriAri
		word += okuriConsonant(in.OkuriFeed)
	}
	candidates := s.opts.Library.Lookup(ctx, okuri, word)
	tracer().Debugf("session %s: henkan %q (%s), %d candidates", s.id, word, okuri, len(candidates))
	s.henkan = &HenkanState{
		Okuri:      okuri,
		Word:       word,
		Candidates: candidates,
		Index:      -1,
		prev:       s.snapshot,
	}
	s.state = StateHenkan
	s.henkanForward(ctx)
}

func (s *Session) henkanKey(ctx context.Context, key string) bool {
	h := s.henkan
	switch key {
	case " ":
		s.henkanForward(ctx)
	case "x":
		s.henkanBackward()
	case "X":
		s.henkanPurge()
	case "<c-j>", "<cr>":
		s.henkanKakutei()
	case "<c-g>", "<bs>", "<c-h>":
		s.rollback()
	case "<esc>":
		s.henkan = nil
		s.resetInput()
		s.state = StateEscape
		return false
	default:
		if n := strings.Index(selectKeys, key); n >= 0 && len(key) == 1 && h.Index >= s.opts.ShowCandidatesCount {
			s.SelectCandidate(n)
			return true
		}
		s.henkanKakutei()
		return s.inputKey(ctx, key)
	}
	return true
}

// henkanForward advances one candidate inline and a page at a time once
// the inline threshold is reached. Running past the end asks for a new
// word.
func (s *Session) henkanForward(ctx context.Context) {
	h := s.henkan
	next := h.Index + 1
	if h.Index >= s.opts.ShowCandidatesCount {
		next = h.Index + pageSize
	}
	if next < len(h.Candidates) {
		h.Index = next
		return
	}
	s.registerWord(ctx)
}

func (s *Session) henkanBackward() {
	h := s.henkan
	if h.Index > s.opts.ShowCandidatesCount {
		h.Index -= pageSize
	} else {
		h.Index--
	}
	if h.Index < 0 {
		s.rollback()
	}
}

// SelectCandidate picks the n-th candidate of the current page and
// finalizes it.
func (s *Session) SelectCandidate(n int) bool {
	h := s.henkan
	if s.state != StateHenkan || h == nil || n < 0 {
		return false
	}
	index := h.Index + n
	if h.Index < s.opts.ShowCandidatesCount {
		index = n
	}
	if index >= len(h.Candidates) {
		return false
	}
	h.Index = index
	s.henkanKakutei()
	return true
}

func (s *Session) registerWord(ctx context.Context) {
	h := s.henkan
	var word string
	ok := false
	if s.opts.Registrar != nil {
		word, ok = s.opts.Registrar.RequestWord(ctx, h.Word)
	}
	if !ok || word == "" {
		tracer().Debugf("session %s: registration of %q cancelled", s.id, h.Word)
		if h.Index < 0 {
			s.rollback()
		}
		return
	}
	if err := s.opts.Library.Register(h.Okuri, h.Word, word); err != nil {
		tracer().Errorf("session %s: register %q: %v", s.id, h.Word, err)
	}
	s.preedit.Kakutei(word + s.input.Converter.Apply(s.input.OkuriFeed))
	s.leaveHenkan()
}

// henkanKakutei registers the selected candidate and finalizes it with
// the okuri tail.
func (s *Session) henkanKakutei() {
	h := s.henkan
	if h == nil || h.Index < 0 || h.Index >= len(h.Candidates) {
		s.leaveHenkan()
		return
	}
	candidate := h.Candidates[h.Index]
	if err := s.opts.Library.Register(h.Okuri, h.Word, candidate); err != nil {
		tracer().Errorf("session %s: register %q: %v", s.id, h.Word, err)
	}
	s.preedit.Kakutei(stripCandidate(candidate) + s.input.Converter.Apply(s.input.OkuriFeed))
	s.leaveHenkan()
}

func (s *Session) henkanPurge() {
	h := s.henkan
	if h.Index >= 0 && h.Index < len(h.Candidates) {
		if err := s.opts.Library.Purge(h.Okuri, h.Word, h.Candidates[h.Index]); err != nil {
			tracer().Errorf("session %s: purge %q: %v", s.id, h.Word, err)
		}
	}
	s.leaveHenkan()
}

// rollback returns to the input state the conversion started from.
func (s *Session) rollback() {
	s.input = s.henkan.prev
	s.henkan = nil
	s.state = StateInput
}

func (s *Session) leaveHenkan() {
	s.henkan = nil
	s.state = StateInput
	s.resetInput()
}
