/*
Package engine drives one SKK composition session: keys come in, the input
state machine collects kana, the henkan state machine walks dictionary
candidates, and the resulting display is diffed onto an output sink.
*/
package engine

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/npillmayer/schuko/tracing"

	"github.com/gg582/skkfe/internal/emitter"
	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/kana"
	"github.com/gg582/skkfe/internal/preedit"
	"github.com/gg582/skkfe/internal/types"
)

// tracer writes to trace with key 'skkfe.engine'
func tracer() tracing.Trace {
	return tracing.Select("skkfe.engine")
}

const (
	DefaultShowCandidatesCount = 4
	DefaultMarkerHenkan        = "▽"
	DefaultMarkerHenkanSelect  = "▼"
	okuriMarker                = "*"
)

// Library is the dictionary the session converts against.
type Library interface {
	Lookup(ctx context.Context, okuri types.OkuriType, word string) []string
	Complete(ctx context.Context, prefix, feed string) []jisyo.Entry
	Register(okuri types.OkuriType, word, candidate string) error
	Purge(okuri types.OkuriType, word, candidate string) error
}

// Registrar asks the user for a word when the candidate list runs out.
// It reports false when the user cancels.
type Registrar interface {
	RequestWord(ctx context.Context, prompt string) (string, bool)
}

type Options struct {
	Table     *kana.Table
	Library   Library
	Output    emitter.Output
	Registrar Registrar

	AcceptIllegalResult     bool
	ImmediatelyOkuriConvert bool
	// ShowCandidatesCount is the number of candidates cycled inline before
	// paging by seven.
	ShowCandidatesCount int
	MarkerHenkan        string
	MarkerHenkanSelect  string
}

// State is the top-level state of a session.
type State int

const (
	StateInput State = iota
	StateHenkan
	StateEscape
)

func (s State) String() string {
	switch s {
	case StateInput:
		return "input"
	case StateHenkan:
		return "henkan"
	case StateEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// InputState holds the feeds collected before conversion.
type InputState struct {
	Mode         types.InputMode
	Feed         string
	HenkanFeed   string
	OkuriFeed    string
	PreviousFeed bool
	Converter    kana.Converter
	Affix        types.Affix
	Abbrev       bool
}

// HenkanState is an active conversion. prev is the input state restored
// when the conversion is rolled back.
type HenkanState struct {
	Okuri      types.OkuriType
	Word       string
	Candidates []string
	Index      int
	prev       InputState
}

type Session struct {
	id       uuid.UUID
	opts     Options
	matcher  *kana.Matcher
	state    State
	input    InputState
	henkan   *HenkanState
	preedit  preedit.PreEdit
	snapshot InputState
}

func NewSession(opts Options) *Session {
	if opts.Table == nil {
		opts.Table = kana.NewRomTable()
	}
	if opts.ShowCandidatesCount <= 0 {
		opts.ShowCandidatesCount = DefaultShowCandidatesCount
	}
	if opts.MarkerHenkan == "" {
		opts.MarkerHenkan = DefaultMarkerHenkan
	}
	if opts.MarkerHenkanSelect == "" {
		opts.MarkerHenkanSelect = DefaultMarkerHenkanSelect
	}
	s := &Session{
		id:      uuid.New(),
		opts:    opts,
		matcher: kana.NewMatcher(opts.Table, opts.AcceptIllegalResult),
	}
	tracer().Debugf("session %s: created with table %s", s.id, opts.Table.Name())
	return s
}

func (s *Session) ID() string { return s.id.String() }

func (s *Session) State() State { return s.state }

func (s *Session) Mode() types.InputMode { return s.input.Mode }

func (s *Session) Input() InputState { return s.input }

// HandleKey processes one key in notation form ("a", "A", " ", "<bs>").
// It reports false when the key was not consumed and should reach the
// host; pending text has been flushed by then.
func (s *Session) HandleKey(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	var handled bool
	switch s.state {
	case StateEscape:
		tracer().Debugf("session %s: escaped, ignoring %q", s.id, key)
		return false, nil
	case StateHenkan:
		handled = s.henkanKey(ctx, key)
	default:
		handled = s.inputKey(ctx, key)
	}
	return handled, s.flush()
}

func (s *Session) flush() error {
	delta := s.preedit.Output(s.Display())
	return preedit.Apply(s.opts.Output, delta)
}

// Display is the preedit text the host should show.
func (s *Session) Display() string {
	switch s.state {
	case StateEscape:
		return ""
	case StateHenkan:
		h := s.henkan
		if h == nil || h.Index < 0 || h.Index >= len(h.Candidates) {
			return s.opts.MarkerHenkanSelect
		}
		return s.opts.MarkerHenkanSelect + stripCandidate(h.Candidates[h.Index]) +
			s.input.Converter.Apply(s.input.OkuriFeed)
	}
	in := s.input
	switch in.Mode {
	case types.ModeOkuriNasi:
		return s.opts.MarkerHenkan + in.HenkanFeed + in.Feed
	case types.ModeOkuriAri:
		return s.opts.MarkerHenkan + in.HenkanFeed + okuriMarker + in.OkuriFeed + in.Feed
	default:
		return in.Feed
	}
}

// Candidates returns the candidate list of the active conversion.
func (s *Session) Candidates() []string {
	if s.henkan == nil {
		return nil
	}
	return append([]string(nil), s.henkan.Candidates...)
}

// Index is the selected candidate, or -1 outside a conversion.
func (s *Session) Index() int {
	if s.henkan == nil {
		return -1
	}
	return s.henkan.Index
}

// Annotation returns the text after ';' of the selected candidate.
func (s *Session) Annotation() string {
	if s.henkan == nil || s.henkan.Index < 0 || s.henkan.Index >= len(s.henkan.Candidates) {
		return ""
	}
	_, annotation, _ := strings.Cut(s.henkan.Candidates[s.henkan.Index], ";")
	return annotation
}

// Completions lists dictionary headwords extending the text typed so far.
func (s *Session) Completions(ctx context.Context) []jisyo.Entry {
	if s.state != StateInput || s.input.Mode != types.ModeOkuriNasi || s.opts.Library == nil {
		return nil
	}
	if s.input.HenkanFeed == "" {
		return nil
	}
	return s.opts.Library.Complete(ctx, s.input.HenkanFeed, s.input.Feed)
}

// Reset drops every pending state, including escape, without emitting.
func (s *Session) Reset() {
	s.state = StateInput
	s.input = InputState{}
	s.henkan = nil
	s.preedit.Reset()
}

// Dispose flushes pending finalized text and releases the session.
func (s *Session) Dispose() error {
	var err error
	if pending := s.preedit.Pending(); pending != "" {
		err = preedit.Apply(s.opts.Output, preedit.Delta{Insert: pending})
	}
	s.Reset()
	tracer().Debugf("session %s: disposed", s.id)
	return err
}

// stripCandidate removes the annotation and affix markers from a
// candidate.
func stripCandidate(candidate string) string {
	word, _, _ := strings.Cut(candidate, ";")
	return strings.Trim(word, ">")
}
