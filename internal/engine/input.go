package engine

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/gg582/skkfe/internal/kana"
	"github.com/gg582/skkfe/internal/types"
)

func (s *Session) inputKey(ctx context.Context, key string) bool {
	s.snapshot = s.input
	in := &s.input

	if kana.IsNotation(key) {
		return s.notationKey(ctx, key)
	}
	if in.Abbrev {
		if key == " " {
			s.henkanTrigger(ctx)
			return true
		}
		in.HenkanFeed += key
		return true
	}
	if in.Mode == types.ModeDirect && in.Converter == kana.ConverterZenkaku {
		s.preedit.Kakutei(width.Widen.String(key))
		return true
	}

	lookup := key
	if isUpperLetter(key) {
		if shifted, ok := s.opts.Table.ShiftedKey(key); ok {
			lookup = shifted
		} else {
			s.henkanPoint()
			lookup = strings.ToLower(key)
		}
	}

	steps, rest := s.matcher.Feed(in.Feed, lookup)
	in.Feed = rest
	handled := true
	for _, step := range steps {
		if s.state == StateEscape {
			break
		}
		if s.state == StateHenkan {
			s.henkanKakutei()
		}
		switch step.Kind {
		case kana.StepLiteral:
			s.acceptResult(ctx, step.Text)
		case kana.StepTrigger:
			if !s.trigger(ctx, step.Handler, step.Key) {
				handled = false
			}
		case kana.StepPassthrough:
			if s.input.Mode == types.ModeDirect {
				s.preedit.Kakutei(step.Text)
			} else {
				s.appendKana(step.Text)
			}
		}
	}
	return handled
}

// notationKey handles named keys. They act on the pending feed directly
// instead of flushing it through the matcher first.
func (s *Session) notationKey(ctx context.Context, key string) bool {
	result, ok := s.opts.Table.Lookup(key)
	if ok && result.Kind == kana.ResultTrigger {
		return s.trigger(ctx, result.Handler, key)
	}
	if ok {
		steps, rest := s.matcher.Feed(s.input.Feed, key)
		s.input.Feed = rest
		for _, step := range steps {
			if step.Kind == kana.StepLiteral {
				s.acceptResult(ctx, step.Text)
			}
		}
		return true
	}
	s.commitInput()
	return false
}

// acceptResult routes finalized kana according to the input mode and
// fires the conversion once the okuri is complete.
func (s *Session) acceptResult(ctx context.Context, text string) {
	in := &s.input
	s.appendKana(text)
	if in.Mode != types.ModeOkuriAri || in.OkuriFeed == "" || in.Feed != "" {
		return
	}
	if s.opts.ImmediatelyOkuriConvert || !strings.HasSuffix(in.OkuriFeed, "っ") {
		s.henkanTrigger(ctx)
	}
}

func (s *Session) appendKana(text string) {
	in := &s.input
	switch in.Mode {
	case types.ModeDirect:
		s.preedit.Kakutei(in.Converter.Apply(text))
	case types.ModeOkuriNasi:
		in.HenkanFeed += text
	case types.ModeOkuriAri:
		if in.PreviousFeed {
			in.HenkanFeed += text
			in.PreviousFeed = false
			return
		}
		in.OkuriFeed += text
	}
}

// resolveFeed finalizes the pending feed without triggering conversion.
func (s *Session) resolveFeed() {
	var steps []kana.Step
	s.matcher.Resolve(s.input.Feed, &steps)
	s.input.Feed = ""
	for _, step := range steps {
		s.appendKana(step.Text)
	}
}

func (s *Session) henkanPoint() {
	in := &s.input
	switch in.Mode {
	case types.ModeDirect:
		in.Mode = types.ModeOkuriNasi
	case types.ModeOkuriNasi:
		if in.HenkanFeed == "" || in.Abbrev {
			return
		}
		in.Mode = types.ModeOkuriAri
		in.PreviousFeed = in.Feed != ""
	}
}

// resetInput returns to direct mode, keeping the converter.
func (s *Session) resetInput() {
	s.input = InputState{Converter: s.input.Converter}
}

// commitInput finalizes whatever is being composed as plain kana.
func (s *Session) commitInput() {
	s.resolveFeed()
	in := &s.input
	if in.Mode == types.ModeDirect {
		return
	}
	s.preedit.Kakutei(in.Converter.Apply(in.HenkanFeed + in.OkuriFeed))
	s.resetInput()
}

// trigger runs a table handler in the input state. It reports whether
// the key was consumed.
func (s *Session) trigger(ctx context.Context, h kana.Handler, key string) bool {
	in := &s.input
	switch h {
	case kana.HandlerHenkanFirst:
		if in.Mode == types.ModeDirect {
			s.preedit.Kakutei(key)
			return true
		}
		s.resolveFeed()
		s.henkanTrigger(ctx)
	case kana.HandlerHenkanPoint:
		s.henkanPoint()
	case kana.HandlerKatakana:
		s.convertOrToggle(kana.ConverterKatakana)
	case kana.HandlerHankatakana:
		s.convertOrToggle(kana.ConverterHankatakana)
	case kana.HandlerZenkaku:
		if in.Mode != types.ModeDirect {
			s.illegal(h)
			return true
		}
		in.Converter = kana.ConverterZenkaku
	case kana.HandlerAbbrev:
		if in.Mode != types.ModeDirect {
			s.illegal(h)
			return true
		}
		in.Mode = types.ModeOkuriNasi
		in.Abbrev = true
	case kana.HandlerAffix:
		s.affix(ctx)
	case kana.HandlerKakutei:
		if in.Mode == types.ModeDirect {
			s.resolveFeed()
			in.Converter = kana.ConverterNone
			return true
		}
		s.commitInput()
	case kana.HandlerCancel:
		if in.Mode == types.ModeDirect && in.Feed == "" {
			return false
		}
		s.resetInput()
	case kana.HandlerBackspace:
		return s.backspace()
	case kana.HandlerEscape:
		s.resetInput()
		s.state = StateEscape
		return false
	default:
		s.illegal(h)
	}
	return true
}

func (s *Session) convertOrToggle(c kana.Converter) {
	in := &s.input
	if in.Mode == types.ModeDirect || in.HenkanFeed == "" {
		if in.Converter == c {
			in.Converter = kana.ConverterNone
		} else {
			in.Converter = c
		}
		return
	}
	s.resolveFeed()
	text := in.HenkanFeed
	if in.Converter == c {
		text = kana.ToHiragana(text)
	} else {
		text = c.Apply(text)
	}
	s.preedit.Kakutei(text)
	s.resetInput()
}

func (s *Session) affix(ctx context.Context) {
	in := &s.input
	switch {
	case in.Mode == types.ModeDirect:
		in.Mode = types.ModeOkuriNasi
		in.HenkanFeed = ">"
		in.Affix = types.AffixSuffix
	case in.Mode == types.ModeOkuriNasi && in.HenkanFeed != "":
		s.resolveFeed()
		in.HenkanFeed += ">"
		in.Affix = types.AffixPrefix
		s.henkanTrigger(ctx)
	default:
		s.illegal(kana.HandlerAffix)
	}
}

func (s *Session) backspace() bool {
	in := &s.input
	switch {
	case in.Feed != "":
		in.Feed = dropLastRune(in.Feed)
	case in.Mode == types.ModeOkuriAri:
		if in.OkuriFeed != "" {
			in.OkuriFeed = dropLastRune(in.OkuriFeed)
		}
		if in.OkuriFeed == "" {
			in.Mode = types.ModeOkuriNasi
			in.PreviousFeed = false
		}
	case in.Mode == types.ModeOkuriNasi:
		if in.HenkanFeed == "" {
			s.resetInput()
			return true
		}
		in.HenkanFeed = dropLastRune(in.HenkanFeed)
		if in.HenkanFeed == "" && in.Affix == types.AffixSuffix {
			in.Affix = types.AffixNone
		}
	default:
		return false
	}
	return true
}

func (s *Session) illegal(h kana.Handler) {
	tracer().Errorf("session %s: %s is not valid in %s/%s", s.id, h, s.state, s.input.Mode)
}

func dropLastRune(text string) string {
	_, size := utf8.DecodeLastRuneInString(text)
	return text[:len(text)-size]
}

func isUpperLetter(key string) bool {
	r, size := utf8.DecodeRuneInString(key)
	return size == len(key) && r < utf8.RuneSelf && unicode.IsUpper(r)
}
