package kana

import (
	"strings"
	"testing"
)

func feedAll(m *Matcher, input string) ([]Step, string) {
	var all []Step
	feed := ""
	for _, r := range input {
		steps, rest := m.Feed(feed, string(r))
		all = append(all, steps...)
		feed = rest
	}
	return all, feed
}

func joinText(steps []Step) string {
	var b strings.Builder
	for _, step := range steps {
		if step.Kind != StepTrigger {
			b.WriteString(step.Text)
		}
	}
	return b.String()
}

func TestMatcherBasicKana(t *testing.T) {
	m := NewMatcher(NewRomTable(), false)
	steps, feed := feedAll(m, "nihongo")
	if feed != "" {
		t.Fatalf("expected empty feed, got %q", feed)
	}
	if got := joinText(steps); got != "にほんご" {
		t.Fatalf("expected 'にほんご', got %q", got)
	}
}

func TestMatcherSokuonKeepsResidual(t *testing.T) {
	m := NewMatcher(NewRomTable(), false)
	steps, feed := feedAll(m, "kitt")
	if got := joinText(steps); got != "きっ" {
		t.Fatalf("expected 'きっ', got %q", got)
	}
	if feed != "t" {
		t.Fatalf("expected residual feed 't', got %q", feed)
	}
}

func TestMatcherIllegalFeed(t *testing.T) {
	cases := []struct {
		accept bool
		want   string
	}{
		{false, "さ"},
		{true, "kさ"},
	}
	for _, tc := range cases {
		m := NewMatcher(NewRomTable(), tc.accept)
		steps, feed := feedAll(m, "ksa")
		if feed != "" {
			t.Fatalf("expected empty feed, got %q", feed)
		}
		if got := joinText(steps); got != tc.want {
			t.Fatalf("accept=%v: expected %q, got %q", tc.accept, tc.want, got)
		}
	}
}

func TestMatcherPassthrough(t *testing.T) {
	m := NewMatcher(NewRomTable(), false)
	steps, feed := feedAll(m, "1@3")
	if feed != "" {
		t.Fatalf("expected empty feed, got %q", feed)
	}
	if len(steps) != 3 {
		t.Fatalf("expected one step per character, got %d", len(steps))
	}
	for i, want := range []string{"1", "@", "3"} {
		if steps[i].Kind != StepPassthrough || steps[i].Text != want {
			t.Fatalf("step %d: expected passthrough %q, got %#v", i, want, steps[i])
		}
	}
}

func TestMatcherNResolvesBeforeConsonant(t *testing.T) {
	m := NewMatcher(NewRomTable(), false)
	steps, _ := feedAll(m, "kanji")
	if got := joinText(steps); got != "かんじ" {
		t.Fatalf("expected 'かんじ', got %q", got)
	}
}

func TestMatcherTrigger(t *testing.T) {
	m := NewMatcher(NewRomTable(), false)
	steps, feed := m.Feed("", " ")
	if feed != "" || len(steps) != 1 {
		t.Fatalf("expected a single step, got %#v (feed %q)", steps, feed)
	}
	if steps[0].Kind != StepTrigger || steps[0].Handler != HandlerHenkanFirst {
		t.Fatalf("expected henkanFirst trigger, got %#v", steps[0])
	}
}

func TestMatcherResolvePendingFeed(t *testing.T) {
	m := NewMatcher(NewRomTable(), false)
	var steps []Step
	m.Resolve("n", &steps)
	if got := joinText(steps); got != "ん" {
		t.Fatalf("expected 'ん', got %q", got)
	}
}

func TestIsNotation(t *testing.T) {
	if !IsNotation("<bs>") || IsNotation("<") || IsNotation("a") {
		t.Fatalf("unexpected notation detection")
	}
}
