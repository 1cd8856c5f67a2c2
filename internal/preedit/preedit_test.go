package preedit

import "testing"

type fakeSink struct {
	buffer []rune
}

func (f *fakeSink) SendBackspace(count int) error {
	if count > len(f.buffer) {
		f.buffer = nil
		return nil
	}
	f.buffer = f.buffer[:len(f.buffer)-count]
	return nil
}

func (f *fakeSink) SendText(text string) error {
	f.buffer = append(f.buffer, []rune(text)...)
	return nil
}

func TestOutputIsIdempotent(t *testing.T) {
	var p PreEdit
	first := p.Output("▽かな")
	if first.Backspace != 0 || first.Insert != "▽かな" {
		t.Fatalf("unexpected first delta: %#v", first)
	}
	second := p.Output("▽かな")
	if !second.Empty() {
		t.Fatalf("expected empty delta on repeated output, got %#v", second)
	}
}

func TestOutputRewritesDivergingTail(t *testing.T) {
	var p PreEdit
	p.Output("▽かk")
	d := p.Output("▽かき")
	if d.Backspace != 1 || d.Insert != "き" {
		t.Fatalf("expected one backspace and 'き', got %#v", d)
	}
}

func TestOutputWithKakuteiErasesCurrent(t *testing.T) {
	var p PreEdit
	p.Output("▼漢字")
	p.Kakutei("漢字")
	d := p.Output("")
	if d.Backspace != 3 || d.Insert != "漢字" {
		t.Fatalf("expected 3 backspaces and '漢字', got %#v", d)
	}
	if p.Current() != "" || p.Pending() != "" {
		t.Fatalf("expected state reset, got current %q pending %q", p.Current(), p.Pending())
	}
}

func TestApplyMirrorsHostBuffer(t *testing.T) {
	var p PreEdit
	sink := &fakeSink{}
	for _, next := range []string{"k", "か", "▽か", "▽かn", "▽かん"} {
		if err := Apply(sink, p.Output(next)); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if got := string(sink.buffer); got != next {
			t.Fatalf("expected host buffer %q, got %q", next, got)
		}
	}
	p.Kakutei("感")
	if err := Apply(sink, p.Output("")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := string(sink.buffer); got != "感" {
		t.Fatalf("expected host buffer '感', got %q", got)
	}
}
