package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/eiannone/keyboard"

	"github.com/gg582/skkfe/internal/emitter"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"ka", []string{"k", "a"}},
		{"a<bs>b", []string{"a", "<bs>", "b"}},
		{"<c-j><cr>", []string{"<c-j>", "<cr>"}},
		{"a<b", []string{"a", "<", "b"}},
		{"<>", []string{"<", ">"}},
		{"< x>", []string{"<", " ", "x", ">"}},
		{"漢a", []string{"漢", "a"}},
	}
	for _, tt := range tests {
		if got := ParseKeys(tt.line); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ParseKeys(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestKeyNotation(t *testing.T) {
	if got := keyNotation('a', 0); got != "a" {
		t.Fatalf("expected rune key, got %q", got)
	}
	if got := keyNotation(0, keyboard.KeyBackspace2); got != "<bs>" {
		t.Fatalf("expected <bs>, got %q", got)
	}
	if got := keyNotation(0, keyboard.KeySpace); got != " " {
		t.Fatalf("expected space, got %q", got)
	}
	if got := keyNotation(0, keyboard.KeyF1); got != "" {
		t.Fatalf("expected unsupported key to be dropped, got %q", got)
	}
}

func TestKeySourceSkipsUnsupported(t *testing.T) {
	events := make(chan keyboard.KeyEvent, 3)
	events <- keyboard.KeyEvent{Key: keyboard.KeyF1}
	events <- keyboard.KeyEvent{Rune: 'k'}
	close(events)

	keys := &keySource{events: events}
	key, err := keys.Next(context.Background())
	if err != nil || key != "k" {
		t.Fatalf("expected k, got %q (%v)", key, err)
	}
	if _, err := keys.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF on closed channel, got %v", err)
	}
}

func TestKeySourceHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	keys := &keySource{events: make(chan keyboard.KeyEvent)}
	if _, err := keys.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHostKey(t *testing.T) {
	buf := emitter.NewBuffer()
	for _, key := range []string{"a", "b", "<bs>", "<cr>", "<tab>", "<c-g>", "c"} {
		if err := hostKey(buf, key, "\n"); err != nil {
			t.Fatalf("hostKey(%q): %v", key, err)
		}
	}
	if got := buf.String(); got != "a\n\tc" {
		t.Fatalf("unexpected host output %q", got)
	}
}

func TestRawLineWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := rawLineWriter{w: &buf}.Write([]byte("a\nb\n"))
	if err != nil || n != 4 {
		t.Fatalf("unexpected write result %d, %v", n, err)
	}
	if got := buf.String(); got != "a\r\nb\r\n" {
		t.Fatalf("expected CRLF line ends, got %q", got)
	}
}
