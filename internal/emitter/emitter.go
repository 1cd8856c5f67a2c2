package emitter

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Terminal mirrors committed and preedit text onto a character terminal.
// It remembers the runes it wrote so a backspace erases as many cells as
// the rune occupied.
type Terminal struct {
	mu          sync.Mutex
	out         io.Writer
	closer      io.Closer
	written     []rune
	inputBuffer strings.Builder
	closed      bool
}

// NewTerminal writes to out. If out is also an io.Closer it is closed by
// Close.
func NewTerminal(out io.Writer) *Terminal {
	t := &Terminal{out: out}
	if c, ok := out.(io.Closer); ok {
		t.closer = c
	}
	return t
}

func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	err := t.flushBuffer()
	if t.closer != nil {
		if cerr := t.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (t *Terminal) SendBackspace(count int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.flushBuffer(); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := t.mirrorBackspace(); err != nil {
			return err
		}
	}
	return nil
}

func (t *Terminal) SendText(text string) error {
	if text == "" {
		return nil
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("invalid utf-8 sequence")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputBuffer.WriteString(text)
	return t.flushBuffer()
}

// Text returns everything currently shown.
func (t *Terminal) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.written)
}

func (t *Terminal) mirrorBackspace() error {
	if len(t.written) == 0 {
		return nil
	}
	last := t.written[len(t.written)-1]
	t.written = t.written[:len(t.written)-1]
	cells := runewidth.RuneWidth(last)
	if cells <= 0 {
		return nil
	}
	erase := strings.Repeat("\b", cells) + strings.Repeat(" ", cells) + strings.Repeat("\b", cells)
	_, err := io.WriteString(t.out, erase)
	return err
}

func (t *Terminal) flushBuffer() error {
	if t.inputBuffer.Len() == 0 {
		return nil
	}
	data := t.inputBuffer.String()
	t.inputBuffer.Reset()
	if _, err := io.WriteString(t.out, data); err != nil {
		return err
	}
	t.written = append(t.written, []rune(data)...)
	return nil
}
