package emitter

import "sync"

// Buffer records output as an editable rune buffer. Backspaces past the
// start are ignored.
type Buffer struct {
	mu     sync.Mutex
	buffer []rune
}

func NewBuffer() *Buffer { return &Buffer{} }

func (b *Buffer) Close() error { return nil }

func (b *Buffer) SendBackspace(count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if count <= 0 {
		return nil
	}
	if count > len(b.buffer) {
		b.buffer = nil
		return nil
	}
	b.buffer = b.buffer[:len(b.buffer)-count]
	return nil
}

func (b *Buffer) SendText(text string) error {
	if text == "" {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer = append(b.buffer, []rune(text)...)
	return nil
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buffer)
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer = nil
}
