package app

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/eiannone/keyboard"

	"github.com/gg582/skkfe/internal/emitter"
	"github.com/gg582/skkfe/internal/kana"
)

const quitKey = "<c-c>"

var namedKeys = map[keyboard.Key]string{
	keyboard.KeyEsc:        "<esc>",
	keyboard.KeyEnter:      "<cr>",
	keyboard.KeyBackspace:  "<bs>",
	keyboard.KeyBackspace2: "<bs>",
	keyboard.KeyTab:        "<tab>",
	keyboard.KeySpace:      " ",
	keyboard.KeyCtrlC:      "<c-c>",
	keyboard.KeyCtrlG:      "<c-g>",
	keyboard.KeyCtrlJ:      "<c-j>",
	keyboard.KeyCtrlQ:      "<c-q>",
	keyboard.KeyArrowUp:    "<up>",
	keyboard.KeyArrowDown:  "<down>",
	keyboard.KeyArrowLeft:  "<left>",
	keyboard.KeyArrowRight: "<right>",
	keyboard.KeyDelete:     "<del>",
}

// keyNotation names a keyboard event the way sessions expect keys.
// Unsupported keys map to "".
func keyNotation(r rune, k keyboard.Key) string {
	if k == 0 && r != 0 {
		return string(r)
	}
	return namedKeys[k]
}

type keySource struct {
	events <-chan keyboard.KeyEvent
}

// Next blocks for the next supported key.
func (k *keySource) Next(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-k.events:
			if !ok {
				return "", io.EOF
			}
			if ev.Err != nil {
				return "", ev.Err
			}
			if key := keyNotation(ev.Rune, ev.Key); key != "" {
				return key, nil
			}
		}
	}
}

// ParseKeys splits a line into keys. "<...>" without spaces is one named
// key; everything else is one key per rune.
func ParseKeys(line string) []string {
	var keys []string
	for len(line) > 0 {
		if line[0] == '<' {
			if end := strings.IndexByte(line, '>'); end > 1 && !strings.ContainsAny(line[1:end], " <") {
				keys = append(keys, line[:end+1])
				line = line[end+1:]
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(line)
		keys = append(keys, line[:size])
		line = line[size:]
	}
	return keys
}

// hostKey applies the default editor behaviour for a key the session did
// not consume.
func hostKey(out emitter.Output, key, newline string) error {
	switch key {
	case "<bs>", "<c-h>":
		return out.SendBackspace(1)
	case "<cr>":
		return out.SendText(newline)
	case "<tab>":
		return out.SendText("\t")
	}
	if kana.IsNotation(key) {
		return nil
	}
	return out.SendText(key)
}
