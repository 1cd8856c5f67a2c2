package app

import (
	"context"
	"fmt"
	"io"

	"github.com/gg582/skkfe/internal/emitter"
	"github.com/gg582/skkfe/internal/engine"
)

// keyRegistrar reads a new word with a nested session on a status line.
// Enter accepts, ctrl-g or escape cancels.
type keyRegistrar struct {
	next func(context.Context) (string, error)
	out  io.Writer
	base engine.Options
}

func (r *keyRegistrar) RequestWord(ctx context.Context, prompt string) (string, bool) {
	buf := emitter.NewBuffer()
	opts := r.base
	opts.Output = buf
	opts.Registrar = nil
	session := engine.NewSession(opts)
	defer session.Dispose()
	tracer().Debugf("session %s: reading a word for %q", session.ID(), prompt)
	defer fmt.Fprint(r.out, "\r\x1b[K")

	for {
		fmt.Fprintf(r.out, "\r\x1b[K[%s] %s", prompt, buf.String())
		key, err := r.next(ctx)
		if err != nil {
			return "", false
		}
		switch key {
		case "<cr>":
			if session.Display() != "" {
				if _, err := session.HandleKey(ctx, "<c-j>"); err != nil {
					return "", false
				}
			}
			session.Dispose()
			word := buf.String()
			return word, word != ""
		case "<c-g>", "<esc>", quitKey:
			if session.Display() == "" || key != "<c-g>" {
				return "", false
			}
		}
		handled, err := session.HandleKey(ctx, key)
		if err != nil {
			return "", false
		}
		if !handled {
			_ = hostKey(buf, key, "")
		}
	}
}
