package app

import (
	"bufio"
	"context"
	"io"

	"github.com/gg582/skkfe/internal/emitter"
	"github.com/gg582/skkfe/internal/engine"
)

// Translate types one line of keys into a fresh session and returns the
// resulting text. Whatever is still composing at the end is committed.
func Translate(ctx context.Context, opts engine.Options, line string) (string, error) {
	buf := emitter.NewBuffer()
	opts.Output = buf
	session := engine.NewSession(opts)

	for _, key := range ParseKeys(line) {
		if session.State() == engine.StateEscape {
			session.Reset()
		}
		handled, err := session.HandleKey(ctx, key)
		if err != nil {
			session.Dispose()
			return "", err
		}
		if !handled {
			if err := hostKey(buf, key, "\n"); err != nil {
				return "", err
			}
		}
	}
	if session.Display() != "" {
		if _, err := session.HandleKey(ctx, "<c-j>"); err != nil {
			return "", err
		}
	}
	if err := session.Dispose(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ServeTranslations translates r line by line onto w.
func ServeTranslations(ctx context.Context, r io.Reader, w io.Writer, opts engine.Options) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	writer := bufio.NewWriter(w)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		response, err := Translate(ctx, opts, scanner.Text())
		if err != nil {
			return err
		}
		if _, err := writer.WriteString(response); err != nil {
			return err
		}
		if err := writer.WriteByte('\n'); err != nil {
			return err
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}
	return scanner.Err()
}
