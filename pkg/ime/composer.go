// Package ime embeds an SKK composer that keeps committed text in memory
// instead of writing it to a terminal.
package ime

import (
	"context"

	"github.com/gg582/skkfe/internal/backend"
	"github.com/gg582/skkfe/internal/dictionary"
	"github.com/gg582/skkfe/internal/emitter"
	"github.com/gg582/skkfe/internal/engine"
	"github.com/gg582/skkfe/internal/kana"
)

type Options struct {
	// Table names a built-in kana table. Empty means "rom".
	Table string
	// Dictionaries are SKK jisyo files consulted in order.
	Dictionaries []string
	// Encoding of the dictionaries. Empty means UTF-8.
	Encoding            string
	ShowCandidatesCount int
}

type Composer struct {
	ctx     context.Context
	session *engine.Session
	out     *emitter.Buffer
}

// NewComposer loads the dictionaries and starts a session. Unreadable
// dictionaries are reported but leave a working composer behind.
func NewComposer(ctx context.Context, opts Options) (*Composer, error) {
	name := opts.Table
	if name == "" {
		name = "rom"
	}
	table, err := kana.NewRegistry().Get(name)
	if err != nil {
		return nil, err
	}
	backends := make([]dictionary.Dictionary, 0, len(opts.Dictionaries))
	for _, path := range opts.Dictionaries {
		backends = append(backends, dictionary.NewNumeric(backend.NewSkkFile(path, opts.Encoding)))
	}
	library := dictionary.NewLibrary(dictionary.Options{Backends: backends, Table: table})
	loadErr := library.Reload(ctx)

	out := emitter.NewBuffer()
	c := &Composer{
		ctx: ctx,
		out: out,
		session: engine.NewSession(engine.Options{
			Table:               table,
			Library:             library,
			Output:              out,
			ShowCandidatesCount: opts.ShowCandidatesCount,
		}),
	}
	return c, loadErr
}

// TypeKey feeds one key. It reports false when the composer did not
// consume the key and it was appended as a literal.
func (c *Composer) TypeKey(key rune) bool {
	if c.Key(string(key)) {
		return true
	}
	_ = c.out.SendText(string(key))
	return false
}

// Key feeds a key in notation form such as "<bs>" or "<c-j>".
func (c *Composer) Key(key string) bool {
	if c.session.State() == engine.StateEscape {
		c.session.Reset()
	}
	handled, _ := c.session.HandleKey(c.ctx, key)
	return handled
}

func (c *Composer) AppendLiteral(r rune) {
	c.commit()
	_ = c.out.SendText(string(r))
}

func (c *Composer) Space() {
	c.TypeKey(' ')
}

func (c *Composer) Backspace() {
	if !c.Key("<bs>") {
		_ = c.out.SendBackspace(1)
	}
}

// Enter commits the composition and returns the finished line.
func (c *Composer) Enter() string {
	line := c.FlushText()
	c.out.Reset()
	return line
}

func (c *Composer) FlushText() string {
	c.commit()
	return c.out.String()
}

func (c *Composer) Reset() {
	c.session.Reset()
	c.out.Reset()
}

// Text is the committed text followed by the preedit. The session mirrors
// its preedit into the buffer, so the buffer already holds both.
func (c *Composer) Text() string {
	return c.out.String()
}

// Candidates lists the candidates of the active conversion.
func (c *Composer) Candidates() []string {
	return c.session.Candidates()
}

func (c *Composer) commit() {
	if c.session.Display() != "" {
		_, _ = c.session.HandleKey(c.ctx, "<c-j>")
	}
}
