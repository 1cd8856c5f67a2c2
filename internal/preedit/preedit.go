package preedit

// Delta is the edit a host applies to its preedit region: erase Backspace
// runes, then insert Insert.
type Delta struct {
	Backspace int
	Insert    string
}

func (d Delta) Empty() bool { return d.Backspace == 0 && d.Insert == "" }

// Sink receives deltas. emitter.Output satisfies it.
type Sink interface {
	SendBackspace(count int) error
	SendText(text string) error
}

// PreEdit tracks what the host currently shows and the text finalized
// since the last Output call.
type PreEdit struct {
	current string
	kakutei string
}

func (p *PreEdit) Current() string { return p.current }

func (p *PreEdit) Pending() string { return p.kakutei }

// Kakutei queues finalized text for the next Output call.
func (p *PreEdit) Kakutei(text string) {
	p.kakutei += text
}

// Output computes the delta that turns the displayed text into
// kakutei + next. Without pending kakutei text only the diverging tail is
// rewritten, so repeating a call is a no-op.
func (p *PreEdit) Output(next string) Delta {
	var d Delta
	if p.kakutei == "" {
		cur, nxt := []rune(p.current), []rune(next)
		common := 0
		for common < len(cur) && common < len(nxt) && cur[common] == nxt[common] {
			common++
		}
		d = Delta{Backspace: len(cur) - common, Insert: string(nxt[common:])}
	} else {
		d = Delta{Backspace: len([]rune(p.current)), Insert: p.kakutei + next}
	}
	p.kakutei = ""
	p.current = next
	return d
}

// Reset forgets the displayed text without emitting anything.
func (p *PreEdit) Reset() {
	p.current = ""
	p.kakutei = ""
}

// Apply sends d to sink, skipping empty halves.
func Apply(sink Sink, d Delta) error {
	if sink == nil || d.Empty() {
		return nil
	}
	if d.Backspace > 0 {
		if err := sink.SendBackspace(d.Backspace); err != nil {
			return err
		}
	}
	if d.Insert != "" {
		return sink.SendText(d.Insert)
	}
	return nil
}
