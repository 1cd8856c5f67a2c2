package emitter

// Output is the display sink the engine writes preedit deltas to. It is
// satisfied by Terminal and Buffer and lets tests substitute lightweight
// fakes.
type Output interface {
	Close() error
	SendBackspace(count int) error
	SendText(text string) error
}

var (
	_ Output = (*Terminal)(nil)
	_ Output = (*Buffer)(nil)
)
