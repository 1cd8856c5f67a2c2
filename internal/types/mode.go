package types

// InputMode is the composition mode of the input state machine.
type InputMode int

const (
	ModeDirect InputMode = iota
	ModeOkuriNasi
	ModeOkuriAri
)

func (m InputMode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeOkuriNasi:
		return "okuri-nasi"
	case ModeOkuriAri:
		return "okuri-ari"
	default:
		return "unknown"
	}
}

// OkuriType selects one of the two jisyo partitions.
type OkuriType int

const (
	OkuriNasi OkuriType = iota
	OkuriAri
)

func (o OkuriType) String() string {
	switch o {
	case OkuriNasi:
		return "okuri-nasi"
	case OkuriAri:
		return "okuri-ari"
	default:
		return "unknown"
	}
}

// Affix marks a conversion whose headword carries a '>' marker.
type Affix int

const (
	AffixNone Affix = iota
	AffixPrefix
	AffixSuffix
)

func (a Affix) String() string {
	switch a {
	case AffixPrefix:
		return "prefix"
	case AffixSuffix:
		return "suffix"
	default:
		return "none"
	}
}
