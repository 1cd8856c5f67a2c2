package kana

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Converter post-processes finalized kana before it reaches the host.
type Converter int

const (
	ConverterNone Converter = iota
	ConverterKatakana
	ConverterHankatakana
	ConverterZenkaku
)

func (c Converter) String() string {
	switch c {
	case ConverterKatakana:
		return "katakana"
	case ConverterHankatakana:
		return "hankatakana"
	case ConverterZenkaku:
		return "zenkaku"
	default:
		return "hiragana"
	}
}

func (c Converter) Apply(text string) string {
	switch c {
	case ConverterKatakana:
		return ToKatakana(text)
	case ConverterHankatakana:
		return ToHankatakana(text)
	case ConverterZenkaku:
		return width.Widen.String(text)
	default:
		return text
	}
}

const (
	hiraganaFirst = 'ぁ'
	hiraganaLast  = 'ゖ'
	katakanaFirst = 'ァ'
	katakanaLast  = 'ヶ'
	kanaOffset    = katakanaFirst - hiraganaFirst
)

func ToKatakana(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= hiraganaFirst && r <= hiraganaLast:
			return r + kanaOffset
		case r == 'ゝ' || r == 'ゞ':
			return r + kanaOffset
		}
		return r
	}, text)
}

func ToHiragana(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= katakanaFirst && r <= katakanaLast:
			return r - kanaOffset
		case r == 'ヽ' || r == 'ヾ':
			return r - kanaOffset
		}
		return r
	}, text)
}

// ToHankatakana decomposes voiced kana so each mark maps to its own
// half-width sound mark.
func ToHankatakana(text string) string {
	decomposed := norm.NFD.String(ToKatakana(text))
	return width.Narrow.String(decomposed)
}
