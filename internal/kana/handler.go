package kana

import (
	"fmt"
	"strings"
)

// Handler names an operation a table entry can trigger instead of
// producing kana.
type Handler int

const (
	HandlerNone Handler = iota
	HandlerHenkanFirst
	HandlerHenkanPoint
	HandlerHenkanBackward
	HandlerKatakana
	HandlerHankatakana
	HandlerZenkaku
	HandlerAbbrev
	HandlerAffix
	HandlerKakutei
	HandlerCancel
	HandlerBackspace
	HandlerPurge
	HandlerEscape
)

var handlerNames = map[Handler]string{
	HandlerHenkanFirst:    "henkanFirst",
	HandlerHenkanPoint:    "henkanPoint",
	HandlerHenkanBackward: "henkanBackward",
	HandlerKatakana:       "katakana",
	HandlerHankatakana:    "hankatakana",
	HandlerZenkaku:        "zenkaku",
	HandlerAbbrev:         "abbrev",
	HandlerAffix:          "affix",
	HandlerKakutei:        "kakutei",
	HandlerCancel:         "cancel",
	HandlerBackspace:      "backspace",
	HandlerPurge:          "purge",
	HandlerEscape:         "escape",
}

func (h Handler) String() string {
	if name, ok := handlerNames[h]; ok {
		return name
	}
	return "none"
}

// ParseHandler resolves a handler by its table name, case-insensitively.
func ParseHandler(name string) (Handler, error) {
	normalized := strings.TrimSpace(name)
	for h, n := range handlerNames {
		if strings.EqualFold(n, normalized) {
			return h, nil
		}
	}
	return HandlerNone, fmt.Errorf("unknown handler '%s'", name)
}
