package dictionary

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/types"
)

var (
	digitRun    = regexp.MustCompile(`[0-9]+`)
	numericMark = regexp.MustCompile(`#[0-9]`)
)

// Numeric decorates a dictionary so queries containing digits also match
// "#" templates such as "#1番", rendered against the query's digit runs.
type Numeric struct {
	inner Dictionary
}

func NewNumeric(inner Dictionary) *Numeric {
	return &Numeric{inner: inner}
}

func (n *Numeric) Name() string { return "numeric:" + nameOf(n.inner) }

func (n *Numeric) Load(ctx context.Context) error {
	if l, ok := n.inner.(Loader); ok {
		return l.Load(ctx)
	}
	return nil
}

func (n *Numeric) Remote() bool { return isRemote(n.inner) }

func (n *Numeric) Lookup(ctx context.Context, okuri types.OkuriType, word string) []string {
	numbers := digitRun.FindAllString(word, -1)
	if len(numbers) == 0 {
		return n.inner.Lookup(ctx, okuri, word)
	}
	var out []string
	seen := make(map[string]struct{})
	add := func(c string) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, c := range n.inner.Lookup(ctx, okuri, word) {
		add(c)
	}
	template := digitRun.ReplaceAllString(word, "#")
	for _, c := range n.inner.Lookup(ctx, okuri, template) {
		if rendered, ok := RenderNumeric(c, numbers); ok {
			add(rendered)
		}
	}
	return out
}

func (n *Numeric) Complete(ctx context.Context, prefix string) []jisyo.Entry {
	return n.inner.Complete(ctx, prefix)
}

// RenderNumeric replaces each "#0".."#9" marker in template with the
// matching digit run in order. Templates asking for more runs than numbers
// provides are rejected.
func RenderNumeric(template string, numbers []string) (string, bool) {
	marks := numericMark.FindAllStringIndex(template, -1)
	if len(marks) > len(numbers) {
		return "", false
	}
	var b strings.Builder
	last := 0
	for i, m := range marks {
		b.WriteString(template[last:m[0]])
		b.WriteString(convertNumber(template[m[0]+1], numbers[i]))
		last = m[1]
	}
	b.WriteString(template[last:])
	return b.String(), true
}

func convertNumber(tag byte, digits string) string {
	switch tag {
	case '1':
		return width.Widen.String(digits)
	case '2':
		return kanjiDigits(digits)
	case '3':
		return kanjiPositional(digits, kanjiNumerals, false)
	case '5':
		return kanjiPositional(digits, daijiNumerals, true)
	case '8':
		return romanNumeral(digits)
	case '9':
		return shogiNotation(digits)
	default:
		// #0, #4, #6 and #7 pass the digits through unchanged.
		return digits
	}
}

type numeralSet struct {
	digits [10]string
	small  [4]string
	large  []string
}

var kanjiNumerals = numeralSet{
	digits: [10]string{"〇", "一", "二", "三", "四", "五", "六", "七", "八", "九"},
	small:  [4]string{"", "十", "百", "千"},
	large:  []string{"", "万", "億", "兆", "京", "垓"},
}

var daijiNumerals = numeralSet{
	digits: [10]string{"零", "壱", "弐", "参", "四", "伍", "六", "七", "八", "九"},
	small:  [4]string{"", "拾", "百", "阡"},
	large:  []string{"", "萬", "億", "兆", "京", "垓"},
}

func kanjiDigits(digits string) string {
	var b strings.Builder
	for _, d := range digits {
		b.WriteString(kanjiNumerals.digits[d-'0'])
	}
	return b.String()
}

// kanjiPositional renders digits with unit characters. The classical form
// drops a leading one before 十, 百 and 千; the formal form keeps it.
func kanjiPositional(digits string, set numeralSet, explicitOne bool) string {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return set.digits[0]
	}
	groups := (len(digits) + 3) / 4
	if groups > len(set.large) {
		return digits
	}
	var b strings.Builder
	for g := 0; g < groups; g++ {
		end := len(digits) - (groups-1-g)*4
		start := end - 4
		if start < 0 {
			start = 0
		}
		chunk := digits[start:end]
		wrote := false
		for i, d := range chunk {
			if d == '0' {
				continue
			}
			pos := len(chunk) - 1 - i
			if d != '1' || pos == 0 || explicitOne {
				b.WriteString(set.digits[d-'0'])
			}
			b.WriteString(set.small[pos])
			wrote = true
		}
		if wrote {
			b.WriteString(set.large[groups-1-g])
		}
	}
	return b.String()
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func romanNumeral(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" || len(trimmed) > 4 {
		return digits
	}
	n := 0
	for _, d := range trimmed {
		n = n*10 + int(d-'0')
	}
	if n > 3999 {
		return digits
	}
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// shogiNotation renders a board square: full-width file, kanji rank.
func shogiNotation(digits string) string {
	if len(digits) != 2 || digits[0] == '0' || digits[1] == '0' {
		return digits
	}
	return width.Widen.String(digits[:1]) + kanjiNumerals.digits[digits[1]-'0']
}
