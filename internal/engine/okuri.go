package engine

import "unicode/utf8"

// okuriConsonants maps the first kana of an okuri to the romaji letter
// that ends an okuri-ari headword.
var okuriConsonants = map[rune]string{}

func init() {
	rows := []struct {
		letter string
		kana   string
	}{
		{"a", "あぁ"}, {"i", "いぃ"}, {"u", "うぅゔ"}, {"e", "えぇ"}, {"o", "おぉ"},
		{"k", "かきくけこゕゖ"}, {"g", "がぎぐげご"},
		{"s", "さしすせそ"}, {"z", "ざじずぜぞ"},
		{"t", "たちつてとっ"}, {"d", "だぢづでど"},
		{"n", "なにぬねのん"},
		{"h", "はひふへほ"}, {"b", "ばびぶべぼ"}, {"p", "ぱぴぷぺぽ"},
		{"m", "まみむめも"},
		{"y", "やゆよゃゅょ"},
		{"r", "らりるれろ"},
		{"w", "わゐゑをゎ"},
	}
	for _, row := range rows {
		for _, r := range row.kana {
			okuriConsonants[r] = row.letter
		}
	}
}

func okuriConsonant(okuri string) string {
	r, _ := utf8.DecodeRuneInString(okuri)
	return okuriConsonants[r]
}
