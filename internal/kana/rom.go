package kana

const DefaultTableName = "rom"

var romRows = [][2]string{
	{"a", "あ"}, {"i", "い"}, {"u", "う"}, {"e", "え"}, {"o", "お"},
	{"ka", "か"}, {"ki", "き"}, {"ku", "く"}, {"ke", "け"}, {"ko", "こ"},
	{"kya", "きゃ"}, {"kyi", "きぃ"}, {"kyu", "きゅ"}, {"kye", "きぇ"}, {"kyo", "きょ"},
	{"ga", "が"}, {"gi", "ぎ"}, {"gu", "ぐ"}, {"ge", "げ"}, {"go", "ご"},
	{"gya", "ぎゃ"}, {"gyi", "ぎぃ"}, {"gyu", "ぎゅ"}, {"gye", "ぎぇ"}, {"gyo", "ぎょ"},
	{"sa", "さ"}, {"si", "し"}, {"su", "す"}, {"se", "せ"}, {"so", "そ"},
	{"shi", "し"}, {"sha", "しゃ"}, {"shu", "しゅ"}, {"she", "しぇ"}, {"sho", "しょ"},
	{"sya", "しゃ"}, {"syi", "しぃ"}, {"syu", "しゅ"}, {"sye", "しぇ"}, {"syo", "しょ"},
	{"za", "ざ"}, {"zi", "じ"}, {"zu", "ず"}, {"ze", "ぜ"}, {"zo", "ぞ"},
	{"zya", "じゃ"}, {"zyi", "じぃ"}, {"zyu", "じゅ"}, {"zye", "じぇ"}, {"zyo", "じょ"},
	{"ja", "じゃ"}, {"ji", "じ"}, {"ju", "じゅ"}, {"je", "じぇ"}, {"jo", "じょ"},
	{"jya", "じゃ"}, {"jyi", "じぃ"}, {"jyu", "じゅ"}, {"jye", "じぇ"}, {"jyo", "じょ"},
	{"ta", "た"}, {"ti", "ち"}, {"tu", "つ"}, {"te", "て"}, {"to", "と"},
	{"chi", "ち"}, {"tsu", "つ"},
	{"tya", "ちゃ"}, {"tyi", "ちぃ"}, {"tyu", "ちゅ"}, {"tye", "ちぇ"}, {"tyo", "ちょ"},
	{"cha", "ちゃ"}, {"chu", "ちゅ"}, {"che", "ちぇ"}, {"cho", "ちょ"},
	{"tha", "てぁ"}, {"thi", "てぃ"}, {"thu", "てゅ"}, {"the", "てぇ"}, {"tho", "てょ"},
	{"da", "だ"}, {"di", "ぢ"}, {"du", "づ"}, {"de", "で"}, {"do", "ど"},
	{"dya", "ぢゃ"}, {"dyi", "ぢぃ"}, {"dyu", "ぢゅ"}, {"dye", "ぢぇ"}, {"dyo", "ぢょ"},
	{"dha", "でゃ"}, {"dhi", "でぃ"}, {"dhu", "でゅ"}, {"dhe", "でぇ"}, {"dho", "でょ"},
	{"na", "な"}, {"ni", "に"}, {"nu", "ぬ"}, {"ne", "ね"}, {"no", "の"},
	{"nya", "にゃ"}, {"nyi", "にぃ"}, {"nyu", "にゅ"}, {"nye", "にぇ"}, {"nyo", "にょ"},
	{"ha", "は"}, {"hi", "ひ"}, {"hu", "ふ"}, {"he", "へ"}, {"ho", "ほ"},
	{"hya", "ひゃ"}, {"hyi", "ひぃ"}, {"hyu", "ひゅ"}, {"hye", "ひぇ"}, {"hyo", "ひょ"},
	{"fa", "ふぁ"}, {"fi", "ふぃ"}, {"fu", "ふ"}, {"fe", "ふぇ"}, {"fo", "ふぉ"},
	{"fya", "ふゃ"}, {"fyu", "ふゅ"}, {"fyo", "ふょ"},
	{"ba", "ば"}, {"bi", "び"}, {"bu", "ぶ"}, {"be", "べ"}, {"bo", "ぼ"},
	{"bya", "びゃ"}, {"byi", "びぃ"}, {"byu", "びゅ"}, {"bye", "びぇ"}, {"byo", "びょ"},
	{"pa", "ぱ"}, {"pi", "ぴ"}, {"pu", "ぷ"}, {"pe", "ぺ"}, {"po", "ぽ"},
	{"pya", "ぴゃ"}, {"pyi", "ぴぃ"}, {"pyu", "ぴゅ"}, {"pye", "ぴぇ"}, {"pyo", "ぴょ"},
	{"ma", "ま"}, {"mi", "み"}, {"mu", "む"}, {"me", "め"}, {"mo", "も"},
	{"mya", "みゃ"}, {"myi", "みぃ"}, {"myu", "みゅ"}, {"mye", "みぇ"}, {"myo", "みょ"},
	{"ya", "や"}, {"yi", "い"}, {"yu", "ゆ"}, {"ye", "いぇ"}, {"yo", "よ"},
	{"ra", "ら"}, {"ri", "り"}, {"ru", "る"}, {"re", "れ"}, {"ro", "ろ"},
	{"rya", "りゃ"}, {"ryi", "りぃ"}, {"ryu", "りゅ"}, {"rye", "りぇ"}, {"ryo", "りょ"},
	{"wa", "わ"}, {"wi", "うぃ"}, {"wu", "う"}, {"we", "うぇ"}, {"wo", "を"},
	{"va", "ゔぁ"}, {"vi", "ゔぃ"}, {"vu", "ゔ"}, {"ve", "ゔぇ"}, {"vo", "ゔぉ"},
	{"xa", "ぁ"}, {"xi", "ぃ"}, {"xu", "ぅ"}, {"xe", "ぇ"}, {"xo", "ぉ"},
	{"xka", "ゕ"}, {"xke", "ゖ"}, {"xtu", "っ"}, {"xtsu", "っ"}, {"xwa", "ゎ"},
	{"xya", "ゃ"}, {"xyu", "ゅ"}, {"xyo", "ょ"},
	{"nn", "ん"}, {"n'", "ん"},
	{"-", "ー"}, {",", "、"}, {".", "。"}, {"[", "「"}, {"]", "」"},
	{"!", "！"}, {"?", "？"}, {"~", "〜"}, {":", "："}, {";", "；"},
	{"z,", "‥"}, {"z-", "〜"}, {"z.", "…"}, {"z/", "・"}, {"z[", "『"}, {"z]", "』"},
	{"zh", "←"}, {"zj", "↓"}, {"zk", "↑"}, {"zl", "→"},
}

// Consonants that double into a sokuon when repeated, e.g. "tt" -> "っ" + "t".
const sokuonConsonants = "bcdfghjkmprstvwxyz"

var romTriggers = []Entry{
	{Key: " ", Result: Trigger(HandlerHenkanFirst)},
	{Key: "q", Result: Trigger(HandlerKatakana)},
	{Key: "<c-q>", Result: Trigger(HandlerHankatakana)},
	{Key: "<s-l>", Result: Trigger(HandlerZenkaku)},
	{Key: "/", Result: Trigger(HandlerAbbrev)},
	{Key: ">", Result: Trigger(HandlerAffix)},
	{Key: "<c-j>", Result: Trigger(HandlerKakutei)},
	{Key: "<c-g>", Result: Trigger(HandlerCancel)},
	{Key: "<bs>", Result: Trigger(HandlerBackspace)},
	{Key: "<c-h>", Result: Trigger(HandlerBackspace)},
	{Key: "<esc>", Result: Trigger(HandlerEscape)},
}

func romEntries() []Entry {
	entries := make([]Entry, 0, len(romRows)+len(sokuonConsonants)+len(romTriggers)+1)
	for _, row := range romRows {
		entries = append(entries, Entry{Key: row[0], Result: Literal(row[1], "")})
	}
	for _, c := range sokuonConsonants {
		key := string([]rune{c, c})
		entries = append(entries, Entry{Key: key, Result: Literal("っ", string(c))})
	}
	// "n" followed by a non-vowel consonant resolves through the exact "n" entry.
	entries = append(entries, Entry{Key: "n", Result: Literal("ん", "")})
	entries = append(entries, romTriggers...)
	return entries
}

// NewRomTable builds the standard romaji table.
func NewRomTable() *Table {
	return NewTable(DefaultTableName, romEntries())
}
