package jisyo

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gg582/skkfe/internal/types"
)

const (
	OkuriAriMarker  = ";; okuri-ari entries."
	OkuriNasiMarker = ";; okuri-nasi entries."
)

const maxLineSize = 1 << 20

// Parse reads SKK jisyo text. Lines before the first marker line are
// sorted into a partition by the shape of their headword.
func Parse(r io.Reader) (*Jisyo, error) {
	j := New()
	section := -1
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case strings.HasPrefix(line, OkuriAriMarker):
			section = int(types.OkuriAri)
			continue
		case strings.HasPrefix(line, OkuriNasiMarker):
			section = int(types.OkuriNasi)
			continue
		case line == "" || strings.HasPrefix(line, ";"):
			continue
		}
		word, cands, ok := ParseLine(line)
		if !ok {
			tracer().Debugf("skipping malformed jisyo line %d", lineNo)
			continue
		}
		okuri := types.OkuriType(section)
		if section < 0 {
			okuri = GuessOkuri(word)
		}
		j.Add(okuri, word, cands...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read jisyo: %w", err)
	}
	return j, nil
}

// ParseLine splits "headword /c1/c2/" into its parts. Okuri blocks such as
// "[る/送/]" are skipped.
func ParseLine(line string) (string, []string, bool) {
	sep := strings.Index(line, " /")
	if sep <= 0 {
		return "", nil, false
	}
	word := line[:sep]
	body := strings.Trim(line[sep+1:], "/")
	if body == "" {
		return "", nil, false
	}
	var cands []string
	inBlock := false
	for _, part := range strings.Split(body, "/") {
		switch {
		case inBlock:
			if part == "]" {
				inBlock = false
			}
			continue
		case strings.HasPrefix(part, "["):
			inBlock = true
			continue
		case part == "":
			continue
		}
		cands = append(cands, part)
	}
	if len(cands) == 0 {
		return "", nil, false
	}
	return word, cands, true
}

// GuessOkuri treats a kana stem followed by one ASCII letter as okuri-ari.
func GuessOkuri(word string) types.OkuriType {
	last, size := utf8.DecodeLastRuneInString(word)
	if size == 0 || last < 'a' || last > 'z' {
		return types.OkuriNasi
	}
	prev, _ := utf8.DecodeLastRuneInString(word[:len(word)-size])
	if prev == utf8.RuneError || prev < utf8.RuneSelf || prev == '>' {
		return types.OkuriNasi
	}
	return types.OkuriAri
}

func FormatLine(word string, candidates []string) string {
	return word + " /" + strings.Join(candidates, "/") + "/"
}

// Write serializes j in jisyo text form, ending with a newline.
func Write(w io.Writer, j *Jisyo) error {
	bw := bufio.NewWriter(w)
	sections := []struct {
		marker string
		okuri  types.OkuriType
	}{
		{OkuriAriMarker, types.OkuriAri},
		{OkuriNasiMarker, types.OkuriNasi},
	}
	for _, section := range sections {
		if _, err := fmt.Fprintln(bw, section.marker); err != nil {
			return err
		}
		for _, word := range j.Headwords(section.okuri) {
			cands := j.partition(section.okuri)[word]
			if len(cands) == 0 {
				continue
			}
			if _, err := fmt.Fprintln(bw, FormatLine(word, cands)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
