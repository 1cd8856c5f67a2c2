package jisyo

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// Encoding resolves a jisyo encoding name. An empty name means UTF-8.
func Encoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "euc-jp", "eucjp", "euc":
		return japanese.EUCJP, nil
	case "shift-jis", "shiftjis", "sjis", "cp932":
		return japanese.ShiftJIS, nil
	case "iso-2022-jp", "jis":
		return japanese.ISO2022JP, nil
	default:
		return nil, fmt.Errorf("unsupported jisyo encoding %q", name)
	}
}

// ReadFile parses a jisyo file stored in the named encoding.
func ReadFile(path, encodingName string) (*Jisyo, error) {
	enc, err := Encoding(encodingName)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open jisyo %s: %w", path, err)
	}
	defer file.Close()

	j, err := Parse(enc.NewDecoder().Reader(file))
	if err != nil {
		return nil, fmt.Errorf("parse jisyo %s: %w", path, err)
	}
	return j, nil
}
