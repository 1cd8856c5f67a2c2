package kana

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// CustomEntry is one row of a user table file.
type CustomEntry struct {
	Key     string `json:"key"`
	Kind    string `json:"kind"`
	Kana    string `json:"kana"`
	Feed    string `json:"feed"`
	Handler string `json:"handler"`
}

func LoadCustomEntries(path string) ([]CustomEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open custom kana table: %w", err)
	}
	defer file.Close()

	var entries []CustomEntry
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse custom kana table: %w", err)
	}
	return entries, nil
}

// ApplyCustomEntries layers entries over base and returns the result under
// the given name. An entry with an empty kind is a literal unless it names
// a handler.
func ApplyCustomEntries(base *Table, name string, custom []CustomEntry) (*Table, error) {
	entries := make([]Entry, 0, len(custom))
	for _, item := range custom {
		if item.Key == "" {
			return nil, fmt.Errorf("custom kana entry without key")
		}
		kind := strings.ToLower(strings.TrimSpace(item.Kind))
		if kind == "" {
			kind = "literal"
			if item.Handler != "" {
				kind = "handler"
			}
		}
		switch kind {
		case "literal", "text":
			entries = append(entries, Entry{Key: item.Key, Result: Literal(item.Kana, item.Feed)})
		case "handler", "trigger":
			h, err := ParseHandler(item.Handler)
			if err != nil {
				return nil, fmt.Errorf("custom kana entry %q: %w", item.Key, err)
			}
			entries = append(entries, Entry{Key: item.Key, Result: Trigger(h)})
		default:
			return nil, fmt.Errorf("unsupported custom kana entry kind '%s'", item.Kind)
		}
	}
	if base == nil {
		return NewTable(name, entries), nil
	}
	return base.Override(name, entries), nil
}
