package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/gg582/skkfe/internal/jisyo"
)

type setter func(c *Config, value any) error

var setters = map[string]setter{
	"accept_illegal_result":     boolOption(func(c *Config) *bool { return &c.AcceptIllegalResult }),
	"immediately_okuri_convert": boolOption(func(c *Config) *bool { return &c.ImmediatelyOkuriConvert }),
	"show_candidates_count": func(c *Config, value any) error {
		n, err := cast.ToIntE(value)
		if err != nil {
			return err
		}
		if n < 1 {
			return fmt.Errorf("must be at least 1, got %d", n)
		}
		c.ShowCandidatesCount = n
		return nil
	},
	"kana_table": stringOption(func(c *Config) *string { return &c.KanaTable }),
	"user_kana_tables": func(c *Config, value any) error {
		tables, err := toNamedPaths(value)
		if err != nil {
			return err
		}
		c.UserKanaTables = tables
		return nil
	},
	"global_dictionaries": listOption(func(c *Config) *[]string { return &c.GlobalDictionaries }),
	"global_jisyo_encoding": encodingOption(func(c *Config) *string { return &c.GlobalJisyoEncoding }),
	"user_dictionary": func(c *Config, value any) error {
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		c.UserDictionary = strings.TrimSpace(s)
		return nil
	},
	"immediately_jisyo_rw":    boolOption(func(c *Config) *bool { return &c.ImmediatelyJisyoRW }),
	"structured_dictionaries": listOption(func(c *Config) *[]string { return &c.StructuredDictionaries }),
	"kvstore_path": func(c *Config, value any) error {
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		c.KVStorePath = strings.TrimSpace(s)
		return nil
	},
	"skk_server_host": stringOption(func(c *Config) *string { return &c.SKKServerHost }),
	"skk_server_port": func(c *Config, value any) error {
		n, err := cast.ToIntE(value)
		if err != nil {
			return err
		}
		if n < 1 || n > 65535 {
			return fmt.Errorf("port %d out of range", n)
		}
		c.SKKServerPort = n
		return nil
	},
	"skk_server_encoding":       encodingOption(func(c *Config) *string { return &c.SKKServerEncoding }),
	"use_skk_server":            boolOption(func(c *Config) *bool { return &c.UseSKKServer }),
	"use_google_japanese_input": boolOption(func(c *Config) *bool { return &c.UseGoogleJapaneseInput }),
	"google_japanese_input_url": stringOption(func(c *Config) *string { return &c.GoogleJapaneseInputURL }),
	"remote_timeout": func(c *Config, value any) error {
		d, err := toTimeout(value)
		if err != nil {
			return err
		}
		if d <= 0 {
			return fmt.Errorf("must be positive, got %s", d)
		}
		c.RemoteTimeout = d
		return nil
	},
	"numeric_conversion":   boolOption(func(c *Config) *bool { return &c.NumericConversion }),
	"marker_henkan":        stringOption(func(c *Config) *string { return &c.MarkerHenkan }),
	"marker_henkan_select": stringOption(func(c *Config) *string { return &c.MarkerHenkanSelect }),
	"debug":                boolOption(func(c *Config) *bool { return &c.Debug }),
}

// Keys lists every option name in lexical order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for key := range setters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Set validates and applies one option. The config is left unchanged on
// error.
func (c *Config) Set(key string, value any) error {
	name := strings.ToLower(strings.TrimSpace(key))
	set, ok := setters[name]
	if !ok {
		return ConfigError{msg: fmt.Sprintf("unknown option '%s'", key)}
	}
	if err := set(c, value); err != nil {
		return ConfigError{msg: fmt.Sprintf("invalid value for '%s': %v", name, err)}
	}
	return nil
}

func boolOption(field func(*Config) *bool) setter {
	return func(c *Config, value any) error {
		b, err := cast.ToBoolE(value)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

// stringOption rejects empty strings.
func stringOption(field func(*Config) *string) setter {
	return func(c *Config, value any) error {
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("empty value")
		}
		*field(c) = s
		return nil
	}
}

func encodingOption(field func(*Config) *string) setter {
	return func(c *Config, value any) error {
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		if _, err := jisyo.Encoding(s); err != nil {
			return err
		}
		*field(c) = strings.ToLower(strings.TrimSpace(s))
		return nil
	}
}

func listOption(field func(*Config) *[]string) setter {
	return func(c *Config, value any) error {
		list, err := toList(value)
		if err != nil {
			return err
		}
		*field(c) = list
		return nil
	}
}

// toList accepts a native list or a comma separated string.
func toList(value any) ([]string, error) {
	if s, ok := value.(string); ok {
		return splitComma(s), nil
	}
	list, err := cast.ToStringSliceE(value)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

// toNamedPaths accepts a map or a "name=path, name=path" string.
func toNamedPaths(value any) (map[string]string, error) {
	if s, ok := value.(string); ok {
		out := make(map[string]string)
		for _, item := range splitComma(s) {
			name, path, found := strings.Cut(item, "=")
			name, path = strings.TrimSpace(name), strings.TrimSpace(path)
			if !found || name == "" || path == "" {
				return nil, fmt.Errorf("expected name=path, got '%s'", item)
			}
			out[name] = path
		}
		return out, nil
	}
	return cast.ToStringMapStringE(value)
}

// toTimeout reads a duration; bare numbers are milliseconds.
func toTimeout(value any) (time.Duration, error) {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Duration(n) * time.Millisecond, nil
		}
		return cast.ToDurationE(s)
	}
	n, err := cast.ToInt64E(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}

func splitComma(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
