package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ini "github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// Config holds every runtime option. Zero values are not meaningful; start
// from Default.
type Config struct {
	AcceptIllegalResult     bool
	ImmediatelyOkuriConvert bool
	ShowCandidatesCount     int
	KanaTable               string
	UserKanaTables          map[string]string

	GlobalDictionaries     []string
	GlobalJisyoEncoding    string
	UserDictionary         string
	ImmediatelyJisyoRW     bool
	StructuredDictionaries []string
	KVStorePath            string

	SKKServerHost          string
	SKKServerPort          int
	SKKServerEncoding      string
	UseSKKServer           bool
	UseGoogleJapaneseInput bool
	GoogleJapaneseInputURL string
	RemoteTimeout          time.Duration

	NumericConversion  bool
	MarkerHenkan       string
	MarkerHenkanSelect string
	Debug              bool
}

type ConfigError struct {
	msg string
}

func (e ConfigError) Error() string { return e.msg }

const (
	iniSection = "skk"
	envPrefix  = "SKKFE"
)

func Default() Config {
	userDict := ""
	if home, err := os.UserHomeDir(); err == nil {
		userDict = filepath.Join(home, ".skkfe", "user-jisyo")
	}
	return Config{
		ImmediatelyOkuriConvert: true,
		ShowCandidatesCount:     4,
		KanaTable:               "rom",
		UserKanaTables:          map[string]string{},
		GlobalJisyoEncoding:     "euc-jp",
		UserDictionary:          userDict,
		ImmediatelyJisyoRW:      true,
		SKKServerHost:           "127.0.0.1",
		SKKServerPort:           1178,
		SKKServerEncoding:       "euc-jp",
		GoogleJapaneseInputURL:  "https://www.google.com/transliterate",
		RemoteTimeout:           500 * time.Millisecond,
		NumericConversion:       true,
		MarkerHenkan:            "▽",
		MarkerHenkanSelect:      "▼",
	}
}

// Load reads path on top of the defaults and then applies SKKFE_*
// environment overrides. Invalid keys are reported together; every valid
// key is still applied. An empty path only applies the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	var errs []error

	if path != "" {
		values, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		for _, key := range sortedKeys(values) {
			if err := cfg.Set(key, values[key]); err != nil {
				errs = append(errs, err)
			}
		}
	}

	env := viper.New()
	env.SetEnvPrefix(envPrefix)
	env.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	env.AutomaticEnv()
	for _, key := range Keys() {
		if !env.IsSet(key) {
			continue
		}
		if err := cfg.Set(key, env.Get(key)); err != nil {
			errs = append(errs, err)
		}
	}
	return cfg, errors.Join(errs...)
}

func readFile(path string) (map[string]any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ConfigError{msg: fmt.Sprintf("failed to open config: %v", err)}
	}
	if info.IsDir() {
		return nil, ConfigError{msg: fmt.Sprintf("config %s is a directory", path)}
	}

	if strings.EqualFold(filepath.Ext(path), ".ini") {
		file, err := ini.Load(filepath.Clean(path))
		if err != nil {
			return nil, ConfigError{msg: fmt.Sprintf("failed to read %s: %v", path, err)}
		}
		values := make(map[string]any)
		for _, key := range file.Section(iniSection).Keys() {
			values[strings.ToLower(key.Name())] = key.Value()
		}
		return values, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, ConfigError{msg: fmt.Sprintf("failed to read %s: %v", path, err)}
	}
	settings := v.AllSettings()
	if nested, ok := settings[iniSection].(map[string]any); ok {
		settings = nested
	}
	return settings, nil
}

// Resolve picks the configuration file: the explicit path, then
// ./skkfe.ini, then $XDG_CONFIG_HOME/skkfe/config.{ini,toml,yaml,json}.
func Resolve(cliPath string) (Config, error) {
	if cliPath != "" {
		return Load(cliPath)
	}
	candidates := []string{}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "skkfe.ini"))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range []string{"ini", "toml", "yaml", "json"} {
			candidates = append(candidates, filepath.Join(dir, "skkfe", "config."+ext))
		}
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		} else if !errors.Is(err, os.ErrNotExist) {
			return Load(candidate)
		}
	}
	return Load("")
}
