package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

type Options struct {
	ShowHelp       bool
	ListTables     bool
	Translate      bool
	Debug          bool
	ConfigPath     string
	TableName      string
	UserDictionary string
	Dictionaries   []string
	ImportJisyo    string
	MetricsFile    string
}

func newFlagSet(opts *Options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("skkfe", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.BoolVarP(&opts.ShowHelp, "help", "h", false, "Show this help message")
	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (.ini, .toml, .yaml or .json)")
	fs.StringVar(&opts.TableName, "table", "", "Kana table to type with (overrides kana_table)")
	fs.StringVar(&opts.UserDictionary, "user-dictionary", "", "User jisyo path (overrides user_dictionary)")
	fs.StringSliceVarP(&opts.Dictionaries, "dictionary", "d", nil, "Additional global jisyo, may be repeated")
	fs.BoolVar(&opts.Translate, "translate", false, "Convert key lines from stdin instead of reading the keyboard")
	fs.StringVar(&opts.ImportJisyo, "import-jisyo", "", "Import a jisyo file into kvstore_path and exit")
	fs.StringVar(&opts.MetricsFile, "metrics-file", "", "Write dictionary metrics to this file on exit")
	fs.BoolVar(&opts.ListTables, "list-tables", false, "List available kana tables")
	fs.BoolVar(&opts.Debug, "debug", false, "Enable debug tracing")
	return fs
}

// Parse reads command line arguments; args[0] is the program name.
func Parse(args []string) (Options, error) {
	var opts Options
	fs := newFlagSet(&opts)
	fs.Usage = func() {}
	if len(args) > 0 {
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			opts.ShowHelp = true
			return opts, nil
		}
		return Options{}, err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return Options{}, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return opts, nil
}

func Usage() string {
	var opts Options
	fs := newFlagSet(&opts)
	var b strings.Builder
	b.WriteString("skkfe - SKK Japanese input method\n")
	b.WriteString("Usage: skkfe [options]\n\n")
	b.WriteString("Options:\n")
	b.WriteString(fs.FlagUsages())
	return strings.TrimRight(b.String(), "\n")
}
