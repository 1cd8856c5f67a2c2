/*
Package app wires configuration, kana tables, dictionaries and a session
into a runnable input method.
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/eiannone/keyboard"
	"github.com/npillmayer/schuko/tracing"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gg582/skkfe/internal/backend"
	"github.com/gg582/skkfe/internal/cli"
	"github.com/gg582/skkfe/internal/config"
	"github.com/gg582/skkfe/internal/dictionary"
	"github.com/gg582/skkfe/internal/emitter"
	"github.com/gg582/skkfe/internal/engine"
	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/kana"
)

// tracer writes to trace with key 'skkfe.app'
func tracer() tracing.Trace {
	return tracing.Select("skkfe.app")
}

type Runtime struct {
	opts     cli.Options
	cfg      config.Config
	registry *kana.Registry
	table    *kana.Table
	user     *backend.UserDictionary
	kvstore  *backend.KVStore
	library  *dictionary.Library
	metrics  *prometheus.Registry
	output   emitter.Output
	stderr   io.Writer
	cleanups []func()
}

func NewRuntime(opts cli.Options) *Runtime {
	return &Runtime{opts: opts, stderr: os.Stderr}
}

func (rt *Runtime) Run(ctx context.Context) error {
	defer rt.cleanup()

	if err := rt.Prepare(ctx); err != nil {
		return err
	}
	if rt.opts.ImportJisyo != "" {
		return rt.importJisyo(ctx)
	}
	if rt.opts.Translate {
		return ServeTranslations(ctx, os.Stdin, os.Stdout, rt.SessionOptions(nil))
	}
	rt.buildEmitter(os.Stdout)
	return rt.runEventLoop(ctx)
}

// Prepare loads configuration, kana tables and dictionaries.
func (rt *Runtime) Prepare(ctx context.Context) error {
	if err := rt.prepareConfig(); err != nil {
		return err
	}
	if err := rt.prepareTables(); err != nil {
		return err
	}
	return rt.prepareLibrary(ctx)
}

func (rt *Runtime) prepareConfig() error {
	cfg, err := config.Resolve(rt.opts.ConfigPath)
	if err != nil {
		var cfgErr config.ConfigError
		if !errors.As(err, &cfgErr) {
			return err
		}
		fmt.Fprintf(rt.stderr, "skkfe: config: %v\n", err)
	}
	if rt.opts.TableName != "" {
		cfg.KanaTable = rt.opts.TableName
	}
	if rt.opts.UserDictionary != "" {
		cfg.UserDictionary = rt.opts.UserDictionary
	}
	cfg.GlobalDictionaries = append(cfg.GlobalDictionaries, rt.opts.Dictionaries...)
	if rt.opts.Debug {
		cfg.Debug = true
	}
	installTracing(rt.stderr, cfg.Debug)
	rt.cfg = cfg
	return nil
}

func (rt *Runtime) prepareLibrary(ctx context.Context) error {
	cfg := rt.cfg
	rt.metrics = prometheus.NewRegistry()
	metrics, err := dictionary.NewMetrics(rt.metrics)
	if err != nil {
		return err
	}

	var backends []dictionary.Dictionary
	for _, path := range cfg.GlobalDictionaries {
		backends = append(backends, rt.wrapNumeric(backend.NewSkkFile(path, cfg.GlobalJisyoEncoding)))
	}
	for _, path := range cfg.StructuredDictionaries {
		backends = append(backends, rt.wrapNumeric(backend.NewStructured(path)))
	}
	if cfg.KVStorePath != "" {
		kv, err := backend.OpenKVStore(cfg.KVStorePath)
		if err != nil {
			return err
		}
		rt.kvstore = kv
		rt.registerCleanup(func() { _ = kv.Close() })
		backends = append(backends, rt.wrapNumeric(kv))
	}
	if cfg.UseSKKServer {
		serv, err := backend.NewSkkServ(cfg.SKKServerHost, cfg.SKKServerPort, cfg.SKKServerEncoding, cfg.RemoteTimeout)
		if err != nil {
			return err
		}
		backends = append(backends, rt.wrapNumeric(serv))
	}
	if cfg.UseGoogleJapaneseInput {
		backends = append(backends, backend.NewGoogleIME(cfg.GoogleJapaneseInputURL, cfg.RemoteTimeout))
	}

	var user dictionary.Writable
	if cfg.UserDictionary != "" {
		rt.user = backend.NewUserDictionary(cfg.UserDictionary)
		user = rt.user
	}
	rt.library = dictionary.NewLibrary(dictionary.Options{
		User:         user,
		Backends:     backends,
		WriteThrough: cfg.ImmediatelyJisyoRW,
		Table:        rt.table,
		Metrics:      metrics,
	})
	if err := rt.library.Reload(ctx); err != nil {
		fmt.Fprintf(rt.stderr, "skkfe: %v\n", err)
	}
	tracer().Infof("dictionaries: %s", rt.library.Describe())

	rt.registerCleanup(func() {
		if err := rt.library.Save(); err != nil {
			fmt.Fprintf(rt.stderr, "skkfe: save user jisyo: %v\n", err)
		}
	})
	if rt.opts.MetricsFile != "" {
		rt.registerCleanup(func() {
			if err := prometheus.WriteToTextfile(rt.opts.MetricsFile, rt.metrics); err != nil {
				fmt.Fprintf(rt.stderr, "skkfe: write metrics: %v\n", err)
			}
		})
	}
	return nil
}

func (rt *Runtime) wrapNumeric(d dictionary.Dictionary) dictionary.Dictionary {
	if !rt.cfg.NumericConversion {
		return d
	}
	return dictionary.NewNumeric(d)
}

func (rt *Runtime) importJisyo(ctx context.Context) error {
	if rt.kvstore == nil {
		return fmt.Errorf("--import-jisyo needs kvstore_path to be configured")
	}
	j, err := jisyo.ReadFile(rt.opts.ImportJisyo, rt.cfg.GlobalJisyoEncoding)
	if err != nil {
		return err
	}
	if err := rt.kvstore.Import(ctx, j); err != nil {
		return err
	}
	fmt.Fprintf(rt.stderr, "skkfe: imported %d headwords into %s\n", j.Len(), rt.cfg.KVStorePath)
	return nil
}

func (rt *Runtime) buildEmitter(out io.Writer) {
	term := emitter.NewTerminal(out)
	rt.output = term
	rt.registerCleanup(func() { _ = term.Close() })
}

// SessionOptions builds session options from the loaded configuration.
func (rt *Runtime) SessionOptions(out emitter.Output) engine.Options {
	return engine.Options{
		Table:                   rt.table,
		Library:                 rt.library,
		Output:                  out,
		AcceptIllegalResult:     rt.cfg.AcceptIllegalResult,
		ImmediatelyOkuriConvert: rt.cfg.ImmediatelyOkuriConvert,
		ShowCandidatesCount:     rt.cfg.ShowCandidatesCount,
		MarkerHenkan:            rt.cfg.MarkerHenkan,
		MarkerHenkanSelect:      rt.cfg.MarkerHenkanSelect,
	}
}

// runEventLoop reads the keyboard until ctrl-c, EOF or ctx is done.
func (rt *Runtime) runEventLoop(ctx context.Context) error {
	if err := keyboard.Open(); err != nil {
		return fmt.Errorf("open keyboard: %w", err)
	}
	defer keyboard.Close()
	installTracing(rawLineWriter{w: rt.stderr}, rt.cfg.Debug)
	events, err := keyboard.GetKeys(16)
	if err != nil {
		return fmt.Errorf("read keyboard: %w", err)
	}
	keys := &keySource{events: events}

	opts := rt.SessionOptions(rt.output)
	opts.Registrar = &keyRegistrar{next: keys.Next, out: rt.stderr, base: rt.SessionOptions(nil)}
	session := engine.NewSession(opts)
	defer session.Dispose()
	tracer().Infof("session %s: reading keyboard", session.ID())

	for {
		key, err := keys.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if key == quitKey {
			return nil
		}
		handled, err := session.HandleKey(ctx, key)
		if err != nil {
			return err
		}
		if !handled {
			if err := hostKey(rt.output, key, "\r\n"); err != nil {
				return err
			}
		}
		if session.State() == engine.StateEscape {
			session.Reset()
			rt.refresh(ctx)
		}
	}
}

// refresh reloads dictionaries whose files changed on disk. Unchanged
// files are skipped by their backends.
func (rt *Runtime) refresh(ctx context.Context) {
	if rt.library == nil {
		return
	}
	if err := rt.library.Reload(ctx); err != nil {
		tracer().Errorf("reload dictionaries: %v", err)
	}
}

func (rt *Runtime) registerCleanup(fn func()) {
	if fn == nil {
		return
	}
	rt.cleanups = append([]func(){fn}, rt.cleanups...)
}

func (rt *Runtime) cleanup() {
	for _, fn := range rt.cleanups {
		fn()
	}
	rt.cleanups = nil
}
