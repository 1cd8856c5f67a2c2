package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/stretchr/testify/require"

	"github.com/gg582/skkfe/internal/cli"
)

func TestListTables(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "skkfe.ini")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[skk]\nkana_table = rom\n"), 0o600))

	rt := NewRuntime(cli.Options{ConfigPath: cfgPath})
	rt.stderr = &bytes.Buffer{}
	names, err := rt.ListTables()
	require.NoError(t, err)
	require.Contains(t, names, "rom")
}

func TestImportJisyoNeedsKVStore(t *testing.T) {
	rt := newTestRuntime(t)
	rt.opts.ImportJisyo = filepath.Join(t.TempDir(), "SKK-JISYO.L")
	require.Error(t, rt.importJisyo(context.Background()))
}

func TestImportJisyoIntoKVStore(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "SKK-JISYO.src")
	require.NoError(t, os.WriteFile(src, []byte(testJisyo), 0o600))
	cfgPath := filepath.Join(dir, "skkfe.ini")
	cfg := "[skk]\nkvstore_path = " + filepath.Join(dir, "jisyo.db") + "\nglobal_jisyo_encoding = utf-8\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	rt := NewRuntime(cli.Options{
		ConfigPath:     cfgPath,
		UserDictionary: filepath.Join(dir, "user-jisyo"),
		ImportJisyo:    src,
	})
	rt.stderr = &bytes.Buffer{}
	require.NoError(t, rt.Run(context.Background()))

	rt = NewRuntime(cli.Options{ConfigPath: cfgPath, UserDictionary: filepath.Join(dir, "user-jisyo")})
	rt.stderr = &bytes.Buffer{}
	require.NoError(t, rt.Prepare(context.Background()))
	t.Cleanup(rt.cleanup)
	got, err := Translate(context.Background(), rt.SessionOptions(nil), "Kanji ")
	require.NoError(t, err)
	require.Equal(t, "漢字", got)
}

var sessionIDPattern = regexp.MustCompile(`session [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func TestDebugTracesReachStderr(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "skkfe.ini")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[skk]\n"), 0o600))
	var stderr bytes.Buffer
	rt := NewRuntime(cli.Options{ConfigPath: cfgPath, UserDictionary: filepath.Join(dir, "user-jisyo"), Debug: true})
	rt.stderr = &stderr
	require.NoError(t, rt.Prepare(context.Background()))
	t.Cleanup(rt.cleanup)

	require.Equal(t, tracing.LevelDebug, tracing.Select("skkfe.engine").GetTraceLevel())
	_, err := Translate(context.Background(), rt.SessionOptions(nil), "aiu")
	require.NoError(t, err)
	require.Contains(t, stderr.String(), "created with table rom")
	require.Regexp(t, sessionIDPattern, stderr.String())
}

func TestErrorsTracedWithoutDebug(t *testing.T) {
	var stderr bytes.Buffer
	rt := newTestRuntime(t)
	rt.stderr = &stderr
	require.NoError(t, rt.prepareConfig())

	require.Equal(t, tracing.LevelError, tracing.Select("skkfe.engine").GetTraceLevel())
	_, err := Translate(context.Background(), rt.SessionOptions(nil), "K<s-l>a")
	require.NoError(t, err)
	require.Contains(t, stderr.String(), "is not valid in")
	require.NotContains(t, stderr.String(), "created with table")
}

func TestRefreshPicksUpEditedJisyo(t *testing.T) {
	rt := newTestRuntime(t)
	ctx := context.Background()
	got, err := Translate(ctx, rt.SessionOptions(nil), "Sakura ")
	require.NoError(t, err)
	require.Equal(t, "さくら", got)

	dict := rt.cfg.GlobalDictionaries[0]
	require.NoError(t, os.WriteFile(dict, []byte(testJisyo+"さくら /桜/\n"), 0o600))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(dict, later, later))
	rt.refresh(ctx)

	got, err = Translate(ctx, rt.SessionOptions(nil), "Sakura ")
	require.NoError(t, err)
	require.Equal(t, "桜", got)
}
