package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gg582/skkfe/internal/cli"
	"github.com/gg582/skkfe/internal/engine"
	"github.com/gg582/skkfe/internal/types"
)

const testJisyo = `;; okuri-ari entries.
おくr /送/
;; okuri-nasi entries.
かんじ /漢字/感じ/
`

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	dir := t.TempDir()
	dict := filepath.Join(dir, "SKK-JISYO.test")
	require.NoError(t, os.WriteFile(dict, []byte(testJisyo), 0o600))
	cfgPath := filepath.Join(dir, "skkfe.ini")
	cfg := "[skk]\nglobal_dictionaries = " + dict + "\nglobal_jisyo_encoding = utf-8\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	rt := NewRuntime(cli.Options{
		ConfigPath:     cfgPath,
		UserDictionary: filepath.Join(dir, "user-jisyo"),
	})
	rt.stderr = &bytes.Buffer{}
	require.NoError(t, rt.Prepare(context.Background()))
	t.Cleanup(rt.cleanup)
	return rt
}

func TestTranslate(t *testing.T) {
	rt := newTestRuntime(t)
	tests := []struct {
		keys string
		want string
	}{
		{"aiu", "あいう"},
		{"Kanji ", "漢字"},
		{"Kanji  ", "感じ"},
		{"OkuRu", "送る"},
		{"kaki<bs>", "か"},
		{"tesuto<cr>kanji", "てすと\nかんじ"},
	}
	for _, tt := range tests {
		got, err := Translate(context.Background(), rt.SessionOptions(nil), tt.keys)
		require.NoError(t, err, tt.keys)
		require.Equal(t, tt.want, got, tt.keys)
	}
}

func TestTranslateRegistersSelection(t *testing.T) {
	rt := newTestRuntime(t)
	opts := rt.SessionOptions(nil)
	_, err := Translate(context.Background(), opts, "Kanji  <c-j>")
	require.NoError(t, err)
	require.Equal(t, "感じ", rt.library.Lookup(context.Background(), types.OkuriNasi, "かんじ")[0])
}

func TestServeTranslations(t *testing.T) {
	rt := newTestRuntime(t)
	in := strings.NewReader("aiu\nKanji \n\n")
	var out bytes.Buffer
	require.NoError(t, ServeTranslations(context.Background(), in, &out, rt.SessionOptions(nil)))
	require.Equal(t, "あいう\n漢字\n\n", out.String())
}

func TestTranslateWithoutLibrary(t *testing.T) {
	got, err := Translate(context.Background(), engine.Options{}, "Kanji ")
	require.NoError(t, err)
	require.Equal(t, "かんじ", got)
}
