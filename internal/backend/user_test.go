package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gg582/skkfe/internal/types"
)

func TestUserRegisterPurgeRoundTrip(t *testing.T) {
	u := NewUserDictionary("")
	u.Register(types.OkuriNasi, "かんじ", "幹事")
	before := u.Lookup(context.Background(), types.OkuriNasi, "かんじ")

	u.Register(types.OkuriNasi, "かんじ", "漢字")
	require.Equal(t, []string{"漢字", "幹事"}, u.Lookup(context.Background(), types.OkuriNasi, "かんじ"))

	u.Purge(types.OkuriNasi, "かんじ", "漢字")
	require.Equal(t, before, u.Lookup(context.Background(), types.OkuriNasi, "かんじ"))

	u.Purge(types.OkuriNasi, "かんじ", "幹事")
	require.Nil(t, u.Lookup(context.Background(), types.OkuriNasi, "かんじ"))
	require.Empty(t, u.Complete(context.Background(), "かん"))
}

func TestUserRanksAreStrictlyIncreasing(t *testing.T) {
	u := NewUserDictionary("")
	fixed := time.UnixMilli(1000)
	u.now = func() time.Time { return fixed }

	u.Register(types.OkuriNasi, "a", "x")
	u.Register(types.OkuriNasi, "a", "y")
	u.Register(types.OkuriNasi, "a", "x")
	ranks := u.Ranks()
	require.Greater(t, ranks["x"], ranks["y"])
	require.Greater(t, ranks["y"], int64(999))
}

func TestUserSaveWritesJisyoFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "user-jisyo")
	u := NewUserDictionary(path)
	u.Register(types.OkuriAri, "あるk", "歩")
	u.Register(types.OkuriAri, "おくr", "送")
	u.Register(types.OkuriNasi, "かんじ", "漢字")
	u.Register(types.OkuriNasi, "あい", "愛")
	require.NoError(t, u.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	want := ";; okuri-ari entries.\n" +
		"おくr /送/\n" +
		"あるk /歩/\n" +
		";; okuri-nasi entries.\n" +
		"あい /愛/\n" +
		"かんじ /漢字/\n"
	require.Equal(t, want, string(raw))

	loaded := NewUserDictionary(path)
	require.NoError(t, loaded.Load(context.Background()))
	require.Equal(t, []string{"送"}, loaded.Lookup(context.Background(), types.OkuriAri, "おくr"))
}

func TestUserLoadSkipsUnchangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user-jisyo")
	require.NoError(t, os.WriteFile(path, []byte(";; okuri-nasi entries.\nあ /亜/\n"), 0o600))

	u := NewUserDictionary(path)
	require.NoError(t, u.Load(context.Background()))
	u.Register(types.OkuriNasi, "い", "胃")

	// Same mtime: the in-memory registration survives a reload.
	require.NoError(t, u.Load(context.Background()))
	require.Equal(t, []string{"胃"}, u.Lookup(context.Background(), types.OkuriNasi, "い"))

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.WriteFile(path, []byte(";; okuri-nasi entries.\nう /宇/\n"), 0o600))
	require.NoError(t, os.Chtimes(path, later, later))
	require.NoError(t, u.Load(context.Background()))
	require.Nil(t, u.Lookup(context.Background(), types.OkuriNasi, "い"))
	require.Equal(t, []string{"宇"}, u.Lookup(context.Background(), types.OkuriNasi, "う"))
}

func TestUserLoadMissingFile(t *testing.T) {
	u := NewUserDictionary(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, u.Load(context.Background()))
}
