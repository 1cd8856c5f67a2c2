package backend

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/types"
)

const sampleJisyo = ";; okuri-ari entries.\n" +
	"おくr /送/贈/\n" +
	";; okuri-nasi entries.\n" +
	"かん /缶/感/\n" +
	"かんじ /漢字/\n" +
	"きん /金/\n"

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestSkkFileLookupAndComplete(t *testing.T) {
	f := NewSkkFile(writeFile(t, "SKK-JISYO.S", sampleJisyo), "utf-8")
	ctx := context.Background()
	require.NoError(t, f.Load(ctx))

	require.Equal(t, []string{"送", "贈"}, f.Lookup(ctx, types.OkuriAri, "おくr"))
	got := f.Complete(ctx, "かん")
	require.Len(t, got, 2)
	require.Equal(t, "かん", got[0].Word)
	require.Equal(t, "かんじ", got[1].Word)
	require.Empty(t, f.Complete(ctx, "さ"))
}

func TestSkkFileMissingIsEmpty(t *testing.T) {
	f := NewSkkFile(filepath.Join(t.TempDir(), "absent"), "utf-8")
	require.Error(t, f.Load(context.Background()))
	require.Nil(t, f.Lookup(context.Background(), types.OkuriNasi, "かん"))
}

func TestStructuredJSON(t *testing.T) {
	path := writeFile(t, "dict.json", `{"okuri_ari": {"おくr": ["送"]}, "okuri_nasi": {"かんじ": ["漢字", "幹事"]}}`)
	s := NewStructured(path)
	require.NoError(t, s.Load(context.Background()))
	require.Equal(t, []string{"漢字", "幹事"}, s.Lookup(context.Background(), types.OkuriNasi, "かんじ"))
	require.Equal(t, []string{"送"}, s.Lookup(context.Background(), types.OkuriAri, "おくr"))
}

func TestStructuredYAMLSchemaViolation(t *testing.T) {
	path := writeFile(t, "dict.yaml", "okuri_nasi:\n  かんじ: []\n")
	s := NewStructured(path)
	require.Error(t, s.Load(context.Background()))
	require.Equal(t, 0, s.Len())

	path = writeFile(t, "extra.yml", "okuri_nasi:\n  かんじ: [漢字]\nunexpected: 1\n")
	s = NewStructured(path)
	require.Error(t, s.Load(context.Background()))
	require.Nil(t, s.Lookup(context.Background(), types.OkuriNasi, "かんじ"))
}

func TestStructuredYAML(t *testing.T) {
	path := writeFile(t, "dict.yaml", "okuri_nasi:\n  かんじ: [漢字]\n")
	s := NewStructured(path)
	require.NoError(t, s.Load(context.Background()))
	require.Equal(t, []string{"漢字"}, s.Lookup(context.Background(), types.OkuriNasi, "かんじ"))
}

func TestKVStoreImportLookupComplete(t *testing.T) {
	kv, err := OpenKVStore(filepath.Join(t.TempDir(), "jisyo.db"))
	require.NoError(t, err)
	defer kv.Close()

	j, err := jisyo.Parse(strings.NewReader(sampleJisyo))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, kv.Import(ctx, j))

	require.Equal(t, []string{"送", "贈"}, kv.Lookup(ctx, types.OkuriAri, "おくr"))
	require.Nil(t, kv.Lookup(ctx, types.OkuriNasi, "おくr"))

	got := kv.Complete(ctx, "かん")
	require.Len(t, got, 2)
	require.Equal(t, "かん", got[0].Word)
	require.Equal(t, []string{"漢字"}, got[1].Candidates)
}

func serveSkk(t *testing.T, replies map[string]string) (string, int) {
	t.Helper()
	return serveSkkDelayed(t, replies, 0)
}

func serveSkkDelayed(t *testing.T, replies map[string]string, delay time.Duration) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				r := bufio.NewReader(c)
				req, err := r.ReadString(' ')
				if err != nil {
					return
				}
				time.Sleep(delay)
				reply, ok := replies[req]
				if !ok {
					reply = "4" + req[1:]
				}
				_, _ = c.Write([]byte(reply + "\n"))
			}(conn)
		}
	}()
	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port
}

func TestSkkServLookupAndComplete(t *testing.T) {
	host, port := serveSkk(t, map[string]string{
		"1かんじ ": "1/漢字/幹事/",
		"4かん ":  "1/かんじ/",
	})
	s, err := NewSkkServ(host, port, "utf-8", time.Second)
	require.NoError(t, err)
	ctx := context.Background()

	require.Equal(t, []string{"漢字", "幹事"}, s.Lookup(ctx, types.OkuriNasi, "かんじ"))
	require.Nil(t, s.Lookup(ctx, types.OkuriNasi, "なし"))

	got := s.Complete(ctx, "かん")
	require.Len(t, got, 1)
	require.Equal(t, "かんじ", got[0].Word)
}

func TestSkkServCompleteSharesOneTimeout(t *testing.T) {
	replies := map[string]string{}
	var words []string
	for i := 0; i < maxServerCompletions; i++ {
		word := fmt.Sprintf("か%02d", i)
		words = append(words, word)
		replies["1"+word+" "] = "1/" + word + "/"
	}
	replies["4か "] = "1/" + strings.Join(words, "/") + "/"
	host, port := serveSkkDelayed(t, replies, 40*time.Millisecond)
	s, err := NewSkkServ(host, port, "utf-8", 150*time.Millisecond)
	require.NoError(t, err)

	start := time.Now()
	got := s.Complete(context.Background(), "か")
	elapsed := time.Since(start)
	require.Less(t, elapsed, 600*time.Millisecond)
	require.Less(t, len(got), maxServerCompletions)
	require.NotEmpty(t, got)
}

func TestSkkServUnreachableIsEmpty(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	s, err := NewSkkServ("127.0.0.1", port, "euc-jp", 50*time.Millisecond)
	require.NoError(t, err)
	require.Nil(t, s.Lookup(context.Background(), types.OkuriNasi, "かんじ"))
}

func TestGoogleIME(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("langpair") != "ja-Hira|ja" || q.Get("text") != "かんじ," {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`[["かんじ",["漢字","感じ","幹事"]]]`))
	}))
	defer srv.Close()

	g := NewGoogleIME(srv.URL, time.Second)
	require.Equal(t, []string{"漢字", "感じ", "幹事"}, g.Lookup(context.Background(), types.OkuriNasi, "かんじ"))
	require.Nil(t, g.Lookup(context.Background(), types.OkuriAri, "おくr"))
}

func TestGoogleIMETimeoutIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	g := NewGoogleIME(srv.URL, 20*time.Millisecond)
	require.Nil(t, g.Lookup(context.Background(), types.OkuriNasi, "かんじ"))
}
