package jisyo

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"

	"github.com/gg582/skkfe/internal/types"
)

func TestRegisterMostRecentFirst(t *testing.T) {
	j := New()
	j.Register(types.OkuriNasi, "かな", "a")
	j.Register(types.OkuriNasi, "かな", "b")
	j.Register(types.OkuriNasi, "かな", "a")
	got := j.Get(types.OkuriNasi, "かな")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected [a b], got %v", got)
	}
	j.Register(types.OkuriNasi, "かな", "")
	if got := j.Get(types.OkuriNasi, "かな"); len(got) != 2 {
		t.Fatalf("empty candidates must never be stored, got %v", got)
	}
}

func TestPurgeDropsEmptyHeadword(t *testing.T) {
	j := New()
	j.Register(types.OkuriAri, "おくr", "送")
	if !j.Purge(types.OkuriAri, "おくr", "送") {
		t.Fatalf("expected purge to report a change")
	}
	if _, ok := j.OkuriAri["おくr"]; ok {
		t.Fatalf("expected headword to be removed")
	}
	if j.Purge(types.OkuriAri, "おくr", "送") {
		t.Fatalf("expected second purge to be a no-op")
	}
}

func TestParseAndWrite(t *testing.T) {
	input := strings.Join([]string{
		";; -*- coding: utf-8 -*-",
		OkuriAriMarker,
		"おくr /送/贈/[る/送/]/",
		"あるk /歩/",
		OkuriNasiMarker,
		"かんじ /漢字/感じ;feeling/",
		"あい /愛/",
		"",
	}, "\n")
	j, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := j.Get(types.OkuriAri, "おくr"); !reflect.DeepEqual(got, []string{"送", "贈"}) {
		t.Fatalf("unexpected okuri-ari candidates: %v", got)
	}
	if got := j.Get(types.OkuriNasi, "かんじ"); !reflect.DeepEqual(got, []string{"漢字", "感じ;feeling"}) {
		t.Fatalf("unexpected okuri-nasi candidates: %v", got)
	}

	var buf bytes.Buffer
	if err := Write(&buf, j); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	want := strings.Join([]string{
		OkuriAriMarker,
		"おくr /送/贈/",
		"あるk /歩/",
		OkuriNasiMarker,
		"あい /愛/",
		"かんじ /漢字/感じ;feeling/",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected serialization:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestParseWithoutMarkers(t *testing.T) {
	j, err := Parse(strings.NewReader("みるm /見/\nみる /見る/\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := j.Get(types.OkuriAri, "みるm"); len(got) != 1 {
		t.Fatalf("expected okuri-ari guess for みるm, got %v", got)
	}
	if got := j.Get(types.OkuriNasi, "みる"); len(got) != 1 {
		t.Fatalf("expected okuri-nasi entry for みる, got %v", got)
	}
}

func TestParseLineRejectsMalformed(t *testing.T) {
	for _, line := range []string{"nocandidates", "word //", " /x/"} {
		if _, _, ok := ParseLine(line); ok {
			t.Fatalf("expected %q to be rejected", line)
		}
	}
}

func TestReadFileEUCJP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SKK-JISYO.test")

	encoded, err := japanese.EUCJP.NewEncoder().Bytes([]byte(OkuriNasiMarker + "\nにほん /日本/\n"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		t.Fatalf("write jisyo: %v", err)
	}

	j, err := ReadFile(path, "EUC-JP")
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if got := j.Get(types.OkuriNasi, "にほん"); !reflect.DeepEqual(got, []string{"日本"}) {
		t.Fatalf("expected [日本], got %v", got)
	}
	if _, err := Encoding("klingon"); err == nil {
		t.Fatalf("expected unknown encoding error")
	}
}
