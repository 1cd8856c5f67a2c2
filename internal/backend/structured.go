package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/types"
)

type structuredDocument struct {
	OkuriAri  map[string][]string `json:"okuri_ari" yaml:"okuri_ari"`
	OkuriNasi map[string][]string `json:"okuri_nasi" yaml:"okuri_nasi"`
}

// Structured is a read-only dictionary stored as JSON or YAML:
//
//	{"okuri_ari": {"おくr": ["送"]}, "okuri_nasi": {"かんじ": ["漢字"]}}
//
// Any schema violation fails the whole load and leaves the backend empty.
type Structured struct {
	snapshot
	path string
}

func NewStructured(path string) *Structured {
	return &Structured{snapshot: newSnapshot(), path: path}
}

func (s *Structured) Name() string { return "structured:" + filepath.Base(s.path) }

func (s *Structured) Load(_ context.Context) error {
	info, err := os.Stat(s.path)
	if err != nil {
		s.clear()
		return fmt.Errorf("stat structured dictionary %s: %w", s.path, err)
	}
	if s.fresh(info) {
		return nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.clear()
		return fmt.Errorf("read structured dictionary %s: %w", s.path, err)
	}
	doc, err := decodeStructured(s.path, raw)
	if err != nil {
		s.clear()
		return fmt.Errorf("parse structured dictionary %s: %w", s.path, err)
	}
	j, err := doc.jisyo()
	if err != nil {
		s.clear()
		return fmt.Errorf("validate structured dictionary %s: %w", s.path, err)
	}
	s.replace(j, info.ModTime())
	tracer().Infof("loaded %s: %d headwords", s.path, j.Len())
	return nil
}

func decodeStructured(path string, raw []byte) (structuredDocument, error) {
	var doc structuredDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return doc, err
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(raw, &doc); err != nil {
			return doc, err
		}
	default:
		return doc, fmt.Errorf("unsupported structured dictionary format %q", filepath.Ext(path))
	}
	return doc, nil
}

func (doc structuredDocument) jisyo() (*jisyo.Jisyo, error) {
	j := jisyo.New()
	parts := []struct {
		okuri   types.OkuriType
		entries map[string][]string
	}{
		{types.OkuriAri, doc.OkuriAri},
		{types.OkuriNasi, doc.OkuriNasi},
	}
	for _, part := range parts {
		for word, cands := range part.entries {
			if word == "" {
				return nil, fmt.Errorf("%s entry with empty headword", part.okuri)
			}
			if len(cands) == 0 {
				return nil, fmt.Errorf("%s entry %q has no candidates", part.okuri, word)
			}
			for _, c := range cands {
				if c == "" {
					return nil, fmt.Errorf("%s entry %q has an empty candidate", part.okuri, word)
				}
			}
			j.Add(part.okuri, word, cands...)
		}
	}
	return j, nil
}
