package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gg582/skkfe/internal/jisyo"
)

// SkkFile is a read-only SKK text jisyo reloaded when its mtime changes.
type SkkFile struct {
	snapshot
	path     string
	encoding string
}

func NewSkkFile(path, encoding string) *SkkFile {
	return &SkkFile{snapshot: newSnapshot(), path: path, encoding: encoding}
}

func (f *SkkFile) Name() string { return "file:" + filepath.Base(f.path) }

// Load reads the jisyo unless it is unchanged since the last load. A
// missing or unreadable file leaves the backend empty.
func (f *SkkFile) Load(_ context.Context) error {
	info, err := os.Stat(f.path)
	if err != nil {
		f.clear()
		return fmt.Errorf("stat jisyo %s: %w", f.path, err)
	}
	if f.fresh(info) {
		tracer().Debugf("%s unchanged, skipping reload", f.path)
		return nil
	}
	j, err := jisyo.ReadFile(f.path, f.encoding)
	if err != nil {
		f.clear()
		return err
	}
	f.replace(j, info.ModTime())
	tracer().Infof("loaded %s: %d headwords", f.path, j.Len())
	return nil
}
