/*
Package dictionary merges dictionary backends into one ranked view.

A Library asks the user dictionary first and every other backend in
registration order; the first backend to produce a candidate decides its
position. Writes only ever reach the user dictionary.
*/
package dictionary

import (
	"context"

	"github.com/npillmayer/schuko/tracing"

	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/types"
)

// tracer writes to trace with key 'skkfe.dictionary'
func tracer() tracing.Trace {
	return tracing.Select("skkfe.dictionary")
}

// Dictionary is a candidate source.
type Dictionary interface {
	Lookup(ctx context.Context, okuri types.OkuriType, word string) []string
	Complete(ctx context.Context, prefix string) []jisyo.Entry
}

// Loader is implemented by backends that read from a backing store.
type Loader interface {
	Load(ctx context.Context) error
}

// Writable is the capability set of the user dictionary.
type Writable interface {
	Dictionary
	Loader
	Ranks() map[string]int64
	Register(okuri types.OkuriType, word, candidate string)
	Purge(okuri types.OkuriType, word, candidate string)
	Save() error
}

// Remote is implemented by backends answering over the network.
type Remote interface {
	Remote() bool
}

func isRemote(d Dictionary) bool {
	r, ok := d.(Remote)
	return ok && r.Remote()
}

type named interface {
	Name() string
}

func nameOf(d Dictionary) string {
	if n, ok := d.(named); ok {
		return n.Name()
	}
	return "anonymous"
}
