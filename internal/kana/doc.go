/*
Package kana holds romaji tables and the matcher that turns keystrokes
into kana.

A table maps a key sequence either to kana plus a residual feed, or to a
named handler. Tables are immutable once built; several of them can live
side by side in a Registry and are selected by name.
*/
package kana

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'skkfe.kana'
func tracer() tracing.Trace {
	return tracing.Select("skkfe.kana")
}
