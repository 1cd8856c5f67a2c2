// Package jisyo implements the SKK dictionary entry set and its text
// format.
package jisyo

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("skkfe.jisyo")
}
