/*
Package backend provides the dictionary sources a library merges: SKK
text files, structured JSON/YAML files, an SQLite store, an skkserv
client, a Google transliteration client and the writable user dictionary.

Read-only sources degrade to empty results when they cannot be read or
reached. Only UserDictionary accepts writes.
*/
package backend

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'skkfe.backend'
func tracer() tracing.Trace {
	return tracing.Select("skkfe.backend")
}
