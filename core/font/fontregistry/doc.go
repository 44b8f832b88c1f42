/*
Package fontregistry manages a registry for loaded fonts.

Fonts are stored under a normalized name, which is derived from a font's
name, style and weight. Typecases are never cached: each request for a
typecase creates a new one, owned by the caller.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'hbrender.font'
func tracer() tracing.Trace {
	return tracing.Select("hbrender.font")
}
