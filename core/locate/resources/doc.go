/*
Package resources resolves fonts for an application.

A font is requested by an identifier, which may be a path to a font file,
the name of a font installed on the system, or one of the names denoting
the built-in fallback font ("fallback", "go", "Go Sans").
Resolution tries, in this order:

   1. the global font registry
   2. the identifier as a file path
   3. the built-in fallback font
   4. system fonts, located with go-findfont
   5. fonts listed by fontconfig's fc-list, if configured

Fonts which have been resolved once are stored in the global registry.
Font files are registered under their absolute path, all other fonts under
their normalized name.

Configuration keys used:

   fontconfig   absolute path of the fc-list binary
   app-key      application key, names a sub-directory of the user's
                config directory for caching the fontconfig font list

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'hbrender.resources'.
func tracer() tracing.Trace {
	return tracing.Select("hbrender.resources")
}
