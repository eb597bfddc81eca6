// Package pathname converts filesystem paths into single unicode filename
// components and back.
//
// The mapping is lossless: ToPath(ToFilename(p)) == p for every string p,
// and distinct paths always produce distinct filenames. Three static tables
// drive it:
//   - Reserved characters (\ / : * ? " < > |) become their full-width forms.
//   - NUL becomes 〇.
//   - Well-known directory prefixes (home folders, media volumes, drive
//     roots) become a two-glyph icon pair naming the OS family and the
//     directory type, followed by the user or volume name.
//
// Any table glyph that occurs literally in a path is written with the
// escape quote ‛ in front of it, so output of the codec can always be told
// apart from literal text.
//
// Example:
//
//	name, _ := pathname.ToFilename("/home/alice/Documents/report.txt")
//	// name == "🐧📄alice／report.txt"
//	path, err := pathname.ToPath(name)
//	// path == "/home/alice/Documents/report.txt"
//
// The package performs no I/O and keeps no mutable state; all functions are
// safe for concurrent use.
package pathname
