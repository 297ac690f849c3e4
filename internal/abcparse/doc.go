// Package abcparse assembles a multi-tune ABC document into a folder.Folder.
//
// The input is one long text stream. Each "X:" numbering block is a set: the
// first "T:" line after the marker is the set title (for example
// "Jigs 1 - Severn Stars", which also names the "Jigs" section) and every later
// "T:" line opens another tune in that set. Header lines are carried forward
// from tune to tune until overridden, except for the per-tune fields (lyrics by
// default) which only ever apply to the tune they appear on.
//
// A composer line of the form "C:Name (Other Tune)" attributes the composer to
// the named tune rather than the one it trails; the attribution is applied when
// that tune is committed and must be satisfied before the set closes.
//
// Parsing is a single synchronous pass with no shared state, so independent
// documents can be parsed concurrently. Structural problems are reported as
// *ParseError values carrying the 1-based line number.
package abcparse
