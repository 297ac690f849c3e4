// Package catalog turns configured source documents into linked folders and
// records them in the store.
//
// A Builder reads an ABC collection or a LaTeX outline, runs the matching
// parser, derives next/previous set links, and saves the result unless the
// assembled folder is identical to the latest stored build. Builds hold an
// exclusive file lock in the data directory so concurrent invocations never
// interleave writes; BuildAll fans out across folders with bounded
// concurrency.
package catalog
