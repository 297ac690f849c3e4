// Package main hosts the tunefolder CLI entrypoint and command graph.
//
// The Cobra command tree builds configured ABC collections into linked
// folders, inspects what the store holds, and serves folders over HTTP. It
// centralizes configuration resolution, logger setup, and store access so
// subcommands stay declarative while parsing and persistence live in the
// internal packages.
package main
