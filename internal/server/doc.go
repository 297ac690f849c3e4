// Package server exposes built folders over a read-only HTTP API.
//
// Routes:
//
//	GET /folder.json[?folder=NAME]       linked folder from the latest build
//	GET /api/folders                     latest build summary per folder
//	GET /api/sets/{slug}[?folder=NAME]   one set with its next/previous slugs
//	GET /api/search?q=TEXT[&limit=N]     sets ranked against a text query
//
// When no folder is named the server falls back to its configured default,
// then to the only stored folder if exactly one exists.
package server
