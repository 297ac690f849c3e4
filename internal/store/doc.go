// Package store persists built folders in SQLite.
//
// Every build of a folder is recorded as a row carrying the assembled folder
// as JSON, the digest of the source text it came from, and summary counts.
// Readers normally want the latest build per folder name; older builds are
// kept until Prune removes them.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema since every row can be rebuilt from source.
package store
