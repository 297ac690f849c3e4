// Package folder defines the Folder → Section → Set → Tune hierarchy produced
// by the ingestion paths and consumed by the CLI and HTTP API.
//
// Values are plain data with JSON tags matching the folder.json wire shape.
// LinkSets derives wraparound next/previous navigation across every set in
// document order and returns a fresh tree; it never mutates its input.
package folder
