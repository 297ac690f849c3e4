// Package slug turns set titles, tune titles, and outline filenames into the
// URL-safe identifiers used for navigation.
//
// Slugs are deterministic and case preserving: accents are folded to their
// ASCII base letters, a handful of symbols are spelled out, anything else that
// is not an ASCII letter or digit is dropped, and whitespace runs become a
// single hyphen. "Jigs 1 - Severn Stars" becomes "Jigs-1-Severn-Stars".
package slug
