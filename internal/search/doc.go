// Package search ranks the sets of a folder against a free-text query.
//
// Each set becomes one document built from its name, tune slugs, tags, and
// notes. Documents are reduced to term-frequency fingerprints weighted by
// inverse document frequency across the folder, and hits are ordered by
// cosine similarity with the query. Accents are folded before tokenizing so
// "Ríl" matches "ril".
package search
