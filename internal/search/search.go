package search

import (
	"cmp"
	"slices"
	"strings"

	"tunefolder/internal/folder"
)

// Hit is one ranked set.
type Hit struct {
	Section string     `json:"section"`
	Set     folder.Set `json:"set"`
	Score   float64    `json:"score"`
}

type document struct {
	section string
	set     folder.Set
	order   int
	fp      *fingerprint
}

// Index holds the fingerprints of one folder's sets.
type Index struct {
	docs []document
	idf  map[string]float64
}

// NewIndex fingerprints every set in f.
func NewIndex(f folder.Folder) *Index {
	var docs []document
	var raw []*fingerprint
	for _, section := range f.Content {
		for _, set := range section.Content {
			fp := newFingerprint(setText(section.Name, set))
			docs = append(docs, document{section: section.Name, set: set, order: len(docs), fp: fp})
			raw = append(raw, fp)
		}
	}
	idf := inverseFrequencies(raw)
	for i := range docs {
		docs[i].fp = docs[i].fp.weighted(idf)
	}
	return &Index{docs: docs, idf: idf}
}

// Query returns sets scoring above zero, best first, at most limit of them.
// Ties keep folder order. A limit of zero or less returns every match.
func (ix *Index) Query(q string, limit int) []Hit {
	query := newFingerprint(q).weighted(ix.idf)
	if query == nil {
		return nil
	}

	type scored struct {
		doc   document
		score float64
	}
	var matches []scored
	for _, d := range ix.docs {
		if s := cosine(query, d.fp); s > 0 {
			matches = append(matches, scored{doc: d, score: s})
		}
	}
	slices.SortStableFunc(matches, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.doc.order, b.doc.order)
	})
	if len(matches) == 0 {
		return nil
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	hits := make([]Hit, len(matches))
	for i, m := range matches {
		hits[i] = Hit{Section: m.doc.section, Set: m.doc.set, Score: m.score}
	}
	return hits
}

func setText(section string, set folder.Set) string {
	parts := []string{section, set.Name}
	for _, tune := range set.Content {
		parts = append(parts, tune.Slug)
	}
	parts = append(parts, set.Tags...)
	parts = append(parts, set.Notes...)
	return strings.Join(parts, " ")
}
