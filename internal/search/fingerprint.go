package search

import (
	"math"
	"regexp"
	"strings"

	"tunefolder/internal/slug"
)

var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// fingerprint is a weighted term vector.
type fingerprint struct {
	terms map[string]float64
	norm  float64
}

// tokenize folds, lowercases, and splits text, dropping tokens shorter than
// three characters.
func tokenize(text string) []string {
	folded := strings.ToLower(slug.Make(strings.ReplaceAll(text, "-", " ")))
	raw := tokenSplitPattern.Split(folded, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len(token) < 3 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

func newFingerprint(text string) *fingerprint {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return normalized(counts)
}

func normalized(terms map[string]float64) *fingerprint {
	var sum float64
	for _, w := range terms {
		sum += w * w
	}
	if sum == 0 {
		return nil
	}
	return &fingerprint{terms: terms, norm: math.Sqrt(sum)}
}

// weighted returns a copy with each term scaled by its idf weight. Terms
// missing from idf keep their weight.
func (f *fingerprint) weighted(idf map[string]float64) *fingerprint {
	if f == nil || len(idf) == 0 {
		return f
	}
	terms := make(map[string]float64, len(f.terms))
	for term, count := range f.terms {
		w := count
		if v, ok := idf[term]; ok {
			w *= v
		}
		if w != 0 {
			terms[term] = w
		}
	}
	return normalized(terms)
}

func cosine(a, b *fingerprint) float64 {
	if a == nil || b == nil {
		return 0
	}
	var dot float64
	for term, w := range a.terms {
		if other, ok := b.terms[term]; ok {
			dot += w * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// inverseFrequencies computes log((N+1)/(1+df)) per term, plus one so terms
// present in every document still count.
func inverseFrequencies(docs []*fingerprint) map[string]float64 {
	df := make(map[string]int)
	n := 0
	for _, d := range docs {
		if d == nil {
			continue
		}
		n++
		for term := range d.terms {
			df[term]++
		}
	}
	if n == 0 {
		return nil
	}
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = 1 + math.Log(float64(n+1)/float64(1+count))
	}
	return idf
}
