package abcparse

import (
	"regexp"
	"strings"

	"tunefolder/internal/slug"
)

var composerRefPattern = regexp.MustCompile(`^(.*\S)\s*\(([^()]*\S[^()]*)\)$`)

// composerRef is a composer attribution waiting for the tune it names.
type composerRef struct {
	composer   string
	title      string
	targetSlug string
	line       int
	text       string
}

// parseComposerRef splits "Name (Tune Title)". Plain composer values are not
// back-references.
func parseComposerRef(value string) (composerRef, bool) {
	m := composerRefPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return composerRef{}, false
	}
	title := strings.TrimSpace(m[2])
	return composerRef{
		composer:   strings.TrimSpace(m[1]),
		title:      title,
		targetSlug: slug.Make(title),
	}, true
}

// composerQueue holds the back-references raised inside one set.
type composerQueue struct {
	pending []composerRef
}

func (q *composerQueue) push(ref composerRef) {
	q.pending = append(q.pending, ref)
}

// take removes and returns the references targeting tuneSlug, oldest first.
func (q *composerQueue) take(tuneSlug string) []composerRef {
	var matched []composerRef
	kept := q.pending[:0]
	for _, ref := range q.pending {
		if ref.targetSlug == tuneSlug {
			matched = append(matched, ref)
			continue
		}
		kept = append(kept, ref)
	}
	q.pending = kept
	return matched
}

// unresolved returns the first outstanding reference and clears the queue.
func (q *composerQueue) unresolved() (composerRef, bool) {
	if len(q.pending) == 0 {
		return composerRef{}, false
	}
	first := q.pending[0]
	q.pending = nil
	return first, true
}
