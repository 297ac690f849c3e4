package abcparse

import "strings"

// ExtractTags returns the grouping tags declared by "G:" lines in abc, in the
// order first seen. Each line yields one literal tag; commas and slashes are
// part of the tag.
func ExtractTags(abc string) []string {
	var tags tagSet
	for _, line := range strings.Split(abc, "\n") {
		field, value, ok := splitHeader(strings.TrimSpace(strings.TrimRight(line, "\r")))
		if !ok || field != 'G' || value == "" {
			continue
		}
		tags.add(value)
	}
	return tags.list()
}

// tagSet is an insertion-ordered set of tags.
type tagSet struct {
	order []string
	seen  map[string]struct{}
}

func (s *tagSet) add(tag string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[tag]; ok {
		return false
	}
	s.seen[tag] = struct{}{}
	s.order = append(s.order, tag)
	return true
}

func (s *tagSet) addAll(tags []string) {
	for _, tag := range tags {
		s.add(tag)
	}
}

func (s *tagSet) list() []string {
	return append([]string{}, s.order...)
}
