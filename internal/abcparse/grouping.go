package abcparse

import (
	"regexp"

	"tunefolder/internal/folder"
	"tunefolder/internal/slug"
)

var (
	numberedSectionPattern = regexp.MustCompile(`^(.+) [1-9][0-9a-d]? +- `)
	plainSectionPattern    = regexp.MustCompile(`^(.+) +- `)
)

// inferSection derives the section name from a set title such as
// "Jigs 1 - Severn Stars" or "Waltzes - Slow ones".
func inferSection(title string) (string, bool) {
	if m := numberedSectionPattern.FindStringSubmatch(title); m != nil {
		return m[1], true
	}
	if m := plainSectionPattern.FindStringSubmatch(title); m != nil {
		return m[1], true
	}
	return "", false
}

// openSet is the set currently receiving tunes.
type openSet struct {
	set     folder.Set
	section int
	drafts  []*tuneDraft
	tags    tagSet
	refs    composerQueue
}

// startSet opens a new set under the section inferred from its title. The
// numbering marker before the title has already closed the previous set.
func (p *parser) startSet(line sourceLine) error {
	title := line.value
	sectionName, ok := inferSection(title)
	if !ok {
		return newParseError(ErrSectionInference, line.number, line.raw,
			"set title %q does not match \"<Section> <n> - ...\" or \"<Section> - ...\"", title)
	}

	section, err := p.resolveSection(sectionName, line)
	if err != nil {
		return err
	}

	setSlug := slug.Make(title)
	if first, dup := p.setSlugs[setSlug]; dup {
		return newParseError(ErrDuplicateSlug, line.number, line.raw,
			"slug %q already used by the set on line %d", setSlug, first)
	}
	p.setSlugs[setSlug] = line.number

	p.set = &openSet{
		set: folder.Set{
			Name:    title,
			Slug:    setSlug,
			Notes:   append([]string{}, p.pendingNotes...),
			Content: []folder.Tune{},
			Tags:    []string{},
		},
		section: section,
		refs:    p.pendingRefs,
	}
	p.pendingNotes = nil
	p.pendingRefs = composerQueue{}
	return nil
}

// resolveSection returns the index of the section named name, creating it when
// it is new. A name that was used before a different section is rejected.
func (p *parser) resolveSection(name string, line sourceLine) (int, error) {
	sections := p.folder.Content
	if n := len(sections); n > 0 && sections[n-1].Name == name {
		return n - 1, nil
	}
	for _, section := range sections {
		if section.Name == name {
			return 0, newParseError(ErrNonContiguousSection, line.number, line.raw,
				"section %q reappears after section %q", name, sections[len(sections)-1].Name)
		}
	}
	p.folder.Content = append(p.folder.Content, folder.Section{Name: name, Content: []folder.Set{}})
	return len(p.folder.Content) - 1, nil
}

// closeSet checks the composer references raised in the open set and files
// the set under its section.
func (p *parser) closeSet() error {
	if p.set == nil {
		if ref, ok := p.pendingRefs.unresolved(); ok {
			return unresolvedError(ref)
		}
		return nil
	}
	open := p.set
	p.set = nil
	if ref, ok := open.refs.unresolved(); ok {
		return unresolvedError(ref)
	}
	open.set.Tags = open.tags.list()
	section := &p.folder.Content[open.section]
	section.Content = append(section.Content, open.set)
	return nil
}

func unresolvedError(ref composerRef) error {
	return newParseError(ErrUnresolvedComposer, ref.line, ref.text,
		"composer %q names tune %q, which is not in the set", ref.composer, ref.title)
}
