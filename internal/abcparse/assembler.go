package abcparse

import (
	"strings"

	"tunefolder/internal/folder"
	"tunefolder/internal/slug"
)

// bodyLine is a line of a tune's body. carried marks header lines that also
// fed the inherited headers; they are candidates for trailing cleanup.
type bodyLine struct {
	text    string
	carried bool
}

// tuneDraft is a tune between its title line and the point where it is filed.
type tuneDraft struct {
	title string
	slug  string

	// specific holds headers given on this tune before its body began.
	specific *headerMap
	// headers is the frozen header block, set when the body begins.
	headers *headerMap
	// leading holds comment lines seen before the body began.
	leading []string
	body    []bodyLine

	// index is the position in the set's tune list once filed, or -1.
	index int
}

func newTuneDraft(title string) *tuneDraft {
	specific := newHeaderMap()
	specific.set('T', title)
	return &tuneDraft{
		title:    title,
		slug:     slug.Make(title),
		specific: specific,
		index:    -1,
	}
}

func (d *tuneDraft) committed() bool {
	return d.headers != nil
}

// commit freezes the header block from the inherited headers and the tune's
// own headers. Pending composer references naming this tune take precedence
// over both.
func (p *parser) commit(d *tuneDraft) {
	if d.committed() {
		return
	}
	d.headers = merge(p.headers.snapshot(), d.specific)
	if p.set == nil {
		return
	}
	for _, ref := range p.set.refs.take(d.slug) {
		d.headers.set('C', ref.composer)
	}
}

// trimCarriedTail drops header lines at the end of the body that were only
// there to carry into the next tune.
func (d *tuneDraft) trimCarriedTail() {
	end := len(d.body)
	for end > 0 && d.body[end-1].carried {
		end--
	}
	d.body = d.body[:end]
}

func (d *tuneDraft) render() string {
	lines := d.headers.lines()
	lines = append(lines, d.leading...)
	for _, line := range d.body {
		lines = append(lines, line.text)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// addTune files the open tune in the open set and folds its tags into the
// set's tags.
func (p *parser) addTune() {
	d := p.tune
	if d == nil {
		return
	}
	p.tune = nil
	if p.set == nil {
		return
	}
	p.commit(d)
	d.trimCarriedTail()

	abc := d.render()
	d.index = len(p.set.set.Content)
	p.set.set.Content = append(p.set.set.Content, folder.Tune{
		Filename: "",
		Slug:     d.slug,
		ABC:      abc,
	})
	p.set.tags.addAll(ExtractTags(abc))
}

// applyComposer attributes ref to an already committed tune of the open set,
// re-rendering it if it has been filed. It reports whether a tune matched.
func (p *parser) applyComposer(ref composerRef) bool {
	if p.set == nil {
		return false
	}
	matched := false
	for _, d := range p.set.drafts {
		if d.slug != ref.targetSlug || !d.committed() {
			continue
		}
		d.headers.set('C', ref.composer)
		if d.index >= 0 {
			p.set.set.Content[d.index].ABC = d.render()
		}
		matched = true
	}
	return matched
}
