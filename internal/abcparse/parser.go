package abcparse

import (
	"fmt"
	"strings"

	"tunefolder/internal/folder"
)

// DefaultPerTuneFields are the lyric fields, which never carry to the next tune.
var DefaultPerTuneFields = []string{"W", "w"}

// Options tunes the assembler.
type Options struct {
	// PerTuneFields lists the single-letter fields that apply only to the tune
	// they appear on. Nil means DefaultPerTuneFields; an empty non-nil slice
	// makes every field inheritable.
	PerTuneFields []string
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{PerTuneFields: append([]string{}, DefaultPerTuneFields...)}
}

func (o Options) validate() error {
	for _, field := range o.PerTuneFields {
		field = strings.TrimSpace(field)
		if len(field) != 1 || !isFieldLetter(field[0]) {
			return fmt.Errorf("per-tune field %q must be a single ASCII letter", field)
		}
	}
	return nil
}

// mode is where the scan stands relative to the tune structure.
type mode int

const (
	// modeBeforeAnyTune precedes the first numbering marker.
	modeBeforeAnyTune mode = iota
	// modeSetHeaders follows a numbering marker while no tune is open.
	modeSetHeaders
	// modeTuneHeaders follows a tune title, before the tune's music.
	modeTuneHeaders
	// modeTuneBody follows the first line of a tune's music.
	modeTuneBody
)

type parser struct {
	folder  folder.Folder
	headers *inheritance
	mode    mode

	// expectSetTitle is true between a numbering marker and its first title.
	expectSetTitle bool

	set  *openSet
	tune *tuneDraft

	// Notes and composer references seen after a numbering marker but before
	// its set title belong to the set that title opens.
	pendingNotes []string
	pendingRefs  composerQueue

	setSlugs map[string]int
}

// Parse assembles the folder named name from a multi-tune ABC document.
func Parse(name, text string, opts Options) (folder.Folder, error) {
	if opts.PerTuneFields == nil {
		opts = DefaultOptions()
	}
	if err := opts.validate(); err != nil {
		return folder.Folder{}, err
	}

	p := &parser{
		folder:   folder.Folder{Name: name, Content: []folder.Section{}},
		headers:  newInheritance(newFieldSet(opts.PerTuneFields)),
		mode:     modeBeforeAnyTune,
		setSlugs: make(map[string]int),
	}

	for i, raw := range strings.Split(text, "\n") {
		if err := p.scan(classify(i+1, raw)); err != nil {
			return folder.Folder{}, err
		}
	}
	if err := p.finish(); err != nil {
		return folder.Folder{}, err
	}
	return p.folder, nil
}

func (p *parser) scan(line sourceLine) error {
	switch line.kind {
	case lineBlank:
		return nil
	case lineNumbering:
		return p.startNumbering(line)
	}

	switch p.mode {
	case modeBeforeAnyTune:
		return p.scanBeforeAnyTune(line)
	case modeSetHeaders:
		return p.scanSetHeaders(line)
	case modeTuneHeaders:
		return p.scanTuneHeaders(line)
	case modeTuneBody:
		return p.scanTuneBody(line)
	default:
		return fmt.Errorf("line %d: unknown parser mode %d", line.number, p.mode)
	}
}

// startNumbering files whatever was open and starts a new set block.
func (p *parser) startNumbering(line sourceLine) error {
	p.addTune()
	if err := p.closeSet(); err != nil {
		return err
	}
	p.headers.carry('X', line.value)
	p.expectSetTitle = true
	p.mode = modeSetHeaders
	return nil
}

func (p *parser) scanBeforeAnyTune(line sourceLine) error {
	switch line.kind {
	case lineHeader, lineTitle:
		return newParseError(ErrHeaderOrder, line.number, line.raw,
			"field %c appears before the first X: marker", line.field)
	default:
		return nil
	}
}

func (p *parser) scanSetHeaders(line sourceLine) error {
	switch line.kind {
	case lineTitle:
		if p.expectSetTitle {
			p.expectSetTitle = false
			return p.startSet(line)
		}
		p.openTune(line.value)
		return nil
	case lineNote:
		if p.set != nil {
			p.set.set.Notes = append(p.set.set.Notes, line.value)
		} else {
			p.pendingNotes = append(p.pendingNotes, line.value)
		}
		return nil
	case lineComment:
		return nil
	case lineHeader:
		if ref, ok := p.composerRef(line); ok {
			p.queueComposer(ref)
			return nil
		}
		if line.field == 'P' || p.headers.isPerTune(line.field) {
			return nil
		}
		p.headers.carry(line.field, line.value)
		return nil
	case lineBody:
		if p.set == nil {
			return newParseError(ErrMissingContext, line.number, line.raw,
				"music appears before the set title")
		}
		// A set with music but no tune title is a single tune named after the set.
		p.openTune(p.set.set.Name)
		return p.scanTuneHeaders(line)
	default:
		return nil
	}
}

func (p *parser) scanTuneHeaders(line sourceLine) error {
	switch line.kind {
	case lineTitle:
		p.addTune()
		p.openTune(line.value)
		return nil
	case lineNote, lineComment:
		p.tune.leading = append(p.tune.leading, line.raw)
		return nil
	case lineHeader:
		if ref, ok := p.composerRef(line); ok {
			p.queueComposer(ref)
			return nil
		}
		if line.field == 'P' || line.field == 'T' {
			return nil
		}
		p.tune.specific.set(line.field, line.value)
		p.headers.carry(line.field, line.value)
		return nil
	case lineBody:
		p.commit(p.tune)
		p.tune.body = append(p.tune.body, bodyLine{text: line.raw})
		p.mode = modeTuneBody
		return nil
	default:
		return nil
	}
}

func (p *parser) scanTuneBody(line sourceLine) error {
	switch line.kind {
	case lineTitle:
		p.addTune()
		p.openTune(line.value)
		return nil
	case lineHeader:
		if ref, ok := p.composerRef(line); ok {
			p.queueComposer(ref)
			return nil
		}
		if line.field == 'P' {
			return nil
		}
		carried := !p.headers.isPerTune(line.field) && line.field != 'T'
		if carried {
			p.headers.carry(line.field, line.value)
		}
		p.tune.body = append(p.tune.body, bodyLine{text: line.raw, carried: carried})
		return nil
	case lineNote, lineComment, lineBody:
		p.tune.body = append(p.tune.body, bodyLine{text: line.raw})
		return nil
	default:
		return nil
	}
}

func (p *parser) openTune(title string) {
	d := newTuneDraft(title)
	p.tune = d
	if p.set != nil {
		p.set.drafts = append(p.set.drafts, d)
	}
	p.mode = modeTuneHeaders
}

func (p *parser) composerRef(line sourceLine) (composerRef, bool) {
	if line.field != 'C' {
		return composerRef{}, false
	}
	ref, ok := parseComposerRef(line.value)
	if !ok {
		return composerRef{}, false
	}
	ref.line = line.number
	ref.text = line.raw
	return ref, true
}

// queueComposer applies ref to a matching tune the set has already committed,
// or holds it until that tune is committed.
func (p *parser) queueComposer(ref composerRef) {
	if p.applyComposer(ref) {
		return
	}
	if p.set == nil {
		p.pendingRefs.push(ref)
		return
	}
	p.set.refs.push(ref)
}

func (p *parser) finish() error {
	p.addTune()
	return p.closeSet()
}
