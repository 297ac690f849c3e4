package outline

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strings"

	"tunefolder/internal/abcparse"
	"tunefolder/internal/folder"
	"tunefolder/internal/slug"
)

// ErrMissingContext marks a directive that appears before its parent section or set.
var ErrMissingContext = errors.New("missing outline context")

var (
	sectionPattern    = regexp.MustCompile(`\\section\{(.*)\}`)
	subsectionPattern = regexp.MustCompile(`\\subsection\{(.*)\}`)
	abcInputPattern   = regexp.MustCompile(`\\abcinput\{(.*)\}`)
)

type lastSeen int

const (
	seenNothing lastSeen = iota
	seenSection
	seenSet
	seenTune
)

// Parse reads the outline at name in fsys and returns the folder it
// describes. Tune files are resolved relative to the outline's directory.
func Parse(fsys fs.FS, folderName, name string) (folder.Folder, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return folder.Folder{}, fmt.Errorf("read outline: %w", err)
	}

	root := path.Dir(name)
	out := folder.Folder{Name: folderName, Content: []folder.Section{}}
	section, set := -1, -1
	last := seenNothing
	setSlugs := map[string]int{}

	for i, raw := range strings.Split(string(data), "\n") {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")

		if m := sectionPattern.FindStringSubmatch(line); m != nil {
			out.Content = append(out.Content, folder.Section{Name: replaceTexEscapes(m[1]), Content: []folder.Set{}})
			section, set = len(out.Content)-1, -1
			last = seenSection
		}
		if m := subsectionPattern.FindStringSubmatch(line); m != nil {
			if section < 0 {
				return folder.Folder{}, missingContext(lineNo, line, "section")
			}
			setSlug := slug.FromPath(m[1])
			if first, dup := setSlugs[setSlug]; dup {
				return folder.Folder{}, fmt.Errorf("line %d: %w: %q already used by the set on line %d",
					lineNo, abcparse.ErrDuplicateSlug, setSlug, first)
			}
			setSlugs[setSlug] = lineNo
			sets := &out.Content[section].Content
			*sets = append(*sets, folder.Set{
				Name:    replaceTexEscapes(m[1]),
				Slug:    setSlug,
				Notes:   []string{},
				Content: []folder.Tune{},
				Tags:    []string{},
			})
			set = len(*sets) - 1
			last = seenSet
		}
		if m := abcInputPattern.FindStringSubmatch(line); m != nil {
			if section < 0 || set < 0 {
				return folder.Folder{}, missingContext(lineNo, line, "set")
			}
			filename := m[1]
			abc, err := fs.ReadFile(fsys, path.Join(root, filename+".abc"))
			if err != nil {
				return folder.Folder{}, fmt.Errorf("line %d: read tune %q: %w", lineNo, filename, err)
			}
			current := &out.Content[section].Content[set]
			current.Content = append(current.Content, folder.Tune{
				Filename: filename,
				Slug:     slug.FromPath(filename),
				ABC:      string(abc),
			})
			last = seenTune
		}

		if last == seenSet {
			if note, ok := noteText(line); ok {
				current := &out.Content[section].Content[set]
				current.Notes = append(current.Notes, note)
			}
		}
	}

	for i := range out.Content {
		for j := range out.Content[i].Content {
			current := &out.Content[i].Content[j]
			for _, tune := range current.Content {
				current.Tags = appendMissing(current.Tags, abcparse.ExtractTags(tune.ABC))
			}
		}
	}

	return out, nil
}

// noteText returns the prose carried by an outline line. Directives, LaTeX
// comments, and blank lines carry none.
func noteText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, `\`) || strings.HasPrefix(trimmed, "%") {
		return "", false
	}
	return strings.TrimSpace(strings.Replace(trimmed, `\\`, "", 1)), true
}

func appendMissing(dst, tags []string) []string {
	for _, tag := range tags {
		if !slices.Contains(dst, tag) {
			dst = append(dst, tag)
		}
	}
	return dst
}

func replaceTexEscapes(input string) string {
	return strings.ReplaceAll(input, "---", "—")
}

func missingContext(line int, text, parent string) error {
	return fmt.Errorf("line %d: %w: %q needs a %s before it; is the LaTeX in a sensible order?",
		line, ErrMissingContext, strings.TrimSpace(text), parent)
}
