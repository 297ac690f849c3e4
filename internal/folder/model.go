package folder

// Folder is the root of one parsed document.
type Folder struct {
	Name    string    `json:"name"`
	Content []Section `json:"content"`
}

// Section groups sets that share a title prefix such as "Jigs".
type Section struct {
	Name    string `json:"name"`
	Content []Set  `json:"content"`
}

// Set is a titled run of tunes played together.
type Set struct {
	Name         string   `json:"name,omitempty"`
	Slug         string   `json:"slug"`
	Notes        []string `json:"notes"`
	Content      []Tune   `json:"content"`
	Tags         []string `json:"tags"`
	NextSlug     string   `json:"nextSlug,omitempty"`
	PreviousSlug string   `json:"previousSlug,omitempty"`
}

// Tune is one notated piece. Filename is empty for tunes assembled from a
// multi-tune document.
type Tune struct {
	Filename string `json:"filename"`
	Slug     string `json:"slug"`
	ABC      string `json:"abc"`
}

// Sets returns every set in document order, ignoring section boundaries.
func (f Folder) Sets() []Set {
	var out []Set
	for _, section := range f.Content {
		out = append(out, section.Content...)
	}
	return out
}

// TuneCount returns the number of tunes across all sets.
func (f Folder) TuneCount() int {
	count := 0
	for _, section := range f.Content {
		for _, set := range section.Content {
			count += len(set.Content)
		}
	}
	return count
}

// FindSet returns the first set whose slug matches.
func FindSet(f Folder, slug string) (Set, bool) {
	for _, section := range f.Content {
		for _, set := range section.Content {
			if set.Slug == slug {
				return set, true
			}
		}
	}
	return Set{}, false
}

// Clone returns a deep copy of f.
func (f Folder) Clone() Folder {
	out := Folder{Name: f.Name, Content: make([]Section, len(f.Content))}
	for i, section := range f.Content {
		copied := Section{Name: section.Name, Content: make([]Set, len(section.Content))}
		for j, set := range section.Content {
			copied.Content[j] = set.clone()
		}
		out.Content[i] = copied
	}
	return out
}

func (s Set) clone() Set {
	out := s
	out.Notes = append([]string{}, s.Notes...)
	out.Tags = append([]string{}, s.Tags...)
	out.Content = append([]Tune{}, s.Content...)
	return out
}
