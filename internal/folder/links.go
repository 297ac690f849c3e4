package folder

// LinkSets returns a copy of f where every set carries the slugs of its
// neighbours in the flattened set sequence. The sequence wraps, so the last
// set links forward to the first and a lone set links to itself. Links already
// present on f are overwritten.
func LinkSets(f Folder) Folder {
	out := f.Clone()

	total := 0
	for _, section := range out.Content {
		total += len(section.Content)
	}
	if total == 0 {
		return out
	}

	slugs := make([]string, 0, total)
	for _, section := range out.Content {
		for _, set := range section.Content {
			slugs = append(slugs, set.Slug)
		}
	}

	index := 0
	for i := range out.Content {
		sets := out.Content[i].Content
		for j := range sets {
			sets[j].NextSlug = slugs[(index+1)%total]
			sets[j].PreviousSlug = slugs[(index-1+total)%total]
			index++
		}
	}
	return out
}
