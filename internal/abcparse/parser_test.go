package abcparse

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"tunefolder/internal/folder"
)

func mustParse(t *testing.T, text string) folder.Folder {
	t.Helper()
	f, err := Parse("Test", text, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return f
}

func tuneABC(t *testing.T, f folder.Folder, tuneSlug string) string {
	t.Helper()
	for _, set := range f.Sets() {
		for _, tune := range set.Content {
			if tune.Slug == tuneSlug {
				return tune.ABC
			}
		}
	}
	t.Fatalf("tune %q not found", tuneSlug)
	return ""
}

func hasLine(abc, line string) bool {
	for _, l := range strings.Split(abc, "\n") {
		if l == line {
			return true
		}
	}
	return false
}

func TestParseSingleSet(t *testing.T) {
	f := mustParse(t, "X:1\nT:Jigs 1 - Som jigs\nG:Show set\nP:A\nT:A tune\n% ...\nabcdef\nX:2")

	if f.Name != "Test" {
		t.Fatalf("unexpected folder name %q", f.Name)
	}
	if len(f.Content) != 1 || f.Content[0].Name != "Jigs" {
		t.Fatalf("expected one Jigs section, got %+v", f.Content)
	}
	sets := f.Content[0].Content
	if len(sets) != 1 {
		t.Fatalf("expected one set, got %d", len(sets))
	}
	set := sets[0]
	if set.Name != "Jigs 1 - Som jigs" || set.Slug != "Jigs-1-Som-jigs" {
		t.Fatalf("unexpected set identity: name=%q slug=%q", set.Name, set.Slug)
	}
	if !reflect.DeepEqual(set.Tags, []string{"Show set"}) {
		t.Fatalf("unexpected tags: %v", set.Tags)
	}
	if len(set.Content) != 1 {
		t.Fatalf("expected one tune, got %d", len(set.Content))
	}
	tune := set.Content[0]
	if tune.Slug != "A-tune" || tune.Filename != "" {
		t.Fatalf("unexpected tune identity: %+v", tune)
	}
	if !strings.HasPrefix(tune.ABC, "X:1") {
		t.Fatalf("abc should start with X:1, got %q", tune.ABC)
	}
	if !hasLine(tune.ABC, "T:A tune") {
		t.Fatalf("abc should include the tune title, got %q", tune.ABC)
	}
	if want := "X:1\nT:A tune\nG:Show set\n% ...\nabcdef"; tune.ABC != want {
		t.Fatalf("unexpected abc:\n%s\nwant:\n%s", tune.ABC, want)
	}
	if hasLine(tune.ABC, "P:A") {
		t.Fatalf("part markers must be dropped, got %q", tune.ABC)
	}
}

func TestParseHeaderOrdering(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:3",
		"T:Reels 2 - Fast",
		"R:reel",
		"K:D",
		"T:First",
		"Q:1/4=120",
		"M:4/4",
		"L:1/8",
		"C:Trad",
		"|:abc:|",
	}, "\n"))

	want := "X:3\nT:First\nC:Trad\nM:4/4\nL:1/8\nK:D\nR:reel\nQ:1/4=120\n|:abc:|"
	if got := tuneABC(t, f, "First"); got != want {
		t.Fatalf("unexpected abc:\n%s\nwant:\n%s", got, want)
	}
}

func TestParseInheritsHeadersAcrossTunes(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1",
		"T:Jigs 1 - Pair",
		"T:First",
		"M:6/8",
		"K:G",
		"abc",
		"T:Second",
		"def",
	}, "\n"))

	second := tuneABC(t, f, "Second")
	if !hasLine(second, "K:G") || !hasLine(second, "M:6/8") {
		t.Fatalf("second tune should inherit K and M, got %q", second)
	}
	if hasLine(second, "T:First") {
		t.Fatalf("titles must not be inherited, got %q", second)
	}
}

func TestParseInheritanceSurvivesNumberingMarkers(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1",
		"T:Jigs 1 - One",
		"K:A",
		"T:Alpha",
		"abc",
		"X:2",
		"T:Jigs 2 - Two",
		"T:Beta",
		"def",
	}, "\n"))

	beta := tuneABC(t, f, "Beta")
	if !strings.HasPrefix(beta, "X:2\nT:Beta") {
		t.Fatalf("expected new numbering to win, got %q", beta)
	}
	if !hasLine(beta, "K:A") {
		t.Fatalf("expected K:A to carry into the next set, got %q", beta)
	}
}

func TestParseNumberingKeepsOnlyDigits(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X: 7 % second half of the night",
		"T:Jigs 1 - One",
		"T:Alpha",
		"abc",
		"T:Beta",
		"def",
	}, "\n"))

	for _, name := range []string{"Alpha", "Beta"} {
		abc := tuneABC(t, f, name)
		if !strings.HasPrefix(abc, "X:7\nT:"+name) {
			t.Fatalf("expected bare X:7 header for %s, got %q", name, abc)
		}
	}
}

func TestParseTuneHeaderOverridesInherited(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1",
		"T:Polkas 1 - Two keys",
		"K:G",
		"T:First",
		"abc",
		"T:Second",
		"K:D",
		"def",
		"T:Third",
		"ghi",
	}, "\n"))

	if first := tuneABC(t, f, "First"); !hasLine(first, "K:G") {
		t.Fatalf("first tune should keep K:G, got %q", first)
	}
	second := tuneABC(t, f, "Second")
	if !hasLine(second, "K:D") || hasLine(second, "K:G") {
		t.Fatalf("second tune should use only K:D, got %q", second)
	}
	if third := tuneABC(t, f, "Third"); !hasLine(third, "K:D") {
		t.Fatalf("third tune should inherit K:D, got %q", third)
	}
}

func TestParsePerTuneFieldsDoNotCarry(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1",
		"T:Songs 1 - Shanties",
		"W:dropped before any tune",
		"T:First",
		"W:first verse",
		"K:G",
		"abc",
		"w:la la la",
		"T:Second",
		"def",
	}, "\n"))

	first := tuneABC(t, f, "First")
	if !hasLine(first, "W:first verse") || !hasLine(first, "w:la la la") {
		t.Fatalf("first tune should keep its own lyrics, got %q", first)
	}
	if strings.Contains(first, "dropped before any tune") {
		t.Fatalf("per-tune field outside a tune must be dropped, got %q", first)
	}
	second := tuneABC(t, f, "Second")
	if strings.Contains(second, "W:") || strings.Contains(second, "w:") {
		t.Fatalf("second tune must not inherit lyrics, got %q", second)
	}
	if !hasLine(second, "K:G") {
		t.Fatalf("second tune should still inherit K:G, got %q", second)
	}
}

func TestParseCustomPerTuneFields(t *testing.T) {
	f, err := Parse("Test", strings.Join([]string{
		"X:1",
		"T:Jigs 1 - Custom",
		"T:First",
		"N:only here",
		"W:carried",
		"abc",
		"T:Second",
		"def",
	}, "\n"), Options{PerTuneFields: []string{"N"}})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	second := tuneABC(t, f, "Second")
	if hasLine(second, "N:only here") {
		t.Fatalf("N should be per-tune, got %q", second)
	}
	if !hasLine(second, "W:carried") {
		t.Fatalf("W should inherit when not configured per-tune, got %q", second)
	}
}

func TestParseRejectsInvalidPerTuneField(t *testing.T) {
	_, err := Parse("Test", "X:1", Options{PerTuneFields: []string{"WW"}})
	if err == nil {
		t.Fatal("expected error for multi-letter field")
	}
}

func TestParseMidBodyHeadersCarryForwardAndAreTrimmed(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1",
		"T:Jigs 1 - Changes",
		"T:First",
		"K:G",
		"abc",
		"K:Em",
		"def",
		"W:words stay",
		"M:9/8",
		"K:A",
		"T:Second",
		"ghi",
	}, "\n"))

	first := tuneABC(t, f, "First")
	if want := "X:1\nT:First\nK:G\nabc\nK:Em\ndef\nW:words stay"; first != want {
		t.Fatalf("unexpected first abc:\n%s\nwant:\n%s", first, want)
	}
	second := tuneABC(t, f, "Second")
	if want := "X:1\nT:Second\nM:9/8\nK:A\nghi"; second != want {
		t.Fatalf("unexpected second abc:\n%s\nwant:\n%s", second, want)
	}
}

func TestParsePerTuneTailIsNotTrimmed(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1",
		"T:Songs 1 - Verses",
		"T:Only",
		"K:C",
		"cde",
		"W:last verse",
	}, "\n"))

	if got := tuneABC(t, f, "Only"); !strings.HasSuffix(got, "W:last verse") {
		t.Fatalf("lyrics at the end of a tune must survive, got %q", got)
	}
}

func TestParseComposerBackReference(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1",
		"T:Jigs 1 - Pair",
		"C:Someone Else",
		"T:First Tune",
		"C:Traditional (Second Tune)",
		"abc",
		"T:Second Tune",
		"def",
	}, "\n"))

	first := tuneABC(t, f, "First-Tune")
	if strings.Contains(first, "C:Traditional") {
		t.Fatalf("back-reference must not attach to the trailing tune, got %q", first)
	}
	if !hasLine(first, "C:Someone Else") {
		t.Fatalf("first tune should keep the inherited composer, got %q", first)
	}
	second := tuneABC(t, f, "Second-Tune")
	if !hasLine(second, "C:Traditional") {
		t.Fatalf("second tune should carry the referenced composer, got %q", second)
	}
	if hasLine(second, "C:Someone Else") {
		t.Fatalf("referenced composer should replace the inherited one, got %q", second)
	}
}

func TestParseComposerBackReferencesResolveIndependently(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1",
		"T:Reels 3 - Trio",
		"C:Ann (Two)",
		"C:Bob (Three)",
		"T:One",
		"abc",
		"T:Two",
		"def",
		"T:Three",
		"ghi",
	}, "\n"))

	if one := tuneABC(t, f, "One"); strings.Contains(one, "C:") {
		t.Fatalf("tune one should have no composer, got %q", one)
	}
	if two := tuneABC(t, f, "Two"); !hasLine(two, "C:Ann") {
		t.Fatalf("tune two should credit Ann, got %q", two)
	}
	if three := tuneABC(t, f, "Three"); !hasLine(three, "C:Bob") {
		t.Fatalf("tune three should credit Bob, got %q", three)
	}
}

func TestParseComposerBackReferenceToEarlierTune(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1",
		"T:Jigs 1 - Pair",
		"T:First",
		"abc",
		"T:Second",
		"C:Late Credit (First)",
		"def",
	}, "\n"))

	if first := tuneABC(t, f, "First"); !hasLine(first, "C:Late Credit") {
		t.Fatalf("earlier tune should be credited retroactively, got %q", first)
	}
	if second := tuneABC(t, f, "Second"); strings.Contains(second, "Late Credit") {
		t.Fatalf("trailing tune must not be credited, got %q", second)
	}
}

func TestParseUnresolvedComposer(t *testing.T) {
	_, err := Parse("Test", "X:1\nT:Jigs 1 - Som jigs\nC:Traditional (Nonexistent Tune)\nT:A tune\n...abcdef", DefaultOptions())
	if !errors.Is(err, ErrUnresolvedComposer) {
		t.Fatalf("expected unresolved composer error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Nonexistent Tune") {
		t.Fatalf("error should name the missing tune: %v", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Line != 3 {
		t.Fatalf("expected error on line 3, got %#v", err)
	}
}

func TestParseUnresolvedComposerAtSetBoundary(t *testing.T) {
	_, err := Parse("Test", strings.Join([]string{
		"X:1",
		"T:Jigs 1 - First set",
		"T:Alpha",
		"C:Someone (Beta)",
		"abc",
		"X:2",
		"T:Jigs 2 - Second set",
		"T:Beta",
		"def",
	}, "\n"), DefaultOptions())
	if !errors.Is(err, ErrUnresolvedComposer) {
		t.Fatalf("references must resolve within their own set, got %v", err)
	}
}

func TestParseTags(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1",
		"T:Jigs 1 - Tagged",
		"T:First",
		"G:English",
		"abc",
		"T:Second",
		"G:Core/Session, late",
		"def",
		"T:Third",
		"G:English",
		"ghi",
	}, "\n"))

	want := []string{"English", "Core/Session, late"}
	if got := f.Sets()[0].Tags; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tags: got %v want %v", got, want)
	}
}

func TestParseNoTags(t *testing.T) {
	f := mustParse(t, "X:1\nT:Jigs 1 - Plain\nT:Only\nabc")
	tags := f.Sets()[0].Tags
	if tags == nil || len(tags) != 0 {
		t.Fatalf("expected empty tag list, got %#v", tags)
	}
}

func TestParseSectionsAreReusedWhenContiguous(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1", "T:Jigs 1 - One", "T:A", "abc",
		"X:2", "T:Jigs 2 - Two", "T:B", "abc",
		"X:3", "T:Reels - Three", "T:C", "abc",
	}, "\n"))

	if len(f.Content) != 2 {
		t.Fatalf("expected two sections, got %d", len(f.Content))
	}
	if f.Content[0].Name != "Jigs" || len(f.Content[0].Content) != 2 {
		t.Fatalf("unexpected first section: %+v", f.Content[0])
	}
	if f.Content[1].Name != "Reels" || len(f.Content[1].Content) != 1 {
		t.Fatalf("unexpected second section: %+v", f.Content[1])
	}
}

func TestParseNonContiguousSection(t *testing.T) {
	_, err := Parse("Test", strings.Join([]string{
		"X:1", "T:Jigs 1 - One", "T:A", "abc",
		"X:2", "T:Reels 1 - Two", "T:B", "abc",
		"X:3", "T:Jigs 2 - Three", "T:C", "abc",
	}, "\n"), DefaultOptions())
	if !errors.Is(err, ErrNonContiguousSection) {
		t.Fatalf("expected non-contiguous error, got %v", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Line != 10 {
		t.Fatalf("expected error on line 10, got %v", err)
	}
}

func TestParseSectionInferenceFailure(t *testing.T) {
	_, err := Parse("Test", "X:1\nT:Untitled tunes\nT:A\nabc", DefaultOptions())
	if !errors.Is(err, ErrSectionInference) {
		t.Fatalf("expected section inference error, got %v", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Fatalf("expected error on line 2, got %v", err)
	}
}

func TestInferSection(t *testing.T) {
	tests := []struct {
		title string
		want  string
		ok    bool
	}{
		{"Jigs 1 - Severn Stars", "Jigs", true},
		{"Slip Jigs 12 - Lots", "Slip Jigs", true},
		{"Reels 3b - Fast ones", "Reels", true},
		{"Waltzes - Slow ones", "Waltzes", true},
		{"Polkas 0 - Zero", "Polkas 0", true},
		{"No dash here", "", false},
	}
	for _, tt := range tests {
		got, ok := inferSection(tt.title)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("inferSection(%q) = %q, %v; want %q, %v", tt.title, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseHeaderBeforeAnyTune(t *testing.T) {
	_, err := Parse("Test", "% preamble\nK:G\nX:1\nT:Jigs 1 - A\nT:B\nabc", DefaultOptions())
	if !errors.Is(err, ErrHeaderOrder) {
		t.Fatalf("expected header order error, got %v", err)
	}
}

func TestParseMusicBeforeSetTitle(t *testing.T) {
	_, err := Parse("Test", "X:1\nK:G\nabc", DefaultOptions())
	if !errors.Is(err, ErrMissingContext) {
		t.Fatalf("expected missing context error, got %v", err)
	}
}

func TestParseDuplicateSetSlug(t *testing.T) {
	_, err := Parse("Test", strings.Join([]string{
		"X:1", "T:Jigs 1 - Same", "T:A", "abc",
		"X:2", "T:Jigs 1 - Same!", "T:B", "abc",
	}, "\n"), DefaultOptions())
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("expected duplicate slug error, got %v", err)
	}
}

func TestParseSetWithoutTuneTitle(t *testing.T) {
	f := mustParse(t, "X:1\nT:Marches 1 - Solo march\nM:2/4\nK:G\nGABc|")

	set := f.Sets()[0]
	if len(set.Content) != 1 {
		t.Fatalf("expected implicit tune, got %d tunes", len(set.Content))
	}
	tune := set.Content[0]
	if tune.Slug != set.Slug {
		t.Fatalf("implicit tune should share the set slug: %q vs %q", tune.Slug, set.Slug)
	}
	if want := "X:1\nT:Marches 1 - Solo march\nM:2/4\nK:G\nGABc|"; tune.ABC != want {
		t.Fatalf("unexpected abc:\n%s\nwant:\n%s", tune.ABC, want)
	}
}

func TestParseHeaderOnlyTuneIsCommitted(t *testing.T) {
	f := mustParse(t, "X:1\nT:Jigs 1 - Stub\nT:Placeholder\nK:G\nT:Real\nabc")

	set := f.Sets()[0]
	if len(set.Content) != 2 {
		t.Fatalf("expected two tunes, got %d", len(set.Content))
	}
	if got := set.Content[0].ABC; got != "X:1\nT:Placeholder\nK:G" {
		t.Fatalf("unexpected placeholder abc: %q", got)
	}
}

func TestParseSetNotes(t *testing.T) {
	f := mustParse(t, strings.Join([]string{
		"X:1",
		"%%text  Play twice through ",
		"T:Jigs 1 - Noted",
		"%%text Yes, we like our punny set names",
		"T:First",
		"%%text inside a tune",
		"abc",
	}, "\n"))

	set := f.Sets()[0]
	want := []string{"Play twice through", "Yes, we like our punny set names"}
	if !reflect.DeepEqual(set.Notes, want) {
		t.Fatalf("unexpected notes: %v", set.Notes)
	}
	if !strings.Contains(set.Content[0].ABC, "%%text inside a tune") {
		t.Fatalf("notes inside a tune stay in its abc, got %q", set.Content[0].ABC)
	}
}

func TestParseBarLineStartingWithNoteIsMusic(t *testing.T) {
	f := mustParse(t, "X:1\nT:Reels 1 - Bars\nT:Only\nK:G\nG:|abc:|\nA::B")

	abc := tuneABC(t, f, "Only")
	if !strings.HasSuffix(abc, "G:|abc:|\nA::B") {
		t.Fatalf("bar lines should stay in the body, got %q", abc)
	}
	if tags := f.Sets()[0].Tags; len(tags) != 0 {
		t.Fatalf("bar line must not produce tags, got %v", tags)
	}
}

func TestParseHandlesCRLF(t *testing.T) {
	f := mustParse(t, "X:1\r\nT:Jigs 1 - Windows\r\nT:Only\r\nK:G\r\nabc\r\n")
	if got := tuneABC(t, f, "Only"); got != "X:1\nT:Only\nK:G\nabc" {
		t.Fatalf("unexpected abc: %q", got)
	}
}

func TestParseEmptyInput(t *testing.T) {
	f := mustParse(t, "")
	if f.Content == nil || len(f.Content) != 0 {
		t.Fatalf("expected empty, non-nil content, got %#v", f.Content)
	}
}

func TestParseIsIndependentPerCall(t *testing.T) {
	text := "X:1\nT:Jigs 1 - Again\nK:G\nT:Only\nabc"
	first := mustParse(t, text)
	second := mustParse(t, text)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical folders from identical input")
	}
}
