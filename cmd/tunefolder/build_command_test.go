package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tunefolder/internal/folder"
	"tunefolder/internal/testsupport"
)

func TestBuildListShowFlow(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFolder("Trip Hazard", "trip.abc", sampleCollection))

	out, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "Trip Hazard")
	requireContains(t, out, "[BUILT] 2 sections, 2 sets, 3 tunes")

	out, _, err = runCLI(t, []string{"build"}, env.configPath)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	requireContains(t, out, "[UNCHANGED] 2 sections, 2 sets, 3 tunes")

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Trip Hazard")

	out, _, err = runCLI(t, []string{"list", "Trip Hazard"}, env.configPath)
	if err != nil {
		t.Fatalf("list folder: %v", err)
	}
	requireContains(t, out, "Jigs-1-Severn-Stars")
	requireContains(t, out, "Sessions")

	out, _, err = runCLI(t, []string{"show", "Jigs-1-Severn-Stars", "--abc"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Next:     Reels-1-Morning-Dew")
	requireContains(t, out, "Note:     Play twice through")
	requireContains(t, out, "C:Trad")
}

func TestShowJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFolder("Trip Hazard", "trip.abc", sampleCollection))
	if _, _, err := runCLI(t, []string{"build"}, env.configPath); err != nil {
		t.Fatalf("build: %v", err)
	}

	out, _, err := runCLI(t, []string{"show", "Reels-1-Morning-Dew", "--json", "--folder", "Trip Hazard"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var set folder.Set
	if err := json.Unmarshal([]byte(out), &set); err != nil {
		t.Fatalf("decode set: %v", err)
	}
	if set.PreviousSlug != "Jigs-1-Severn-Stars" || set.NextSlug != "Jigs-1-Severn-Stars" {
		t.Fatalf("unexpected links: %#v", set)
	}
	if len(set.Content) != 1 || set.Content[0].Slug != "Morning-Dew" {
		t.Fatalf("unexpected tunes: %#v", set.Content)
	}
}

func TestShowUnknownSlug(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFolder("Trip Hazard", "trip.abc", sampleCollection))
	if _, _, err := runCLI(t, []string{"build"}, env.configPath); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, _, err := runCLI(t, []string{"show", "nope"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown slug")
	}
}

func TestBuildExplicitSourceJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(testsupport.BaseDir(env.cfg), "loose", "Session Tunes.abc")
	testsupport.WriteFile(t, source, sampleCollection)

	out, _, err := runCLI(t, []string{"build", "--json", source}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var results []buildOutput
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Folder != "Session Tunes" || r.Format != "abc" || r.Sets != 2 || r.Tunes != 3 || r.Unchanged {
		t.Fatalf("unexpected result: %#v", r)
	}
}

func TestBuildWithoutFoldersFails(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no folders configured") {
		t.Fatalf("expected no folders error, got %v", err)
	}
}

func TestBuildRejectsUnknownFormat(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFolder("Trip Hazard", "trip.abc", sampleCollection))
	if _, _, err := runCLI(t, []string{"build", "--name", "Trip Hazard", "--format", "midi"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestBuildParseErrorSurfacesLine(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFolder("Broken", "broken.abc", "X:1\nT:No section here\nT:Tune\nabc\n"))
	_, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err == nil {
		t.Fatal("expected parse error")
	}
	requireContains(t, err.Error(), "line 2")
}

func TestHistoryAndPrune(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFolder("Trip Hazard", "trip.abc", sampleCollection))
	for range 3 {
		if _, _, err := runCLI(t, []string{"build", "--force"}, env.configPath); err != nil {
			t.Fatalf("build: %v", err)
		}
	}

	out, _, err := runCLI(t, []string{"history", "Trip Hazard", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var builds []map[string]any
	if err := json.Unmarshal([]byte(out), &builds); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(builds) != 3 {
		t.Fatalf("expected 3 builds, got %d", len(builds))
	}

	out, _, err = runCLI(t, []string{"prune", "Trip Hazard", "--keep", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	requireContains(t, out, "Removed 2 build(s)")

	if _, _, err := runCLI(t, []string{"history", "Unknown"}, env.configPath); err == nil {
		t.Fatal("expected error for folder without builds")
	}
}

func TestSearchCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFolder("Trip Hazard", "trip.abc", sampleCollection))
	if _, _, err := runCLI(t, []string{"build"}, env.configPath); err != nil {
		t.Fatalf("build: %v", err)
	}

	out, _, err := runCLI(t, []string{"search", "morning", "dew"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "Reels-1-Morning-Dew")

	out, _, err = runCLI(t, []string{"search", "zzzzz"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "No sets match")
}

func TestExportCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFolder("Trip Hazard", "trip.abc", sampleCollection))
	if _, _, err := runCLI(t, []string{"build"}, env.configPath); err != nil {
		t.Fatalf("build: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "site")
	out, _, err := runCLI(t, []string{"export", dir, "--sets"}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "(3 files)")

	data, err := os.ReadFile(filepath.Join(dir, "folder.json"))
	if err != nil {
		t.Fatalf("read folder.json: %v", err)
	}
	var f folder.Folder
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode folder.json: %v", err)
	}
	if f.Name != "Trip Hazard" || len(f.Sets()) != 2 {
		t.Fatalf("unexpected folder: %#v", f)
	}
	if _, err := os.Stat(filepath.Join(dir, "sets", "Reels-1-Morning-Dew.json")); err != nil {
		t.Fatalf("expected set file: %v", err)
	}
}
