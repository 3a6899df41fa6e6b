package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", c.Len())
	}

	wantPoints := []int{10, 30, 30, 35, 20, 0, 0}
	for i, m := range c.Modules() {
		if m.RequiredPoints != wantPoints[i] {
			t.Errorf("module %d (%s) RequiredPoints = %d, want %d", i, m.ID, m.RequiredPoints, wantPoints[i])
		}
		if m.Title == "" || m.Concept == "" {
			t.Errorf("module %s missing educational copy", m.ID)
		}
	}

	if c.First().ID != "noise-floor" {
		t.Errorf("First() = %s, want noise-floor", c.First().ID)
	}
	if c.Last().ID != "signal-lost" {
		t.Errorf("Last() = %s, want signal-lost", c.Last().ID)
	}
	if c.JourneyMarker() != "signal-lost" {
		t.Errorf("JourneyMarker() = %s, want signal-lost", c.JourneyMarker())
	}
}

func TestSuccessorChain(t *testing.T) {
	c := Default()
	ids := c.IDs()
	for i := 0; i < len(ids)-1; i++ {
		next, ok := c.Successor(ids[i])
		if !ok || next != ids[i+1] {
			t.Errorf("Successor(%s) = %s, %v; want %s", ids[i], next, ok, ids[i+1])
		}
	}
	if _, ok := c.Successor(c.Last().ID); ok {
		t.Error("last module should have no successor")
	}
	if _, ok := c.Successor("missing"); ok {
		t.Error("unknown module should have no successor")
	}
}

func TestLookups(t *testing.T) {
	c := Default()

	m, ok := c.Lookup("collapse")
	if !ok || m.Title != "COLLAPSE" {
		t.Errorf("Lookup(collapse) = %+v, %v", m, ok)
	}
	if _, ok := c.Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
	if c.Index("collapse") != 2 {
		t.Errorf("Index(collapse) = %d, want 2", c.Index("collapse"))
	}
	if c.Index("nope") != -1 {
		t.Errorf("Index(nope) = %d, want -1", c.Index("nope"))
	}
	if m, ok := c.At(3); !ok || m.ID != "entanglement" {
		t.Errorf("At(3) = %+v, %v", m, ok)
	}
	if _, ok := c.At(7); ok {
		t.Error("At(7) should fail")
	}
	if _, ok := c.At(-1); ok {
		t.Error("At(-1) should fail")
	}
	if !c.Contains("gallery") || c.Contains("GALLERY") {
		t.Error("Contains is case sensitive and should find gallery")
	}
}

func TestModulesReturnsCopy(t *testing.T) {
	c := Default()
	mods := c.Modules()
	mods[0].RequiredPoints = 999
	if c.First().RequiredPoints == 999 {
		t.Error("Modules() leaked internal slice")
	}
}

func TestParseCustomCatalog(t *testing.T) {
	data := []byte(`
journey_marker = "b"

[[modules]]
id = "a"
title = "A"
required_points = 1

[[modules]]
id = "b"
title = "B"
required_points = 2

[[modules]]
id = "c"
title = "C"
required_points = 3
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.JourneyMarker() != "b" {
		t.Errorf("JourneyMarker() = %s, want b", c.JourneyMarker())
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestParseInvalidTOML(t *testing.T) {
	if _, err := Parse([]byte("[[modules]\nid=")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	if err != nil || c.Len() != 7 {
		t.Fatalf("Load(\"\") = %v, %v", c, err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	if err := os.WriteFile(path, []byte("[[modules]]\nid = \"solo\"\nrequired_points = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	if c.First().ID != "solo" || c.JourneyMarker() != "solo" {
		t.Errorf("unexpected catalog: first=%s marker=%s", c.First().ID, c.JourneyMarker())
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
