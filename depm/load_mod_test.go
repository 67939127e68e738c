package depm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTOMLProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "u.toml"), `
[project]
id = "demo"
version = "2.3.4"

[build]
allocator = "alloc"
entry = "main"
disallow-warnings = true

[lang]
edition = "2024.1.0"
use-std = true
`)

	pf, err := LoadProject(dir)
	if err != nil {
		t.Fatal(err)
	}

	if pf.Project.ID != "demo" || pf.Project.Name != "demo" {
		t.Errorf("got project %+v", pf.Project)
	}

	if pf.Project.Version != (Version{2, 3, 4}) {
		t.Errorf("got version %s", pf.Project.Version)
	}

	if pf.Allocator != "alloc" || pf.Entry != "main" || !pf.DisallowWarnings || pf.DisallowDeprecated {
		t.Errorf("got build settings %+v", pf)
	}

	if !pf.UseStd || pf.LangEdition != (Version{2024, 1, 0}) || pf.StdEdition != (Version{2024, 1, 0}) {
		t.Errorf("got lang settings %+v", pf)
	}

	if pf.Root != dir {
		t.Errorf("got root %s, want %s", pf.Root, dir)
	}
}

func TestLoadLegacyProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "demo.uproj"), `
# legacy project
id=demo
name = Demo Project
deallocator=free
disallow_deprecated=true
`)

	pf, err := LoadProject(dir)
	if err != nil {
		t.Fatal(err)
	}

	if pf.Project.Name != "Demo Project" || pf.Deallocator != "free" || !pf.DisallowDeprecated {
		t.Errorf("got %+v", pf)
	}

	if pf.Project.Version != (Version{1, 0, 0}) {
		t.Errorf("default version not applied: %s", pf.Project.Version)
	}
}

func TestTOMLPreferredOverLegacy(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "old.uproj"), "id=old\n")
	writeFile(t, filepath.Join(dir, "u.toml"), "[project]\nid = \"new\"\n")

	pf, err := LoadProject(dir)
	if err != nil {
		t.Fatal(err)
	}

	if pf.Project.ID != "new" {
		t.Errorf("loaded %s, want the TOML project", pf.Project.ID)
	}
}

func TestInvalidProjects(t *testing.T) {
	tests := []struct {
		name, file, content, msg string
	}{
		{"missing id", "u.toml", "[project]\nname = \"x\"\n", "missing project id"},
		{"bad id", "u.toml", "[project]\nid = \"9lives\"\n", "valid identifier"},
		{"bad version", "u.toml", "[project]\nid = \"x\"\nversion = \"1.2\"\n", "not a valid"},
		{"unknown legacy key", "p.uproj", "id=x\ncolour=blue\n", "unknown key"},
		{"bad legacy bool", "p.uproj", "id=x\nuse_std=maybe\n", "must be a boolean"},
		{"legacy without equals", "p.uproj", "id x\n", "key=value"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, test.file), test.content)

			if _, err := LoadProject(dir); err == nil {
				t.Fatalf("expected an error")
			} else if !strings.Contains(err.Error(), test.msg) {
				t.Errorf("got %q, want it to mention %q", err, test.msg)
			}
		})
	}

	if _, err := LoadProject(t.TempDir()); err == nil {
		t.Errorf("a directory without a project file loaded")
	}
}

func TestInitProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")

	path, err := InitProject("fresh", dir)
	if err != nil {
		t.Fatal(err)
	}

	pf, err := LoadProject(path)
	if err != nil {
		t.Fatal(err)
	}

	if pf.Project.ID != "fresh" || pf.Entry != "main" || pf.LangEdition != (Version{2024, 1, 0}) {
		t.Errorf("got %+v", pf)
	}

	if _, err := InitProject("fresh", dir); err == nil {
		t.Errorf("a second init overwrote the project file")
	}

	if _, err := InitProject("not valid", t.TempDir()); err == nil {
		t.Errorf("an invalid id was accepted")
	}
}

func TestDiscoverSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.u"), "")
	writeFile(t, filepath.Join(dir, "a.u"), "")
	writeFile(t, filepath.Join(dir, "sub", "c.u"), "")
	writeFile(t, filepath.Join(dir, "bin", "stale.u"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	paths, err := DiscoverSources(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(dir, "a.u"),
		filepath.Join(dir, "b.u"),
		filepath.Join(dir, "sub", "c.u"),
	}

	if strings.Join(paths, "\n") != strings.Join(want, "\n") {
		t.Errorf("got %v, want %v", paths, want)
	}
}

func TestLookupFirstMatch(t *testing.T) {
	mod := NewModule(Project{ID: "x"})
	mod.Structs = []*Struct{{Name: "S"}, {Name: "T"}, {Name: "S"}}

	if ndx, ok := mod.LookupStruct("S"); !ok || ndx != 0 {
		t.Errorf("got %d, %v; want the first S", ndx, ok)
	}

	if _, ok := mod.LookupStruct("U"); ok {
		t.Errorf("found a struct that was never declared")
	}
}
