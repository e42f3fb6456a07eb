package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func mkTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestWalkFindsControlDirectories(t *testing.T) {
	root := mkTree(t, map[string]string{
		"alice/ModA/cabinet.info":   "cheat",
		"alice/ModA/Mod.txt":        "x",
		"alice/NoControl/Mod.txt":   "x",
		"bob/ModB/cabinet.info":     "cheat",
		".git/objects/cabinet.info": "not scanned",
	})

	dirs, err := Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	var rels []string
	for _, d := range dirs {
		rels = append(rels, d.RelPath)
	}
	want := []string{"alice/ModA", "bob/ModB"}
	if !reflect.DeepEqual(rels, want) {
		t.Errorf("dirs = %v, want %v", rels, want)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	if _, err := Walk(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestDirInfoInventory(t *testing.T) {
	d := NewDirInfo("/root", "/root/alice/ModDir",
		[]string{"Weapon.txt", "README.md", "cabinet.info", ".hidden", "extra.blcm"})

	if d.RelPath != "alice/ModDir" {
		t.Errorf("RelPath = %q", d.RelPath)
	}
	if d.Author != "alice" {
		t.Errorf("Author = %q", d.Author)
	}
	if d.Control != "cabinet.info" {
		t.Errorf("Control = %q", d.Control)
	}
	if d.Readme != "README.md" {
		t.Errorf("Readme = %q", d.Readme)
	}

	if !d.Has("weapon.TXT") {
		t.Error("case-insensitive Has failed")
	}
	if d.HasExact("weapon.txt") {
		t.Error("HasExact must be case-sensitive")
	}
	if actual, ok := d.Actual("readme.MD"); !ok || actual != "README.md" {
		t.Errorf("Actual = %q, %v", actual, ok)
	}

	mods := d.ModFiles()
	want := []string{"Weapon.txt", "extra.blcm"}
	if !reflect.DeepEqual(mods, want) {
		t.Errorf("ModFiles = %v, want %v", mods, want)
	}

	if got := d.WithExt("BLCM"); !reflect.DeepEqual(got, []string{"extra.blcm"}) {
		t.Errorf("WithExt = %v", got)
	}
}

func TestDirInfoPrefersMarkdownReadme(t *testing.T) {
	d := NewDirInfo("/root", "/root/alice/ModDir",
		[]string{"README.md", "README.txt", "cabinet.info"})
	if d.Readme != "README.md" {
		t.Errorf("Readme = %q, want the markdown one", d.Readme)
	}

	d = NewDirInfo("/root", "/root/alice/ModDir",
		[]string{"readme.txt", "cabinet.info"})
	if d.Readme != "readme.txt" {
		t.Errorf("Readme = %q, want the plain-text fallback", d.Readme)
	}
}

func TestDirInfoRootDirectory(t *testing.T) {
	d := NewDirInfo("/root", "/root", []string{"cabinet.info"})
	if d.RelPath != "" {
		t.Errorf("RelPath = %q, want empty at root", d.RelPath)
	}
	if d.Author != "" {
		t.Errorf("Author = %q, want empty at root", d.Author)
	}
}
