package category

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `categories:
  - id: gear-general
    title: "Gear: General"
  - id: cheat
    title: Cheats
    description: Cheaty things
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len = %d, want 2", reg.Len())
	}

	c, err := reg.Resolve("gear-general")
	if err != nil {
		t.Fatal(err)
	}
	if c.Prefix != "Gear" || c.Title != "General" {
		t.Errorf("prefix split: prefix=%q title=%q", c.Prefix, c.Title)
	}
	if c.FullTitle() != "Gear: General" {
		t.Errorf("FullTitle = %q", c.FullTitle())
	}

	all := reg.All()
	if all[0].ID != "gear-general" || all[1].ID != "cheat" {
		t.Errorf("declaration order lost: %v", all)
	}
}

func TestLoadRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := "categories:\n  - id: cheat\n    title: A\n  - id: cheat\n    title: B\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected duplicate identifier error")
	}
}

func TestLoadRejectsEmptyRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	if err := os.WriteFile(path, []byte("categories: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty registry")
	}
}

func TestResolveUnknown(t *testing.T) {
	reg, err := FromCategories([]Category{{ID: "cheat", Title: "Cheats"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Resolve("nope"); err == nil {
		t.Fatal("expected validation error")
	}
	if reg.Has("nope") {
		t.Error("Has returned true for unknown id")
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg := Default()
	if reg.Len() == 0 {
		t.Fatal("default registry is empty")
	}
	for _, id := range []string{"gear-general", "cheat"} {
		if !reg.Has(id) {
			t.Errorf("default registry missing %q", id)
		}
	}
}
