package projection

import (
	"reflect"
	"testing"
	"time"

	"github.com/modcabinet/cabinetsorter/internal/category"
	"github.com/modcabinet/cabinetsorter/internal/mods"
	"github.com/modcabinet/cabinetsorter/internal/report"
)

func testRegistry(t *testing.T) *category.Registry {
	t.Helper()
	reg, err := category.FromCategories([]category.Category{
		{ID: "gear-general", Title: "Gear: General"},
		{ID: "cheat", Title: "Cheats"},
		{ID: "unused", Title: "Unused"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func testRecords() []*mods.ModRecord {
	return []*mods.ModRecord{
		{Key: "bl3/alice/zeta/Zeta", Title: "Zeta", Author: "Alice", Source: "bl3", Categories: []string{"cheat"}},
		{Key: "bl3/alice/alpha/alpha", Title: "alpha", Author: "Alice", Source: "bl3", Categories: []string{"cheat", "gear-general"}},
		{Key: "bl2/bob/mid/Mid", Title: "Mid", Author: "Bob", Source: "bl2", Categories: []string{"gear-general"}},
	}
}

func TestBuildCategoryOrderAndMemberSort(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	p := Build(testRegistry(t), testRecords(), nil, "run-1", now)

	if len(p.Categories) != 3 {
		t.Fatalf("categories = %d, want 3 (empty ones included)", len(p.Categories))
	}
	if p.Categories[0].ID != "gear-general" || p.Categories[1].ID != "cheat" || p.Categories[2].ID != "unused" {
		t.Errorf("category order = %v", []string{p.Categories[0].ID, p.Categories[1].ID, p.Categories[2].ID})
	}
	if p.Categories[0].Title != "Gear: General" {
		t.Errorf("title = %q", p.Categories[0].Title)
	}

	// Members sort case-insensitively by title.
	cheat, ok := p.ByCategory("cheat")
	if !ok {
		t.Fatal("cheat index missing")
	}
	want := []string{"bl3/alice/alpha/alpha", "bl3/alice/zeta/Zeta"}
	if !reflect.DeepEqual(cheat.Keys, want) {
		t.Errorf("cheat keys = %v, want %v", cheat.Keys, want)
	}

	unused, _ := p.ByCategory("unused")
	if len(unused.Keys) != 0 {
		t.Errorf("unused keys = %v, want empty", unused.Keys)
	}
}

func TestBuildAuthorsGroupedByTree(t *testing.T) {
	p := Build(testRegistry(t), testRecords(), nil, "run-1", time.Now())

	if len(p.Authors) != 2 {
		t.Fatalf("authors = %d, want 2", len(p.Authors))
	}
	if p.Authors[0].Name != "Alice" || p.Authors[1].Name != "Bob" {
		t.Errorf("author order = %q, %q", p.Authors[0].Name, p.Authors[1].Name)
	}
	alice := p.Authors[0]
	if len(alice.Trees) != 1 || alice.Trees[0].Tree != "bl3" {
		t.Fatalf("alice trees = %+v", alice.Trees)
	}
	if len(alice.Trees[0].Keys) != 2 {
		t.Errorf("alice keys = %v", alice.Trees[0].Keys)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	reg := testRegistry(t)
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	entries := []report.Entry{
		{Directory: "b/dir", Message: "later"},
		{Directory: "a/dir", Message: "earlier"},
	}

	first := Build(reg, testRecords(), entries, "run-1", now)
	second := Build(reg, testRecords(), entries, "run-1", now)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different projections")
	}
	if first.Errors[0].Directory != "a/dir" {
		t.Errorf("errors not sorted: %+v", first.Errors)
	}
}

func TestBuildSortsMods(t *testing.T) {
	p := Build(testRegistry(t), testRecords(), nil, "run-1", time.Now())
	for i := 1; i < len(p.Mods); i++ {
		if p.Mods[i-1].Key > p.Mods[i].Key {
			t.Fatalf("mods out of order: %q > %q", p.Mods[i-1].Key, p.Mods[i].Key)
		}
	}
}
