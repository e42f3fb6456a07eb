package readme

import (
	"reflect"
	"testing"
)

func TestParseDocumentATXSections(t *testing.T) {
	content := []byte("intro line\n\n# First\nbody one\n\n## Nested\nbody two\n# Second\nbody three\n")
	doc := ParseDocument(content, false)

	if got := doc.Lead; !reflect.DeepEqual(got, []string{"intro line"}) {
		t.Fatalf("lead = %q", got)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(doc.Sections))
	}
	if doc.Sections[0].Title != "First" || doc.Sections[0].Level != 1 {
		t.Errorf("section 0 = %q level %d", doc.Sections[0].Title, doc.Sections[0].Level)
	}
	if doc.Sections[1].Title != "Nested" || doc.Sections[1].Level != 2 {
		t.Errorf("section 1 = %q level %d", doc.Sections[1].Title, doc.Sections[1].Level)
	}
}

func TestParseDocumentSetextHeadings(t *testing.T) {
	content := []byte("My Mod\n======\ndescription text\nChanges\n-------\nchange text\n")
	doc := ParseDocument(content, false)

	if len(doc.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(doc.Sections))
	}
	if doc.Sections[0].Title != "My Mod" || doc.Sections[0].Level != 1 {
		t.Errorf("section 0 = %q level %d", doc.Sections[0].Title, doc.Sections[0].Level)
	}
	if doc.Sections[1].Title != "Changes" || doc.Sections[1].Level != 2 {
		t.Errorf("section 1 = %q level %d", doc.Sections[1].Title, doc.Sections[1].Level)
	}
	// The underlined title must not remain as content.
	if len(doc.Lead) != 0 {
		t.Errorf("lead = %q, want empty", doc.Lead)
	}
	if !reflect.DeepEqual(doc.Sections[0].Lines, []string{"description text"}) {
		t.Errorf("section 0 lines = %q", doc.Sections[0].Lines)
	}
}

func TestParseDocumentListItemsOnlyMultiMod(t *testing.T) {
	content := []byte("- Mod One\ntext one\n- Mod Two\ntext two\n")

	single := ParseDocument(content, false)
	if len(single.Sections) != 0 {
		t.Fatalf("single-mod sections = %d, want 0", len(single.Sections))
	}

	multi := ParseDocument(content, true)
	if len(multi.Sections) != 2 {
		t.Fatalf("multi-mod sections = %d, want 2", len(multi.Sections))
	}
	if multi.Sections[0].Title != "Mod One" {
		t.Errorf("section 0 title = %q", multi.Sections[0].Title)
	}
}

func TestExtractSingleModPrefersDescriptionSection(t *testing.T) {
	content := []byte("lead text\n# Description\nthe real description\n# Changelog\nv1.0 initial\n")
	doc := ParseDocument(content, false)
	res := Extract(doc, "AnyMod", false)

	if !reflect.DeepEqual(res.Description, []string{"the real description"}) {
		t.Errorf("description = %q", res.Description)
	}
	if !reflect.DeepEqual(res.Changelog, []string{"v1.0 initial"}) {
		t.Errorf("changelog = %q", res.Changelog)
	}
}

func TestExtractSingleModFirstSectionWhenNoLead(t *testing.T) {
	content := []byte("# My Mod\nfirst section text\n# Other\nmore\n")
	doc := ParseDocument(content, false)
	res := Extract(doc, "My Mod", false)

	if !reflect.DeepEqual(res.Description, []string{"first section text"}) {
		t.Errorf("description = %q", res.Description)
	}
}

func TestExtractSingleModLeadFallback(t *testing.T) {
	content := []byte("just some text\nwith no headings\n")
	doc := ParseDocument(content, false)
	res := Extract(doc, "AnyMod", false)

	want := []string{"just some text", "with no headings"}
	if !reflect.DeepEqual(res.Description, want) {
		t.Errorf("description = %q, want %q", res.Description, want)
	}
	if res.Changelog != nil {
		t.Errorf("changelog = %q, want none", res.Changelog)
	}
}

func TestExtractMultiModRequiresTitleMatch(t *testing.T) {
	content := []byte("# Alpha\nalpha text\n# Beta\nbeta text\n")
	doc := ParseDocument(content, true)

	res := Extract(doc, "beta", true)
	if !reflect.DeepEqual(res.Description, []string{"beta text"}) {
		t.Errorf("matched description = %q", res.Description)
	}

	res = Extract(doc, "Gamma", true)
	if res.Description != nil {
		t.Errorf("unmatched description = %q, want none", res.Description)
	}
}

func TestExtractMultiModNeverAttachesChangelog(t *testing.T) {
	content := []byte("# Alpha\nalpha text\n# Changelog\nv2 changes\n")
	doc := ParseDocument(content, true)
	res := Extract(doc, "Alpha", true)

	if res.Changelog != nil {
		t.Errorf("changelog = %q, want none in multi-mod directories", res.Changelog)
	}
}

func TestExtractCollectFoldsSubsections(t *testing.T) {
	content := []byte("# Alpha\nalpha text\n## Usage\nusage text\n# Beta\nbeta text\n")
	doc := ParseDocument(content, true)
	res := Extract(doc, "Alpha", true)

	want := []string{"alpha text", "", "Usage", "usage text"}
	if !reflect.DeepEqual(res.Description, want) {
		t.Errorf("description = %q, want %q", res.Description, want)
	}
}

func TestExtractTitleMatchIsCaseInsensitiveExact(t *testing.T) {
	content := []byte("# Super Mod\ntext\n")
	doc := ParseDocument(content, true)

	if res := Extract(doc, "SUPER MOD", true); res.Description == nil {
		t.Error("case-insensitive exact match failed")
	}
	if res := Extract(doc, "Super", true); res.Description != nil {
		t.Error("prefix must not match")
	}
}
