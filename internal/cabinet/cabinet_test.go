package cabinet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modcabinet/cabinetsorter/internal/category"
)

func testRegistry(t *testing.T) *category.Registry {
	t.Helper()
	reg, err := category.FromCategories([]category.Category{
		{ID: "gear-general", Title: "Gear: General"},
		{ID: "cheat", Title: "Cheats"},
		{ID: "loot-system", Title: "Loot System Overhauls"},
	})
	require.NoError(t, err)
	return reg
}

func TestParseIgnoresCommentsAndBlankLines(t *testing.T) {
	content := []byte("# a comment\n\n   \n# another comment\n")
	entry := Parse("dir", content, []string{"Mod.txt"}, []string{"Mod.txt"}, testRegistry(t))

	assert.Equal(t, 0, entry.Len())
	assert.Empty(t, entry.Diagnostics)
}

func TestParseEscapedHashIsContent(t *testing.T) {
	content := []byte("\\#1 Mod.txt: cheat\n")
	entry := Parse("dir", content, []string{"#1 Mod.txt"}, []string{"#1 Mod.txt"}, testRegistry(t))

	fe, ok := entry.Get("#1 Mod.txt")
	require.True(t, ok)
	assert.Equal(t, []string{"cheat"}, fe.Categories)
	assert.False(t, fe.Missing)
	assert.Empty(t, entry.Diagnostics)
}

func TestParseAssignmentWithCategoryList(t *testing.T) {
	content := []byte("Weapon.txt: gear-general, cheat\n")
	entry := Parse("dir", content, []string{"Weapon.txt", "README.md"}, []string{"Weapon.txt"}, testRegistry(t))

	fe, ok := entry.Get("Weapon.txt")
	require.True(t, ok)
	assert.Equal(t, []string{"gear-general", "cheat"}, fe.Categories)
}

func TestParseRepeatedAssignmentsAccumulate(t *testing.T) {
	content := []byte("A.txt: gear-general\nB.txt: cheat\nA.txt: cheat, gear-general\n")
	entry := Parse("dir", content, []string{"A.txt", "B.txt"}, []string{"A.txt", "B.txt"}, testRegistry(t))

	a, ok := entry.Get("A.txt")
	require.True(t, ok)
	// Union of both lines; first occurrence wins the ordering.
	assert.Equal(t, []string{"gear-general", "cheat"}, a.Categories)
	assert.Empty(t, entry.Diagnostics)

	// Scope order is first-seen.
	scopes := entry.Entries()
	require.Len(t, scopes, 2)
	assert.Equal(t, "A.txt", scopes[0].Name)
	assert.Equal(t, "B.txt", scopes[1].Name)
}

func TestParseLinkAttachesToMostRecentScope(t *testing.T) {
	content := []byte("A.txt: gear-general\nB.txt: cheat\nhttps://example.com/shot.png\n")
	entry := Parse("dir", content, []string{"A.txt", "B.txt"}, []string{"A.txt", "B.txt"}, testRegistry(t))

	b, ok := entry.Get("B.txt")
	require.True(t, ok)
	require.Len(t, b.Links, 1)
	assert.Equal(t, "https://example.com/shot.png", b.Links[0].URL)

	a, _ := entry.Get("A.txt")
	assert.Empty(t, a.Links)
}

func TestParseLabeledLink(t *testing.T) {
	content := []byte("Mod.txt: cheat\nScreenshot|https://example.com/pic.jpg\n")
	entry := Parse("dir", content, []string{"Mod.txt"}, []string{"Mod.txt"}, testRegistry(t))

	fe, _ := entry.Get("Mod.txt")
	require.Len(t, fe.Links, 1)
	assert.Equal(t, "Screenshot", fe.Links[0].Label)
	assert.Equal(t, "https://example.com/pic.jpg", fe.Links[0].URL)
}

func TestParseLinkBeforeAssignmentSingleModImplicit(t *testing.T) {
	content := []byte("https://example.com/demo.mp4\ncheat\n")
	entry := Parse("dir", content, []string{"Only.txt"}, []string{"Only.txt"}, testRegistry(t))

	fe, ok := entry.Get("")
	require.True(t, ok)
	require.Len(t, fe.Links, 1)
	assert.Equal(t, []string{"cheat"}, fe.Categories)
	assert.True(t, entry.HasImplicit())
}

func TestParseLinkBeforeAssignmentMultiModDiagnostic(t *testing.T) {
	content := []byte("https://example.com/demo.mp4\n")
	entry := Parse("dir", content, []string{"A.txt", "B.txt"}, []string{"A.txt", "B.txt"}, testRegistry(t))

	assert.Equal(t, 0, entry.Len())
	require.Len(t, entry.Diagnostics, 1)
	assert.Equal(t, 1, entry.Diagnostics[0].Line)
}

func TestParseBareCategoryLineSingleMod(t *testing.T) {
	content := []byte("gear-general, cheat, gear-general\n")
	entry := Parse("dir", content, []string{"Only.txt", "README"}, []string{"Only.txt"}, testRegistry(t))

	fe, ok := entry.Get("")
	require.True(t, ok)
	assert.Equal(t, []string{"gear-general", "cheat"}, fe.Categories)
}

func TestParseBareCategoryLineMultiModDiagnostic(t *testing.T) {
	content := []byte("gear-general\n")
	entry := Parse("dir", content, []string{"A.txt", "B.txt"}, []string{"A.txt", "B.txt"}, testRegistry(t))

	assert.Equal(t, 0, entry.Len())
	require.Len(t, entry.Diagnostics, 1)
}

func TestParseUnknownCategoryKeepsValidOnes(t *testing.T) {
	content := []byte("Mod.txt: cheat, no-such-thing, gear-general\n")
	entry := Parse("dir", content, []string{"Mod.txt"}, []string{"Mod.txt"}, testRegistry(t))

	fe, _ := entry.Get("Mod.txt")
	assert.Equal(t, []string{"cheat", "gear-general"}, fe.Categories)
	require.Len(t, entry.Diagnostics, 1)
	assert.Contains(t, entry.Diagnostics[0].Message, "no-such-thing")
}

func TestParseCategoryCaseFolded(t *testing.T) {
	content := []byte("Mod.txt: CHEAT, Gear-General\n")
	entry := Parse("dir", content, []string{"Mod.txt"}, []string{"Mod.txt"}, testRegistry(t))

	fe, _ := entry.Get("Mod.txt")
	assert.Equal(t, []string{"cheat", "gear-general"}, fe.Categories)
}

func TestParseMissingFileRecordedWithDiagnostic(t *testing.T) {
	content := []byte("Ghost.txt: cheat\n")
	entry := Parse("dir", content, []string{"Other.txt"}, []string{"Other.txt"}, testRegistry(t))

	fe, ok := entry.Get("Ghost.txt")
	require.True(t, ok)
	assert.True(t, fe.Missing)
	assert.Equal(t, []string{"cheat"}, fe.Categories)
	require.Len(t, entry.Diagnostics, 1)
	assert.Contains(t, entry.Diagnostics[0].Message, "Ghost.txt")
}

func TestParseLatin1Content(t *testing.T) {
	// "Caf\xe9.txt: cheat" in ISO 8859-1.
	content := []byte("Caf\xe9.txt: cheat\n")
	entry := Parse("dir", content, []string{"Café.txt"}, []string{"Café.txt"}, testRegistry(t))

	fe, ok := entry.Get("Café.txt")
	require.True(t, ok)
	assert.Equal(t, []string{"cheat"}, fe.Categories)
}

func TestParseURLLineNeverBecomesAssignment(t *testing.T) {
	// A URL contains a colon; link recognition must win over assignment.
	content := []byte("Mod.txt: cheat\nhttps://example.com/a:b\n")
	entry := Parse("dir", content, []string{"Mod.txt"}, []string{"Mod.txt"}, testRegistry(t))

	require.Equal(t, 1, entry.Len())
	fe, _ := entry.Get("Mod.txt")
	require.Len(t, fe.Links, 1)
	assert.Equal(t, "https://example.com/a:b", fe.Links[0].URL)
}

func TestSplitAssignment(t *testing.T) {
	name, cats, ok := splitAssignment("Mod.txt: cheat, gear-general")
	assert.True(t, ok)
	assert.Equal(t, "Mod.txt", name)
	assert.Equal(t, "cheat, gear-general", cats)

	_, _, ok = splitAssignment("no separator here")
	assert.False(t, ok)

	_, _, ok = splitAssignment("trailing colon:")
	assert.False(t, ok)
}
