package markdown

import "testing"

func TestIsMarkdown(t *testing.T) {
	for _, name := range []string{"README.md", "notes.MARKDOWN", "doc.mkd"} {
		if !IsMarkdown(name) {
			t.Errorf("IsMarkdown(%q) = false", name)
		}
	}
	for _, name := range []string{"README", "mod.txt", "md"} {
		if IsMarkdown(name) {
			t.Errorf("IsMarkdown(%q) = true", name)
		}
	}
}

func TestSummarizeFirstParagraph(t *testing.T) {
	lines := []string{
		"This is the *first* paragraph",
		"spanning [two](https://example.com) lines.",
		"",
		"Second paragraph is ignored.",
	}
	got := Summarize(lines, 200)
	want := "This is the first paragraph spanning two lines."
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestSummarizeTruncates(t *testing.T) {
	got := Summarize([]string{"one two three four five"}, 10)
	if got != "one two th..." {
		t.Errorf("Summarize = %q", got)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil, 100); got != "" {
		t.Errorf("Summarize(nil) = %q", got)
	}
	if got := Summarize([]string{"", "   "}, 100); got != "" {
		t.Errorf("Summarize(blank) = %q", got)
	}
}

func TestSummarizeSkipsLeadingHeading(t *testing.T) {
	got := Summarize([]string{"# Heading", "", "Real text here."}, 100)
	if got != "Real text here." {
		t.Errorf("Summarize = %q", got)
	}
}
