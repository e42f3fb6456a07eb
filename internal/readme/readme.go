// Package readme extracts per-mod description and changelog text from
// README-like documents. Documents may be markdown or plain text with
// inconsistent heading conventions, so segmentation runs a small ordered set
// of independent heading recognizers rather than a single grammar.
package readme

import (
	"strings"

	"github.com/modcabinet/cabinetsorter/internal/util/textenc"
)

// Section is one heading-delimited span of the document.
type Section struct {
	Title string
	Level int
	Lines []string
}

// Document is a README segmented into a leading block and headed sections.
type Document struct {
	Lead     []string
	Sections []Section
}

// Result carries the extracted spans for one mod title.
type Result struct {
	Description []string `json:"description,omitempty"`
	Changelog   []string `json:"changelog,omitempty"`
}

// heading is a recognizer match. consumePrev marks underline-style headings
// whose title is the preceding content line.
type heading struct {
	title       string
	level       int
	consumePrev bool
}

// recognizer inspects one line (with the preceding content line for
// underline styles) and reports a section boundary or no match. Recognizers
// are tried in a fixed priority order: ATX hashes, then setext underlines,
// then list items (multi-mod directories only). The order is deterministic;
// a line matching an earlier recognizer never reaches a later one.
type recognizer func(prev, line string, multiMod bool) (heading, bool)

func recognizeATX(_, line string, _ bool) (heading, bool) {
	if !strings.HasPrefix(line, "#") {
		return heading{}, false
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 {
		level = 6
	}
	title := strings.TrimSpace(strings.TrimLeft(line, "# \t"))
	return heading{title: title, level: level}, true
}

func recognizeSetext(prev, line string, _ bool) (heading, bool) {
	if prev == "" || len(line) < 3 {
		return heading{}, false
	}
	marker := line[0]
	if marker != '=' && marker != '-' {
		return heading{}, false
	}
	for i := 0; i < len(line); i++ {
		if line[i] != marker {
			return heading{}, false
		}
	}
	level := 1
	if marker == '-' {
		level = 2
	}
	return heading{title: prev, level: level, consumePrev: true}, true
}

func recognizeListItem(_, line string, multiMod bool) (heading, bool) {
	if !multiMod || !strings.HasPrefix(line, "- ") {
		return heading{}, false
	}
	title := strings.TrimSpace(strings.TrimLeft(line, "- \t"))
	if title == "" {
		return heading{}, false
	}
	return heading{title: title, level: 6}, true
}

var recognizers = []recognizer{recognizeATX, recognizeSetext, recognizeListItem}

// ParseDocument segments a README. multiMod enables list-item headings,
// which are only meaningful when a directory holds several mods.
func ParseDocument(content []byte, multiMod bool) *Document {
	doc := &Document{}
	var cur *Section
	prev := "" // last content line appended, candidate setext title

	appendLine := func(line string) {
		if cur != nil {
			cur.Lines = append(cur.Lines, line)
			return
		}
		// Skip leading blanks before any content.
		if line == "" && len(doc.Lead) == 0 {
			return
		}
		doc.Lead = append(doc.Lead, line)
	}
	popLine := func() {
		if cur != nil {
			cur.Lines = cur.Lines[:len(cur.Lines)-1]
			return
		}
		doc.Lead = doc.Lead[:len(doc.Lead)-1]
	}
	open := func(h heading) {
		doc.Sections = append(doc.Sections, Section{Title: h.title, Level: h.level})
		cur = &doc.Sections[len(doc.Sections)-1]
	}

	for _, raw := range strings.Split(textenc.Decode(content), "\n") {
		line := strings.TrimSpace(raw)

		matched := false
		for _, rec := range recognizers {
			h, ok := rec(prev, line, multiMod)
			if !ok {
				continue
			}
			if h.consumePrev {
				popLine()
			}
			open(h)
			prev = ""
			matched = true
			break
		}
		if matched {
			continue
		}

		appendLine(line)
		prev = line
	}

	doc.Lead = trimTrailingBlanks(doc.Lead)
	for i := range doc.Sections {
		doc.Sections[i].Lines = trimTrailingBlanks(doc.Sections[i].Lines)
	}
	return doc
}

func trimTrailingBlanks(lines []string) []string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// find returns the index of the first section whose title equals the given
// text case-insensitively, or -1.
func (d *Document) find(title string) int {
	want := strings.ToLower(strings.TrimSpace(title))
	for i, s := range d.Sections {
		if strings.ToLower(strings.TrimSpace(s.Title)) == want {
			return i
		}
	}
	return -1
}

// collect gathers a section's content up to the next same-or-higher-level
// heading, folding deeper subsections in with their heading text.
func (d *Document) collect(idx int) []string {
	base := d.Sections[idx]
	out := append([]string(nil), base.Lines...)
	for _, s := range d.Sections[idx+1:] {
		if s.Level <= base.Level {
			break
		}
		out = append(out, "", s.Title)
		out = append(out, s.Lines...)
	}
	return trimTrailingBlanks(out)
}

// Extract resolves the description and changelog spans for one mod title.
//
// Single-mod directories prefer an explicit "Description" section, then the
// first section when the document opens with a heading, then the leading
// block. Multi-mod directories require a section matching the mod title.
// Changelog capture is deliberately disabled for multi-mod directories:
// section boundaries are too ambiguous to separate multiple changelogs.
func Extract(doc *Document, title string, multiMod bool) Result {
	var res Result

	if multiMod {
		if idx := doc.find(title); idx >= 0 {
			res.Description = doc.collect(idx)
		}
		return res
	}

	switch {
	case doc.find("description") >= 0:
		res.Description = doc.collect(doc.find("description"))
	case len(doc.Lead) == 0 && len(doc.Sections) > 0:
		res.Description = doc.collect(0)
	default:
		res.Description = append([]string(nil), doc.Lead...)
	}

	if idx := doc.find("changelog"); idx >= 0 {
		res.Changelog = append([]string(nil), doc.Sections[idx].Lines...)
	}
	return res
}
