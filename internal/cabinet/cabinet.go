// Package cabinet parses per-directory control files into structured
// directory entries. The format is human-authored and forgiving: blank lines
// and #-comments are ignored, assignment lines map a filename to categories,
// bare category lines apply to the directory's single mod, and link lines
// attach to the most recently opened filename scope.
package cabinet

import (
	"fmt"
	"strings"

	"github.com/modcabinet/cabinetsorter/internal/category"
	"github.com/modcabinet/cabinetsorter/internal/util/sets"
	"github.com/modcabinet/cabinetsorter/internal/util/textenc"
)

// Link is one labeled URL attached to a filename scope. Labels are optional
// and written as "Label|https://...".
type Link struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url"`
}

// FileEntry is the accumulated assignment for one filename scope. The empty
// name denotes the implicit scope covering a single-mod directory's one
// eligible file.
type FileEntry struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Links      []Link   `json:"links,omitempty"`
	Missing    bool     `json:"missing,omitempty"` // referenced file not physically present
}

// Diagnostic is a non-fatal parse problem, reported but never aborting.
type Diagnostic struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// DirectoryEntry is the parse result of one control file.
type DirectoryEntry struct {
	Dir         string
	Diagnostics []Diagnostic

	order   []string
	entries map[string]*FileEntry
}

// Entries returns the filename scopes in first-seen order.
func (e *DirectoryEntry) Entries() []*FileEntry {
	out := make([]*FileEntry, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.entries[name])
	}
	return out
}

// Get returns the entry for a filename scope, if present. The empty name
// addresses the implicit single-mod scope.
func (e *DirectoryEntry) Get(name string) (*FileEntry, bool) {
	fe, ok := e.entries[name]
	return fe, ok
}

// Len returns the number of filename scopes.
func (e *DirectoryEntry) Len() int { return len(e.entries) }

// HasImplicit reports whether the implicit single-mod scope was used.
func (e *DirectoryEntry) HasImplicit() bool {
	_, ok := e.entries[""]
	return ok
}

func (e *DirectoryEntry) diag(line int, format string, args ...any) {
	e.Diagnostics = append(e.Diagnostics, Diagnostic{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (e *DirectoryEntry) scope(name string) *FileEntry {
	if fe, ok := e.entries[name]; ok {
		return fe
	}
	fe := &FileEntry{Name: name}
	e.entries[name] = fe
	e.order = append(e.order, name)
	return fe
}

// Parse reads a control file. present lists every file physically in the
// directory (case-sensitive); eligible lists the mod artifact files a bare
// category line or implicit link may apply to. Content may be UTF-8 or
// Latin-1.
func Parse(dir string, content []byte, present, eligible []string, reg *category.Registry) *DirectoryEntry {
	entry := &DirectoryEntry{
		Dir:     dir,
		entries: make(map[string]*FileEntry),
	}
	presentSet := sets.New(present...)

	var current *FileEntry
	for i, raw := range strings.Split(textenc.Decode(content), "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, `\#`):
			// Escaped hash: the literal leading character is '#'.
			line = line[1:]
		case strings.HasPrefix(line, "#"):
			continue
		}

		if label, url, ok := splitLink(line); ok {
			if current == nil {
				if len(eligible) == 1 {
					current = entry.scope("")
				} else {
					entry.diag(lineNo, "link %q appears before any mod assignment", url)
					continue
				}
			}
			current.Links = append(current.Links, Link{Label: label, URL: url})
			continue
		}

		if name, cats, ok := splitAssignment(line); ok {
			fe := entry.scope(name)
			if !presentSet.Has(name) {
				// The authoring artifact may simply not exist yet; record anyway.
				fe.Missing = true
				entry.diag(lineNo, "file %q not found in directory", name)
			}
			appendCategories(fe, cats, entry, lineNo, reg)
			current = fe
			continue
		}

		// Bare category list: legal only for single-mod directories.
		if len(eligible) != 1 {
			entry.diag(lineNo, "bare category line %q but directory has %d eligible mod files", line, len(eligible))
			continue
		}
		fe := entry.scope("")
		appendCategories(fe, line, entry, lineNo, reg)
		current = fe
	}
	return entry
}

// splitLink recognizes "[label|]http(s)://..." lines.
func splitLink(line string) (label, url string, ok bool) {
	candidate := line
	if before, after, found := strings.Cut(line, "|"); found && isURL(strings.TrimSpace(after)) {
		return strings.TrimSpace(before), strings.TrimSpace(after), true
	}
	if isURL(candidate) {
		return "", candidate, true
	}
	return "", "", false
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// splitAssignment recognizes "<filename>: <cat>[, <cat>...]" lines. The colon
// must appear before any clearly-non-identifier character, which keeps URLs
// and labeled links out of this branch.
func splitAssignment(line string) (name, cats string, ok bool) {
	idx := strings.IndexAny(line, ":/|")
	if idx < 0 || line[idx] != ':' || idx == len(line)-1 {
		return "", "", false
	}
	name = strings.TrimSpace(line[:idx])
	cats = strings.TrimSpace(line[idx+1:])
	if name == "" || cats == "" {
		return "", "", false
	}
	return name, cats, true
}

// appendCategories validates and accumulates a comma-separated category list
// into a scope. Repeated lines for the same scope accumulate; duplicates are
// dropped, first occurrence wins the ordering.
func appendCategories(fe *FileEntry, list string, entry *DirectoryEntry, lineNo int, reg *category.Registry) {
	seen := sets.New(fe.Categories...)
	for _, tok := range strings.Split(list, ",") {
		cat := strings.ToLower(strings.TrimSpace(tok))
		if cat == "" {
			continue
		}
		if !reg.Has(cat) {
			entry.diag(lineNo, "unknown category %q", cat)
			continue
		}
		if seen.Has(cat) {
			continue
		}
		seen.Add(cat)
		fe.Categories = append(fe.Categories, cat)
	}
}
