package mods

import (
	"path"
	"strings"
	"sync"

	"github.com/modcabinet/cabinetsorter/internal/cabinet"
	"github.com/modcabinet/cabinetsorter/internal/markdown"
	"github.com/modcabinet/cabinetsorter/internal/readme"
	"github.com/modcabinet/cabinetsorter/internal/report"
	"github.com/modcabinet/cabinetsorter/internal/scan"
	"github.com/modcabinet/cabinetsorter/internal/util/sets"
)

// summaryLimit caps the plain-text summary length used by index pages.
const summaryLimit = 200

// UnknownAuthor labels records from directories outside any author segment.
const UnknownAuthor = "(unknown)"

// Builder merges directory entries, README results, and file attributes into
// ModRecords. One builder spans a whole tree so author-name folding is
// consistent across directories; it is safe for concurrent per-directory use.
type Builder struct {
	source string

	mu      sync.Mutex
	authors map[string]string // lower-cased name -> first-seen casing
}

// NewBuilder creates a builder for one source tree.
func NewBuilder(source string) *Builder {
	return &Builder{
		source:  source,
		authors: make(map[string]string),
	}
}

// Author folds an author name case-insensitively; the first-seen casing wins
// so incidental capitalization drift across directories collapses into one
// author identity.
func (b *Builder) Author(raw string) string {
	if raw == "" {
		return UnknownAuthor
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	lower := strings.ToLower(raw)
	if seen, ok := b.authors[lower]; ok {
		return seen
	}
	b.authors[lower] = raw
	return raw
}

// Build produces the records for one directory. doc may be nil when the
// directory has no README. files carries the attributes of every eligible
// artifact, keyed by name. Diagnostics land in acc; passing a per-directory
// accumulator lets callers attach them to the directory's cached state.
func (b *Builder) Build(di *scan.DirInfo, entry *cabinet.DirectoryEntry, doc *readme.Document, files map[string]ModFile, acc *report.Accumulator) []*ModRecord {
	eligible := di.ModFiles()
	scopes := entry.Entries()
	multiMod := len(scopes) > 1

	if len(scopes) == 0 {
		// No assignment reached any file. With several artifacts present this
		// is a configuration error for every one of them.
		if len(eligible) > 1 {
			for _, name := range eligible {
				acc.Warn(di.RelPath, Stem(name), "no category assignment for file %q", name)
			}
		}
		return nil
	}

	author := b.Author(di.Author)
	var records []*ModRecord
	for _, scope := range scopes {
		rec := b.buildScope(di, scope, doc, files, eligible, author, multiMod, acc)
		if rec != nil {
			records = append(records, rec)
		}
	}
	return records
}

func (b *Builder) buildScope(di *scan.DirInfo, scope *cabinet.FileEntry, doc *readme.Document, files map[string]ModFile, eligible []string, author string, multiMod bool, acc *report.Accumulator) *ModRecord {
	var owned []ModFile
	var title string

	if scope.Name == "" {
		// Implicit scope: applies to all eligible files in the directory.
		for _, name := range eligible {
			if mf, ok := files[name]; ok {
				owned = append(owned, mf)
			}
		}
		if len(eligible) > 0 {
			title = Stem(eligible[0])
		} else {
			title = path.Base(di.RelPath)
		}
	} else {
		if mf, ok := files[scope.Name]; ok {
			owned = append(owned, mf)
			title = Stem(scope.Name)
		} else {
			// Referenced artifact does not exist yet; keep the scope key as-is.
			title = scope.Name
		}
	}

	// Fails closed: a record without at least one valid category is recorded
	// as a diagnostic and excluded from projection, never silently dropped.
	if len(scope.Categories) == 0 {
		acc.Warn(di.RelPath, title, "no valid categories; mod excluded from cabinet")
		return nil
	}

	rec := &ModRecord{
		Key:        path.Join(b.source, di.RelPath, title),
		Title:      title,
		Author:     author,
		Source:     b.source,
		Dir:        di.RelPath,
		Categories: append([]string(nil), scope.Categories...),
		Files:      owned,
	}

	for _, l := range scope.Links {
		rec.Links = append(rec.Links, Classify(l.Label, l.URL))
	}

	if doc != nil {
		res := readme.Extract(doc, title, multiMod)
		rec.Description = res.Description
		rec.Changelog = res.Changelog
		if multiMod && res.Description == nil {
			acc.Warn(di.RelPath, title, "no README section matching mod title")
		}
	}
	rec.Summary = markdown.Summarize(rec.Description, summaryLimit)

	for _, mf := range owned {
		if mf.ModTime.After(rec.LastModified) {
			rec.LastModified = mf.ModTime
		}
	}
	return rec
}

// LinkRelated cross-links records sharing a title across different authors.
// Duplicates stay distinct records; the relation is an explicit set of keys
// rather than any identity merge.
func LinkRelated(records []*ModRecord) {
	byTitle := make(map[string][]*ModRecord)
	for _, r := range records {
		lower := strings.ToLower(r.Title)
		byTitle[lower] = append(byTitle[lower], r)
	}
	for _, group := range byTitle {
		if len(group) < 2 {
			continue
		}
		for _, r := range group {
			related := sets.New[string]()
			for _, other := range group {
				if other == r || strings.EqualFold(other.Author, r.Author) {
					continue
				}
				related.Add(other.Key)
			}
			if related.Len() > 0 {
				r.Related = sets.SortedStrings(related)
			}
		}
	}
}
