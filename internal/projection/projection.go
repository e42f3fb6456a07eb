// Package projection assembles the final, render-ready view of a run: every
// mod record plus category and author indexes. Building a projection is a
// pure function of its inputs so two runs over identical state produce
// identical projections apart from run identity.
package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/modcabinet/cabinetsorter/internal/category"
	"github.com/modcabinet/cabinetsorter/internal/mods"
	"github.com/modcabinet/cabinetsorter/internal/report"
)

// CategoryIndex lists the mods assigned to one category, ordered
// case-insensitively by title.
type CategoryIndex struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Keys  []string `json:"keys"`
}

// TreeGroup lists one author's mods within one source tree.
type TreeGroup struct {
	Tree string   `json:"tree"`
	Keys []string `json:"keys"`
}

// AuthorIndex lists an author's mods grouped by source tree.
type AuthorIndex struct {
	Name  string      `json:"name"`
	Trees []TreeGroup `json:"trees"`
}

// Projection is the complete output of one run.
type Projection struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Mods        []*mods.ModRecord `json:"mods"`
	Categories  []CategoryIndex   `json:"categories"`
	Authors     []AuthorIndex     `json:"authors"`
	Errors      []report.Entry    `json:"errors"`
}

// Build assembles a projection from the full record set and the run's
// accumulated diagnostics. Records are indexed under every category they
// carry; the category list follows registry order and includes empty
// categories so the rendered cabinet keeps a stable page set.
func Build(reg *category.Registry, records []*mods.ModRecord, entries []report.Entry, runID string, now time.Time) *Projection {
	p := &Projection{
		RunID:       runID,
		GeneratedAt: now.UTC(),
		Mods:        sortRecords(records),
		Errors:      sortEntries(entries),
	}

	byCategory := make(map[string][]*mods.ModRecord)
	byAuthor := make(map[string]map[string][]*mods.ModRecord)
	for _, r := range p.Mods {
		for _, cat := range r.Categories {
			byCategory[cat] = append(byCategory[cat], r)
		}
		trees := byAuthor[r.Author]
		if trees == nil {
			trees = make(map[string][]*mods.ModRecord)
			byAuthor[r.Author] = trees
		}
		trees[r.Source] = append(trees[r.Source], r)
	}

	for _, cat := range reg.All() {
		p.Categories = append(p.Categories, CategoryIndex{
			ID:    cat.ID,
			Title: cat.FullTitle(),
			Keys:  keysByTitle(byCategory[cat.ID]),
		})
	}

	authors := make([]string, 0, len(byAuthor))
	for name := range byAuthor {
		authors = append(authors, name)
	}
	sort.Slice(authors, func(i, j int) bool {
		li, lj := strings.ToLower(authors[i]), strings.ToLower(authors[j])
		if li != lj {
			return li < lj
		}
		return authors[i] < authors[j]
	})
	for _, name := range authors {
		idx := AuthorIndex{Name: name}
		trees := make([]string, 0, len(byAuthor[name]))
		for tree := range byAuthor[name] {
			trees = append(trees, tree)
		}
		sort.Strings(trees)
		for _, tree := range trees {
			idx.Trees = append(idx.Trees, TreeGroup{
				Tree: tree,
				Keys: keysByTitle(byAuthor[name][tree]),
			})
		}
		p.Authors = append(p.Authors, idx)
	}

	return p
}

// ByCategory returns the index for one category ID, if present.
func (p *Projection) ByCategory(id string) (CategoryIndex, bool) {
	for _, ci := range p.Categories {
		if ci.ID == id {
			return ci, true
		}
	}
	return CategoryIndex{}, false
}

// ModCount returns the number of records in the projection.
func (p *Projection) ModCount() int { return len(p.Mods) }

func sortRecords(records []*mods.ModRecord) []*mods.ModRecord {
	out := append([]*mods.ModRecord(nil), records...)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func sortEntries(entries []report.Entry) []report.Entry {
	out := append([]report.Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Directory != out[j].Directory {
			return out[i].Directory < out[j].Directory
		}
		if out[i].Mod != out[j].Mod {
			return out[i].Mod < out[j].Mod
		}
		return out[i].Message < out[j].Message
	})
	return out
}

func keysByTitle(records []*mods.ModRecord) []string {
	sorted := append([]*mods.ModRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool {
		li, lj := strings.ToLower(sorted[i].Title), strings.ToLower(sorted[j].Title)
		if li != lj {
			return li < lj
		}
		return sorted[i].Key < sorted[j].Key
	})
	keys := make([]string, 0, len(sorted))
	for _, r := range sorted {
		keys = append(keys, r.Key)
	}
	return keys
}
