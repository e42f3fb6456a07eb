package cache

import "sort"

// Delta classifies the current directory set against a previous snapshot.
// Every slice is sorted; a directory appears in exactly one of them.
type Delta struct {
	Added     []string
	Changed   []string
	Removed   []string
	Unchanged []string
}

// Total returns the number of directories the delta covers, removed ones
// included.
func (d Delta) Total() int {
	return len(d.Added) + len(d.Changed) + len(d.Removed) + len(d.Unchanged)
}

// Diff compares the current signatures against the previous snapshot.
// Directories present in both with an equal hash are unchanged; everything
// else is added, changed, or removed accordingly.
func Diff(prev Snapshot, current map[string]*DirSignature) Delta {
	var d Delta
	for dir, sig := range current {
		old, ok := prev[dir]
		switch {
		case !ok:
			d.Added = append(d.Added, dir)
		case old.Hash != sig.Hash:
			d.Changed = append(d.Changed, dir)
		default:
			d.Unchanged = append(d.Unchanged, dir)
		}
	}
	for dir := range prev {
		if _, ok := current[dir]; !ok {
			d.Removed = append(d.Removed, dir)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Changed)
	sort.Strings(d.Removed)
	sort.Strings(d.Unchanged)
	return d
}
