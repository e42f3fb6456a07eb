// Package scan walks a checked-out mods tree and builds per-directory file
// inventories. The tree is supplied by an external checkout; scanning does
// no network I/O.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/modcabinet/cabinetsorter/internal/errors"
	"github.com/modcabinet/cabinetsorter/internal/markdown"
)

// ControlFileName is the per-directory metadata file declaring category
// assignments and links for the mod artifacts in that directory.
const ControlFileName = "cabinet.info"

// DirInfo holds the file inventory of one candidate directory and provides
// case-insensitive lookups over it.
type DirInfo struct {
	Root    string // absolute tree root
	Path    string // absolute directory path
	RelPath string // path relative to Root, slash-separated
	Author  string // first path segment under the root, "" at the root itself
	Control string // actual control file name, "" if absent
	Readme  string // actual README-like file name, "" if absent

	lower  map[string]string   // lower-cased name -> actual name
	extMap map[string][]string // lower-cased extension -> actual names
}

// NewDirInfo builds a DirInfo from a directory path and its file names.
func NewDirInfo(root, dirpath string, names []string) *DirInfo {
	rel, err := filepath.Rel(root, dirpath)
	if err != nil || rel == "." {
		rel = ""
	}
	rel = filepath.ToSlash(rel)

	d := &DirInfo{
		Root:    root,
		Path:    dirpath,
		RelPath: rel,
		lower:   make(map[string]string, len(names)),
		extMap:  make(map[string][]string),
	}
	if rel != "" {
		d.Author = strings.SplitN(rel, "/", 2)[0]
	}

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	for _, n := range sorted {
		lower := strings.ToLower(n)
		d.lower[lower] = n
		if i := strings.LastIndex(lower, "."); i >= 0 && i < len(lower)-1 {
			ext := lower[i+1:]
			d.extMap[ext] = append(d.extMap[ext], n)
		}
		// One README per directory is assumed; when several exist, a
		// markdown-named one beats plain text.
		if strings.Contains(lower, "readme") {
			if d.Readme == "" || markdown.IsMarkdown(n) {
				d.Readme = n
			}
		}
		if lower == ControlFileName {
			d.Control = n
		}
	}
	return d
}

// Has reports whether the directory contains the given file name,
// case-insensitively.
func (d *DirInfo) Has(name string) bool {
	_, ok := d.lower[strings.ToLower(name)]
	return ok
}

// HasExact reports whether the directory contains the given file name with
// exactly this casing. Control-file assignment lines match case-sensitively.
func (d *DirInfo) HasExact(name string) bool {
	actual, ok := d.lower[strings.ToLower(name)]
	return ok && actual == name
}

// Actual returns the on-disk spelling for a case-insensitive name lookup.
func (d *DirInfo) Actual(name string) (string, bool) {
	actual, ok := d.lower[strings.ToLower(name)]
	return actual, ok
}

// FullPath returns the absolute path for a file in this directory.
func (d *DirInfo) FullPath(name string) string {
	if actual, ok := d.Actual(name); ok {
		name = actual
	}
	return filepath.Join(d.Path, name)
}

// Files returns every file name in the directory, sorted.
func (d *DirInfo) Files() []string {
	out := make([]string, 0, len(d.lower))
	for _, actual := range d.lower {
		out = append(out, actual)
	}
	sort.Strings(out)
	return out
}

// WithExt returns all file names carrying the given extension (without dot),
// matched case-insensitively.
func (d *DirInfo) WithExt(ext string) []string {
	return append([]string(nil), d.extMap[strings.ToLower(ext)]...)
}

// ModFiles returns the eligible mod artifact names: every file except the
// control file, the README, and dotfiles.
func (d *DirInfo) ModFiles() []string {
	var out []string
	for _, actual := range d.Files() {
		if actual == d.Control || actual == d.Readme {
			continue
		}
		if strings.HasPrefix(actual, ".") {
			continue
		}
		out = append(out, actual)
	}
	return out
}

// Walk traverses the tree rooted at root and returns a DirInfo for every
// directory containing a control file, in path order. Dot-directories
// (notably .git) are skipped.
func Walk(root string) ([]*DirInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapConfig(err, "resolving tree root")
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, errors.WrapConfig(err, "mods tree root is not readable")
	}

	var dirs []*DirInfo
	err = filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if name := entry.Name(); strings.HasPrefix(name, ".") && path != absRoot {
			return filepath.SkipDir
		}
		names, err := listFiles(path)
		if err != nil {
			return err
		}
		d := NewDirInfo(absRoot, path, names)
		if d.Control != "" {
			dirs = append(dirs, d)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "walking mods tree")
	}
	return dirs, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
