// Package cache detects directory-level change between runs and persists the
// results of previous runs. Unchanged directories are never re-parsed; their
// cached records and diagnostics carry forward so every run still produces a
// complete projection.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/modcabinet/cabinetsorter/internal/errors"
	"github.com/modcabinet/cabinetsorter/internal/scan"
)

// FileSignature captures the identity-relevant attributes of one file.
type FileSignature struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	SHA256  string    `json:"sha256"`
}

// DirSignature is the deterministic fingerprint of one directory: every file
// name, size, mtime-independent content hash, folded into a single hash. Two
// directories with the same Hash produce the same parse result.
type DirSignature struct {
	Dir   string          `json:"dir"`
	Hash  string          `json:"hash"`
	Files []FileSignature `json:"files"`
}

// ComputeDir reads every regular file in the directory and builds its
// signature. File order inside the signature follows DirInfo's sorted file
// list, so the fold is deterministic.
func ComputeDir(di *scan.DirInfo) (*DirSignature, error) {
	sig := &DirSignature{Dir: di.RelPath}

	for _, name := range di.Files() {
		full := di.FullPath(name)
		info, err := os.Stat(full)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError,
				fmt.Sprintf("stat %s", name))
		}
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError,
				fmt.Sprintf("reading %s", name))
		}
		sum := sha256.Sum256(data)
		sig.Files = append(sig.Files, FileSignature{
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime().UTC(),
			SHA256:  hex.EncodeToString(sum[:]),
		})
	}

	sig.Hash = fold(sig)
	return sig, nil
}

// fold collapses the per-file content hashes into the directory hash. The
// mtime is deliberately excluded: git checkouts rewrite mtimes without
// changing content, and content is what drives parse results.
func fold(sig *DirSignature) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", sig.Dir)
	for _, f := range sig.Files {
		fmt.Fprintf(h, "%s|%d|%s\n", f.Name, f.Size, f.SHA256)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Content returns the signature entry for a file name, if present.
func (s *DirSignature) Content(name string) (FileSignature, bool) {
	for _, f := range s.Files {
		if f.Name == name {
			return f, true
		}
	}
	return FileSignature{}, false
}
