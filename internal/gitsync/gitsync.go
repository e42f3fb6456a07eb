// Package gitsync keeps checked-out mods trees current. Trees are plain git
// clones maintained out-of-band; gitsync pulls them and reports whether HEAD
// moved, so a daemon can skip runs when nothing changed upstream.
package gitsync

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/modcabinet/cabinetsorter/internal/errors"
	"github.com/modcabinet/cabinetsorter/internal/logfields"
	"github.com/modcabinet/cabinetsorter/internal/util/sets"
)

// PullResult reports the outcome of updating one tree.
type PullResult struct {
	Head    string
	Changed bool
}

// Pull fast-forwards the clone at path from origin. It returns the resulting
// HEAD hash and whether it moved. A tree that is not a git repository is an
// error; callers decide whether that is fatal.
func Pull(path string, logger *slog.Logger) (PullResult, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return PullResult{}, errors.Wrap(err, errors.CategoryGit, errors.SeverityError,
			fmt.Sprintf("opening repository at %s", path))
	}

	before, err := repo.Head()
	if err != nil {
		return PullResult{}, errors.Wrap(err, errors.CategoryGit, errors.SeverityError, "resolving HEAD")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return PullResult{}, errors.Wrap(err, errors.CategoryGit, errors.SeverityError, "opening worktree")
	}

	err = worktree.Pull(&git.PullOptions{RemoteName: "origin"})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return PullResult{}, errors.Wrap(err, errors.CategoryGit, errors.SeverityError,
			fmt.Sprintf("pulling %s", path))
	}

	after, err := repo.Head()
	if err != nil {
		return PullResult{}, errors.Wrap(err, errors.CategoryGit, errors.SeverityError, "resolving HEAD after pull")
	}

	res := PullResult{
		Head:    after.Hash().String(),
		Changed: before.Hash() != after.Hash(),
	}
	if res.Changed {
		logger.Info("tree updated",
			logfields.Tree(path),
			slog.String("commit", res.Head[:8]))
	} else {
		logger.Debug("tree already up to date", logfields.Tree(path))
	}
	return res, nil
}

// RestoreMTimes rewrites file mtimes to their last-commit timestamps. A
// fresh clone stamps every file with checkout time, which would make every
// mod look newly modified; walking the log newest-first and touching each
// path once restores meaningful timestamps.
func RestoreMTimes(path string, logger *slog.Logger) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return errors.Wrap(err, errors.CategoryGit, errors.SeverityError,
			fmt.Sprintf("opening repository at %s", path))
	}

	head, err := repo.Head()
	if err != nil {
		return errors.Wrap(err, errors.CategoryGit, errors.SeverityError, "resolving HEAD")
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return errors.Wrap(err, errors.CategoryGit, errors.SeverityError, "reading HEAD commit")
	}
	tree, err := commit.Tree()
	if err != nil {
		return errors.Wrap(err, errors.CategoryGit, errors.SeverityError, "reading HEAD tree")
	}

	remaining := sets.New[string]()
	err = tree.Files().ForEach(func(f *object.File) error {
		remaining.Add(f.Name)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryGit, errors.SeverityError, "listing tracked files")
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return errors.Wrap(err, errors.CategoryGit, errors.SeverityError, "walking commit log")
	}
	defer iter.Close()

	restored := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if remaining.Len() == 0 {
			return object.ErrCanceled
		}
		stats, err := c.Stats()
		if err != nil {
			// Merge commits without a computable diff are skipped.
			return nil
		}
		when := c.Committer.When
		for _, st := range stats {
			if !remaining.Has(st.Name) {
				continue
			}
			remaining.Delete(st.Name)
			full := filepath.Join(path, filepath.FromSlash(st.Name))
			if err := os.Chtimes(full, when, when); err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return err
			}
			restored++
		}
		return nil
	})
	if err != nil && err != object.ErrCanceled {
		return errors.Wrap(err, errors.CategoryGit, errors.SeverityError, "restoring file mtimes")
	}

	logger.Info("restored file mtimes", logfields.Tree(path), logfields.Count(restored))
	return nil
}
