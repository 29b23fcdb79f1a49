package testutil

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/djjrip/ggloop-bots/internal/vcs"
)

// FakeCommit is a commit in FakeRepository.
type FakeCommit struct {
	Hash    string
	Subject string
	Time    time.Time
	Files   []string
}

// FakeRepository is a vcs.Repository backed by a slice.
type FakeRepository struct {
	// Commits have to be ordered newest first.
	Commits []FakeCommit

	// Err is returned from every method if set.
	Err error
}

func (r *FakeRepository) newer(since time.Time) []FakeCommit {
	var cs []FakeCommit
	for _, c := range r.Commits {
		if !c.Time.Before(since) {
			cs = append(cs, c)
		}
	}
	return cs
}

func (r *FakeRepository) CommitCountSince(ctx context.Context, since time.Time) (int, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	return len(r.newer(since)), nil
}

func matchPath(pattern, name string) bool {
	if strings.HasSuffix(pattern, "/") {
		return strings.HasPrefix(name, pattern)
	}
	if ok, _ := path.Match(pattern, name); ok {
		return true
	}
	return strings.HasPrefix(name, pattern+"/")
}

func (r *FakeRepository) LastCommitTime(ctx context.Context, paths ...string) (time.Time, error) {
	if r.Err != nil {
		return time.Time{}, r.Err
	}

	for _, c := range r.Commits {
		if len(paths) == 0 {
			return c.Time, nil
		}
		for _, f := range c.Files {
			for _, p := range paths {
				if matchPath(p, f) {
					return c.Time, nil
				}
			}
		}
	}

	return time.Time{}, vcs.ErrNoCommit
}

func (r *FakeRepository) LastCommitShort(ctx context.Context) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	if len(r.Commits) == 0 {
		return "", vcs.ErrNoCommit
	}
	return vcs.Commit{Hash: r.Commits[0].Hash}.ShortHash(), nil
}

func (r *FakeRepository) ChangedFilesSince(ctx context.Context, since time.Time) ([]string, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	seen := make(map[string]bool)
	var files []string
	for _, c := range r.newer(since) {
		for _, f := range c.Files {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}

func (r *FakeRepository) Log(ctx context.Context, since time.Time, limit int) ([]vcs.Commit, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	var cs []vcs.Commit
	for _, c := range r.newer(since) {
		if len(cs) >= limit {
			break
		}
		cs = append(cs, vcs.Commit{
			Hash:    c.Hash,
			Subject: c.Subject,
			Time:    c.Time,
		})
	}
	return cs, nil
}
