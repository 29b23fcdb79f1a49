// Package vcs reads history of the local working copy.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/djjrip/ggloop-bots/internal/boterr"
)

var (
	ErrNoCommit = errors.New("no commit found")
)

// Commit is a line of the commit log.
type Commit struct {
	Hash    string
	Subject string
	Time    time.Time
}

// ShortHash returns the first 7 characters of the hash.
func (c Commit) ShortHash() string {
	return shorten(c.Hash)
}

func shorten(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// Repository is a read-only view of the version control history.
type Repository interface {
	// CommitCountSince counts commits reachable from HEAD that are newer than since.
	CommitCountSince(ctx context.Context, since time.Time) (int, error)

	// LastCommitTime returns the time of the newest commit.
	// If paths are given, only commits that touched them are considered.
	LastCommitTime(ctx context.Context, paths ...string) (time.Time, error)

	// LastCommitShort returns the short hash of HEAD.
	LastCommitShort(ctx context.Context) (string, error)

	// ChangedFilesSince lists files touched by commits newer than since.
	ChangedFilesSince(ctx context.Context, since time.Time) ([]string, error)

	// Log returns at most limit commits newer than since, newest first.
	Log(ctx context.Context, since time.Time, limit int) ([]Commit, error)
}

// Git is a Repository that runs the git command.
type Git struct {
	// Dir is the working copy. Empty means the current directory.
	Dir string

	// Command is the path to git. Empty means "git" in PATH.
	Command string
}

func (g Git) run(ctx context.Context, args ...string) (string, error) {
	command := g.Command
	if command == "" {
		command = "git"
	}

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = g.Dir

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", boterr.New(boterr.ErrGit, err, "git %s", args[0])
		}
		return "", boterr.New(boterr.ErrGit, err, "git %s: %s", args[0], msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

func sinceArg(t time.Time) string {
	return "--since=" + t.UTC().Format(time.RFC3339)
}

func (g Git) CommitCountSince(ctx context.Context, since time.Time) (int, error) {
	out, err := g.run(ctx, "rev-list", "--count", sinceArg(since), "HEAD")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, boterr.New(boterr.ErrGit, err, "unexpected output of git rev-list")
	}
	return n, nil
}

func (g Git) LastCommitTime(ctx context.Context, paths ...string) (time.Time, error) {
	args := []string{"log", "-1", "--format=%ct"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}

	out, err := g.run(ctx, args...)
	if err != nil {
		return time.Time{}, err
	}
	return parseUnixTime(out)
}

func (g Git) LastCommitShort(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", ErrNoCommit
	}
	return shorten(out), nil
}

func (g Git) ChangedFilesSince(ctx context.Context, since time.Time) ([]string, error) {
	out, err := g.run(ctx, "log", sinceArg(since), "--name-only", "--format=")
	if err != nil {
		return nil, err
	}
	return uniqueLines(out), nil
}

func (g Git) Log(ctx context.Context, since time.Time, limit int) ([]Commit, error) {
	out, err := g.run(ctx, "log", sinceArg(since), "--max-count="+strconv.Itoa(limit), "--format=%H|%s|%ct")
	if err != nil {
		return nil, err
	}
	return parseLog(out), nil
}

func parseUnixTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrNoCommit
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, boterr.New(boterr.ErrGit, err, "unexpected commit timestamp")
	}
	return time.Unix(sec, 0), nil
}

func uniqueLines(s string) []string {
	seen := make(map[string]struct{})
	var result []string

	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		result = append(result, l)
	}

	return result
}

// parseLog parses lines of "hash|subject|unixtime".
// The subject may contain '|'.
func parseLog(s string) []Commit {
	var result []Commit

	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)

		first := strings.Index(l, "|")
		last := strings.LastIndex(l, "|")
		if first <= 0 || first == last {
			continue
		}

		t, err := parseUnixTime(l[last+1:])
		if err != nil {
			continue
		}

		subject := l[first+1 : last]
		if subject == "" {
			continue
		}

		result = append(result, Commit{
			Hash:    l[:first],
			Subject: subject,
			Time:    t,
		})
	}

	return result
}
