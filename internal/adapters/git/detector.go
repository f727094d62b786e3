// Package git attaches repository context to focus sessions using go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/xvierd/tomato/internal/ports"
)

// ShortCommitLen is the number of hash characters kept on session records.
const ShortCommitLen = 7

// ErrNotRepository is returned when no repository contains the directory.
var ErrNotRepository = errors.New("not inside a git repository")

// Detector implements ports.GitDetector.
type Detector struct {
	// CheckClean enables the worktree status scan, which is slow on large
	// repositories.
	CheckClean bool
}

// NewDetector creates a new git detector.
func NewDetector() *Detector {
	return &Detector{}
}

var _ ports.GitDetector = (*Detector)(nil)

// Detect reports the branch and commit of the repository containing
// workingDir. An empty workingDir means the process working directory.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	if workingDir == "" {
		var err error
		workingDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(workingDir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotRepository
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	info := &ports.GitInfo{
		Branch: head.Name().Short(),
		Commit: ShortCommit(head.Hash().String()),
	}
	if !head.Name().IsBranch() {
		info.Branch = "detached"
	}

	if remotes, err := repo.Remotes(); err == nil && len(remotes) > 0 {
		if urls := remotes[0].Config().URLs; len(urls) > 0 {
			info.Repository = RepoSlug(urls[0])
		}
	}

	if d.CheckClean {
		wt, err := repo.Worktree()
		if err != nil {
			return nil, fmt.Errorf("failed to get worktree: %w", err)
		}
		status, err := wt.Status()
		if err != nil {
			return nil, fmt.Errorf("failed to get worktree status: %w", err)
		}
		info.IsClean = status.IsClean()
	}

	return info, nil
}

// RepoSlug turns a remote URL into "owner/name".
func RepoSlug(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), ".git")
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
		if j := strings.Index(url, "/"); j >= 0 {
			url = url[j+1:]
		}
	} else if i := strings.LastIndex(url, ":"); i >= 0 {
		url = url[i+1:]
	}

	parts := strings.Split(url, "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "/" + parts[len(parts)-1]
	}
	return url
}

// ShortCommit returns a shortened commit hash.
func ShortCommit(commit string) string {
	if len(commit) > ShortCommitLen {
		return commit[:ShortCommitLen]
	}
	return commit
}
