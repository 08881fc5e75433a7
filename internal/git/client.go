// Package git manages the blog repository checkout using go-git.
package git

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/kcuzner/rstblog/internal/errors"
	"github.com/kcuzner/rstblog/internal/logfields"
)

// Client handles Git operations for the single configured repository.
type Client struct {
	url       string
	branch    string
	directory string
}

// NewClient creates a Git client for the repository at url, checked out
// into directory.
func NewClient(url, branch, directory string) *Client {
	if branch == "" {
		branch = "main"
	}
	return &Client{url: url, branch: branch, directory: directory}
}

// Directory returns the local checkout path.
func (c *Client) Directory() string { return c.directory }

// Clone creates the initial repository clone. Already cloned is not an
// error; the operation is idempotent so the setup task can be re-run.
func (c *Client) Clone(ctx context.Context) error {
	if c.exists() {
		slog.Debug("Repository already cloned", logfields.Path(c.directory))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.directory), 0o755); err != nil {
		return errors.FileSystemError("create clone parent directory", err)
	}

	slog.Info("Cloning repository", logfields.Repository(c.url), logfields.Path(c.directory))
	_, err := gogit.PlainCloneContext(ctx, c.directory, false, &gogit.CloneOptions{
		URL:           c.url,
		ReferenceName: plumbing.NewBranchReferenceName(c.branch),
		SingleBranch:  true,
	})
	if err != nil {
		return errors.GitError("clone", err).WithContext("url", c.url)
	}
	return nil
}

// Update fast-forwards the checkout to the latest remote state, cloning
// first if the checkout is missing.
func (c *Client) Update(ctx context.Context) error {
	if !c.exists() {
		slog.Debug("Repository missing, cloning", logfields.Path(c.directory))
		return c.Clone(ctx)
	}

	repo, err := gogit.PlainOpen(c.directory)
	if err != nil {
		return errors.GitError("open", err).WithContext("path", c.directory)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return errors.GitError("worktree", err)
	}

	slog.Info("Updating repository", logfields.Repository(c.url), logfields.Path(c.directory))
	err = wt.PullContext(ctx, &gogit.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(c.branch),
		SingleBranch:  true,
	})
	if err != nil && err != gogit.NoErrAlreadyUpToDate {
		return errors.GitError("pull", err).WithContext("url", c.url)
	}

	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Repository up to date", slog.String("commit", ref.Hash().String()[:8]))
	}
	return nil
}

func (c *Client) exists() bool {
	_, err := os.Stat(filepath.Join(c.directory, ".git"))
	return err == nil
}
