package adapters

import (
	"context"
	"fmt"
	"os"
	"strings"

	ghauth "github.com/cli/go-gh/pkg/auth"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	transport "github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/forgepm/forge/internal/domain"
)

// GitCloner clones and updates recipe tree repositories using go-git.
// It resolves authentication from the environment in priority order:
// an SSH private key (FORGE_SSH_KEY), then an HTTP token
// (FORGE_GIT_TOKEN), then gh CLI's stored credentials for github.com
// HTTPS URLs, then anonymous access.
type GitCloner struct {
	logger domain.Logger
}

// NewGitCloner creates a cloner that logs through the given logger.
func NewGitCloner(logger domain.Logger) *GitCloner {
	if logger == nil {
		logger = domain.NewNoopLogger()
	}
	return &GitCloner{logger: logger}
}

// Clone clones url into dir at the given ref (branch, tag, or empty for
// the default branch).
func (c *GitCloner) Clone(ctx context.Context, url, dir, ref string) error {
	opts := &git.CloneOptions{
		URL:      url,
		Progress: nil,
	}
	if auth := resolveAuth(url); auth != nil {
		opts.Auth = auth
	}
	if ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref)
	}
	c.logger.Info(ctx, "cloning repository", "url", url, "dir", dir, "ref", ref)
	_, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		return fmt.Errorf("clone %s: %w", url, err)
	}
	return nil
}

// Sync fetches and fast-forwards an existing clone at dir to the tip of
// its configured remote.
func (c *GitCloner) Sync(ctx context.Context, dir string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("open %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree %s: %w", dir, err)
	}

	remotes, err := repo.Remotes()
	var auth transport.AuthMethod
	if err == nil && len(remotes) > 0 && len(remotes[0].Config().URLs) > 0 {
		auth = resolveAuth(remotes[0].Config().URLs[0])
	}

	c.logger.Info(ctx, "syncing repository", "dir", dir)
	err = wt.PullContext(ctx, &git.PullOptions{Auth: auth})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("pull %s: %w", dir, err)
	}
	return nil
}

// Head returns the current commit hash of the clone at dir.
func (c *GitCloner) Head(ctx context.Context, dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", dir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("head %s: %w", dir, err)
	}
	return head.Hash().String(), nil
}

func resolveAuth(url string) transport.AuthMethod {
	if keyPath := os.Getenv("FORGE_SSH_KEY"); keyPath != "" && strings.HasPrefix(url, "git@") {
		auth, err := gitssh.NewPublicKeysFromFile("git", keyPath, os.Getenv("FORGE_SSH_KEY_PASSPHRASE"))
		if err == nil {
			return auth
		}
	}
	if token := os.Getenv("FORGE_GIT_TOKEN"); token != "" && (strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")) {
		return &http.BasicAuth{
			Username: "forge",
			Password: token,
		}
	}
	if isGitHubHTTPSURL(url) {
		if token, err := ghauth.TokenForHost("github.com"); err == nil && token != "" {
			return &http.BasicAuth{
				Username: "forge",
				Password: token,
			}
		}
	}
	return nil
}

func isGitHubHTTPSURL(url string) bool {
	return (strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")) &&
		strings.Contains(url, "github.com/")
}
