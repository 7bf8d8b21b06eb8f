// Package gitinfo reads lightweight repository state for report metadata.
package gitinfo

import (
	"fmt"
	"os/exec"
	"strings"
)

// RepoInfo identifies the git state a scan ran against.
type RepoInfo struct {
	Branch string `json:"branch"`
	Commit string `json:"commit"`
	// Dirty is true when the working tree has uncommitted changes.
	Dirty bool `json:"dirty"`
}

// Describe returns the repository state at repoPath. A path outside a git
// work tree returns an error.
func Describe(repoPath string) (*RepoInfo, error) {
	branch, err := runGit(repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("get branch: %w", err)
	}
	commit, err := runGit(repoPath, "rev-parse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("get commit: %w", err)
	}
	status, err := runGit(repoPath, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	return &RepoInfo{
		Branch: branch,
		Commit: commit,
		Dirty:  status != "",
	}, nil
}

// runGit executes a git command in repoPath and returns trimmed stdout.
func runGit(repoPath string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", repoPath}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "),
				strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}
