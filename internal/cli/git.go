package cli

import (
	"fmt"
	"os/exec"
	"strings"
)

// headCommit returns the workspace's HEAD commit, refusing a dirty tree so
// every submitted run points at code that actually exists upstream.
func headCommit(root string) (string, error) {
	out, err := exec.Command("git", "-C", root, "rev-parse", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD (is %s a git checkout?): %w", root, err)
	}
	commit := strings.TrimSpace(string(out))

	status, err := exec.Command("git", "-C", root, "status", "--porcelain").Output()
	if err != nil {
		return "", fmt.Errorf("check working tree: %w", err)
	}
	if strings.TrimSpace(string(status)) != "" {
		return "", fmt.Errorf("working tree is dirty: commit or stash before submitting")
	}

	return commit, nil
}
