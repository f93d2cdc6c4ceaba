// Package testutil provides helpers shared across tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// ConfigureTestRepo applies common git configuration used in tests.
//
// The runner is responsible for executing git commands within the provided
// repository directory and should handle errors appropriately.
func ConfigureTestRepo(t *testing.T, repoDir string, runner func(dir string, args ...string)) {
	t.Helper()

	commands := [][]string{
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
		{"config", "commit.gpgsign", "false"},
	}

	for _, args := range commands {
		runner(repoDir, args...)
	}
}

// RequireGit skips the test when no git binary is available.
func RequireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}
}

// RunGit runs git in dir and fails the test on error. It returns trimmed stdout.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1", "HOME="+dir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

// NewGitRepo creates a repository on branch "main" with one commit and
// returns its path. The test is skipped when git is unavailable.
func NewGitRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	dir := t.TempDir()
	RunGit(t, dir, "init", "--quiet")
	ConfigureTestRepo(t, dir, func(dir string, args ...string) {
		RunGit(t, dir, args...)
	})
	RunGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")

	WriteFile(t, filepath.Join(dir, "README.md"), "# Test Repository\n")
	RunGit(t, dir, "add", "README.md")
	RunGit(t, dir, "commit", "--quiet", "-m", "Initial commit")

	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// Chdir switches the working directory for the duration of the test.
func Chdir(t *testing.T, dir string) {
	t.Helper()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldDir) })
}
