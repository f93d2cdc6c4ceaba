package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertSuccess(t *testing.T, result Result) {
	t.Helper()
	assert.Equal(t, 0, result.ExitCode, "Expected exit code 0\nstdout: %s\nstderr: %s", result.Stdout, result.Stderr)
}

func AssertExitCode(t *testing.T, result Result, expected int) {
	t.Helper()
	assert.Equal(t, expected, result.ExitCode, "Expected exit code %d\nstdout: %s\nstderr: %s",
		expected, result.Stdout, result.Stderr)
}

func AssertStdout(t *testing.T, result Result, expected string) {
	t.Helper()
	assert.Equal(t, expected, result.Stdout, "stderr: %s", result.Stderr)
}

func AssertOutputContains(t *testing.T, output, expected string) {
	t.Helper()
	assert.Contains(t, output, expected, "Expected output containing '%s', got: %s", expected, output)
}

func AssertOutputNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	assert.NotContains(t, output, unexpected, "Expected output not to contain '%s', got: %s", unexpected, output)
}

func AssertHelpfulError(t *testing.T, output string) {
	t.Helper()

	helpfulElements := []string{
		"Suggestions:",
		"Solutions:",
		"Solution:",
		"Cause:",
		"Tip:",
		"•",
		"Usage:",
	}

	found := false
	for _, element := range helpfulElements {
		if strings.Contains(output, element) {
			found = true
			break
		}
	}

	if !found {
		t.Errorf("Error message does not appear to be helpful. Got: %s", output)
	}
}

func AssertMultipleStringsInOutput(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, exp := range expected {
		assert.Contains(t, output, exp, "Expected output to contain '%s', got: %s", exp, output)
	}
}

func AssertFileExists(t *testing.T, repo *TestRepo, path string) {
	t.Helper()
	assert.True(t, repo.HasFile(path), "Expected file '%s' to exist", path)
}

func AssertFileNotExists(t *testing.T, repo *TestRepo, path string) {
	t.Helper()
	assert.False(t, repo.HasFile(path), "Expected file '%s' not to exist", path)
}

func AssertCurrentBranch(t *testing.T, repo *TestRepo, expected string) {
	t.Helper()
	current := repo.CurrentBranch()
	assert.Equal(t, expected, current, "Expected current branch to be '%s', got: '%s'", expected, current)
}

func AssertBranchExists(t *testing.T, repo *TestRepo, branch string) {
	t.Helper()
	assert.Contains(t, repo.Branches(), branch)
}

func AssertBranchNotExists(t *testing.T, repo *TestRepo, branch string) {
	t.Helper()
	assert.NotContains(t, repo.Branches(), branch)
}

func AssertTrue(t *testing.T, condition bool, message string) {
	t.Helper()
	assert.True(t, condition, message)
}
