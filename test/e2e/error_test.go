package e2e

import (
	"testing"

	"github.com/satococoa/gitsh/test/e2e/framework"
)

func TestErrorMessages(t *testing.T) {
	env := framework.NewTestEnvironment(t)
	defer env.Cleanup()

	repo := env.CreateTestRepo("errors")

	t.Run("UnknownBuiltin", func(t *testing.T) {
		result := repo.RunProgram(":frob")
		framework.AssertExitCode(t, result, 1)
		framework.AssertOutputContains(t, result.Stderr, "no such command ':frob'")
		framework.AssertHelpfulError(t, result.Stderr)
	})

	t.Run("BuiltinUsage", func(t *testing.T) {
		result := repo.RunProgram(":set onlyname")
		framework.AssertExitCode(t, result, 1)
		framework.AssertOutputContains(t, result.Stderr, "Usage: :set")
	})

	t.Run("ParseErrorRunsNothing", func(t *testing.T) {
		result := repo.RunProgram("branch never && )")
		framework.AssertExitCode(t, result, 1)
		framework.AssertOutputContains(t, result.Stderr, "parse error")
		framework.AssertBranchNotExists(t, repo, "never")
	})

	t.Run("UnterminatedInput", func(t *testing.T) {
		result := repo.RunScript(":echo 'never closed\n")
		framework.AssertExitCode(t, result, 1)
		framework.AssertOutputContains(t, result.Stderr, "unterminated")
		framework.AssertOutputNotContains(t, result.Stdout, "never closed")
	})

	t.Run("GitCommandNotFound", func(t *testing.T) {
		result := repo.RunGitsh("--git", "no-such-git-binary", "-c", "status")
		framework.AssertExitCode(t, result, 1)
		framework.AssertOutputContains(t, result.Stderr, "no-such-git-binary")
		framework.AssertHelpfulError(t, result.Stderr)
	})

	t.Run("OutsideRepository", func(t *testing.T) {
		dir := env.CreateNonRepoDir("not-a-repo")

		result := dir.RunProgram(":echo $_head")
		framework.AssertExitCode(t, result, 1)
		framework.AssertOutputContains(t, result.Stderr, "variable '_head' is not set")
	})
}
