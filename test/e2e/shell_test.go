package e2e

import (
	"strings"
	"testing"

	"github.com/satococoa/gitsh/test/e2e/framework"
)

func TestShellCommands(t *testing.T) {
	env := framework.NewTestEnvironment(t)
	defer env.Cleanup()

	t.Run("BangRunsSystemShell", func(t *testing.T) {
		repo := env.CreateTestRepo("shell-bang")

		result := repo.RunProgram("!echo hello")
		framework.AssertSuccess(t, result)
		framework.AssertStdout(t, result, "hello\n")
	})

	t.Run("ArgumentsAreNotReinterpreted", func(t *testing.T) {
		repo := env.CreateTestRepo("shell-inert")

		result := repo.RunProgram(`!echo '$HOME;*'`)
		framework.AssertSuccess(t, result)
		framework.AssertStdout(t, result, "$HOME;*\n")
	})

	t.Run("ShellExitStatus", func(t *testing.T) {
		repo := env.CreateTestRepo("shell-status")

		result := repo.RunProgram("!false || :echo failed")
		framework.AssertSuccess(t, result)
		framework.AssertStdout(t, result, "failed\n")
	})

	t.Run("ChangeDirectory", func(t *testing.T) {
		repo := env.CreateTestRepo("shell-cd")
		repo.WriteFile("sub/file.txt", "content")

		result := repo.RunProgram(":cd sub && !pwd && :cd && !pwd")
		framework.AssertSuccess(t, result)

		lines := strings.Split(strings.TrimSpace(result.Stdout), "\n")
		framework.AssertTrue(t, len(lines) == 2, "expected two directories: "+result.Stdout)
		if len(lines) == 2 {
			framework.AssertTrue(t, strings.HasSuffix(lines[0], "shell-cd/sub"), "first pwd: "+lines[0])
			framework.AssertTrue(t, strings.HasSuffix(lines[1], "shell-cd"), "second pwd: "+lines[1])
		}
	})

	t.Run("GroupingAndPrecedence", func(t *testing.T) {
		repo := env.CreateTestRepo("shell-groups")

		result := repo.RunProgram(":false && (:echo skipped; :echo skipped) || :echo ran")
		framework.AssertSuccess(t, result)
		framework.AssertStdout(t, result, "ran\n")
	})
}
