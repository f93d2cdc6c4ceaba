package interp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satococoa/gitsh/internal/command"
	"github.com/satococoa/gitsh/internal/env/envtest"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		word     string
		expected Command
	}{
		{"status", &GitCommand{Name: "status", Args: []string{"-s"}}},
		{":set", &InternalCommand{Name: "set", Args: []string{"-s"}}},
		{"!ls", &ShellCommand{Name: "ls", Args: []string{"-s"}}},
		{":", &GitCommand{Name: ":", Args: []string{"-s"}}},
		{"!", &GitCommand{Name: "!", Args: []string{"-s"}}},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			handler := Build(tt.word, []string{"-s"})
			assert.Equal(t, tt.expected, handler.Command)
		})
	}
}

func TestGitCommand(t *testing.T) {
	t.Run("argv includes config overrides", func(t *testing.T) {
		s := envtest.NewSession()
		s.Env.Set("user.name", "Alice")
		s.Env.Set("core.pager", "cat")
		s.Env.Set("plain", "not passed")

		ok := Build("commit", []string{"-m", "hello world"}).Execute(s.Env)

		assert.True(t, ok)
		assert.Equal(t, []string{
			"/usr/bin/env git -c core.pager=cat -c user.name=Alice commit -m hello world",
		}, s.Runner.Argvs())
		assert.Equal(t, []string{"git", "-c", "core.pager=cat", "-c", "user.name=Alice", "commit", "-m", "hello world"},
			s.Runner.Executed[0].Args)
	})

	t.Run("custom git command", func(t *testing.T) {
		s := envtest.NewSession()
		s.Env.SetGitCommand("/opt/git/bin/git")

		Build("status", nil).Execute(s.Env)

		require.Len(t, s.Runner.Executed, 1)
		assert.Equal(t, []string{"/opt/git/bin/git", "status"}, s.Runner.Executed[0].Argv())
	})

	t.Run("streams are the session's", func(t *testing.T) {
		s := envtest.NewSession()
		s.Runner.Respond = func(command.Command) (string, int, error) { return "output\n", 0, nil }

		Build("log", nil).Execute(s.Env)

		assert.Equal(t, "output\n", s.Out.String())
		assert.Same(t, s.Err, s.Runner.Executed[0].Stderr)
	})

	t.Run("non-zero exit fails without a message", func(t *testing.T) {
		s := envtest.NewSession()
		s.Runner.Respond = func(command.Command) (string, int, error) { return "", 128, nil }

		assert.False(t, Build("frobnicate", nil).Execute(s.Env))
		assert.Empty(t, s.Err.String())
	})

	t.Run("spawn failure is reported", func(t *testing.T) {
		s := envtest.NewSession()
		s.Runner.Respond = func(command.Command) (string, int, error) {
			return "", 0, errors.New(`exec: "git": executable file not found in $PATH`)
		}

		assert.False(t, Build("status", nil).Execute(s.Env))
		assert.Contains(t, s.Err.String(), "gitsh: failed to run '/usr/bin/env git status'")
		assert.Contains(t, s.Err.String(), "Command not found")
	})
}

func TestShellCommand(t *testing.T) {
	s := envtest.NewSession()

	ok := Build("!echo", []string{"two words", "*.go", "$HOME", "a;b"}).Execute(s.Env)

	assert.True(t, ok)
	require.Len(t, s.Runner.Executed, 1)
	assert.Equal(t, []string{"/bin/sh", "-c", `echo two\ words *.go \$HOME a\;b`}, s.Runner.Executed[0].Argv())
}

func TestShellCommand_Real(t *testing.T) {
	s := envtest.NewSession()
	s.Env.Runner = command.NewRealShellExecutor()

	ok := Build("!printf", []string{"%s|", "$(id)", "a b", "`x`"}).Execute(s.Env)

	assert.True(t, ok)
	assert.Equal(t, "$(id)|a b|`x`|", s.Out.String())
}
