package command

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test real shell executor functions
func TestRealShellExecutor(t *testing.T) {
	t.Run("should create real shell executor", func(t *testing.T) {
		// When: creating a real shell executor
		shell := NewRealShellExecutor()

		// Then: should return a valid shell executor
		assert.NotNil(t, shell)
		assert.Implements(t, (*ShellExecutor)(nil), shell)
	})

	t.Run("should stream output to the command's writer", func(t *testing.T) {
		// Given: a real shell executor and an output buffer
		shell := NewRealShellExecutor()
		var out bytes.Buffer

		// When: executing a simple command
		status, err := shell.Execute(Command{Name: "echo", Args: []string{"test output"}, Stdout: &out})

		// Then: should return success and write the output
		require.NoError(t, err)
		assert.Equal(t, 0, status)
		assert.Equal(t, "test output\n", out.String())
	})

	t.Run("should report non-zero exit status without error", func(t *testing.T) {
		shell := NewRealShellExecutor()

		status, err := shell.Execute(Shell("exit 3"))

		require.NoError(t, err)
		assert.Equal(t, 3, status)
	})

	t.Run("should handle command with working directory", func(t *testing.T) {
		shell := NewRealShellExecutor()
		var out bytes.Buffer

		status, err := shell.Execute(Command{Name: "pwd", WorkDir: "/tmp", Stdout: &out})

		require.NoError(t, err)
		assert.Equal(t, 0, status)
		assert.Contains(t, out.String(), "tmp")
	})

	t.Run("should pass extra environment", func(t *testing.T) {
		shell := NewRealShellExecutor()
		var out bytes.Buffer

		cmd := Shell("echo $GITSH_TEST_VALUE")
		cmd.Env = []string{"GITSH_TEST_VALUE=hello"}
		cmd.Stdout = &out
		_, err := shell.Execute(cmd)

		require.NoError(t, err)
		assert.Equal(t, "hello\n", out.String())
	})

	t.Run("should return error when command cannot start", func(t *testing.T) {
		shell := NewRealShellExecutor()

		_, err := shell.Execute(Command{Name: "nonexistent-command-xyz"})

		assert.Error(t, err)
	})
}

func TestOutput(t *testing.T) {
	t.Run("should trim whitespace from output", func(t *testing.T) {
		output, err := Output(NewRealShellExecutor(), Command{Name: "printf", Args: []string{"test\n"}})

		require.NoError(t, err)
		assert.Equal(t, "test", output)
	})

	t.Run("should report exit status and stderr", func(t *testing.T) {
		_, err := Output(NewRealShellExecutor(), Shell("echo oops >&2; exit 2"))

		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 2, exitErr.Status)
		assert.Equal(t, "oops", exitErr.Stderr)
		assert.Contains(t, err.Error(), "exited with status 2: oops")
	})

	t.Run("should split lines", func(t *testing.T) {
		mock := &mockShellExecutor{stdout: "main\n\n  feature \n"}

		lines, err := Lines(mock, Git([]string{"git"}, "branch"))

		require.NoError(t, err)
		assert.Equal(t, []string{"main", "feature"}, lines)
	})

	t.Run("should propagate spawn errors", func(t *testing.T) {
		mock := &mockShellExecutor{err: exec.ErrNotFound}

		_, err := Output(mock, Git([]string{"git"}, "status"))

		assert.ErrorIs(t, err, exec.ErrNotFound)
	})
}

// Test command builder functions
func TestCommandBuilder(t *testing.T) {
	t.Run("should build git command from multi-word git command", func(t *testing.T) {
		cmd := Git([]string{"/usr/bin/env", "git"}, "status", "-s")

		assert.Equal(t, "/usr/bin/env", cmd.Name)
		assert.Equal(t, []string{"git", "status", "-s"}, cmd.Args)
		assert.Equal(t, []string{"/usr/bin/env", "git", "status", "-s"}, cmd.Argv())
		assert.Equal(t, "/usr/bin/env git status -s", cmd.String())
	})

	t.Run("should default to git when no command given", func(t *testing.T) {
		cmd := Git(nil, "log")

		assert.Equal(t, "git", cmd.Name)
		assert.Equal(t, []string{"log"}, cmd.Args)
	})

	t.Run("should build sorted config arguments", func(t *testing.T) {
		args := GitConfigArgs(map[string]string{"user.name": "Ada", "core.pager": "cat"})

		assert.Equal(t, []string{"-c", "core.pager=cat", "-c", "user.name=Ada"}, args)
	})

	t.Run("should build system shell command", func(t *testing.T) {
		cmd := Shell("ls -la")

		assert.Equal(t, "/bin/sh", cmd.Name)
		assert.Equal(t, []string{"-c", "ls -la"}, cmd.Args)
	})
}

func TestShellEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain word", "hello", "hello"},
		{"safe punctuation", "a_b-c.d,e:f/g@h", "a_b-c.d,e:f/g@h"},
		{"glob characters pass through", "foo?.txt *.go [ab]!", `foo?.txt\ *.go\ [ab]!`},
		{"space", "two words", `two\ words`},
		{"semicolon injection", "x; rm -rf /", `x\;\ rm\ -rf\ /`},
		{"command substitution", "$(whoami)", `\$\(whoami\)`},
		{"backticks and quotes", "`id`'\"", "\\`id\\`\\'\\\""},
		{"pipes and redirects", "a|b>c<d&e", `a\|b\>c\<d\&e`},
		{"newline kept", "a\nb", "a\nb"},
		{"backslash kept", `a\b`, `a\b`},
		{"non ascii", "é", `\é`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShellEscape(tt.input))
		})
	}
}

func TestShellEscapeIsInert(t *testing.T) {
	// Given: values full of shell metacharacters
	values := []string{"$HOME", "a;b", "x && y", "'quoted'", "`id`", "a|b", "(sub)", "{a,b}", "~", "#c"}

	for _, value := range values {
		t.Run(value, func(t *testing.T) {
			var out bytes.Buffer
			cmd := Shell(ShellLine("printf '%s'", []string{value}))
			cmd.Stdout = &out

			// When: running printf through the system shell
			status, err := NewRealShellExecutor().Execute(cmd)

			// Then: the value reaches the program unchanged
			require.NoError(t, err)
			assert.Equal(t, 0, status)
			assert.Equal(t, value, out.String())
		})
	}
}

func TestShellLine(t *testing.T) {
	line := ShellLine("cat", []string{"foo?.txt", "my file"})
	assert.Equal(t, "cat foo?.txt my\\ file", line)

	assert.Equal(t, "ls", ShellLine("ls", nil))
	assert.True(t, strings.HasPrefix(ShellLine("echo", []string{"*"}), "echo *"))
}

// Mock implementation for testing
type mockShellExecutor struct {
	executedCommands []Command
	stdout           string
	status           int
	err              error
}

func (m *mockShellExecutor) Execute(cmd Command) (int, error) {
	m.executedCommands = append(m.executedCommands, cmd)
	if m.err != nil {
		return -1, m.err
	}
	if cmd.Stdout != nil {
		_, _ = cmd.Stdout.Write([]byte(m.stdout))
	}
	return m.status, nil
}
