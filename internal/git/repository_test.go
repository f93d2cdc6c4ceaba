package git

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satococoa/gitsh/internal/command"
)

// scriptedShell answers git invocations from a table keyed by the git
// arguments joined with spaces
type scriptedShell struct {
	responses map[string]scriptedResponse
	executed  []command.Command
}

type scriptedResponse struct {
	stdout string
	status int
	err    error
}

func (s *scriptedShell) Execute(cmd command.Command) (int, error) {
	s.executed = append(s.executed, cmd)

	key := strings.Join(cmd.Args[1:], " ")
	resp, ok := s.responses[key]
	if !ok {
		return 128, nil
	}
	if resp.err != nil {
		return -1, resp.err
	}
	if cmd.Stdout != nil {
		_, _ = cmd.Stdout.Write([]byte(resp.stdout))
	}
	return resp.status, nil
}

func newScriptedRepo(responses map[string]scriptedResponse) (*Repository, *scriptedShell) {
	shell := &scriptedShell{responses: responses}
	return NewRepository("/repo", shell, []string{"/usr/bin/env", "git"}), shell
}

func TestRepository_UsesGitCommandAndPath(t *testing.T) {
	repo, shell := newScriptedRepo(map[string]scriptedResponse{
		"for-each-ref --format=%(refname:short) refs/heads": {stdout: "main\nfeature\n"},
	})

	branches, err := repo.Branches()

	require.NoError(t, err)
	assert.Equal(t, []string{"main", "feature"}, branches)
	require.Len(t, shell.executed, 1)
	assert.Equal(t, "/usr/bin/env", shell.executed[0].Name)
	assert.Equal(t, "git", shell.executed[0].Args[0])
	assert.Equal(t, "/repo", shell.executed[0].WorkDir)
	assert.Equal(t, "/repo", repo.Path())
}

func TestRepository_DefaultGitCommand(t *testing.T) {
	repo := NewRepository("", &scriptedShell{}, nil)
	assert.Equal(t, DefaultGitCommand, repo.gitCommand)
}

func TestRepository_RemoteBranchesSkipsSymbolicHead(t *testing.T) {
	repo, _ := newScriptedRepo(map[string]scriptedResponse{
		"for-each-ref --format=%(refname:short) refs/remotes": {stdout: "origin/HEAD\norigin/main\norigin\nupstream/dev\n"},
	})

	branches, err := repo.RemoteBranches()

	require.NoError(t, err)
	assert.Equal(t, []string{"origin/main", "upstream/dev"}, branches)
}

func TestRepository_CurrentHead(t *testing.T) {
	t.Run("on a branch", func(t *testing.T) {
		repo, _ := newScriptedRepo(map[string]scriptedResponse{
			"symbolic-ref -q --short HEAD": {stdout: "main\n"},
		})

		head, err := repo.CurrentHead()
		require.NoError(t, err)
		assert.Equal(t, "main", head)
	})

	t.Run("detached", func(t *testing.T) {
		repo, _ := newScriptedRepo(map[string]scriptedResponse{
			"symbolic-ref -q --short HEAD": {status: 1},
			"rev-parse --short HEAD":       {stdout: "abc1234\n"},
		})

		head, err := repo.CurrentHead()
		require.NoError(t, err)
		assert.Equal(t, "abc1234", head)
	})

	t.Run("no commits", func(t *testing.T) {
		repo, _ := newScriptedRepo(map[string]scriptedResponse{})

		_, err := repo.CurrentHead()
		assert.Error(t, err)
	})
}

func TestRepository_Status(t *testing.T) {
	t.Run("inside a repository", func(t *testing.T) {
		repo, _ := newScriptedRepo(map[string]scriptedResponse{
			"status --porcelain": {stdout: "?? x\n"},
		})

		status, err := repo.Status()
		require.NoError(t, err)
		assert.Equal(t, Status{Initialized: true, HasUntrackedFiles: true}, status)
	})

	t.Run("outside a repository", func(t *testing.T) {
		repo, _ := newScriptedRepo(map[string]scriptedResponse{})

		status, err := repo.Status()
		require.NoError(t, err)
		assert.False(t, status.Initialized)
	})

	t.Run("git missing", func(t *testing.T) {
		repo, _ := newScriptedRepo(map[string]scriptedResponse{
			"status --porcelain": {err: exec.ErrNotFound},
		})

		_, err := repo.Status()
		assert.ErrorIs(t, err, exec.ErrNotFound)
	})
}

func TestRepository_Config(t *testing.T) {
	repo, _ := newScriptedRepo(map[string]scriptedResponse{
		"config --get user.name":  {stdout: "Ada Lovelace\n"},
		"config --get user.email": {status: 1},
	})

	value, err := repo.Config("user.name")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", value)

	_, err = repo.Config("user.email")
	assert.True(t, errors.Is(err, ErrConfigNotFound))

	_, err = repo.Config("core.broken")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfigNotFound))
}

func TestRepository_AliasesAndConfigVariables(t *testing.T) {
	repo, _ := newScriptedRepo(map[string]scriptedResponse{
		`config --get-regexp ^alias\.`: {stdout: "alias.co checkout\nalias.lg log --graph\n"},
		"config --list":                {stdout: "user.name=Ada\ncore.editor=vim\nuser.name=Other\n"},
	})

	aliases, err := repo.Aliases()
	require.NoError(t, err)
	assert.Equal(t, []string{"co", "lg"}, aliases)

	keys, err := repo.AvailableConfigVariables()
	require.NoError(t, err)
	assert.Equal(t, []string{"core.editor", "user.name"}, keys)
}

func TestRepository_NoAliases(t *testing.T) {
	repo, _ := newScriptedRepo(map[string]scriptedResponse{
		`config --get-regexp ^alias\.`: {status: 1},
	})

	aliases, err := repo.Aliases()
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestRepository_Colors(t *testing.T) {
	repo, _ := newScriptedRepo(map[string]scriptedResponse{
		"config --get-color gitsh.color.default blue": {stdout: "\x1b[34m"},
		"config --get-color  bold red":                {stdout: "\x1b[1;31m"},
	})

	color, err := repo.ConfigColor("gitsh.color.default", "blue")
	require.NoError(t, err)
	assert.Equal(t, "\x1b[34m", color)

	color, err = repo.Color("bold red")
	require.NoError(t, err)
	assert.Equal(t, "\x1b[1;31m", color)
}
