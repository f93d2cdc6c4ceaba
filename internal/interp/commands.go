package interp

import (
	"go.uber.org/zap"

	"github.com/satococoa/gitsh/internal/command"
	"github.com/satococoa/gitsh/internal/env"
	gitsherrors "github.com/satococoa/gitsh/internal/errors"
)

// GitCommand runs a git subcommand. Session variables whose names contain a
// dot are passed to git as -c overrides.
type GitCommand struct {
	Name string
	Args []string
}

func (*GitCommand) sealed() {}

func (c *GitCommand) Execute(e *env.Environment) (bool, error) {
	args := command.GitConfigArgs(e.ConfigVariables())
	args = append(args, c.Name)
	args = append(args, c.Args...)

	return run(e, command.Git(e.GitCommand(false), args...))
}

// ShellCommand runs a line through the system shell. Arguments are escaped so
// that only glob characters keep a special meaning.
type ShellCommand struct {
	Name string
	Args []string
}

func (*ShellCommand) sealed() {}

func (c *ShellCommand) Execute(e *env.Environment) (bool, error) {
	return run(e, command.Shell(command.ShellLine(c.Name, c.Args)))
}

// run spawns cmd attached to the session's streams
func run(e *env.Environment, cmd command.Command) (bool, error) {
	cmd.Stdin = e.Input
	cmd.Stdout = e.Output
	cmd.Stderr = e.Error

	e.Logger.Debug("spawning process", zap.Strings("argv", cmd.Argv()))

	status, err := e.Runner.Execute(cmd)
	if err != nil {
		return false, gitsherrors.CommandExecutionFailed(cmd.Argv(), err)
	}

	e.Logger.Debug("process exited", zap.String("command", cmd.Name), zap.Int("status", status))
	return status == 0, nil
}
