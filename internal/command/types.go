package command

import (
	"fmt"
	"io"
	"strings"
)

// Command represents a process to be spawned
type Command struct {
	Name    string   // Executable (e.g., "git", "/bin/sh")
	Args    []string // Command arguments
	WorkDir string   // Optional working directory
	Env     []string // Extra KEY=VALUE pairs appended to the inherited environment
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Argv returns the full argument vector including the executable
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the argument vector for logs and messages
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// ShellExecutor abstracts the actual process spawning. Execute blocks until the
// process exits and returns its exit status; a non-zero status is not an error.
// An error means the process could not be started or did not exit normally.
type ShellExecutor interface {
	Execute(cmd Command) (int, error)
}

// ExitError is returned by Output when the process exits with a non-zero status
type ExitError struct {
	Command Command
	Status  int
	Stderr  string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command.String(), e.Status)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}
