package interp

import (
	"github.com/fatih/color"

	"github.com/satococoa/gitsh/internal/env"
)

// Command is one of GitCommand, InternalCommand or ShellCommand. An error
// return means the command could not do its job and should be reported; a
// false status without an error means the command already reported its own
// failure, as git does.
type Command interface {
	Execute(e *env.Environment) (bool, error)
	sealed()
}

const (
	internalPrefix = ':'
	shellPrefix    = '!'
)

// Build selects the command variant for word by its prefix character and
// wraps it in an ErrorHandler. A word that is only a prefix character is
// passed to git unchanged.
func Build(word string, args []string) *ErrorHandler {
	var cmd Command
	switch {
	case len(word) > 1 && word[0] == internalPrefix:
		cmd = &InternalCommand{Name: word[1:], Args: args}
	case len(word) > 1 && word[0] == shellPrefix:
		cmd = &ShellCommand{Name: word[1:], Args: args}
	default:
		cmd = &GitCommand{Name: word, Args: args}
	}
	return &ErrorHandler{Command: cmd}
}

// ErrorHandler turns a command's error into a message on the error stream and
// a failed status. Every command the evaluator runs goes through one.
type ErrorHandler struct {
	Command Command
}

func (h *ErrorHandler) Execute(e *env.Environment) bool {
	ok, err := h.Command.Execute(e)
	if err != nil {
		Report(e, err)
		return false
	}
	return ok
}

var errorColor = color.New(color.FgRed)

// Report prints err to the session's error stream
func Report(e *env.Environment, err error) {
	errorColor.Fprintf(e.Error, "gitsh: %v\n", err)
}
