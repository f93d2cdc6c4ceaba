// Package interp evaluates command trees. Leaves resolve their words against
// the Environment when they run, then dispatch to a git, built-in or shell
// command through the factory.
package interp

import (
	"github.com/satococoa/gitsh/internal/arguments"
	"github.com/satococoa/gitsh/internal/env"
)

// Node is a parsed command tree. Trees are immutable; all state lives in the
// Environment passed to Execute.
type Node interface {
	Execute(e *env.Environment) bool
}

var (
	_ Node              = Noop{}
	_ Node              = (*LazyCommand)(nil)
	_ arguments.Program = (Node)(nil)
)

// Noop is the tree for blank input
type Noop struct{}

func (Noop) Execute(*env.Environment) bool {
	return true
}

// LazyCommand is a single command whose words are resolved only when it runs,
// so variables set by earlier commands on the same line are visible to it.
type LazyCommand struct {
	Args arguments.List
}

func (c *LazyCommand) Execute(e *env.Environment) bool {
	if status, exiting := e.ExitRequested(); exiting {
		return status == 0
	}

	words, err := c.Args.Values(e)
	if err != nil {
		Report(e, err)
		return false
	}
	if len(words) == 0 {
		return true
	}

	return Build(words[0], words[1:]).Execute(e)
}

// Multi runs Left then Right and reports Right's status
type Multi struct {
	Left, Right Node
}

func (m *Multi) Execute(e *env.Environment) bool {
	m.Left.Execute(e)
	return m.Right.Execute(e)
}

// And runs Right only when Left succeeds
type And struct {
	Left, Right Node
}

func (a *And) Execute(e *env.Environment) bool {
	return a.Left.Execute(e) && a.Right.Execute(e)
}

// Or runs Right only when Left fails
type Or struct {
	Left, Right Node
}

func (o *Or) Execute(e *env.Environment) bool {
	return o.Left.Execute(e) || o.Right.Execute(e)
}
