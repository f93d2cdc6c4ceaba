// Package shell runs gitsh sessions: single programs, scripts and the
// interactive read-eval loop.
package shell

import (
	"strings"

	"go.uber.org/zap"

	"github.com/satococoa/gitsh/internal/env"
	gitsherrors "github.com/satococoa/gitsh/internal/errors"
	"github.com/satococoa/gitsh/internal/interp"
	"github.com/satococoa/gitsh/internal/parser"
)

// Interpreter parses and runs source text. It implements env.Interpreter.
type Interpreter struct{}

var _ env.Interpreter = Interpreter{}

// Execute parses input and runs it against e. A parse error is reported and
// nothing runs.
func (i Interpreter) Execute(e *env.Environment, input string) bool {
	return i.continueWith(e, input, true)
}

// continueWith runs input as the next program of a script or session. A
// program with no commands leaves the previous status in place.
func (i Interpreter) continueWith(e *env.Environment, input string, previous bool) bool {
	node, err := parser.Parse(input)
	if err != nil {
		interp.Report(e, err)
		return false
	}
	if _, ok := node.(interp.Noop); ok {
		return previous
	}

	e.Logger.Debug("parsed program", zap.String("input", input), zap.String("tree", describe(node)))
	return node.Execute(e)
}

func describe(node interp.Node) string {
	switch n := node.(type) {
	case interp.Noop:
		return "noop"
	case *interp.LazyCommand:
		return "command"
	case *interp.Multi:
		return "(" + describe(n.Left) + " ; " + describe(n.Right) + ")"
	case *interp.And:
		return "(" + describe(n.Left) + " && " + describe(n.Right) + ")"
	case *interp.Or:
		return "(" + describe(n.Left) + " || " + describe(n.Right) + ")"
	}
	return "?"
}

// LineBuffer collects input lines until they form a complete program, so a
// quote, brace expansion, group or subshell can span several lines.
type LineBuffer struct {
	lines []string
}

// Add appends line. When the buffered text no longer ends inside an open
// construct it is returned with complete set, and the buffer is emptied.
func (b *LineBuffer) Add(line string) (input string, complete bool) {
	b.lines = append(b.lines, line)
	joined := strings.Join(b.lines, "\n")

	if _, err := parser.Parse(joined); gitsherrors.IsIncomplete(err) {
		return "", false
	}

	b.Reset()
	return joined, true
}

// Pending reports whether lines are waiting for the rest of a program
func (b *LineBuffer) Pending() bool {
	return len(b.lines) > 0
}

// Flush returns whatever is buffered and empties the buffer
func (b *LineBuffer) Flush() string {
	joined := strings.Join(b.lines, "\n")
	b.Reset()
	return joined
}

func (b *LineBuffer) Reset() {
	b.lines = nil
}
