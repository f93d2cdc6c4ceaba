// Package arguments models the words of a command before evaluation. Each
// Argument expands to zero or more strings against an Environment at the
// moment its command runs, never at parse time.
package arguments

import (
	"bytes"
	"strings"

	"go.uber.org/zap"

	"github.com/satococoa/gitsh/internal/env"
)

// Argument is a deferred command word
type Argument interface {
	Values(e *env.Environment) ([]string, error)
}

// Program is a parsed command tree that a Subshell can run
type Program interface {
	Execute(e *env.Environment) bool
}

// String is a literal word
type String struct {
	Value string
}

func (s String) Values(*env.Environment) ([]string, error) {
	return []string{s.Value}, nil
}

// Variable is a $name reference
type Variable struct {
	Name string
}

func (v Variable) Values(e *env.Environment) ([]string, error) {
	value, err := e.Get(v.Name)
	if err != nil {
		return nil, err
	}
	return []string{value}, nil
}

// Composite joins adjacent parts of a single word, such as a literal prefix
// followed by a brace expansion. The result is the cross product of every
// part's values, with the rightmost part varying fastest.
type Composite struct {
	Parts []Argument
}

func (c Composite) Values(e *env.Environment) ([]string, error) {
	product := []string{""}
	for _, part := range c.Parts {
		values, err := part.Values(e)
		if err != nil {
			return nil, err
		}

		next := make([]string, 0, len(product)*len(values))
		for _, prefix := range product {
			for _, value := range values {
				next = append(next, prefix+value)
			}
		}
		product = next
	}
	return product, nil
}

// BraceExpansion is a {a,b,c} group. Its values are the values of each
// option in order.
type BraceExpansion struct {
	Options []Argument
}

func (b BraceExpansion) Values(e *env.Environment) ([]string, error) {
	var values []string
	for _, option := range b.Options {
		optionValues, err := option.Values(e)
		if err != nil {
			return nil, err
		}
		values = append(values, optionValues...)
	}
	return values, nil
}

// Subshell is a $(...) command substitution. The program runs against a copy
// of the environment, so variables it sets are discarded, and its output is
// captured. Unquoted output splits on whitespace; Quoted output is a single
// value with trailing newlines removed.
type Subshell struct {
	Program Program
	Quoted  bool
}

func (s Subshell) Values(e *env.Environment) ([]string, error) {
	var out bytes.Buffer
	nested := e.Clone()
	nested.Output = &out

	status := s.Program.Execute(nested)
	e.Logger.Debug("subshell finished",
		zap.Bool("success", status),
		zap.Int("bytes", out.Len()),
		zap.Bool("quoted", s.Quoted))

	if s.Quoted {
		return []string{strings.TrimRight(out.String(), "\n")}, nil
	}
	return strings.Fields(out.String()), nil
}

// List is the sequence of words making up one command
type List []Argument

func (l List) Values(e *env.Environment) ([]string, error) {
	var values []string
	for _, arg := range l {
		argValues, err := arg.Values(e)
		if err != nil {
			return nil, err
		}
		values = append(values, argValues...)
	}
	return values, nil
}
