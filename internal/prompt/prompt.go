// Package prompt renders the interactive prompt from a format string.
//
//	%d  working directory, with the home directory shown as ~
//	%D  basename of the working directory
//	%b  current branch, or abbreviated commit when detached
//	%B  %b shortened to 15 characters
//	%c  color for the repository status
//	%w  reset color
//	%#  "!!" outside a repository, "&" with uncommitted changes, "@" when clean
//	%%  a literal %
package prompt

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/satococoa/gitsh/internal/env"
	"github.com/satococoa/gitsh/internal/git"
)

const (
	// FormatVariable lets a session override the configured format
	FormatVariable = "gitsh.prompt"

	DefaultFormat = "%D %c%B%#%w"

	resetColor     = "\x1b[0m"
	maxBranchWidth = 15
	uninitialized  = "uninitialized"
)

// Prompter builds prompts for one session
type Prompter struct {
	env    *env.Environment
	format string
	getwd  func() (string, error)
	home   func() (string, error)
}

// New returns a Prompter using format unless the session sets gitsh.prompt
func New(e *env.Environment, format string) *Prompter {
	if format == "" {
		format = DefaultFormat
	}
	return &Prompter{env: e, format: format, getwd: os.Getwd, home: os.UserHomeDir}
}

// Prompt renders the current prompt. Repository state is queried at most
// once per call.
func (p *Prompter) Prompt() string {
	format := p.env.Lookup(FormatVariable, p.format)
	r := &render{p: p}

	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 == len(format) {
			b.WriteByte(c)
			continue
		}

		i++
		switch format[i] {
		case 'd':
			b.WriteString(r.dir())
		case 'D':
			b.WriteString(r.dirName())
		case 'b':
			b.WriteString(r.head())
		case 'B':
			b.WriteString(shorten(r.head(), maxBranchWidth))
		case 'c':
			b.WriteString(r.color())
		case 'w':
			if !color.NoColor {
				b.WriteString(resetColor)
			}
		case '#':
			b.WriteString(r.terminator())
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(format[i])
		}
	}
	return b.String()
}

// render caches repository queries for a single prompt
type render struct {
	p        *Prompter
	status   *git.Status
	headName *string
}

func (r *render) getStatus() git.Status {
	if r.status == nil {
		status, err := r.p.env.RepoStatus()
		if err != nil {
			r.p.env.Logger.Debug("prompt status failed", zap.Error(err))
		}
		r.status = &status
	}
	return *r.status
}

func (r *render) head() string {
	if r.headName == nil {
		name := uninitialized
		if r.getStatus().Initialized {
			if head, err := r.p.env.RepoCurrentHead(); err == nil {
				name = head
			}
		}
		r.headName = &name
	}
	return *r.headName
}

func (r *render) dir() string {
	cwd, err := r.p.getwd()
	if err != nil {
		return "?"
	}

	if home, err := r.p.home(); err == nil && home != "" {
		if cwd == home {
			return "~"
		}
		if rel, found := strings.CutPrefix(cwd, home+string(filepath.Separator)); found {
			return filepath.Join("~", rel)
		}
	}
	return cwd
}

func (r *render) dirName() string {
	dir := r.dir()
	if dir == "~" {
		return dir
	}
	return filepath.Base(dir)
}

func (r *render) terminator() string {
	status := r.getStatus()
	switch {
	case !status.Initialized:
		return "!!"
	case !status.Clean():
		return "&"
	default:
		return "@"
	}
}

func (r *render) color() string {
	if color.NoColor {
		return ""
	}

	name, def := StatusColor(r.getStatus())
	sequence, err := r.p.env.RepoConfigColor(name, def)
	if err != nil {
		r.p.env.Logger.Debug("prompt color failed", zap.String("name", name), zap.Error(err))
		return ""
	}
	return sequence
}

// StatusColor returns the config key and default color for a status
func StatusColor(status git.Status) (name, defaultColor string) {
	switch {
	case !status.Initialized:
		return "gitsh.color.uninitialized", "normal red"
	case status.HasUntrackedFiles:
		return "gitsh.color.untracked", "red"
	case status.HasModifiedFiles:
		return "gitsh.color.modified", "yellow"
	default:
		return "gitsh.color.default", "blue"
	}
}

// shorten truncates s to width runes, marking the cut with an ellipsis
func shorten(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
