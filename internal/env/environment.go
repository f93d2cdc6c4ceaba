package env

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/satococoa/gitsh/internal/command"
	gitsherrors "github.com/satococoa/gitsh/internal/errors"
	"github.com/satococoa/gitsh/internal/git"
)

const (
	// DefaultGitCommand is used when gitsh.gitCommand is not set
	DefaultGitCommand = "/usr/bin/env git"
	// GitCommandVariable names the variable that overrides the git command
	GitCommandVariable = "gitsh.gitCommand"
)

// Interpreter evaluates command-language source. The session installs one so
// that built-ins such as ':source' can run nested programs.
type Interpreter interface {
	Execute(e *Environment, input string) bool
}

// Environment is the mutable state of one session. It is owned by a single
// goroutine; Clone gives nested programs an independent copy of the variables.
type Environment struct {
	Input  io.Reader
	Output io.Writer
	Error  io.Writer

	Runner      command.ShellExecutor
	Logger      *zap.Logger
	Magic       MagicVariables
	Interpreter Interpreter

	ConfigDirectory string

	repo       Repository
	variables  map[string]string
	exitStatus int
	exiting    bool
}

// New creates an Environment over repo using runner for external processes.
// Streams default to the process's standard streams.
func New(repo Repository, runner command.ShellExecutor) *Environment {
	return &Environment{
		Input:     os.Stdin,
		Output:    os.Stdout,
		Error:     os.Stderr,
		Runner:    runner,
		Logger:    zap.NewNop(),
		Magic:     NewMagicVariables(repo),
		repo:      repo,
		variables: make(map[string]string),
	}
}

// Clone returns a copy whose variable bindings are independent of e's.
func (e *Environment) Clone() *Environment {
	clone := *e
	clone.variables = maps.Clone(e.variables)
	clone.exiting = false
	clone.exitStatus = 0
	return &clone
}

// Get resolves name: magic variables first, then session variables, then git
// configuration. A name missing from every tier is an UnsetVariableError.
func (e *Environment) Get(name string) (string, error) {
	if value, ok := e.Magic.Fetch(name); ok {
		return value, nil
	}

	if value, ok := e.variables[name]; ok {
		return value, nil
	}

	value, err := e.repo.Config(name)
	if err == nil {
		e.Logger.Debug("variable resolved from git config", zap.String("name", name))
		return value, nil
	}
	if !errors.Is(err, git.ErrConfigNotFound) {
		e.Logger.Debug("git config lookup failed", zap.String("name", name), zap.Error(err))
	}

	return "", gitsherrors.UnsetVariable(name)
}

// Lookup is Get with a fallback value instead of an error
func (e *Environment) Lookup(name, defaultValue string) string {
	value, err := e.Get(name)
	if err != nil {
		return defaultValue
	}
	return value
}

// Set binds a session variable
func (e *Environment) Set(name, value string) {
	e.variables[name] = value
}

// Unset removes a session variable and reports whether it was bound
func (e *Environment) Unset(name string) bool {
	_, ok := e.variables[name]
	delete(e.variables, name)
	return ok
}

// AvailableVariables returns the sorted union of magic, session and git
// config variable names
func (e *Environment) AvailableVariables() []string {
	names := slices.Collect(maps.Keys(e.variables))
	names = append(names, e.Magic.Available()...)

	if keys, err := e.repo.AvailableConfigVariables(); err == nil {
		names = append(names, keys...)
	}

	slices.Sort(names)
	return slices.Compact(names)
}

// ConfigVariables returns session variables that look like git config keys
// (contain a dot). They are passed to git as -c overrides.
func (e *Environment) ConfigVariables() map[string]string {
	config := make(map[string]string)
	for key, value := range e.variables {
		if strings.Contains(key, ".") && !strings.HasPrefix(key, "gitsh.") {
			config[key] = value
		}
	}
	return config
}

// GitCommand returns the argv prefix used to launch git. With forceDefault the
// gitsh.gitCommand override is ignored.
func (e *Environment) GitCommand(forceDefault bool) []string {
	gitCommand := DefaultGitCommand
	if !forceDefault {
		gitCommand = e.Lookup(GitCommandVariable, DefaultGitCommand)
	}

	fields := strings.Fields(gitCommand)
	if len(fields) == 0 {
		return strings.Fields(DefaultGitCommand)
	}
	return fields
}

// SetGitCommand overrides the git command for this session
func (e *Environment) SetGitCommand(gitCommand string) {
	e.Set(GitCommandVariable, gitCommand)
}

// RequestExit asks the session to stop after the current command
func (e *Environment) RequestExit(status int) {
	e.exiting = true
	e.exitStatus = status
}

// ExitRequested reports whether ':exit' ran and with which status
func (e *Environment) ExitRequested() (int, bool) {
	return e.exitStatus, e.exiting
}

func (e *Environment) Print(a ...any) {
	fmt.Fprint(e.Output, a...)
}

func (e *Environment) Println(a ...any) {
	fmt.Fprintln(e.Output, a...)
}

func (e *Environment) Printf(format string, a ...any) {
	fmt.Fprintf(e.Output, format, a...)
}

// PrintError writes a line to the error stream
func (e *Environment) PrintError(a ...any) {
	fmt.Fprintln(e.Error, a...)
}

// TTY reports whether input comes from a terminal
func (e *Environment) TTY() bool {
	f, ok := e.Input.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (e *Environment) RepoBranches() ([]string, error) {
	return e.repo.Branches()
}

func (e *Environment) RepoTags() ([]string, error) {
	return e.repo.Tags()
}

func (e *Environment) RepoRemotes() ([]string, error) {
	return e.repo.Remotes()
}

func (e *Environment) RepoHeads() ([]string, error) {
	return e.repo.Heads()
}

func (e *Environment) RepoCurrentHead() (string, error) {
	return e.repo.CurrentHead()
}

func (e *Environment) RepoStatus() (git.Status, error) {
	return e.repo.Status()
}

// RepoConfigColor returns the ANSI sequence for a color setting. A session
// variable holding a color specification takes precedence over git config.
func (e *Environment) RepoConfigColor(name, defaultColor string) (string, error) {
	if override, ok := e.variables[name]; ok && override != "" {
		return e.repo.Color(override)
	}
	return e.repo.ConfigColor(name, defaultColor)
}

// GitCommands returns git's subcommand names
func (e *Environment) GitCommands() ([]string, error) {
	return e.repo.Commands()
}

// GitAliases returns git aliases plus session-defined alias.* variables
func (e *Environment) GitAliases() ([]string, error) {
	aliases, err := e.repo.Aliases()
	if err != nil {
		return nil, err
	}

	for key := range e.variables {
		if name, found := strings.CutPrefix(key, "alias."); found && name != "" {
			aliases = append(aliases, name)
		}
	}

	slices.Sort(aliases)
	return slices.Compact(aliases), nil
}
