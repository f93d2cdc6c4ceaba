// Package envtest provides in-memory collaborators for tests that need an
// Environment without a real git repository.
package envtest

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/satococoa/gitsh/internal/command"
	"github.com/satococoa/gitsh/internal/env"
	"github.com/satococoa/gitsh/internal/git"
)

// FakeRepository is an env.Repository backed by fields
type FakeRepository struct {
	BranchNames  []string
	TagNames     []string
	RemoteNames  []string
	HeadNames    []string
	Head         string
	State        git.Status
	CommandNames []string
	AliasNames   []string
	ConfigValues map[string]string
	Revisions    map[string]string
	Root         string
	Onto         string
	Err          error
}

var _ env.Repository = (*FakeRepository)(nil)

func (r *FakeRepository) Branches() ([]string, error) { return r.BranchNames, r.Err }
func (r *FakeRepository) Tags() ([]string, error)     { return r.TagNames, r.Err }
func (r *FakeRepository) Remotes() ([]string, error)  { return r.RemoteNames, r.Err }
func (r *FakeRepository) Heads() ([]string, error)    { return r.HeadNames, r.Err }
func (r *FakeRepository) Commands() ([]string, error) { return r.CommandNames, r.Err }
func (r *FakeRepository) Aliases() ([]string, error)  { return slices.Clone(r.AliasNames), r.Err }

func (r *FakeRepository) Status() (git.Status, error) { return r.State, r.Err }

func (r *FakeRepository) CurrentHead() (string, error) {
	if r.Head == "" {
		return "", fmt.Errorf("no HEAD")
	}
	return r.Head, nil
}

func (r *FakeRepository) Config(name string) (string, error) {
	if value, ok := r.ConfigValues[name]; ok {
		return value, nil
	}
	return "", git.ErrConfigNotFound
}

func (r *FakeRepository) AvailableConfigVariables() ([]string, error) {
	keys := make([]string, 0, len(r.ConfigValues))
	for key := range r.ConfigValues {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

func (r *FakeRepository) ConfigColor(name, defaultColor string) (string, error) {
	if value, ok := r.ConfigValues[name]; ok {
		return r.Color(value)
	}
	return r.Color(defaultColor)
}

// Color renders a specification as "<spec>" so tests can see which one won
func (r *FakeRepository) Color(spec string) (string, error) {
	return "<" + spec + ">", nil
}

func (r *FakeRepository) RevisionName(rev string) (string, error) {
	if name, ok := r.Revisions[rev]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown revision %s", rev)
}

func (r *FakeRepository) MergeBase(a, b string) (string, error) {
	return r.RevisionName(a + "..." + b)
}

func (r *FakeRepository) TopLevel() (string, error) {
	if r.Root == "" {
		return "", fmt.Errorf("not a work tree")
	}
	return r.Root, nil
}

func (r *FakeRepository) RebaseBase() (string, error) {
	if r.Onto == "" {
		return "", fmt.Errorf("no rebase in progress")
	}
	return r.Onto, nil
}

// Runner is a command.ShellExecutor that records every command. Respond, when
// set, decides the output and status; otherwise commands succeed silently.
type Runner struct {
	Executed []command.Command
	Respond  func(cmd command.Command) (stdout string, status int, err error)
}

func (r *Runner) Execute(cmd command.Command) (int, error) {
	r.Executed = append(r.Executed, cmd)
	if r.Respond == nil {
		return 0, nil
	}

	stdout, status, err := r.Respond(cmd)
	if err != nil {
		return -1, err
	}
	if cmd.Stdout != nil && stdout != "" {
		_, _ = cmd.Stdout.Write([]byte(stdout))
	}
	return status, nil
}

// Argvs returns the recorded commands as joined argument vectors
func (r *Runner) Argvs() []string {
	argvs := make([]string, 0, len(r.Executed))
	for _, cmd := range r.Executed {
		argvs = append(argvs, strings.Join(cmd.Argv(), " "))
	}
	return argvs
}

// Session bundles an Environment with the buffers its streams write to
type Session struct {
	Env    *env.Environment
	Repo   *FakeRepository
	Runner *Runner
	Out    *bytes.Buffer
	Err    *bytes.Buffer
}

// NewSession returns an Environment over a FakeRepository and Runner, with
// output and error captured in buffers
func NewSession() *Session {
	repo := &FakeRepository{ConfigValues: map[string]string{}, Revisions: map[string]string{}}
	runner := &Runner{}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	e := env.New(repo, runner)
	e.Input = strings.NewReader("")
	e.Output = out
	e.Error = errOut

	return &Session{Env: e, Repo: repo, Runner: runner, Out: out, Err: errOut}
}
