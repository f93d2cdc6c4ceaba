package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/satococoa/gitsh/internal/command"
)

// DefaultGitCommand launches whichever git is first on PATH
var DefaultGitCommand = []string{"/usr/bin/env", "git"}

// ErrConfigNotFound is returned by Config when the key is not set
var ErrConfigNotFound = errors.New("config key not found")

// specialHeads are the pseudo-refs offered alongside branches and tags
var specialHeads = []string{"HEAD", "FETCH_HEAD", "ORIG_HEAD", "MERGE_HEAD", "CHERRY_PICK_HEAD"}

// Repository answers read-only queries about the git repository containing
// the working directory by running git subprocesses.
type Repository struct {
	path       string
	shell      command.ShellExecutor
	gitCommand []string
}

// NewRepository creates a repository rooted at path. An empty path means the
// process working directory, which follows ':cd'.
func NewRepository(path string, shell command.ShellExecutor, gitCommand []string) *Repository {
	if len(gitCommand) == 0 {
		gitCommand = DefaultGitCommand
	}
	return &Repository{path: path, shell: shell, gitCommand: gitCommand}
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) git(args ...string) command.Command {
	cmd := command.Git(r.gitCommand, args...)
	cmd.WorkDir = r.path
	return cmd
}

func (r *Repository) output(args ...string) (string, error) {
	return command.Output(r.shell, r.git(args...))
}

func (r *Repository) lines(args ...string) ([]string, error) {
	return command.Lines(r.shell, r.git(args...))
}

func (r *Repository) refs(prefix string) ([]string, error) {
	refs, err := r.lines("for-each-ref", "--format=%(refname:short)", prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}
	return refs, nil
}

// Branches returns local branch names
func (r *Repository) Branches() ([]string, error) {
	return r.refs("refs/heads")
}

// Tags returns tag names
func (r *Repository) Tags() ([]string, error) {
	return r.refs("refs/tags")
}

// RemoteBranches returns remote-tracking branches such as "origin/main",
// skipping symbolic remote HEADs
func (r *Repository) RemoteBranches() ([]string, error) {
	refs, err := r.refs("refs/remotes")
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, ref := range refs {
		if strings.HasSuffix(ref, "/HEAD") || !strings.Contains(ref, "/") {
			continue
		}
		branches = append(branches, ref)
	}
	return branches, nil
}

// Remotes returns configured remote names
func (r *Repository) Remotes() ([]string, error) {
	remotes, err := r.lines("remote")
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}
	return remotes, nil
}

// Heads returns every name a revision argument could start with: branches,
// tags, remote branches and the pseudo-refs present in the git directory
func (r *Repository) Heads() ([]string, error) {
	var heads []string
	for _, list := range []func() ([]string, error){r.Branches, r.Tags, r.RemoteBranches} {
		names, err := list()
		if err != nil {
			return nil, err
		}
		heads = append(heads, names...)
	}

	if gitDir, err := r.output("rev-parse", "--absolute-git-dir"); err == nil {
		for _, name := range specialHeads {
			if _, statErr := os.Stat(filepath.Join(gitDir, name)); statErr == nil {
				heads = append(heads, name)
			}
		}
	}

	slices.Sort(heads)
	return slices.Compact(heads), nil
}

// CurrentHead returns the checked out branch, or the abbreviated commit when
// HEAD is detached
func (r *Repository) CurrentHead() (string, error) {
	if branch, err := r.output("symbolic-ref", "-q", "--short", "HEAD"); err == nil && branch != "" {
		return branch, nil
	}

	sha, err := r.output("rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return sha, nil
}

// Status summarises the working tree. Outside a repository the status is
// reported as uninitialized rather than as an error.
func (r *Repository) Status() (Status, error) {
	output, err := r.output("status", "--porcelain")
	if err != nil {
		var exitErr *command.ExitError
		if errors.As(err, &exitErr) {
			return Status{}, nil
		}
		return Status{}, fmt.Errorf("failed to get status: %w", err)
	}
	return parseStatus(output), nil
}

// Commands returns the names of git subcommands available on this system
func (r *Repository) Commands() ([]string, error) {
	commands, err := r.lines("--list-cmds=main,others,nohelpers")
	if err != nil {
		return nil, fmt.Errorf("failed to list git commands: %w", err)
	}
	slices.Sort(commands)
	return slices.Compact(commands), nil
}

// Aliases returns the names of git aliases from git configuration
func (r *Repository) Aliases() ([]string, error) {
	lines, err := r.lines("config", "--get-regexp", `^alias\.`)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}

	var aliases []string
	for _, line := range lines {
		key, _, _ := strings.Cut(line, " ")
		if name, found := strings.CutPrefix(key, "alias."); found && name != "" {
			aliases = append(aliases, name)
		}
	}
	return aliases, nil
}

// Config returns the value of a git config key, or ErrConfigNotFound
func (r *Repository) Config(name string) (string, error) {
	value, err := r.output("config", "--get", name)
	if err != nil {
		if isNotFound(err) {
			return "", ErrConfigNotFound
		}
		return "", fmt.Errorf("failed to read config %s: %w", name, err)
	}
	return value, nil
}

// AvailableConfigVariables returns every key set in git configuration
func (r *Repository) AvailableConfigVariables() ([]string, error) {
	lines, err := r.lines("config", "--list")
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list config: %w", err)
	}

	var keys []string
	for _, line := range lines {
		key, _, _ := strings.Cut(line, "=")
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return slices.Compact(keys), nil
}

// ConfigColor returns the ANSI sequence for a color config key, falling back
// to defaultColor when the key is unset
func (r *Repository) ConfigColor(name, defaultColor string) (string, error) {
	return r.rawOutput("config", "--get-color", name, defaultColor)
}

// Color returns the ANSI sequence for a git color specification such as
// "bold red"
func (r *Repository) Color(spec string) (string, error) {
	return r.rawOutput("config", "--get-color", "", spec)
}

// rawOutput is output without trimming, for escape sequences
func (r *Repository) rawOutput(args ...string) (string, error) {
	var buf strings.Builder
	cmd := r.git(args...)
	cmd.Stdout = &buf

	status, err := r.shell.Execute(cmd)
	if err != nil {
		return "", err
	}
	if status != 0 {
		return "", &command.ExitError{Command: cmd, Status: status}
	}
	return buf.String(), nil
}

// RevisionName returns the short symbolic name of rev, e.g. "@{-1}"
func (r *Repository) RevisionName(rev string) (string, error) {
	name, err := r.output("rev-parse", "--abbrev-ref", rev)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	return name, nil
}

// MergeBase returns the best common ancestor of two revisions
func (r *Repository) MergeBase(a, b string) (string, error) {
	base, err := r.output("merge-base", a, b)
	if err != nil {
		return "", fmt.Errorf("failed to find merge base of %s and %s: %w", a, b, err)
	}
	return base, nil
}

// TopLevel returns the root directory of the work tree
func (r *Repository) TopLevel() (string, error) {
	root, err := r.output("rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not in a git work tree: %w", err)
	}
	return root, nil
}

// RebaseBase returns the commit an in-progress rebase is replaying onto
func (r *Repository) RebaseBase() (string, error) {
	for _, state := range []string{"rebase-merge/onto", "rebase-apply/onto"} {
		path, err := r.output("rev-parse", "--git-path", state)
		if err != nil {
			return "", fmt.Errorf("failed to locate rebase state: %w", err)
		}
		if !filepath.IsAbs(path) && r.path != "" {
			path = filepath.Join(r.path, path)
		}

		data, err := os.ReadFile(path)
		if err == nil {
			return strings.TrimSpace(string(data)), nil
		}
	}
	return "", fmt.Errorf("no rebase in progress")
}

// isNotFound reports git's "key not set" exit status, which is 1 for config
// lookups
func isNotFound(err error) bool {
	var exitErr *command.ExitError
	return errors.As(err, &exitErr) && exitErr.Status == 1
}
