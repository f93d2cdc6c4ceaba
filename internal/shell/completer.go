package shell

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/satococoa/gitsh/internal/env"
	"github.com/satococoa/gitsh/internal/interp"
)

// Completer offers tab completions: built-ins, git commands and aliases in
// command position, $variables, and revisions and paths for arguments.
type Completer struct {
	env *env.Environment
}

var _ readline.AutoCompleter = (*Completer)(nil)

func NewCompleter(e *env.Environment) *Completer {
	return &Completer{env: e}
}

// Do implements readline.AutoCompleter. It returns the text to append for
// each candidate and the length of the word being completed.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	word, candidates := c.Complete(string(line[:pos]))

	suffixes := make([][]rune, 0, len(candidates))
	for _, candidate := range candidates {
		suffixes = append(suffixes, []rune(candidate[len(word):]))
	}
	return suffixes, len([]rune(word))
}

// Complete returns the word under the cursor at the end of text and the
// completions for it. Each completion starts with the word and ends with a
// space, or a slash for directories.
func (c *Completer) Complete(text string) (string, []string) {
	start := strings.LastIndexAny(text, " \t;&|(") + 1
	word := text[start:]

	var candidates []string
	switch {
	case strings.HasPrefix(word, "$"):
		candidates = prefixed(word[1:], c.env.AvailableVariables(), "$", " ")
	case isCommandPosition(text[:start]):
		candidates = c.commands(word)
	default:
		candidates = prefixed(word, c.heads(), "", " ")
		candidates = append(candidates, paths(word)...)
	}

	slices.Sort(candidates)
	return word, slices.Compact(candidates)
}

// isCommandPosition reports whether a word starting after before would be
// the command word
func isCommandPosition(before string) bool {
	trimmed := strings.TrimRight(before, " \t")
	if trimmed == "" {
		return true
	}
	return strings.ContainsRune(";&|(", rune(trimmed[len(trimmed)-1]))
}

func (c *Completer) commands(word string) []string {
	switch {
	case strings.HasPrefix(word, ":"):
		return prefixed(word[1:], interp.BuiltinNames(), ":", " ")
	case strings.HasPrefix(word, "!"):
		return nil
	}

	var names []string
	if commands, err := c.env.GitCommands(); err == nil {
		names = append(names, commands...)
	} else {
		c.env.Logger.Debug("completion: git commands unavailable", zap.Error(err))
	}
	if aliases, err := c.env.GitAliases(); err == nil {
		names = append(names, aliases...)
	}
	return prefixed(word, names, "", " ")
}

func (c *Completer) heads() []string {
	heads, err := c.env.RepoHeads()
	if err != nil {
		c.env.Logger.Debug("completion: heads unavailable", zap.Error(err))
		return nil
	}
	return heads
}

func prefixed(prefix string, names []string, lead, trail string) []string {
	var matches []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, lead+name+trail)
		}
	}
	return matches
}

// paths completes file names relative to the working directory. Hidden
// files are offered only when the word starts with a dot.
func paths(word string) []string {
	dir, base := filepath.Split(word)

	entries, err := os.ReadDir(dirOrCurrent(dir))
	if err != nil {
		return nil
	}

	var matches []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, base) || (strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".")) {
			continue
		}

		if entry.IsDir() {
			matches = append(matches, dir+name+"/")
		} else {
			matches = append(matches, dir+name+" ")
		}
	}
	return matches
}

func dirOrCurrent(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
