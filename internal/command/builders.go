package command

import (
	"slices"
	"strings"
)

// SystemShell is the shell used for '!' commands
const SystemShell = "/bin/sh"

// Git builds a git invocation. gitCommand is the (possibly multi-word) command
// used to launch git, e.g. ["/usr/bin/env", "git"].
func Git(gitCommand []string, args ...string) Command {
	if len(gitCommand) == 0 {
		gitCommand = []string{"git"}
	}

	argv := make([]string, 0, len(gitCommand)-1+len(args))
	argv = append(argv, gitCommand[1:]...)
	argv = append(argv, args...)

	return Command{
		Name: gitCommand[0],
		Args: argv,
	}
}

// GitConfigArgs converts session config overrides into "-c key=value" pairs,
// sorted by key so the resulting argv is deterministic
func GitConfigArgs(config map[string]string) []string {
	keys := make([]string, 0, len(config))
	for key := range config {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	args := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, "-c", key+"="+config[key])
	}
	return args
}

// Shell builds a system shell invocation running line
func Shell(line string) Command {
	return Command{
		Name: SystemShell,
		Args: []string{"-c", line},
	}
}

// ShellLine joins a command word and its escaped arguments into one line for
// the system shell. The command word itself is passed through unescaped.
func ShellLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		parts = append(parts, ShellEscape(arg))
	}
	return strings.Join(parts, " ")
}

// ShellEscape backslash-escapes every character outside the safe set. The safe
// set is alphanumerics, "_-.,:/@", newline and the glob characters "*[]!?" plus
// backslash, so globs still expand in the shell.
func ShellEscape(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	for _, r := range value {
		if !isShellSafe(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isShellSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '_', '-', '.', ',', ':', '/', '@', '\n':
		return true
	case '*', '[', ']', '!', '?', '\\':
		return true
	}
	return false
}
