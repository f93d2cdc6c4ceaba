package interp

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/satococoa/gitsh/internal/config"
	"github.com/satococoa/gitsh/internal/env"
	gitsherrors "github.com/satococoa/gitsh/internal/errors"
)

// InternalCommand runs one of the ':' built-ins
type InternalCommand struct {
	Name string
	Args []string
}

func (*InternalCommand) sealed() {}

func (c *InternalCommand) Execute(e *env.Environment) (bool, error) {
	b, ok := builtins[c.Name]
	if !ok {
		return false, gitsherrors.UnknownInternalCommand(c.Name, BuiltinNames())
	}

	if len(c.Args) < b.minArgs || (b.maxArgs >= 0 && len(c.Args) > b.maxArgs) {
		return false, gitsherrors.InternalCommandUsage(b.name, "wrong number of arguments", b.usage)
	}
	return b.run(e, c.Args)
}

type builtin struct {
	name        string
	aliases     []string
	usage       string
	description string
	minArgs     int
	maxArgs     int // -1 for no limit
	run         func(e *env.Environment, args []string) (bool, error)
}

var (
	builtins     = map[string]*builtin{}
	builtinOrder []*builtin
)

func register(b *builtin) {
	builtinOrder = append(builtinOrder, b)
	builtins[b.name] = b
	for _, alias := range b.aliases {
		builtins[alias] = b
	}
}

func init() {
	register(&builtin{
		name:        "set",
		usage:       ":set <name> <value>",
		description: "Set a variable for this session. Names containing a dot are passed to git as config.",
		minArgs:     2,
		maxArgs:     2,
		run:         runSet,
	})
	register(&builtin{
		name:        "unset",
		usage:       ":unset <name>",
		description: "Remove a session variable.",
		minArgs:     1,
		maxArgs:     1,
		run:         runUnset,
	})
	register(&builtin{
		name:        "echo",
		usage:       ":echo [<word>...]",
		description: "Print the arguments separated by spaces.",
		maxArgs:     -1,
		run:         runEcho,
	})
	register(&builtin{
		name:        "cd",
		usage:       ":cd [<directory>]",
		description: "Change the working directory. Without an argument, go to the repository root.",
		maxArgs:     1,
		run:         runCd,
	})
	register(&builtin{
		name:        "exit",
		aliases:     []string{"quit", "q"},
		usage:       ":exit [<status>]",
		description: "Leave gitsh with the given exit status (default 0).",
		maxArgs:     1,
		run:         runExit,
	})
	register(&builtin{
		name:        "help",
		usage:       ":help [<command>]",
		description: "Describe the built-in commands.",
		maxArgs:     1,
		run:         runHelp,
	})
	register(&builtin{
		name:        "source",
		usage:       ":source <file>",
		description: "Run the commands in a file in this session.",
		minArgs:     1,
		maxArgs:     1,
		run:         runSource,
	})
	register(&builtin{
		name:        "true",
		usage:       ":true",
		description: "Do nothing, successfully.",
		run:         func(*env.Environment, []string) (bool, error) { return true, nil },
	})
	register(&builtin{
		name:        "false",
		usage:       ":false",
		description: "Do nothing, unsuccessfully.",
		run:         func(*env.Environment, []string) (bool, error) { return false, nil },
	})
	register(&builtin{
		name:        "vars",
		usage:       ":vars",
		description: "List the names of every available variable.",
		run:         runVars,
	})
}

// BuiltinNames returns every built-in name, aliases included, sorted
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func runSet(e *env.Environment, args []string) (bool, error) {
	e.Set(args[0], args[1])
	return true, nil
}

func runUnset(e *env.Environment, args []string) (bool, error) {
	if !e.Unset(args[0]) {
		return false, gitsherrors.InternalCommandFailed("unset", fmt.Sprintf("no session variable named '%s'", args[0]))
	}
	return true, nil
}

func runEcho(e *env.Environment, args []string) (bool, error) {
	e.Println(strings.Join(args, " "))
	return true, nil
}

func runCd(e *env.Environment, args []string) (bool, error) {
	var dir string
	if len(args) == 0 {
		root, err := e.Get("_root")
		if err != nil {
			return false, gitsherrors.InternalCommandFailed("cd", "not inside a git work tree; give a directory")
		}
		dir = root
	} else {
		dir = config.ExpandHome(args[0])
	}

	if err := os.Chdir(dir); err != nil {
		return false, gitsherrors.DirectoryAccessFailed("change to", dir, err)
	}

	e.Logger.Debug("changed directory", zap.String("dir", dir))
	return true, nil
}

func runExit(e *env.Environment, args []string) (bool, error) {
	status := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 || n > 255 {
			return false, gitsherrors.InternalCommandUsage("exit", fmt.Sprintf("invalid status '%s'", args[0]), ":exit [<status>]")
		}
		status = n
	}

	e.RequestExit(status)
	return status == 0, nil
}

var (
	helpHeading = color.New(color.Bold)
	helpName    = color.New(color.FgCyan)
)

func runHelp(e *env.Environment, args []string) (bool, error) {
	if len(args) == 1 {
		name := strings.TrimPrefix(args[0], string(internalPrefix))
		b, ok := builtins[name]
		if !ok {
			return false, gitsherrors.UnknownInternalCommand(name, BuiltinNames())
		}

		helpHeading.Fprintf(e.Output, "usage: %s\n", b.usage)
		e.Println()
		e.Println(b.description)
		if len(b.aliases) > 0 {
			e.Printf("\nAliases: :%s\n", strings.Join(b.aliases, ", :"))
		}
		return true, nil
	}

	helpHeading.Fprintln(e.Output, "gitsh: an interactive git shell")
	e.Println()
	e.Println("Type git commands without the 'git' prefix, e.g. 'status' or 'commit -m \"message\"'.")
	e.Println("Commands starting with ':' are built-ins; commands starting with '!' run in /bin/sh.")
	e.Println("Join commands with ';', '&&' and '||', group them with parentheses, and use")
	e.Println("$name, {a,b} and $(command) in arguments.")
	e.Println()
	helpHeading.Fprintln(e.Output, "Built-in commands:")
	for _, b := range builtinOrder {
		helpName.Fprintf(e.Output, "  %-8s", ":"+b.name)
		e.Printf(" %s\n", b.description)
	}
	return true, nil
}

func runSource(e *env.Environment, args []string) (bool, error) {
	if e.Interpreter == nil {
		return false, gitsherrors.InternalCommandFailed("source", "no interpreter available")
	}

	path := config.ExpandHome(args[0])
	content, err := os.ReadFile(path)
	if err != nil {
		return false, gitsherrors.InternalCommandFailed("source", fmt.Sprintf("cannot read '%s': %v", path, err))
	}

	e.Logger.Debug("sourcing file", zap.String("path", path))
	return e.Interpreter.Execute(e, string(content)), nil
}

func runVars(e *env.Environment, _ []string) (bool, error) {
	for _, name := range e.AvailableVariables() {
		e.Println(name)
	}
	return true, nil
}
