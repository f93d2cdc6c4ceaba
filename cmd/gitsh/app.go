package main

import (
	"io"

	"github.com/urfave/cli/v3"
)

// appStreams carries the process streams into the commands and the exit
// status back out, so the app can be driven from tests
type appStreams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	exitCode int
}

func newApp(streams *appStreams) *cli.Command {
	return &cli.Command{
		Name:      "gitsh",
		Usage:     "An interactive shell for git",
		UsageText: "gitsh [options] [script]",
		Description: "gitsh runs git commands without the 'git' prefix. Commands starting with ':' are " +
			"built-ins and commands starting with '!' run in the system shell. Without a script or " +
			"--command it starts an interactive session when attached to a terminal, and reads " +
			"commands from standard input otherwise.",
		Version:   version,
		Reader:    streams.Stdin,
		Writer:    streams.Stdout,
		ErrWriter: streams.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "command",
				Aliases: []string{"c"},
				Usage:   "Run `PROGRAM` and exit",
			},
			&cli.StringFlag{
				Name:    "git",
				Usage:   "Launch git with `COMMAND` instead of the first git on PATH",
				Sources: cli.EnvVars("GITSH_GIT"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "Read configuration from `DIR` (default: $XDG_CONFIG_HOME/gitsh or ~/.config/gitsh)",
				Sources: cli.EnvVars("GITSH_CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "no-rc",
				Usage: "Do not run the startup file in interactive sessions",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Log internal events to standard error",
				Sources: cli.EnvVars("GITSH_DEBUG"),
			},
		},
		Action: newRunAction(streams),
		Commands: []*cli.Command{
			NewInitCommand(),
		},
	}
}
