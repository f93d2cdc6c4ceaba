package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/satococoa/gitsh/internal/command"
	"github.com/satococoa/gitsh/internal/config"
	"github.com/satococoa/gitsh/internal/env"
	"github.com/satococoa/gitsh/internal/git"
	"github.com/satococoa/gitsh/internal/shell"
)

func newRunAction(streams *appStreams) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		logger, err := newLogger(cmd.Bool("debug"))
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		configDir, err := resolveConfigDir(cmd)
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return err
		}

		gitCommand := cfg.Git.Command
		if flag := cmd.String("git"); flag != "" {
			gitCommand = flag
		}

		runner := command.NewRealShellExecutor()
		repo := git.NewRepository("", runner, strings.Fields(gitCommand))

		e := env.New(repo, runner)
		e.Input = streams.Stdin
		e.Output = streams.Stdout
		e.Error = streams.Stderr
		e.Logger = logger
		e.ConfigDirectory = configDir

		session := shell.NewSession(e, cfg)
		if flag := cmd.String("git"); flag != "" {
			e.SetGitCommand(flag)
		}

		logger.Debug("starting session",
			zap.String("configDir", configDir),
			zap.Strings("gitCommand", e.GitCommand(false)))

		switch {
		case cmd.IsSet("command"):
			streams.exitCode = session.RunCommand(cmd.String("command"))
		case cmd.Args().Len() > 0:
			streams.exitCode = session.RunScriptFile(cmd.Args().First())
		case !e.TTY():
			streams.exitCode = session.RunScript(streams.Stdin)
		default:
			if !cmd.Bool("no-rc") {
				session.LoadRC(cfg.RCPath())
			}
			code, err := session.Interactive(configDir)
			if err != nil {
				return err
			}
			streams.exitCode = code
		}
		return nil
	}
}

func resolveConfigDir(cmd *cli.Command) (string, error) {
	if dir := cmd.String("config-dir"); dir != "" {
		return config.ExpandHome(dir), nil
	}
	return config.DefaultConfigDirectory()
}

// newLogger returns a no-op logger unless debugging is enabled, in which case
// development output goes to standard error
func newLogger(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
