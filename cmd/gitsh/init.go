package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/gitsh/internal/config"
)

// NewInitCommand creates the init command definition
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration file",
		Description: "Creates config.yml in the configuration directory with the default " +
			"settings and comments describing each of them.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing configuration file",
			},
		},
		Action: initCommand,
	}
}

func initCommand(_ context.Context, cmd *cli.Command) error {
	configDir, err := resolveConfigDir(cmd)
	if err != nil {
		return err
	}

	configPath, err := config.WriteDefaultConfig(configDir, cmd.Bool("force"))
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "Configuration file created: %s\n", configPath)
	fmt.Fprintln(w, "Edit this file to customize your gitsh setup.")
	return nil
}
