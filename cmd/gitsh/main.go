package main

import (
	"context"
	"fmt"
	"os"
)

const defaultVersion = "dev"

// Version information (set by GoReleaser)
var (
	version = defaultVersion
	_       = "none"    // commit - set by GoReleaser but not used
	_       = "unknown" // date - set by GoReleaser but not used
)

func main() {
	initVersion()

	streams := &appStreams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	app := newApp(streams)

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "gitsh: %v\n", err)
		os.Exit(1)
	}
	os.Exit(streams.exitCode)
}
