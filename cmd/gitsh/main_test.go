package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	streams *appStreams
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func newTestApp(stdin string) *testApp {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &testApp{
		streams: &appStreams{Stdin: strings.NewReader(stdin), Stdout: stdout, Stderr: stderr},
		stdout:  stdout,
		stderr:  stderr,
	}
}

func (a *testApp) run(t *testing.T, args ...string) error {
	t.Helper()
	argv := append([]string{"gitsh", "--config-dir", t.TempDir()}, args...)
	return newApp(a.streams).Run(context.Background(), argv)
}

func TestAppSetup(t *testing.T) {
	t.Run("app setup", func(t *testing.T) {
		app := newApp(&appStreams{})
		assert.NotNil(t, app)
		assert.Equal(t, "gitsh", app.Name)
		assert.Equal(t, "An interactive shell for git", app.Usage)
		assert.NotEmpty(t, app.Description)

		commandNames := make(map[string]bool)
		for _, cmd := range app.Commands {
			commandNames[cmd.Name] = true
		}
		assert.True(t, commandNames["init"])

		flagNames := make(map[string]bool)
		for _, flag := range app.Flags {
			flagNames[flag.Names()[0]] = true
		}
		for _, expected := range []string{"command", "git", "config-dir", "no-rc", "debug"} {
			assert.True(t, flagNames[expected], "Flag %s should exist", expected)
		}
	})
}

func TestVersionInfo(t *testing.T) {
	assert.NotEmpty(t, version)
	if version != defaultVersion {
		assert.Regexp(t, `^v?\d+\.\d+\.\d+`, version)
	}
}

func TestAppRun_Version(t *testing.T) {
	app := newTestApp("")

	err := app.run(t, "--version")

	assert.NoError(t, err)
	assert.Contains(t, app.stdout.String(), "gitsh version")
}

func TestAppRun_Help(t *testing.T) {
	app := newTestApp("")

	err := app.run(t, "--help")

	assert.NoError(t, err)
	output := app.stdout.String()
	assert.Contains(t, output, "An interactive shell for git")
	assert.Contains(t, output, "--command")
	assert.Contains(t, output, "init")
}

func TestAppRun_Command(t *testing.T) {
	tests := []struct {
		name         string
		program      string
		wantStdout   string
		wantStderr   string
		wantExitCode int
	}{
		{
			name:       "echo",
			program:    ":echo hello {a,b}",
			wantStdout: "hello a b\n",
		},
		{
			name:       "variables",
			program:    ":set greeting hi && :echo $greeting",
			wantStdout: "hi\n",
		},
		{
			name:         "failing command",
			program:      ":false",
			wantExitCode: 1,
		},
		{
			name:         "explicit exit status",
			program:      ":exit 3; :echo unreachable",
			wantExitCode: 3,
		},
		{
			name:         "parse error",
			program:      ":echo (",
			wantStderr:   "gitsh:",
			wantExitCode: 1,
		},
		{
			name:         "unset variable",
			program:      ":echo $nope",
			wantStderr:   "variable 'nope' is not set",
			wantExitCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp("")

			err := app.run(t, "-c", tt.program)

			require.NoError(t, err)
			assert.Equal(t, tt.wantExitCode, app.streams.exitCode)
			if tt.wantStdout != "" {
				assert.Equal(t, tt.wantStdout, app.stdout.String())
			}
			if tt.wantStderr != "" {
				assert.Contains(t, app.stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestAppRun_ScriptFile(t *testing.T) {
	script := filepath.Join(t.TempDir(), "script.gitsh")
	require.NoError(t, os.WriteFile(script, []byte(":set who world\n# greet\n:echo hello \\\n  $who\n"), 0o644))

	app := newTestApp("")
	err := app.run(t, script)

	require.NoError(t, err)
	assert.Equal(t, 0, app.streams.exitCode)
	assert.Equal(t, "hello world\n", app.stdout.String())
}

func TestAppRun_MissingScriptFile(t *testing.T) {
	app := newTestApp("")
	err := app.run(t, filepath.Join(t.TempDir(), "missing"))

	require.NoError(t, err)
	assert.Equal(t, 1, app.streams.exitCode)
	assert.NotEmpty(t, app.stderr.String())
}

func TestAppRun_StandardInput(t *testing.T) {
	app := newTestApp(":echo one\n:echo two &&\n  :echo three\n")

	err := app.run(t)

	require.NoError(t, err)
	assert.Equal(t, 0, app.streams.exitCode)
	assert.Equal(t, "one\ntwo\nthree\n", app.stdout.String())
}

func TestAppRun_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("prompt: [unclosed"), 0o600))

	app := newTestApp("")
	err := newApp(app.streams).Run(context.Background(), []string{"gitsh", "--config-dir", dir, "-c", ":true"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestAppRun_ConfigVariables(t *testing.T) {
	dir := t.TempDir()
	config := "version: \"1.0\"\nvariables:\n  editor: vim\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(config), 0o600))

	app := newTestApp("")
	err := newApp(app.streams).Run(context.Background(), []string{"gitsh", "--config-dir", dir, "-c", ":echo $editor"})

	require.NoError(t, err)
	assert.Equal(t, "vim\n", app.stdout.String())
}

func TestNewLogger(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		logger, err := newLogger(false)
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(-1))
	})

	t.Run("debug", func(t *testing.T) {
		logger, err := newLogger(true)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(-1))
	})
}
