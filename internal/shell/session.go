package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/satococoa/gitsh/internal/config"
	"github.com/satococoa/gitsh/internal/env"
	"github.com/satococoa/gitsh/internal/interp"
	"github.com/satococoa/gitsh/internal/prompt"
)

const continuationPrompt = "> "

// Session is one run of gitsh over an Environment
type Session struct {
	Env         *env.Environment
	Config      *config.Config
	Interpreter Interpreter

	// Interactive reads lines through this instead of a terminal when set
	Stdin io.ReadCloser
}

// NewSession prepares e for running programs: the interpreter is installed for
// ':source' and the configured variables and git command are applied.
func NewSession(e *env.Environment, cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Session{Env: e, Config: cfg}
	e.Interpreter = s.Interpreter

	for name, value := range cfg.Variables {
		e.Set(name, value)
	}
	if cfg.Git.Command != "" {
		e.SetGitCommand(cfg.Git.Command)
	}
	return s
}

// ExitCode maps the status of the last program to a process exit code. An
// explicit ':exit' status wins.
func (s *Session) ExitCode(success bool) int {
	if status, exiting := s.Env.ExitRequested(); exiting {
		return status
	}
	if success {
		return 0
	}
	return 1
}

// LoadRC sources the startup script at path. A missing file is not an error.
func (s *Session) LoadRC(path string) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.Env.Logger.Debug("no rc file", zap.String("path", path))
		return
	}
	if err != nil {
		interp.Report(s.Env, fmt.Errorf("failed to read %s: %w", path, err))
		return
	}

	s.Env.Logger.Debug("loading rc file", zap.String("path", path))
	s.Interpreter.Execute(s.Env, string(content))
}

// RunCommand runs a single program and returns the exit code
func (s *Session) RunCommand(program string) int {
	return s.ExitCode(s.Interpreter.Execute(s.Env, program))
}

// RunScript runs r line by line, joining lines that continue an open
// construct. Input that ends inside one is reported as a parse error.
func (s *Session) RunScript(r io.Reader) int {
	var buffer LineBuffer
	success := true

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		input, complete := buffer.Add(scanner.Text())
		if !complete {
			continue
		}

		success = s.Interpreter.continueWith(s.Env, input, success)
		if _, exiting := s.Env.ExitRequested(); exiting {
			return s.ExitCode(success)
		}
	}

	if err := scanner.Err(); err != nil {
		interp.Report(s.Env, fmt.Errorf("failed to read script: %w", err))
		return 1
	}

	if buffer.Pending() {
		success = s.Interpreter.Execute(s.Env, buffer.Flush())
	}
	return s.ExitCode(success)
}

// RunScriptFile runs the script at path
func (s *Session) RunScriptFile(path string) int {
	f, err := os.Open(path)
	if err != nil {
		interp.Report(s.Env, fmt.Errorf("failed to open script: %w", err))
		return 1
	}
	defer f.Close()

	return s.RunScript(f)
}

// Interactive runs the read-eval loop until EOF or ':exit'. Ctrl-C discards
// the line being entered.
func (s *Session) Interactive(configDir string) (int, error) {
	historyFile := s.Config.HistoryPath(configDir)
	if err := os.MkdirAll(filepath.Dir(historyFile), 0o755); err != nil {
		s.Env.Logger.Debug("history disabled", zap.Error(err))
		historyFile = ""
	}

	prompter := prompt.New(s.Env, s.Config.Prompt.Format)
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompter.Prompt(),
		HistoryFile:       historyFile,
		HistoryLimit:      s.Config.History.Limit,
		HistorySearchFold: true,
		AutoComplete:      NewCompleter(s.Env),
		InterruptPrompt:   "^C",
		EOFPrompt:         "",
		Stdin:             s.Stdin,
		Stdout:            s.Env.Output,
		Stderr:            s.Env.Error,
	})
	if err != nil {
		return 1, fmt.Errorf("failed to start line editor: %w", err)
	}
	defer rl.Close()

	var buffer LineBuffer
	success := true
	for {
		if buffer.Pending() {
			rl.SetPrompt(continuationPrompt)
		} else {
			rl.SetPrompt(prompter.Prompt())
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			s.Env.Println()
			break
		}
		if err != nil {
			return 1, err
		}

		input, complete := buffer.Add(line)
		if !complete {
			continue
		}

		success = s.Interpreter.continueWith(s.Env, input, success)
		if _, exiting := s.Env.ExitRequested(); exiting {
			break
		}
	}

	return s.ExitCode(success), nil
}
