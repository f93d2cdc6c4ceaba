package command

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// realShellExecutor implements ShellExecutor using os/exec
type realShellExecutor struct{}

// NewRealShellExecutor creates a new shell executor that executes real commands
func NewRealShellExecutor() ShellExecutor {
	return &realShellExecutor{}
}

// Execute runs the command using os/exec with the command's own streams
func (s *realShellExecutor) Execute(c Command) (int, error) {
	// #nosec G204 - argv is assembled by the interpreter from user input on purpose
	cmd := exec.Command(c.Name, c.Args...)

	if c.WorkDir != "" {
		cmd.Dir = c.WorkDir
	}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status := exitErr.ExitCode(); status >= 0 {
			return status, nil
		}
		return -1, fmt.Errorf("process terminated abnormally: %w", err)
	}
	return -1, err
}

// Output runs c with stdout captured and returns it with surrounding whitespace
// trimmed. A non-zero exit status is reported as an *ExitError.
func Output(shell ShellExecutor, c Command) (string, error) {
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	status, err := shell.Execute(c)
	if err != nil {
		return "", err
	}
	if status != 0 {
		return "", &ExitError{
			Command: c,
			Status:  status,
			Stderr:  strings.TrimSpace(stderr.String()),
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Lines runs c like Output and splits the result into non-empty lines
func Lines(shell ShellExecutor, c Command) ([]string, error) {
	output, err := Output(shell, c)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
