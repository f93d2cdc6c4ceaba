package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports malformed command-language input. Incomplete is set when
// the input ended before a construct was closed, so more input could fix it.
type ParseError struct {
	Message    string
	Pos        int
	Incomplete bool
}

func (e *ParseError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("parse error: %s", e.Message)
	}
	return fmt.Sprintf("parse error at position %d: %s", e.Pos+1, e.Message)
}

// UnexpectedToken builds a ParseError for a token the grammar does not allow
func UnexpectedToken(token string, pos int) *ParseError {
	return &ParseError{Message: fmt.Sprintf("unexpected %s", token), Pos: pos}
}

// UnterminatedInput builds an incomplete ParseError for an unclosed construct
func UnterminatedInput(construct string, pos int) *ParseError {
	return &ParseError{
		Message:    fmt.Sprintf("unterminated %s", construct),
		Pos:        pos,
		Incomplete: true,
	}
}

// UnsetVariableError reports a variable missing from every lookup tier.
type UnsetVariableError struct {
	Name string
}

func (e *UnsetVariableError) Error() string {
	return fmt.Sprintf(`variable '%s' is not set

Tip: Use ':set %s <value>' to set it for this session`, e.Name, e.Name)
}

// UnsetVariable returns an UnsetVariableError for name
func UnsetVariable(name string) error {
	return &UnsetVariableError{Name: name}
}

// CommandExecutionError reports an external process that could not be run.
type CommandExecutionError struct {
	Argv  []string
	Cause error
}

func (e *CommandExecutionError) Error() string {
	msg := fmt.Sprintf("failed to run '%s'", strings.Join(e.Argv, " "))

	causeStr := ""
	if e.Cause != nil {
		causeStr = e.Cause.Error()
	}
	if strings.Contains(causeStr, "executable file not found") || strings.Contains(causeStr, "no such file") {
		msg += `

Cause: Command not found
Solutions:
  • Check the command spelling
  • Ensure the command exists in PATH
  • Set 'gitsh.gitCommand' if git lives somewhere unusual`
	} else if strings.Contains(causeStr, "permission denied") {
		msg += `

Cause: Permission denied
Solution: Ensure the command is executable`
	}

	if e.Cause != nil {
		msg += fmt.Sprintf("\n\nOriginal error: %v", e.Cause)
	}
	return msg
}

func (e *CommandExecutionError) Unwrap() error {
	return e.Cause
}

// CommandExecutionFailed returns a CommandExecutionError for argv
func CommandExecutionFailed(argv []string, cause error) error {
	return &CommandExecutionError{Argv: argv, Cause: cause}
}

// InternalCommandError reports misuse of a built-in command.
type InternalCommandError struct {
	Command string
	Message string
	Usage   string
}

func (e *InternalCommandError) Error() string {
	msg := fmt.Sprintf(":%s: %s", e.Command, e.Message)
	if e.Usage != "" {
		msg += fmt.Sprintf("\n\nUsage: %s", e.Usage)
	}
	return msg
}

// InternalCommandFailed returns an InternalCommandError without usage text
func InternalCommandFailed(command, message string) error {
	return &InternalCommandError{Command: command, Message: message}
}

// InternalCommandUsage returns an InternalCommandError carrying usage text
func InternalCommandUsage(command, message, usage string) error {
	return &InternalCommandError{Command: command, Message: message, Usage: usage}
}

// UnknownInternalCommand reports a ':' command that does not exist
func UnknownInternalCommand(name string, available []string) error {
	msg := fmt.Sprintf("no such command ':%s'", name)
	if len(available) > 0 {
		msg += "\n\nAvailable commands:"
		for _, c := range available {
			msg += fmt.Sprintf("\n  • :%s", c)
		}
	}
	return &InternalCommandError{Command: name, Message: msg}
}

// Configuration Errors
func ConfigLoadFailed(configPath string, parseError error) error {
	msg := fmt.Sprintf("failed to load configuration from '%s'", configPath)

	parseErrorStr := parseError.Error()
	if strings.Contains(parseErrorStr, "yaml") || strings.Contains(parseErrorStr, "unmarshal") {
		msg += `

Cause: YAML syntax error in configuration file
Solutions:
  • Check YAML syntax and indentation
  • Run 'gitsh init --force' to recreate the configuration`
	} else if strings.Contains(parseErrorStr, "permission denied") {
		msg += `

Cause: Permission denied reading configuration file
Solution: Check file permissions of the configuration file`
	}

	msg += fmt.Sprintf("\n\nOriginal error: %v", parseError)
	return errors.New(msg)
}

func ConfigAlreadyExists(configPath string) error {
	msg := fmt.Sprintf(`configuration file already exists: %s

Options:
  • Edit the existing file manually
  • Use 'gitsh init --force' to overwrite it`, configPath)
	return errors.New(msg)
}

// File System Errors
func DirectoryAccessFailed(operation, path string, originalError error) error {
	msg := fmt.Sprintf("failed to %s directory: %s", operation, path)

	errorStr := originalError.Error()
	if strings.Contains(errorStr, "permission denied") {
		msg += `

Cause: Permission denied
Solution: Check directory permissions`
	} else if strings.Contains(errorStr, "no such file or directory") {
		msg += `

Cause: Directory does not exist
Solution: Check the path spelling`
	} else if strings.Contains(errorStr, "not a directory") {
		msg += `

Cause: Path is not a directory`
	}

	msg += fmt.Sprintf("\n\nOriginal error: %v", originalError)
	return errors.New(msg)
}

// IsIncomplete reports whether err is a ParseError caused by unterminated input
func IsIncomplete(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr) && parseErr.Incomplete
}
