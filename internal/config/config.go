package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	gitsherrors "github.com/satococoa/gitsh/internal/errors"
)

// Config represents the gitsh configuration file
type Config struct {
	Version   string            `yaml:"version"`
	Git       Git               `yaml:"git,omitempty"`
	Prompt    Prompt            `yaml:"prompt,omitempty"`
	History   History           `yaml:"history,omitempty"`
	RCFile    string            `yaml:"rc_file,omitempty"`
	Variables map[string]string `yaml:"variables,omitempty"`
}

// Git configures how git is launched
type Git struct {
	Command string `yaml:"command,omitempty"` // e.g. "/usr/local/bin/git"; empty means "/usr/bin/env git"
}

// Prompt configures the interactive prompt
type Prompt struct {
	Format string `yaml:"format,omitempty"`
}

// History configures the interactive history file
type History struct {
	File  string `yaml:"file,omitempty"`
	Limit int    `yaml:"limit,omitempty"`
}

const (
	ConfigFileName        = "config.yml"
	CurrentVersion        = "1.0"
	DefaultPromptFormat   = "%D %c%B%#%w"
	DefaultHistoryLimit   = 1000
	DefaultHistoryFile    = "history"
	DefaultRCFile         = "~/.gitshrc"
	configFilePermissions = 0o600
	configDirPermissions  = 0o755
)

var variableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// DefaultConfigDirectory returns $XDG_CONFIG_HOME/gitsh, or ~/.config/gitsh
// when XDG_CONFIG_HOME is not set
func DefaultConfigDirectory() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitsh"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gitsh"), nil
}

// Default returns the configuration used when no file exists
func Default() *Config {
	config := &Config{}
	_ = config.Validate()
	return config
}

// LoadConfig loads config.yml from configDir. A missing file yields defaults.
func LoadConfig(configDir string) (*Config, error) {
	configPath := filepath.Join(configDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, gitsherrors.ConfigLoadFailed(configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, gitsherrors.ConfigLoadFailed(configPath, fmt.Errorf("failed to parse config file: %w", err))
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

// SaveConfig writes config to config.yml in configDir
func SaveConfig(configDir string, config *Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return writeConfigFile(configDir, data)
}

// WriteDefaultConfig writes the commented default configuration. An existing
// file is only replaced when force is set.
func WriteDefaultConfig(configDir string, force bool) (string, error) {
	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		return "", gitsherrors.ConfigAlreadyExists(configPath)
	}

	if err := writeConfigFile(configDir, []byte(DefaultConfigContent)); err != nil {
		return "", err
	}
	return configPath, nil
}

func writeConfigFile(configDir string, data []byte) error {
	if err := os.MkdirAll(configDir, configDirPermissions); err != nil {
		return gitsherrors.DirectoryAccessFailed("create", configDir, err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	if err := os.WriteFile(configPath, data, configFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate fills in defaults and rejects invalid values
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = CurrentVersion
	}

	if c.Prompt.Format == "" {
		c.Prompt.Format = DefaultPromptFormat
	}

	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	if c.History.Limit == 0 {
		c.History.Limit = DefaultHistoryLimit
	}

	if c.RCFile == "" {
		c.RCFile = DefaultRCFile
	}

	for name := range c.Variables {
		if !variableNamePattern.MatchString(name) {
			return fmt.Errorf("invalid variable name '%s'", name)
		}
	}

	return nil
}

// HistoryPath resolves the history file. Relative paths are relative to
// configDir.
func (c *Config) HistoryPath(configDir string) string {
	file := c.History.File
	if file == "" {
		file = DefaultHistoryFile
	}

	file = ExpandHome(file)
	if !filepath.IsAbs(file) {
		file = filepath.Join(configDir, file)
	}
	return file
}

// RCPath resolves the startup script
func (c *Config) RCPath() string {
	if c.RCFile == "" {
		return ExpandHome(DefaultRCFile)
	}
	return ExpandHome(c.RCFile)
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// DefaultConfigContent is written by 'gitsh init'
const DefaultConfigContent = `# gitsh configuration
version: "1.0"

# How git is launched. Leave empty to use the first git on PATH.
# The gitsh.gitCommand variable overrides this for a session.
git:
  command: ""

prompt:
  # %d  working directory        %D  its basename
  # %b  current branch           %B  branch, abbreviated
  # %c  status color             %w  reset color
  # %#  status terminator        %%  a literal percent sign
  format: "%D %c%B%#%w"

history:
  # Relative paths are relative to this directory
  file: history
  limit: 1000

# Commands run at the start of every interactive session
rc_file: ~/.gitshrc

# Variables set at the start of every session. Names containing a dot are
# passed to git as configuration, e.g.
#   core.pager: cat
variables: {}
`
