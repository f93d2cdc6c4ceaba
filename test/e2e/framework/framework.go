package framework

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const (
	dirPerm  = 0755
	filePerm = 0600
)

// Result is the outcome of one gitsh process
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns stdout followed by stderr
func (r Result) Output() string {
	return r.Stdout + r.Stderr
}

type TestEnvironment struct {
	t           *testing.T
	tmpDir      string
	gitshBinary string
	cleanup     []func()
}

func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	tmpDir := t.TempDir()
	env := &TestEnvironment{
		t:       t,
		tmpDir:  tmpDir,
		cleanup: []func(){},
	}

	env.buildGitsh()

	return env
}

func (e *TestEnvironment) buildGitsh() {
	e.t.Helper()

	gitshBinary := filepath.Join(e.tmpDir, "gitsh")
	if prebuilt := os.Getenv("GITSH_E2E_BINARY"); prebuilt != "" {
		gitshBinary = prebuilt
		if _, err := os.Stat(gitshBinary); err != nil {
			e.t.Fatalf("Specified gitsh binary not found: %s", gitshBinary)
		}
	} else {
		projectRoot := e.findProjectRoot()
		cmd := exec.Command("go", "build", "-o", gitshBinary, "./cmd/gitsh")
		cmd.Dir = projectRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			e.t.Fatalf("Failed to build gitsh binary: %v\nOutput: %s", err, output)
		}
	}

	gitshBinary = filepath.Clean(gitshBinary)
	if !filepath.IsAbs(gitshBinary) {
		absPath, err := filepath.Abs(gitshBinary)
		if err != nil {
			e.t.Fatalf("Failed to get absolute path for binary: %v", err)
		}
		gitshBinary = absPath
	}

	e.gitshBinary = gitshBinary
}

func (e *TestEnvironment) findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		e.t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			e.t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}

func (e *TestEnvironment) CreateTestRepo(name string) *TestRepo {
	e.t.Helper()

	repoDir := filepath.Join(e.tmpDir, name)

	e.run("git", "init", repoDir)
	e.runInDir(repoDir, "git", "config", "user.name", "Test User")
	e.runInDir(repoDir, "git", "config", "user.email", "test@example.com")

	readmePath := filepath.Join(repoDir, "README.md")
	e.writeFile(readmePath, "# Test Repository")
	e.runInDir(repoDir, "git", "add", ".")
	e.runInDir(repoDir, "git", "commit", "-m", "Initial commit")

	// Ensure the default branch is 'main' regardless of global git config
	e.runInDir(repoDir, "git", "branch", "-m", "main")

	return &TestRepo{
		env:  e,
		path: repoDir,
	}
}

func (e *TestEnvironment) CreateNonRepoDir(name string) *TestRepo {
	e.t.Helper()

	dir := filepath.Join(e.tmpDir, name)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory: %v", err)
	}

	return &TestRepo{
		env:  e,
		path: dir,
	}
}

func (e *TestEnvironment) run(command string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(command, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("Command failed: %s %s\nOutput: %s\nError: %v",
			command, strings.Join(args, " "), output, err)
	}
	return string(output)
}

func (e *TestEnvironment) runInDir(dir, command string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("Command failed in %s: %s %s\nOutput: %s\nError: %v",
			dir, command, strings.Join(args, " "), output, err)
	}
	return string(output)
}

func (e *TestEnvironment) writeFile(path, content string) {
	e.t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// RunGitsh runs gitsh outside any repository
func (e *TestEnvironment) RunGitsh(args ...string) Result {
	e.t.Helper()
	return e.execute(e.tmpDir, "", args...)
}

func (e *TestEnvironment) execute(dir, stdin string, args ...string) Result {
	e.t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(e.gitshBinary, args...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(),
		"HOME="+e.tmpDir,
		"XDG_CONFIG_HOME="+e.ConfigHome(),
		"GIT_CONFIG_NOSYSTEM=1",
		"NO_COLOR=1",
	)

	result := Result{}
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case err != nil:
		e.t.Fatalf("Failed to run gitsh: %v", err)
	}

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	return result
}

func (e *TestEnvironment) TmpDir() string {
	return e.tmpDir
}

// ConfigHome is the XDG config directory gitsh processes see
func (e *TestEnvironment) ConfigHome() string {
	return filepath.Join(e.tmpDir, ".config")
}

// WriteConfig writes gitsh's config.yml
func (e *TestEnvironment) WriteConfig(content string) {
	e.writeFile(filepath.Join(e.ConfigHome(), "gitsh", "config.yml"), content)
}

func (e *TestEnvironment) WriteFile(path, content string) {
	e.writeFile(path, content)
}

func (e *TestEnvironment) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (e *TestEnvironment) RunInDir(dir, command string, args ...string) string {
	return e.runInDir(dir, command, args...)
}

func (e *TestEnvironment) Cleanup() {
	for _, fn := range e.cleanup {
		fn()
	}
}

type TestRepo struct {
	env  *TestEnvironment
	path string
}

// RunGitsh runs gitsh with args in the repository
func (r *TestRepo) RunGitsh(args ...string) Result {
	r.env.t.Helper()
	return r.env.execute(r.path, "", args...)
}

// RunProgram runs one gitsh program with -c in the repository
func (r *TestRepo) RunProgram(program string) Result {
	r.env.t.Helper()
	return r.env.execute(r.path, "", "-c", program)
}

// RunScript feeds script to gitsh on standard input in the repository
func (r *TestRepo) RunScript(script string) Result {
	r.env.t.Helper()
	return r.env.execute(r.path, script)
}

func (r *TestRepo) CreateBranch(name string) {
	r.env.runInDir(r.path, "git", "branch", name)
}

func (r *TestRepo) CheckoutBranch(name string) {
	r.env.runInDir(r.path, "git", "checkout", name)
}

func (r *TestRepo) CommitFile(filename, content, message string) {
	r.env.writeFile(filepath.Join(r.path, filename), content)
	r.env.runInDir(r.path, "git", "add", filename)
	r.env.runInDir(r.path, "git", "commit", "-m", message)
}

func (r *TestRepo) WriteFile(filename, content string) {
	r.env.writeFile(filepath.Join(r.path, filename), content)
}

func (r *TestRepo) AddRemote(name, url string) {
	r.env.runInDir(r.path, "git", "remote", "add", name, url)
}

func (r *TestRepo) Path() string {
	return r.path
}

func (r *TestRepo) HasFile(path string) bool {
	fullPath := filepath.Join(r.path, path)
	_, err := os.Stat(fullPath)
	return err == nil
}

func (r *TestRepo) ReadFile(path string) string {
	fullPath := filepath.Join(r.path, path)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		r.env.t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func (r *TestRepo) GitStatus() string {
	return r.env.runInDir(r.path, "git", "status", "--porcelain")
}

func (r *TestRepo) CurrentBranch() string {
	output := r.env.runInDir(r.path, "git", "branch", "--show-current")
	return strings.TrimSpace(output)
}

func (r *TestRepo) GetCommitHash() string {
	output := r.env.runInDir(r.path, "git", "rev-parse", "HEAD")
	return strings.TrimSpace(output)
}

func (r *TestRepo) Branches() []string {
	output := r.env.runInDir(r.path, "git", "for-each-ref", "--format=%(refname:short)", "refs/heads")
	return strings.Fields(output)
}

func (r *TestRepo) GitConfig(key string) string {
	cmd := exec.Command("git", "config", "--get", key)
	cmd.Dir = r.path
	output, _ := cmd.Output()
	return strings.TrimSpace(string(output))
}
