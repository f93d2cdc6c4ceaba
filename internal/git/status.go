package git

import "strings"

// Status is the summary of `git status --porcelain` used for the prompt
type Status struct {
	Initialized       bool
	HasUntrackedFiles bool
	HasModifiedFiles  bool
}

// Clean reports whether the work tree has neither modified nor untracked files
func (s Status) Clean() bool {
	return s.Initialized && !s.HasUntrackedFiles && !s.HasModifiedFiles
}

func parseStatus(output string) Status {
	status := Status{Initialized: true}

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "??") {
			status.HasUntrackedFiles = true
		} else {
			status.HasModifiedFiles = true
		}
	}

	return status
}
