package env

import "github.com/satococoa/gitsh/internal/git"

// Repository is the read-only view of the wrapped git repository the
// Environment delegates to. *git.Repository implements it.
type Repository interface {
	Branches() ([]string, error)
	Tags() ([]string, error)
	Remotes() ([]string, error)
	Heads() ([]string, error)
	CurrentHead() (string, error)
	Status() (git.Status, error)
	Commands() ([]string, error)
	Aliases() ([]string, error)
	Config(name string) (string, error)
	AvailableConfigVariables() ([]string, error)
	ConfigColor(name, defaultColor string) (string, error)
	Color(spec string) (string, error)
	RevisionName(rev string) (string, error)
	MergeBase(a, b string) (string, error)
	TopLevel() (string, error)
	RebaseBase() (string, error)
}

var _ Repository = (*git.Repository)(nil)
