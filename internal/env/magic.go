package env

import "slices"

// MagicVariables are read-only variables computed on demand from the live
// repository state. Fetch reports false when the value cannot be computed, so
// lookup falls through to the next tier.
type MagicVariables interface {
	Fetch(name string) (string, bool)
	Available() []string
}

type repoMagicVariables struct {
	repo    Repository
	readers map[string]func() (string, error)
}

// NewMagicVariables returns the standard computed variables:
//
//	_prior        the previously checked out branch (@{-1})
//	_merge_base   the merge base of HEAD and MERGE_HEAD during a merge
//	_rebase_base  the commit an in-progress rebase is replaying onto
//	_root         the top level of the work tree
//	_head         the current branch, or abbreviated commit when detached
func NewMagicVariables(repo Repository) MagicVariables {
	return &repoMagicVariables{
		repo: repo,
		readers: map[string]func() (string, error){
			"_prior":       func() (string, error) { return repo.RevisionName("@{-1}") },
			"_merge_base":  func() (string, error) { return repo.MergeBase("HEAD", "MERGE_HEAD") },
			"_rebase_base": repo.RebaseBase,
			"_root":        repo.TopLevel,
			"_head":        repo.CurrentHead,
		},
	}
}

func (m *repoMagicVariables) Fetch(name string) (string, bool) {
	read, ok := m.readers[name]
	if !ok {
		return "", false
	}

	value, err := read()
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

func (m *repoMagicVariables) Available() []string {
	names := make([]string, 0, len(m.readers))
	for name := range m.readers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
