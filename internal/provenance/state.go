// SPDX-License-Identifier: MPL-2.0

package provenance

import (
	"fmt"
	"maps"
	"slices"
)

// State accumulates everything observed while a recipe's entry point runs.
// A State belongs to exactly one run; it is not safe for concurrent use.
type State struct {
	repos   []*RepoRecord
	files   []FetchFileRecord
	history CommandHistory

	// cwd is the virtual working directory moved by intercepted chdir calls.
	cwd string
	// fault is the first error raised by a stand-in.
	fault error

	// fallbackLastClone attributes unmatched checkouts to the most recent
	// clone instead of failing.
	fallbackLastClone bool
}

// Option configures a State.
type Option func(*State)

// WithFallbackLastClone makes checkouts that match no clone by directory
// amend the most recently cloned repository.
func WithFallbackLastClone(enabled bool) Option {
	return func(s *State) {
		s.fallbackLastClone = enabled
	}
}

// NewState creates an empty State rooted at ".".
func NewState(opts ...Option) *State {
	s := &State{cwd: "."}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordCommand appends a raw command line to the history.
func (s *State) RecordCommand(cmd string) {
	s.history = append(s.history, cmd)
}

// RecordClone appends a fresh repository record for a clone run in cwd.
// An existing record for the same directory is never reused.
func (s *State) RecordClone(cwd, url, directory, branch string) *RepoRecord {
	rec := NewRepoRecord(url)
	rec.Branch = branch
	rec.Cwd = cleanDir(cwd)
	rec.Path = rec.Name
	if directory != "" {
		rec.Path = directory
	}
	s.repos = append(s.repos, &rec)
	return &rec
}

// RecordCheckout sets the revision of the repository checked out in cwd.
//
// The repository is the most recent clone whose target directory is cwd or,
// failing that, the most recent clone issued from cwd. A checkout that
// matches neither fails with OutOfSequenceError unless the State falls back
// to the last clone; a checkout before any clone always fails.
func (s *State) RecordCheckout(cwd, rev string) (*RepoRecord, error) {
	cwd = cleanDir(cwd)
	if len(s.repos) == 0 {
		return nil, &OutOfSequenceError{Cwd: cwd, Rev: rev}
	}

	rec := s.findByTarget(cwd)
	if rec == nil {
		rec = s.findByCwd(cwd)
	}
	if rec == nil && s.fallbackLastClone {
		rec = s.repos[len(s.repos)-1]
	}
	if rec == nil {
		return nil, &OutOfSequenceError{Cwd: cwd, Rev: rev, Clones: len(s.repos)}
	}

	rec.Rev = rev
	return rec, nil
}

// RecordFetch appends a download record. It returns false, recording
// nothing, when the call had no positional argument.
//
// A list of mirrors records its first URL and keeps the others in Mirrors.
// Any other value is recorded in its printed form.
func (s *State) RecordFetch(args []any, params map[string]any) bool {
	if len(args) == 0 {
		return false
	}
	rec := FetchFileRecord{}
	rec.URL, rec.Mirrors = fetchURLs(args[0])
	if len(params) > 0 {
		rec.Params = maps.Clone(params)
	}
	s.files = append(s.files, rec)
	return true
}

func fetchURLs(v any) (string, []string) {
	var urls []string
	switch u := v.(type) {
	case nil:
		return "", nil
	case string:
		return u, nil
	case []string:
		urls = u
	case []any:
		for _, e := range u {
			urls = append(urls, fmt.Sprint(e))
		}
	default:
		return fmt.Sprint(v), nil
	}
	if len(urls) == 0 {
		return "", nil
	}
	if len(urls) == 1 {
		return urls[0], nil
	}
	return urls[0], slices.Clone(urls[1:])
}

// Chdir moves the virtual working directory.
func (s *State) Chdir(dir string) {
	s.cwd = JoinDir(s.cwd, dir)
}

// Cwd returns the virtual working directory.
func (s *State) Cwd() string {
	return s.cwd
}

// Fail remembers err as the run's fault unless one is already recorded.
func (s *State) Fail(err error) {
	if err != nil && s.fault == nil {
		s.fault = err
	}
}

// Err returns the first fault raised by a stand-in, if any.
func (s *State) Err() error {
	return s.fault
}

// Repos returns a snapshot of the repository records in discovery order.
func (s *State) Repos() []RepoRecord {
	out := make([]RepoRecord, 0, len(s.repos))
	for _, r := range s.repos {
		out = append(out, *r)
	}
	return out
}

// Files returns a snapshot of the download records in call order.
func (s *State) Files() []FetchFileRecord {
	out := make([]FetchFileRecord, len(s.files))
	copy(out, s.files)
	return out
}

// History returns a snapshot of the command history.
func (s *State) History() CommandHistory {
	out := make(CommandHistory, len(s.history))
	copy(out, s.history)
	return out
}

func (s *State) findByTarget(cwd string) *RepoRecord {
	for i := len(s.repos) - 1; i >= 0; i-- {
		r := s.repos[i]
		if JoinDir(r.Cwd, r.Path) == cwd {
			return r
		}
	}
	return nil
}

func (s *State) findByCwd(cwd string) *RepoRecord {
	for i := len(s.repos) - 1; i >= 0; i-- {
		if s.repos[i].Cwd == cwd {
			return s.repos[i]
		}
	}
	return nil
}
