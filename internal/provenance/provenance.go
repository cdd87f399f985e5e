// SPDX-License-Identifier: MPL-2.0

package provenance

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrOutOfSequence is the sentinel error wrapped by OutOfSequenceError.
var ErrOutOfSequence = errors.New("checkout without matching clone")

type (
	// RepoRecord describes one repository the recipe clones.
	RepoRecord struct {
		// URL is the clone source as written in the command.
		URL string `json:"url" toml:"url" yaml:"url"`
		// Name is the last URL path segment without a ".git" suffix.
		Name string `json:"name" toml:"name" yaml:"name"`
		// Dir is the local directory name. It starts out equal to Name;
		// later renames by the recipe are observed but not applied.
		Dir string `json:"dir" toml:"dir" yaml:"dir"`
		// Owner is the URL path segment preceding Name.
		Owner string `json:"owner" toml:"owner" yaml:"owner"`
		// Rev is the revision selected by a later checkout, if any.
		Rev string `json:"rev,omitempty" toml:"rev,omitempty" yaml:"rev,omitempty"`
		// Branch is the branch or tag requested at clone time, if any.
		Branch string `json:"branch,omitempty" toml:"branch,omitempty" yaml:"branch,omitempty"`
		// Path is the clone target directory relative to Cwd.
		Path string `json:"path" toml:"path" yaml:"path"`
		// Cwd is the working directory the clone ran in.
		Cwd string `json:"cwd" toml:"cwd" yaml:"cwd"`
	}

	// FetchFileRecord describes one archive or file download.
	FetchFileRecord struct {
		// URL is the first positional argument of the call, or the first
		// entry when that argument is a list.
		URL string `json:"url" toml:"url" yaml:"url"`
		// Mirrors are the remaining URLs when the call was given a list.
		Mirrors []string `json:"mirrors,omitempty" toml:"mirrors,omitempty" yaml:"mirrors,omitempty"`
		// Params holds the named arguments exactly as passed.
		Params map[string]any `json:"params,omitempty" toml:"params,omitempty" yaml:"params,omitempty"`
	}

	// CommandHistory is the append-only list of executed command lines.
	CommandHistory []string

	// OutOfSequenceError is returned when a checkout cannot be attributed to
	// a preceding clone. It wraps ErrOutOfSequence for errors.Is() compatibility.
	OutOfSequenceError struct {
		// Cwd is the working directory of the checkout.
		Cwd string
		// Rev is the revision the checkout asked for.
		Rev string
		// Clones is the number of clones recorded so far.
		Clones int
	}
)

// Error implements the error interface.
func (e *OutOfSequenceError) Error() string {
	if e.Clones == 0 {
		return fmt.Sprintf("checkout of %q in %q before any clone", e.Rev, e.Cwd)
	}
	return fmt.Sprintf("checkout of %q in %q matches none of %d cloned repositories", e.Rev, e.Cwd, e.Clones)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *OutOfSequenceError) Unwrap() error {
	return ErrOutOfSequence
}

// NewRepoRecord derives a record from a clone URL.
func NewRepoRecord(url string) RepoRecord {
	name := RepoName(url)
	return RepoRecord{
		URL:   url,
		Name:  name,
		Dir:   name,
		Owner: RepoOwner(url),
	}
}

// RepoName returns the final path segment of url with a trailing ".git"
// removed.
func RepoName(url string) string {
	segments := urlSegments(url)
	if len(segments) == 0 {
		return ""
	}
	return strings.TrimSuffix(segments[len(segments)-1], ".git")
}

// RepoOwner returns the path segment preceding the final one, or "" when the
// URL has a single segment.
func RepoOwner(url string) string {
	segments := urlSegments(url)
	if len(segments) < 2 {
		return ""
	}
	return segments[len(segments)-2]
}

// urlSegments splits a clone URL into its path segments. The scp-like
// "user@host:org/repo.git" form is split on the colon as well.
func urlSegments(url string) []string {
	rest := strings.TrimRight(url, "/")
	if scheme, after, ok := strings.Cut(rest, "://"); ok && !strings.ContainsAny(scheme, "/@") {
		// Drop the host: only path segments name owners and repositories.
		_, rest, _ = strings.Cut(after, "/")
	} else if host, after, ok := strings.Cut(rest, ":"); ok && !strings.Contains(host, "/") {
		rest = after
	}
	var segments []string
	for _, s := range strings.Split(rest, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Len returns the number of recorded commands.
func (h CommandHistory) Len() int {
	return len(h)
}

// cleanDir normalizes a working directory key. The empty string and "." both
// denote the recipe's initial directory.
func cleanDir(dir string) string {
	if dir == "" {
		return "."
	}
	return path.Clean(dir)
}

// JoinDir resolves dir relative to base the way a shell `cd` would.
func JoinDir(base, dir string) string {
	if dir == "" {
		return cleanDir(base)
	}
	if path.IsAbs(dir) {
		return path.Clean(dir)
	}
	return path.Join(cleanDir(base), dir)
}
