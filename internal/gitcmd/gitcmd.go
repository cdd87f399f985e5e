// SPDX-License-Identifier: MPL-2.0

package gitcmd

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	// DefaultTool is the executable name recognized as the VCS tool.
	DefaultTool = "git"

	// SubcommandClone clones a repository.
	SubcommandClone Subcommand = "clone"
	// SubcommandCheckout checks out a revision in an existing working tree.
	SubcommandCheckout Subcommand = "checkout"
)

var (
	// ErrNotGit is returned when the tokens do not start with the VCS tool name.
	ErrNotGit = errors.New("not a git invocation")
	// ErrMissingArgument is returned when a clone or checkout lacks its operand.
	ErrMissingArgument = errors.New("missing argument")
)

type (
	// Subcommand is the git subcommand of an invocation.
	Subcommand string

	// Invocation is a classified git command line.
	Invocation struct {
		// Subcommand is the first non-option token after the tool name.
		// It is empty for a bare `git` or `git --version`.
		Subcommand Subcommand
		// Dir is the directory passed through the global -C option, if any.
		Dir string
		// Args are the tokens following the subcommand.
		Args []string
	}

	// CloneTarget describes what a clone invocation fetches and where.
	CloneTarget struct {
		URL       string
		Directory string
		Branch    string
	}
)

// globalValueOptions are git options, placed before the subcommand, that
// consume the next token as their value.
var globalValueOptions = map[string]bool{
	"-C":             true,
	"-c":             true,
	"--git-dir":      true,
	"--work-tree":    true,
	"--namespace":    true,
	"--super-prefix": true,
	"--config-env":   true,
}

// cloneValueOptions are clone options that consume the next token.
var cloneValueOptions = map[string]bool{
	"-b":                  true,
	"--branch":            true,
	"-o":                  true,
	"--origin":            true,
	"-c":                  true,
	"--config":            true,
	"-u":                  true,
	"--upload-pack":       true,
	"-j":                  true,
	"--jobs":              true,
	"--depth":             true,
	"--reference":         true,
	"--reference-if-able": true,
	"--template":          true,
	"--separate-git-dir":  true,
	"--shallow-since":     true,
	"--shallow-exclude":   true,
	"--filter":            true,
	"--server-option":     true,
	"--bundle-uri":        true,
	"--ref-format":        true,
	"--revision":          true,
}

// Parse classifies a tokenized command line whose first token is tool.
func Parse(tool string, tokens []string) (*Invocation, error) {
	if tool == "" {
		tool = DefaultTool
	}
	if len(tokens) == 0 || path.Base(tokens[0]) != tool {
		return nil, ErrNotGit
	}

	inv := &Invocation{}
	i := 1
	for i < len(tokens) {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "-") {
			break
		}
		if globalValueOptions[tok] && i+1 < len(tokens) {
			if tok == "-C" {
				inv.Dir = joinDir(inv.Dir, tokens[i+1])
			}
			i += 2
			continue
		}
		i++
	}

	if i < len(tokens) {
		inv.Subcommand = Subcommand(tokens[i])
		inv.Args = tokens[i+1:]
	}
	return inv, nil
}

// Clone extracts the clone operands. The repository is the first positional
// argument, which is the last token when no directory follows it.
func (inv *Invocation) Clone() (CloneTarget, error) {
	if inv.Subcommand != SubcommandClone {
		return CloneTarget{}, fmt.Errorf("subcommand %q is not %q", inv.Subcommand, SubcommandClone)
	}

	var target CloneTarget
	var positional []string
	afterDashes := false
	for i := 0; i < len(inv.Args); i++ {
		tok := inv.Args[i]
		if afterDashes || !strings.HasPrefix(tok, "-") || tok == "-" {
			positional = append(positional, tok)
			continue
		}
		if tok == "--" {
			afterDashes = true
			continue
		}

		name, value, hasValue := strings.Cut(tok, "=")
		if !cloneValueOptions[name] {
			continue
		}
		if !hasValue {
			if i+1 >= len(inv.Args) {
				break
			}
			i++
			value = inv.Args[i]
		}
		if name == "-b" || name == "--branch" {
			target.Branch = value
		}
	}

	if len(positional) == 0 {
		return CloneTarget{}, fmt.Errorf("%w: clone without repository", ErrMissingArgument)
	}
	target.URL = positional[0]
	if len(positional) > 1 {
		target.Directory = positional[1]
	}
	return target, nil
}

// Revision returns the checkout target: the last token, or the last token
// before a "--" pathspec separator.
func (inv *Invocation) Revision() (string, error) {
	args := inv.Args
	for i, tok := range args {
		if tok == "--" {
			args = args[:i]
			break
		}
	}
	if len(args) == 0 {
		return "", fmt.Errorf("%w: checkout without revision", ErrMissingArgument)
	}
	return args[len(args)-1], nil
}

func joinDir(base, dir string) string {
	if base == "" || path.IsAbs(dir) {
		return dir
	}
	return path.Join(base, dir)
}
