// SPDX-License-Identifier: MPL-2.0

package shellwords

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrTokenization is the sentinel error wrapped by TokenizationError.
var ErrTokenization = errors.New("malformed command line")

type (
	// TokenizationError is returned when a command line cannot be split into
	// words, typically because of unbalanced quoting.
	// It wraps ErrTokenization for errors.Is() compatibility.
	TokenizationError struct {
		// Command is the raw command line that failed to tokenize.
		Command string
		// Cause is the underlying parser error.
		Cause error
	}

	// Command is one simple command of a (possibly compound) command line.
	Command struct {
		// Assigns are leading NAME=value words, unexpanded.
		Assigns []string
		// Args are the command name followed by its arguments.
		Args []string
	}
)

// Error implements the error interface.
func (e *TokenizationError) Error() string {
	return fmt.Sprintf("cannot tokenize command %q: %v", e.Command, e.Cause)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *TokenizationError) Unwrap() error {
	return ErrTokenization
}

// Name returns the command name, or "" for an assignment-only command.
func (c Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Tokenize splits a command line into words following POSIX shell quoting
// rules. Quotes are removed, backslash escapes are resolved and no parameter,
// command or glob expansion is performed: such parts are kept verbatim.
// Control operators and redirections become tokens of their own.
func Tokenize(cmd string) ([]string, error) {
	f, err := parse(cmd)
	if err != nil {
		return nil, err
	}

	var tokens []string
	for i, stmt := range f.Stmts {
		if i > 0 {
			tokens = append(tokens, ";")
		}
		tokens = appendStmt(tokens, cmd, stmt)
	}
	return tokens, nil
}

// Split returns the simple commands of a command line in program order.
// For "cd core && git checkout v1" it yields two commands.
func Split(cmd string) ([]Command, error) {
	f, err := parse(cmd)
	if err != nil {
		return nil, err
	}

	var cmds []Command
	syntax.Walk(f, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok {
			return true
		}
		c := Command{}
		for _, as := range call.Assigns {
			c.Assigns = append(c.Assigns, assignText(cmd, as))
		}
		for _, w := range call.Args {
			c.Args = append(c.Args, wordText(cmd, w))
		}
		cmds = append(cmds, c)
		// Nested command substitutions are not expanded, so they are not
		// commands of this line either.
		return false
	})
	return cmds, nil
}

// Join re-joins tokens with single spaces. It is the inverse of Tokenize for
// command lines without quoting or repeated whitespace.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}

func parse(cmd string) (*syntax.File, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	f, err := parser.Parse(strings.NewReader(cmd), "")
	if err != nil {
		return nil, &TokenizationError{Command: cmd, Cause: err}
	}
	return f, nil
}

func appendStmt(tokens []string, src string, stmt *syntax.Stmt) []string {
	if stmt == nil {
		return tokens
	}
	if stmt.Negated {
		tokens = append(tokens, "!")
	}

	switch c := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		for _, as := range c.Assigns {
			tokens = append(tokens, assignText(src, as))
		}
		for _, w := range c.Args {
			tokens = append(tokens, wordText(src, w))
		}
	case *syntax.BinaryCmd:
		tokens = appendStmt(tokens, src, c.X)
		tokens = append(tokens, c.Op.String())
		tokens = appendStmt(tokens, src, c.Y)
	case nil:
	default:
		tokens = append(tokens, sourceText(src, c))
	}

	for _, r := range stmt.Redirs {
		op := r.Op.String()
		if r.N != nil {
			op = r.N.Value + op
		}
		tokens = append(tokens, op)
		if r.Word != nil {
			tokens = append(tokens, wordText(src, r.Word))
		}
	}
	if stmt.Background {
		tokens = append(tokens, "&")
	}
	return tokens
}

func assignText(src string, as *syntax.Assign) string {
	var sb strings.Builder
	if as.Name != nil {
		sb.WriteString(as.Name.Value)
	}
	if as.Append {
		sb.WriteString("+")
	}
	if !as.Naked {
		sb.WriteString("=")
	}
	if as.Value != nil {
		sb.WriteString(wordText(src, as.Value))
	} else if as.Array != nil {
		sb.WriteString(sourceText(src, as.Array))
	}
	return sb.String()
}

// wordText returns the value of a word after quote removal.
func wordText(src string, w *syntax.Word) string {
	var sb strings.Builder
	for _, part := range w.Parts {
		writePart(&sb, src, part, false)
	}
	return sb.String()
}

func writePart(sb *strings.Builder, src string, part syntax.WordPart, quoted bool) {
	switch p := part.(type) {
	case *syntax.Lit:
		if quoted {
			sb.WriteString(unescapeDouble(p.Value))
		} else {
			sb.WriteString(unescapeBare(p.Value))
		}
	case *syntax.SglQuoted:
		sb.WriteString(p.Value)
	case *syntax.DblQuoted:
		for _, inner := range p.Parts {
			writePart(sb, src, inner, true)
		}
	default:
		// $VAR, $(cmd), $((expr)) and friends stay as written.
		sb.WriteString(sourceText(src, p))
	}
}

// sourceText returns the text node spans in src. Nodes without a usable
// position are printed instead.
func sourceText(src string, node syntax.Node) string {
	start, end := node.Pos(), node.End()
	if start.IsValid() && end.IsValid() {
		if from, to := int(start.Offset()), int(end.Offset()); from <= to && to <= len(src) {
			return src[from:to]
		}
	}
	var sb strings.Builder
	if err := syntax.NewPrinter().Print(&sb, node); err != nil {
		return ""
	}
	return sb.String()
}

// unescapeBare resolves backslash escapes outside of quotes: a backslash
// quotes the next character and a backslash-newline pair is removed.
func unescapeBare(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			if s[i] != '\n' {
				sb.WriteByte(s[i])
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// unescapeDouble resolves backslash escapes inside double quotes, where only
// $, `, ", \ and newline may be escaped.
func unescapeDouble(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '$', '`', '"', '\\':
				sb.WriteByte(s[i+1])
				i++
				continue
			case '\n':
				i++
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
