// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"conanprobe/internal/provenance"
)

// Printer writes the line-oriented run log.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, styles: NewStyles(lipgloss.NewRenderer(w))}
}

// Writer returns the underlying writer. Intercepted calls are logged to it
// so that they interleave with the run log.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Recipe prints the recipe header.
func (p *Printer) Recipe(path string) {
	fmt.Fprintln(p.w, p.styles.Title.Render("# "+path))
}

// Found prints the located type line.
func (p *Printer) Found(typeLine string) {
	fmt.Fprintln(p.w, p.styles.Key.Render("found:")+" "+strings.TrimSuffix(typeLine, ":"))
}

// Begin announces the entry point invocation.
func (p *Printer) Begin(entry string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.styles.Muted.Render("run "+entry+"()"))
}

// End closes the entry point invocation.
func (p *Printer) End(entry string) {
	fmt.Fprintln(p.w, p.styles.Muted.Render("done "+entry+"()"))
	fmt.Fprintln(p.w)
}

// Report prints the command history and the collected records.
func (p *Printer) Report(r *Report) {
	s := p.styles
	if r.Partial {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, s.Warning.Render("partial report: "+r.Error))
	}

	if len(r.History) > 0 {
		fmt.Fprintln(p.w, s.Section.Render("cmd_history:"))
		for _, cmd := range r.History {
			fmt.Fprintln(p.w, s.Command.Render("$ "+cmd))
		}
		fmt.Fprintln(p.w)
	}

	fmt.Fprintln(p.w, s.Section.Render("git_repos:"))
	if len(r.Repos) == 0 {
		fmt.Fprintln(p.w, s.Muted.Render("  (none)"))
	}
	for _, repo := range r.Repos {
		fmt.Fprintln(p.w, "  "+p.fields(repoFields(repo)))
	}

	fmt.Fprintln(p.w, s.Section.Render("get_files:"))
	if len(r.Files) == 0 {
		fmt.Fprintln(p.w, s.Muted.Render("  (none)"))
	}
	for _, f := range r.Files {
		fields := [][2]string{{"url", f.URL}}
		if len(f.Mirrors) > 0 {
			fields = append(fields, [2]string{"mirrors", strings.Join(f.Mirrors, ",")})
		}
		for _, k := range slices.Sorted(maps.Keys(f.Params)) {
			fields = append(fields, [2]string{k, fmt.Sprint(f.Params[k])})
		}
		fmt.Fprintln(p.w, "  "+p.fields(fields))
	}
}

// Error prints a failure line.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, p.styles.Warning.Render("error: ")+err.Error())
}

func (p *Printer) fields(fields [][2]string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = p.styles.Key.Render(f[0]+"=") + p.styles.Value.Render(f[1])
	}
	return strings.Join(parts, " ")
}

func repoFields(r provenance.RepoRecord) [][2]string {
	fields := [][2]string{
		{"name", r.Name},
		{"url", r.URL},
		{"owner", r.Owner},
		{"dir", r.Dir},
	}
	if r.Rev != "" {
		fields = append(fields, [2]string{"rev", r.Rev})
	}
	if r.Branch != "" {
		fields = append(fields, [2]string{"branch", r.Branch})
	}
	fields = append(fields, [2]string{"path", r.Path}, [2]string{"cwd", r.Cwd})
	return fields
}
