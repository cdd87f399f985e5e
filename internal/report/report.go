// SPDX-License-Identifier: MPL-2.0

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"conanprobe/internal/provenance"
)

// Export formats, selected by file extension.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for export paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported report format")

type (
	// Format is a machine-readable report encoding.
	Format string

	// Report is the provenance collected from one recipe run.
	Report struct {
		// Recipe is the path of the recipe file.
		Recipe string `json:"recipe" toml:"recipe" yaml:"recipe"`
		// Type is the located type line, such as "type Zlib (*conans.ConanFile):".
		Type string `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty"`
		// Partial is set when the entry point failed and the collections
		// hold only what was observed before the failure.
		Partial bool `json:"partial" toml:"partial" yaml:"partial"`
		// Error is the failure of a partial report.
		Error string `json:"error,omitempty" toml:"error,omitempty" yaml:"error,omitempty"`

		History []string                     `json:"cmd_history" toml:"cmd_history" yaml:"cmd_history"`
		Repos   []provenance.RepoRecord      `json:"git_repos" toml:"git_repos" yaml:"git_repos"`
		Files   []provenance.FetchFileRecord `json:"get_files" toml:"get_files" yaml:"get_files"`
	}
)

// New builds a report from the current contents of state.
func New(recipe, typeLine string, state *provenance.State) *Report {
	return &Report{
		Recipe:  recipe,
		Type:    typeLine,
		History: state.History(),
		Repos:   state.Repos(),
		Files:   state.Files(),
	}
}

// MarkPartial flags the report as incomplete because of err.
func (r *Report) MarkPartial(err error) {
	r.Partial = true
	if err != nil {
		r.Error = err.Error()
	}
}

// FormatFromPath returns the format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (use .json, .toml or .yaml)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Marshal encodes the report in format f.
func (r *Report) Marshal(f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return toml.Marshal(r.withoutNulls())
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// withoutNulls returns a copy of r whose fetch params hold "" in place of
// nil values. TOML has no null and go-toml would drop those keys.
func (r *Report) withoutNulls() *Report {
	out := *r
	out.Files = make([]provenance.FetchFileRecord, len(r.Files))
	for i, f := range r.Files {
		if f.Params != nil {
			f.Params = nullsToEmpty(f.Params).(map[string]any)
		}
		out.Files[i] = f
	}
	return &out
}

func nullsToEmpty(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = nullsToEmpty(e)
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i, e := range t {
			l[i] = nullsToEmpty(e)
		}
		return l
	default:
		return v
	}
}

// Export writes the report to path in the format its extension selects.
func Export(path string, r *Report) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := r.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode %s report: %w", f, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
