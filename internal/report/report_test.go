// SPDX-License-Identifier: MPL-2.0

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"conanprobe/internal/provenance"
)

func sampleReport() *Report {
	state := provenance.NewState()
	state.RecordCommand("git clone https://example.com/org/proj.git && cd proj && git checkout v1")
	state.RecordClone(".", "https://example.com/org/proj.git", "", "")
	if _, err := state.RecordCheckout("proj", "v1"); err != nil {
		panic(err)
	}
	state.RecordFetch([]any{"https://example.com/a.tgz"}, map[string]any{"sha256": "abc"})
	return New("conanfile.go", "type Proj (*conans.ConanFile):", state)
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "out.json", want: FormatJSON},
		{path: "out.TOML", want: FormatTOML},
		{path: "dir/out.yaml", want: FormatYAML},
		{path: "out.yml", want: FormatYAML},
		{path: "out.txt", wantErr: true},
		{path: "out", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("FormatFromPath() error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FormatFromPath() = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestMarshal_JSON(t *testing.T) {
	t.Parallel()

	data, err := sampleReport().Marshal(FormatJSON)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(sampleReport(), &got); diff != "" {
		t.Errorf("JSON report mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Contains(data, []byte(`"git_repos"`)) || !bytes.Contains(data, []byte(`"rev": "v1"`)) {
		t.Errorf("unexpected JSON:\n%s", data)
	}
}

func TestMarshal_TOML(t *testing.T) {
	t.Parallel()

	data, err := sampleReport().Marshal(FormatTOML)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got map[string]any
	if err := toml.Unmarshal(data, &got); err != nil {
		t.Fatalf("toml.Unmarshal() error = %v\n%s", err, data)
	}
	repos, ok := got["git_repos"].([]any)
	if !ok || len(repos) != 1 {
		t.Fatalf("git_repos = %#v", got["git_repos"])
	}
	if repo := repos[0].(map[string]any); repo["owner"] != "org" || repo["rev"] != "v1" {
		t.Errorf("repo = %#v", repo)
	}
}

func TestMarshal_TOMLKeepsNullParams(t *testing.T) {
	t.Parallel()

	state := provenance.NewState()
	state.RecordFetch([]any{"https://example.com/a.tgz"}, map[string]any{
		"destination": nil,
		"opts":        map[string]any{"k": nil},
		"list":        []any{"x", nil},
	})
	r := New("conanfile.go", "", state)

	data, err := r.Marshal(FormatTOML)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got struct {
		Files []struct {
			Params map[string]any `toml:"params"`
		} `toml:"get_files"`
	}
	if err := toml.Unmarshal(data, &got); err != nil {
		t.Fatalf("toml.Unmarshal() error = %v\n%s", err, data)
	}
	if len(got.Files) != 1 {
		t.Fatalf("get_files = %+v\n%s", got.Files, data)
	}
	want := map[string]any{
		"destination": "",
		"opts":        map[string]any{"k": ""},
		"list":        []any{"x", ""},
	}
	if diff := cmp.Diff(want, got.Files[0].Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s\n%s", diff, data)
	}
	if r.Files[0].Params["destination"] != nil {
		t.Error("Marshal() must not modify the report")
	}
}

func TestMarshal_YAML(t *testing.T) {
	t.Parallel()

	data, err := sampleReport().Marshal(FormatYAML)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got Report
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(sampleReport(), &got); diff != "" {
		t.Errorf("YAML report mismatch (-want +got):\n%s", diff)
	}
}

func TestExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.yaml")
	if err := Export(path, sampleReport()); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "url: https://example.com/org/proj.git") {
		t.Errorf("exported YAML:\n%s", data)
	}

	if err := Export(filepath.Join(dir, "report.csv"), sampleReport()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Export(.csv) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	r := sampleReport()
	p.Recipe(r.Recipe)
	p.Found(r.Type)
	p.Begin("Proj.Source")
	p.End("Proj.Source")
	p.Report(r)

	out := buf.String()
	for _, want := range []string{
		"# conanfile.go\n",
		"found: type Proj (*conans.ConanFile)\n",
		"run Proj.Source()\n",
		"done Proj.Source()\n",
		"cmd_history:\n$ git clone https://example.com/org/proj.git && cd proj && git checkout v1\n",
		"name=proj url=https://example.com/org/proj.git owner=org dir=proj rev=v1 path=proj cwd=.\n",
		"get_files:\n  url=https://example.com/a.tgz sha256=abc\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "partial report") {
		t.Error("complete report printed as partial")
	}
}

func TestPrinter_PartialAndEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New("x.go", "", provenance.NewState())
	r.MarkPartial(errors.New("boom"))
	NewPrinter(&buf).Report(r)

	out := buf.String()
	if !strings.Contains(out, "partial report: boom") {
		t.Errorf("output missing partial marker:\n%s", out)
	}
	if strings.Contains(out, "cmd_history:") {
		t.Errorf("empty history should be omitted:\n%s", out)
	}
	if got := strings.Count(out, "(none)"); got != 2 {
		t.Errorf("(none) printed %d times, want 2", got)
	}
}
