// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"conanprobe/internal/capability"
	"conanprobe/internal/config"
	"conanprobe/internal/recipe"
)

func TestSource_PrintsEntryPoint(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, "source", androidRecipe)
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	for _, want := range []string{
		"type AndroidCore (*conans.ConanFile):",
		"func (r *AndroidCore) Source() error {",
		`r.Run("git clone https://android.googlesource.com/platform/system/core.git")`,
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "fake ") {
		t.Error("source must not run the recipe")
	}
}

func TestSource_Render(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, "source", "--render", androidRecipe)
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "AndroidCore") {
		t.Errorf("rendered output should mention the type:\n%s", res.stdout)
	}
}

func TestSource_NotFound(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, "source", "testdata/helper/conanfile.go")
	if !errors.Is(res.err, recipe.ErrEntryPointNotFound) {
		t.Fatalf("error = %v, want ErrEntryPointNotFound", res.err)
	}
	if !strings.Contains(res.stdout, "no type extends ConanFile") {
		t.Errorf("stdout should carry the not-found message:\n%s", res.stdout)
	}
}

func TestSource_MissingEntryPoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		header string
		want   string
	}{
		{
			name:   "go",
			args:   []string{"source", "testdata/nosource/conanfile.go"},
			header: "type Headers (*conans.ConanFile):",
			want:   "no Source method on Headers",
		},
		{
			name:   "python",
			args:   []string{"source", "testdata/nosource-py/conanfile.py"},
			header: "class HeadersConan (ConanFile):",
			want:   "no source method on HeadersConan",
		},
		{
			name: "go rendered",
			args: []string{"source", "--render", "testdata/nosource/conanfile.go"},
			want: "no Source method",
		},
		{
			name: "python rendered",
			args: []string{"source", "--render", "testdata/nosource-py/conanfile.py"},
			want: "no source method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := execute(t, nil, tt.args...)
			if res.err != nil {
				t.Fatalf("error = %v", res.err)
			}
			if tt.header != "" && !strings.Contains(res.stdout, tt.header) {
				t.Errorf("stdout missing header %q:\n%s", tt.header, res.stdout)
			}
			if !strings.Contains(res.stdout, tt.want) {
				t.Errorf("stdout missing %q:\n%s", tt.want, res.stdout)
			}
		})
	}
}

func TestCapabilities(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Interception.Disabled = []string{capability.OSStat.String(), capability.ShutilMove.String()}

	res := execute(t, staticConfig{cfg: cfg}, "capabilities")
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}

	lines := strings.Split(res.stdout, "\n")
	find := func(name capability.Name) string {
		for _, line := range lines {
			if strings.Contains(line, name.String()+" ") {
				return line
			}
		}
		return ""
	}
	for _, name := range capability.Names() {
		if find(name) == "" {
			t.Errorf("capability %s not listed", name)
		}
	}
	if line := find(capability.OSStat); !strings.Contains(line, "real") {
		t.Errorf("disabled os.Stat should fall back to the real call: %q", line)
	}
	if line := find(capability.ShutilMove); !strings.Contains(line, "unsupported") {
		t.Errorf("disabled shutil.Move should be unsupported: %q", line)
	}
	if line := find(capability.ToolsGet); !strings.Contains(line, "intercepted") {
		t.Errorf("tools.Get should be intercepted: %q", line)
	}
}

func TestConfig_ShowAndDump(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Git.FallbackLastClone = true
	provider := staticConfig{cfg: cfg, path: "/etc/conanprobe/config.cue"}

	show := execute(t, provider, "config", "show")
	if show.err != nil {
		t.Fatalf("config show error = %v", show.err)
	}
	for _, want := range []string{"Config file: /etc/conanprobe/config.cue", "fallback_last_clone: true", "disabled: (none)"} {
		if !strings.Contains(show.stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, show.stdout)
		}
	}

	dump := execute(t, provider, "config", "dump")
	if dump.err != nil {
		t.Fatalf("config dump error = %v", dump.err)
	}
	if dump.stdout != config.GenerateCUE(cfg) {
		t.Errorf("config dump = %q, want GenerateCUE output", dump.stdout)
	}
}
