// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"conanprobe/internal/config"
	"conanprobe/internal/issue"
	"conanprobe/internal/provenance"
	"conanprobe/internal/recipe"
	"conanprobe/internal/report"
)

const androidRecipe = "testdata/android-core/conanfile.go"

// staticConfig serves a fixed configuration.
type staticConfig struct {
	cfg  *config.Config
	path string
	err  error
}

func (s staticConfig) Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error) {
	cfg, _, err := s.Resolve(ctx, opts)
	return cfg, err
}

func (s staticConfig) Resolve(context.Context, config.LoadOptions) (*config.Config, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.cfg, s.path, nil
}

type result struct {
	stdout, stderr string
	err            error
}

func execute(t *testing.T, provider config.Provider, args ...string) result {
	t.Helper()

	if provider == nil {
		provider = staticConfig{cfg: config.DefaultConfig()}
	}
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Config: provider, Stdout: &stdout, Stderr: &stderr})
	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: mutates package-level Version/Commit/BuildDate vars.
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v0.3.0", "abc1234", "2026-10-19T10:00:00Z"
	if got, want := getVersionString(), "v0.3.0 (commit: abc1234, built: 2026-10-19T10:00:00Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got, want := getVersionString(), "dev (built from source)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}

func TestRoot_MissingRecipe(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{nil, {"analyze"}} {
		res := execute(t, nil, args...)
		if !errors.Is(res.err, ErrUsage) {
			t.Fatalf("%v: error = %v, want ErrUsage", args, res.err)
		}
		if got := exitCode(res.err); got != ExitUsage {
			t.Errorf("%v: exit code = %d, want %d", args, got, ExitUsage)
		}
		if !strings.Contains(res.stdout+res.stderr, "Usage:") {
			t.Errorf("%v: usage should be printed, got stdout=%q stderr=%q", args, res.stdout, res.stderr)
		}
	}
}

func TestRoot_TooManyArgs(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, androidRecipe, androidRecipe)
	if res.err == nil {
		t.Fatal("two recipes should be rejected")
	}
}

func TestRoot_ProbesRecipe(t *testing.T) {
	t.Parallel()

	res := execute(t, nil, androidRecipe)
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	for _, want := range []string{
		"found: type AndroidCore",
		"fake conans.ConanFile.Run",
		"git_repos:",
		"url=https://android.googlesource.com/platform/system/core.git",
		"owner=system",
		"get_files:",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestAnalyze_ExportsReport(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "provenance.json")
	res := execute(t, nil, "analyze", "--report", out, androidRecipe)
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if len(rep.Repos) != 1 || rep.Repos[0].Name != "core" {
		t.Errorf("Repos = %+v", rep.Repos)
	}
	if len(rep.History) != 1 {
		t.Errorf("History = %v, want one command", rep.History)
	}
}

func TestAnalyze_RejectsReportFormat(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "provenance.xml")
	res := execute(t, nil, "analyze", "--report", out, androidRecipe)
	if !errors.Is(res.err, report.ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", res.err)
	}
	if strings.Contains(res.stdout, "run AndroidCore") {
		t.Error("the recipe should not run when the report cannot be written")
	}
}

func TestAnalyze_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		recipe  string
		wantIs  error
		wantIss issue.Id
	}{
		{"missing file", "testdata/absent/conanfile.go", ErrRecipeNotFound, issue.RecipeNotFoundId},
		{"directory", "testdata/android-core", ErrRecipeNotFound, issue.RecipeNotFoundId},
		{"no entry point", "testdata/helper/conanfile.go", recipe.ErrEntryPointNotFound, issue.EntryPointNotFoundId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := execute(t, nil, "--verbose", tt.recipe)
			if !errors.Is(res.err, tt.wantIs) {
				t.Fatalf("error = %v, want %v", res.err, tt.wantIs)
			}
			if got := exitCode(res.err); got != ExitFailure {
				t.Errorf("exit code = %d, want %d", got, ExitFailure)
			}
			if got := issueFor(res.err); got != tt.wantIss {
				t.Errorf("issueFor() = %d, want %d", got, tt.wantIss)
			}
			if !strings.Contains(res.stderr, "error:") {
				t.Errorf("verbose failure should be explained on stderr, got %q", res.stderr)
			}
		})
	}
}

func TestCheckRecipe_Suggestions(t *testing.T) {
	t.Parallel()

	err := checkRecipe("testdata/android-core")
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("checkRecipe() error = %v, want an ActionableError", err)
	}
	want := []string{
		"Check the path for typos",
		"Pass the recipe file itself, such as conanfile.go, not its directory",
	}
	if diff := cmp.Diff(want, ae.Suggestions); diff != "" {
		t.Errorf("Suggestions mismatch (-want +got):\n%s", diff)
	}
	if err := checkRecipe(androidRecipe); err != nil {
		t.Errorf("checkRecipe(%q) error = %v", androidRecipe, err)
	}
}

func TestAnalyze_ConfigError(t *testing.T) {
	t.Parallel()

	cfgErr := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource("config.cue").
		Wrap(errors.New("expected bool")).
		BuildError()
	res := execute(t, staticConfig{err: cfgErr}, androidRecipe)
	if !errors.Is(res.err, cfgErr) {
		t.Fatalf("error = %v, want the config error", res.err)
	}
	if got := issueFor(res.err); got != issue.ConfigLoadFailedId {
		t.Errorf("issueFor() = %d, want ConfigLoadFailedId", got)
	}
}

func TestIssueFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"usage", &UsageError{Missing: "recipe"}, issue.UsageErrorId},
		{"out of sequence", &provenance.OutOfSequenceError{Rev: "v1"}, issue.CheckoutOutOfSequenceId},
		{"timeout", context.DeadlineExceeded, issue.SourceTimeoutId},
		{"invalid config", &config.InvalidConfigError{}, issue.ConfigLoadFailedId},
		{"probe failure", issue.WrapWithContext(errors.New("boom"), "probe recipe", "a.go"), issue.RecipeLoadFailedId},
		{"unknown", errors.New("boom"), 0},
	}
	for _, tt := range tests {
		if got := issueFor(tt.err); got != tt.want {
			t.Errorf("%s: issueFor() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	ae := issue.NewErrorContext().
		WithOperation("open recipe").
		WithResource("a.go").
		WithSuggestion("Check the path for typos").
		BuildError()
	if got := formatErrorForDisplay(ae, false); !strings.Contains(got, "• Check the path for typos") {
		t.Errorf("formatErrorForDisplay() = %q, want suggestions", got)
	}
	if got := formatErrorForDisplay(errors.New("plain"), false); got != "plain" {
		t.Errorf("formatErrorForDisplay() = %q, want %q", got, "plain")
	}
}
