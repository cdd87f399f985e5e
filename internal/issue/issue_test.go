// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		contains string
	}{
		{UsageErrorId, "Missing recipe path"},
		{RecipeNotFoundId, "Recipe not found"},
		{EntryPointNotFoundId, "No recipe entry point found"},
		{RecipeLoadFailedId, "failed to load"},
		{CommandTokenizationFailedId, "could not be tokenized"},
		{CheckoutOutOfSequenceId, "Checkout without a matching clone"},
		{UnsupportedCapabilityId, "Unsupported capability"},
		{SourceTimeoutId, "timed out"},
		{ConfigLoadFailedId, "Failed to load configuration"},
		{ReportExportFailedId, "could not be written"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			t.Parallel()

			got := Get(tt.id)
			if got == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if got.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", got.Id(), tt.id)
			}
			if !strings.Contains(string(got.MarkdownMsg()), tt.contains) {
				t.Errorf("MarkdownMsg() should contain %q", tt.contains)
			}
		})
	}

	if Get(Id(9999)) != nil {
		t.Error("Get(9999) should return nil")
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	if len(catalog) != int(ReportExportFailedId) {
		t.Fatalf("len(catalog) = %d, want %d", len(catalog), ReportExportFailedId)
	}
	for i, v := range catalog {
		if v.Id() != Id(i+1) {
			t.Errorf("catalog[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
		if v.MarkdownMsg() == "" {
			t.Errorf("issue %d has empty MarkdownMsg", v.Id())
		}
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	i := &Issue{id: UsageErrorId, docLinks: []HttpLink{"https://docs.conan.io/"}}
	links := i.DocLinks()
	links[0] = "modified"
	if i.DocLinks()[0] != "https://docs.conan.io/" {
		t.Error("DocLinks() should return a clone")
	}
	if i.ExtLinks() != nil {
		t.Error("ExtLinks() should be nil when unset")
	}
}

//nolint:paralleltest // swaps the package-level renderer
func TestIssue_Render(t *testing.T) {
	originalRender := render
	t.Cleanup(func() { render = originalRender })

	var gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	for _, i := range catalog {
		rendered, err := i.Render("notty")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", i.Id(), err)
		}
		if rendered == "" {
			t.Errorf("issue %d rendered to empty string", i.Id())
		}
	}
	if gotStyle != "notty" {
		t.Errorf("style = %q, want notty", gotStyle)
	}

	withLinks := &Issue{
		id:       UsageErrorId,
		mdMsg:    "# Title",
		docLinks: []HttpLink{"https://docs.conan.io/"},
		extLinks: []HttpLink{"https://git-scm.com/docs/git-clone"},
	}
	rendered, err := withLinks.Render("")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"## See also", "- <https://docs.conan.io/>", "- <https://git-scm.com/docs/git-clone>"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() missing %q in:\n%s", want, rendered)
		}
	}
}
