// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load recipe"},
			expected: "failed to load recipe",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load recipe", Resource: "conanfile.go"},
			expected: "failed to load recipe: conanfile.go",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "export report", Cause: errors.New("permission denied")},
			expected: "failed to export report: permission denied",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "config.cue",
				Cause:     errors.New("expected bool"),
			},
			expected: "failed to load configuration: config.cue: expected bool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	err := WrapWithContext(cause, "run recipe", "zlib/conanfile.go")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if (&ActionableError{Operation: "test"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
	if WrapWithContext(nil, "run recipe", "") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("unbalanced quote")
	err := &ActionableError{
		Operation:   "run recipe",
		Resource:    "openssl/conanfile.go",
		Suggestions: []string{"Balance the quotes", "Check cmd_history"},
		Cause:       errors.Join(inner),
	}

	plain := err.Format(false)
	for _, want := range []string{"failed to run recipe: openssl/conanfile.go", "  • Balance the quotes", "  • Check cmd_history"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Format(false) missing %q in:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "1. unbalanced quote") {
		t.Errorf("Format(true) should list the chain, got:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ctx := NewErrorContext().
		WithOperation("load recipe").
		WithResource("a.go").
		WithSuggestion("one").
		WithSuggestions("two", "three").
		Wrap(cause)

	ae := ctx.Build()
	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "load recipe" || ae.Resource != "a.go" || ae.Cause != cause {
		t.Errorf("Build() = %+v", ae)
	}
	if len(ae.Suggestions) != 3 {
		t.Fatalf("len(Suggestions) = %d, want 3", len(ae.Suggestions))
	}

	// Later builder calls must not leak into an already built error.
	ctx.WithSuggestion("four")
	if len(ae.Suggestions) != 3 || !ae.HasSuggestions() {
		t.Errorf("built error changed after builder reuse: %v", ae.Suggestions)
	}
}

func TestErrorContext_BuildError(t *testing.T) {
	t.Parallel()

	if err := NewErrorContext().Wrap(errors.New("x")).BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}

	err := NewErrorContext().WithOperation("validate configuration").BuildError()
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("BuildError() should return *ActionableError, got %T", err)
	}
	if ae.HasSuggestions() {
		t.Error("HasSuggestions() = true, want false")
	}
}
