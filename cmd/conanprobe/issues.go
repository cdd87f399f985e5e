// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"conanprobe/internal/capability"
	"conanprobe/internal/config"
	"conanprobe/internal/issue"
	"conanprobe/internal/provenance"
	"conanprobe/internal/recipe"
	"conanprobe/internal/report"
	"conanprobe/internal/shellwords"
)

// issueStyle is the glamour style of rendered issues. Diagnostics go to
// stderr, which is rarely worth decorating.
const issueStyle = "notty"

// issueFor maps an error to the catalog entry that explains it.
// It returns 0 when no entry applies.
func issueFor(err error) issue.Id {
	var ae *issue.ActionableError
	switch {
	case errors.Is(err, ErrUsage):
		return issue.UsageErrorId
	case errors.Is(err, ErrRecipeNotFound):
		return issue.RecipeNotFoundId
	case errors.Is(err, recipe.ErrEntryPointNotFound):
		return issue.EntryPointNotFoundId
	case errors.Is(err, shellwords.ErrTokenization):
		return issue.CommandTokenizationFailedId
	case errors.Is(err, provenance.ErrOutOfSequence):
		return issue.CheckoutOutOfSequenceId
	case errors.Is(err, capability.ErrUnsupportedCapability):
		return issue.UnsupportedCapabilityId
	case errors.Is(err, context.DeadlineExceeded):
		return issue.SourceTimeoutId
	case errors.Is(err, report.ErrUnsupportedFormat):
		return issue.ReportExportFailedId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	case errors.As(err, &ae) && ae.Operation == "load configuration":
		return issue.ConfigLoadFailedId
	case errors.As(err, &ae) && ae.Operation == "export report":
		return issue.ReportExportFailedId
	case errors.As(err, &ae) && ae.Operation == "probe recipe":
		return issue.RecipeLoadFailedId
	}
	return 0
}

// renderIssue writes the catalog entry id to w. Unknown ids are ignored.
func renderIssue(w io.Writer, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(issueStyle)
	if err != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// fail turns err into the command's exit error. In verbose mode the full
// error chain and the matching catalog entry are written to stderr first.
func fail(app *App, flags *rootFlags, err error) error {
	if flags.verbose {
		fmt.Fprintln(app.stderr, ErrorStyle.Render("error: ")+formatErrorForDisplay(err, true))
		renderIssue(app.stderr, issueFor(err))
	}
	return &ExitError{Code: ExitFailure, Err: err}
}
