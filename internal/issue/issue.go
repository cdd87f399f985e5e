// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	UsageErrorId Id = iota + 1
	RecipeNotFoundId
	EntryPointNotFoundId
	RecipeLoadFailedId
	CommandTokenizationFailedId
	CheckoutOutOfSequenceId
	UnsupportedCapabilityId
	SourceTimeoutId
	ConfigLoadFailedId
	ReportExportFailedId
)

type MarkdownMsg string

type HttpLink string

// Issue is a Markdown explanation of a failure class with remediation steps.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal Markdown using the glamour style at
// stylePath ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range append(slices.Clone(i.docLinks), i.extLinks...) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

var (
	render = glamour.Render

	usageErrorIssue = &Issue{
		id: UsageErrorId,
		mdMsg: `
# Missing recipe path

conanprobe needs the path of exactly one recipe file.

## Things you can try:
- Pass the recipe as the only argument:
~~~
$ conanprobe recipes/android-core/conanfile.go
~~~
- Export the collected provenance as well:
~~~
$ conanprobe analyze --report provenance.json recipes/android-core/conanfile.go
~~~`,
	}

	recipeNotFoundIssue = &Issue{
		id: RecipeNotFoundId,
		mdMsg: `
# Recipe not found!

The recipe path does not name a readable file.

## Things you can try:
- Check the path for typos
- Run conanprobe from the directory the path is relative to`,
	}

	entryPointNotFoundIssue = &Issue{
		id: EntryPointNotFoundId,
		mdMsg: `
# No recipe entry point found!

conanprobe looks for a type that embeds the recipe base type and has a
fetch method without parameters.

## Expected recipe shape:
~~~go
package recipe

import "conans"

type AndroidCore struct {
	*conans.ConanFile
}

func (r *AndroidCore) Source() error {
	return r.Run("git clone https://android.googlesource.com/platform/system/core")
}
~~~

## Things you can try:
- Embed the base type configured in ` + "`recipe.base_type`" + `
- Declare the method configured in ` + "`recipe.entry_point`" + ` on that type
- Run ` + "`conanprobe source <recipe>`" + ` to see what was detected`,
	}

	recipeLoadFailedIssue = &Issue{
		id: RecipeLoadFailedId,
		mdMsg: `
# The recipe failed to load!

The recipe was found but could not be compiled or instantiated by the
interpreter.

## Things you can try:
- Check the recipe for syntax errors
- Import only the standard library and the virtual ` + "`conans`" + `, ` + "`conans/tools`" + ` and ` + "`shutil`" + ` packages
- Construct the base value with ` + "`conans.NewConanFile()`" + ``,
	}

	commandTokenizationFailedIssue = &Issue{
		id: CommandTokenizationFailedId,
		mdMsg: `
# A recipe command could not be tokenized!

A command passed to ` + "`Run`" + ` has unbalanced quotes or other malformed
shell syntax, so its effects cannot be interpreted.

## Things you can try:
- Balance the single and double quotes of the command
- Check the ` + "`cmd_history`" + ` section of the partial report for the offending line`,
	}

	checkoutOutOfSequenceIssue = &Issue{
		id: CheckoutOutOfSequenceId,
		mdMsg: `
# Checkout without a matching clone!

A ` + "`git checkout`" + ` ran before any clone, or in a directory no clone targets.

## Things you can try:
- Clone the repository before checking out a revision
- ` + "`cd`" + ` into the cloned directory (or pass ` + "`cwd`" + `) before the checkout
- Set ` + "`git.fallback_last_clone: true`" + ` to attribute such checkouts to the last clone`,
	}

	unsupportedCapabilityIssue = &Issue{
		id: UnsupportedCapabilityId,
		mdMsg: `
# Unsupported capability!

The recipe called a capability that is disabled and has no real
implementation to fall back to.

## Things you can try:
- Remove it from ` + "`interception.disabled`" + `
- Run ` + "`conanprobe capabilities`" + ` to list the intercepted capabilities`,
	}

	sourceTimeoutIssue = &Issue{
		id: SourceTimeoutId,
		mdMsg: `
# The recipe's fetch step timed out!

The entry point did not return before the deadline. It may loop forever.

## Things you can try:
- Raise the limit with ` + "`--timeout`" + `
- Check the partial report for the last command the recipe ran`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file has invalid CUE or values outside the schema.

## Things you can try:
- Show the effective configuration:
~~~
$ conanprobe config show
~~~
- Write a fresh default file:
~~~
$ conanprobe config init
~~~`,
	}

	reportExportFailedIssue = &Issue{
		id: ReportExportFailedId,
		mdMsg: `
# The report could not be written!

## Things you can try:
- Use a ` + "`.json`" + `, ` + "`.toml`" + `, ` + "`.yaml`" + ` or ` + "`.yml`" + ` extension
- Check that the target directory exists and is writable`,
	}

	catalog = []*Issue{
		usageErrorIssue,
		recipeNotFoundIssue,
		entryPointNotFoundIssue,
		recipeLoadFailedIssue,
		commandTokenizationFailedIssue,
		checkoutOutOfSequenceIssue,
		unsupportedCapabilityIssue,
		sourceTimeoutIssue,
		configLoadFailedIssue,
		reportExportFailedIssue,
	}

	issues = index(catalog)
)

func index(list []*Issue) map[Id]*Issue {
	m := make(map[Id]*Issue, len(list))
	for _, i := range list {
		m[i.Id()] = i
	}
	return m
}

// Get returns the issue with the given Id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
