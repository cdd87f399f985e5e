// SPDX-License-Identifier: MPL-2.0

package capability

import (
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"conanprobe/internal/gitcmd"
	"conanprobe/internal/provenance"
)

// DefaultFakeVersion is the version seeded into every recipe instance.
const DefaultFakeVersion = "fakeVersion"

type (
	// Options configures an Environment.
	Options struct {
		// Disabled lists capabilities that are not intercepted.
		Disabled []Name
		// VCSTool is the executable name treated as git. Defaults to "git".
		VCSTool string
		// FakeVersion is seeded into recipe instances. Defaults to DefaultFakeVersion.
		FakeVersion string
		// ConanDataPath is a conandata.yml merged into recipe instances when
		// it exists. Empty disables loading.
		ConanDataPath string
		// Output receives one line per intercepted call. Nil discards them.
		Output io.Writer
		// Logger receives diagnostics. Nil discards them.
		Logger *log.Logger
	}

	// Environment is the capability set a single recipe run executes against.
	// It owns no provenance itself; every stand-in mutates the State it was
	// created with.
	Environment struct {
		state    *provenance.State
		handlers map[Name]Handler
		disabled []Name
		calls    []Call

		vcsTool       string
		fakeVersion   string
		conanDataPath string
		out           io.Writer
		logger        *log.Logger
	}
)

// NewEnvironment creates an Environment with the default stand-in for every
// capability in the interception table.
func NewEnvironment(state *provenance.State, opts Options) *Environment {
	e := &Environment{
		state:         state,
		handlers:      defaultHandlers(),
		disabled:      slices.Clone(opts.Disabled),
		vcsTool:       opts.VCSTool,
		fakeVersion:   opts.FakeVersion,
		conanDataPath: opts.ConanDataPath,
		out:           opts.Output,
		logger:        opts.Logger,
	}
	if e.vcsTool == "" {
		e.vcsTool = gitcmd.DefaultTool
	}
	if e.fakeVersion == "" {
		e.fakeVersion = DefaultFakeVersion
	}
	if e.out == nil {
		e.out = io.Discard
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// State returns the provenance state the stand-ins record into.
func (e *Environment) State() *provenance.State {
	return e.state
}

// Handle replaces the handler of a capability.
func (e *Environment) Handle(name Name, h Handler) {
	e.handlers[name] = h
}

// Enabled reports whether calls to name are intercepted.
func (e *Environment) Enabled(name Name) bool {
	if slices.Contains(e.disabled, name) {
		return false
	}
	_, ok := e.handlers[name]
	return ok
}

// Calls returns the intercepted calls in order.
func (e *Environment) Calls() []Call {
	return slices.Clone(e.calls)
}

// Invoke logs call and dispatches it to its handler. A call to a capability
// that is disabled or has no handler fails with UnsupportedCapabilityError,
// which is also recorded as the run's fault.
func (e *Environment) Invoke(call Call) (any, error) {
	h, ok := e.handlers[call.Name]
	if !ok || slices.Contains(e.disabled, call.Name) {
		err := &UnsupportedCapabilityError{Name: call.Name, Disabled: ok}
		e.logger.Warn("capability not intercepted", "capability", call.Name)
		e.state.Fail(err)
		return nil, err
	}

	e.calls = append(e.calls, call)
	fmt.Fprintln(e.out, FormatCall(call))
	return h(e, call)
}

// FormatCall renders a call the way it is written to the call log:
//
//	fake tools.Get ("https://example.com/a.tgz") {sha256: "abc"}
func FormatCall(call Call) string {
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		args[i] = formatValue(a)
	}
	return fmt.Sprintf("fake %s (%s) %s", call.Name, strings.Join(args, ", "), formatKwargs(call.Kwargs))
}

func formatKwargs(kw map[string]any) string {
	keys := make([]string, 0, len(kw))
	for k := range kw {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + formatValue(kw[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case Kwargs:
		return formatKwargs(x)
	case map[string]any:
		return formatKwargs(x)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = strconv.Quote(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case fs.FileMode:
		return fmt.Sprintf("%#o", uint32(x))
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
