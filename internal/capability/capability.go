// SPDX-License-Identifier: MPL-2.0

package capability

import (
	"errors"
	"fmt"
)

// Capability names as they appear in configuration and in the call log.
const (
	Run          Name = "conans.ConanFile.Run"
	NewConanFile Name = "conans.NewConanFile"

	ToolsGet           Name = "tools.Get"
	ToolsDownload      Name = "tools.Download"
	ToolsLoad          Name = "tools.Load"
	ToolsSave          Name = "tools.Save"
	ToolsPatch         Name = "tools.Patch"
	ToolsReplaceInFile Name = "tools.ReplaceInFile"
	ToolsRmdir         Name = "tools.Rmdir"
	ToolsCheckSha256   Name = "tools.CheckSha256"
	ToolsUnzip         Name = "tools.Unzip"

	OSRename    Name = "os.Rename"
	OSChmod     Name = "os.Chmod"
	OSStat      Name = "os.Stat"
	OSMkdir     Name = "os.Mkdir"
	OSMkdirAll  Name = "os.MkdirAll"
	OSChdir     Name = "os.Chdir"
	OSRemove    Name = "os.Remove"
	OSRemoveAll Name = "os.RemoveAll"

	ShutilMove Name = "shutil.Move"
)

var (
	// ErrUnsupportedCapability is the sentinel error wrapped by UnsupportedCapabilityError.
	ErrUnsupportedCapability = errors.New("unsupported capability")

	// ErrDetached is returned by ConanFile methods on a value that was not
	// created through conans.NewConanFile.
	ErrDetached = errors.New("recipe base value is not bound to an environment")
)

type (
	// Name identifies an interceptable capability.
	Name string

	// Kwargs holds the named arguments of a call.
	Kwargs map[string]any

	// ConanData mirrors the recipe's conandata: top-level section, then
	// version, then the named fields of that entry.
	ConanData map[string]map[string]Kwargs

	// Call is one observed invocation of a capability.
	Call struct {
		Name   Name
		Args   []any
		Kwargs Kwargs
	}

	// Handler implements a capability. It receives the Environment the call
	// was made through.
	Handler func(env *Environment, call Call) (any, error)

	// Info describes a capability for listings.
	Info struct {
		Name Name
		// Summary is a one-line description of the stand-in behavior.
		Summary string
		// RealFallback reports whether the real implementation runs when the
		// capability is disabled.
		RealFallback bool
	}

	// UnsupportedCapabilityError is returned when a recipe calls a capability
	// that is neither intercepted nor backed by a real implementation.
	// It wraps ErrUnsupportedCapability for errors.Is() compatibility.
	UnsupportedCapabilityError struct {
		Name Name
		// Disabled is true when the capability is known but turned off in
		// configuration.
		Disabled bool
	}
)

// table lists every capability in display order.
var table = []Info{
	{Name: Run, Summary: "records the command, interprets git clone and checkout"},
	{Name: NewConanFile, Summary: "seeds a fake version and empty source data"},
	{Name: ToolsGet, Summary: "records a fetch when a positional URL is given"},
	{Name: ToolsDownload, Summary: "records a fetch when a positional URL is given"},
	{Name: ToolsLoad, Summary: "returns empty content"},
	{Name: ToolsSave, Summary: "no-op"},
	{Name: ToolsPatch, Summary: "no-op"},
	{Name: ToolsReplaceInFile, Summary: "no-op"},
	{Name: ToolsRmdir, Summary: "no-op"},
	{Name: ToolsCheckSha256, Summary: "no-op"},
	{Name: ToolsUnzip, Summary: "no-op"},
	{Name: OSRename, Summary: "no-op", RealFallback: true},
	{Name: OSChmod, Summary: "no-op", RealFallback: true},
	{Name: OSStat, Summary: "returns a placeholder regular file", RealFallback: true},
	{Name: OSMkdir, Summary: "no-op", RealFallback: true},
	{Name: OSMkdirAll, Summary: "no-op", RealFallback: true},
	{Name: OSChdir, Summary: "moves the virtual working directory", RealFallback: true},
	{Name: OSRemove, Summary: "no-op", RealFallback: true},
	{Name: OSRemoveAll, Summary: "no-op", RealFallback: true},
	{Name: ShutilMove, Summary: "no-op"},
}

// Error implements the error interface.
func (e *UnsupportedCapabilityError) Error() string {
	if e.Disabled {
		return fmt.Sprintf("capability %s is disabled and has no real implementation", e.Name)
	}
	return fmt.Sprintf("capability %s is not intercepted", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnsupportedCapabilityError) Unwrap() error {
	return ErrUnsupportedCapability
}

// String returns the capability name.
func (n Name) String() string {
	return string(n)
}

// Known reports whether n names a capability of the interception table.
func (n Name) Known() bool {
	for _, info := range table {
		if info.Name == n {
			return true
		}
	}
	return false
}

// Table returns the interception table in display order.
func Table() []Info {
	out := make([]Info, len(table))
	copy(out, table)
	return out
}

// Names returns the names of all capabilities in display order.
func Names() []Name {
	names := make([]Name, len(table))
	for i, info := range table {
		names[i] = info.Name
	}
	return names
}

// splitKwargs separates named arguments from positional ones. A Kwargs or
// map[string]any argument contributes its entries as named arguments; later
// entries win.
func splitKwargs(args []any) ([]any, Kwargs) {
	var positional []any
	var kwargs Kwargs
	for _, arg := range args {
		var m map[string]any
		switch v := arg.(type) {
		case Kwargs:
			m = v
		case map[string]any:
			m = v
		default:
			positional = append(positional, arg)
			continue
		}
		if kwargs == nil {
			kwargs = Kwargs{}
		}
		for k, val := range m {
			kwargs[k] = val
		}
	}
	return positional, kwargs
}
