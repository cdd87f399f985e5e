// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"conanprobe/internal/capability"
)

var (
	// ErrUnknownCapability is the sentinel error wrapped by UnknownCapabilityError.
	ErrUnknownCapability = errors.New("unknown capability")
	// ErrInvalidVCSTool is the sentinel error wrapped by InvalidVCSToolError.
	ErrInvalidVCSTool = errors.New("invalid VCS tool")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// UnknownCapabilityError is returned when interception.disabled names a
	// capability outside the interception table.
	// It wraps ErrUnknownCapability for errors.Is() compatibility.
	UnknownCapabilityError struct {
		Value string
	}

	// InvalidVCSToolError is returned when interception.vcs_tool is not a
	// bare executable name. It wraps ErrInvalidVCSTool for errors.Is() compatibility.
	InvalidVCSToolError struct {
		Value string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It matches ErrInvalidConfig and each of its field errors with errors.Is().
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Recipe selects what a recipe must declare to be run.
		Recipe RecipeConfig `json:"recipe" mapstructure:"recipe"`
		// Interception configures the capability stand-ins.
		Interception InterceptionConfig `json:"interception" mapstructure:"interception"`
		// Git configures clone and checkout correlation.
		Git GitConfig `json:"git" mapstructure:"git"`
		// Report configures run reporting.
		Report ReportConfig `json:"report" mapstructure:"report"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// RecipeConfig names the recipe base type and entry points.
	RecipeConfig struct {
		// BaseType is the type a recipe embeds (default: ConanFile)
		BaseType string `json:"base_type" mapstructure:"base_type"`
		// ImportPath is where recipes import BaseType from (default: conans)
		ImportPath string `json:"import_path" mapstructure:"import_path"`
		// EntryPoint is the fetch method of Go recipes (default: Source)
		EntryPoint string `json:"entry_point" mapstructure:"entry_point"`
		// PythonEntryPoint is the fetch method listed for conanfile.py (default: source)
		PythonEntryPoint string `json:"python_entry_point" mapstructure:"python_entry_point"`
		// FakeVersion is seeded into every recipe instance
		FakeVersion string `json:"fake_version" mapstructure:"fake_version"`
		// LoadConanData merges the conandata.yml next to the recipe
		LoadConanData bool `json:"load_conandata" mapstructure:"load_conandata"`
	}

	// InterceptionConfig configures the capability stand-ins.
	InterceptionConfig struct {
		// VCSTool is the executable interpreted as git (default: git)
		VCSTool string `json:"vcs_tool" mapstructure:"vcs_tool"`
		// Disabled lists capabilities that run unintercepted.
		Disabled []string `json:"disabled" mapstructure:"disabled"`
	}

	// GitConfig configures how checkouts find their clone.
	GitConfig struct {
		// FallbackLastClone attributes a checkout that matches no clone by
		// directory to the most recent clone instead of failing.
		FallbackLastClone bool `json:"fallback_last_clone" mapstructure:"fallback_last_clone"`
	}

	// ReportConfig configures run reporting.
	ReportConfig struct {
		// PartialOnFailure prints the provenance collected before a failure (default: true)
		PartialOnFailure bool `json:"partial_on_failure" mapstructure:"partial_on_failure"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Error implements the error interface for UnknownCapabilityError.
func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("unknown capability %q in interception.disabled (see 'conanprobe capabilities')", e.Value)
}

// Unwrap returns ErrUnknownCapability for errors.Is() compatibility.
func (e *UnknownCapabilityError) Unwrap() error { return ErrUnknownCapability }

// Error implements the error interface for InvalidVCSToolError.
func (e *InvalidVCSToolError) Error() string {
	return fmt.Sprintf("invalid VCS tool %q: must be an executable name without path separators or spaces", e.Value)
}

// Unwrap returns ErrInvalidVCSTool for errors.Is() compatibility.
func (e *InvalidVCSToolError) Unwrap() error { return ErrInvalidVCSTool }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid returns whether the InterceptionConfig has valid fields.
func (c InterceptionConfig) IsValid() (bool, []error) {
	var errs []error
	if c.VCSTool == "" || strings.ContainsAny(c.VCSTool, "/\\ \t") {
		errs = append(errs, &InvalidVCSToolError{Value: c.VCSTool})
	}
	for _, name := range c.Disabled {
		if !capability.Name(name).Known() {
			errs = append(errs, &UnknownCapabilityError{Value: name})
		}
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the Config has valid fields. The CUE schema covers
// value shapes; this covers what depends on the interception table.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Interception.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Recipe: RecipeConfig{
			BaseType:         "ConanFile",
			ImportPath:       "conans",
			EntryPoint:       "Source",
			PythonEntryPoint: "source",
			FakeVersion:      capability.DefaultFakeVersion,
			LoadConanData:    true,
		},
		Interception: InterceptionConfig{
			VCSTool:  "git",
			Disabled: []string{},
		},
		Git: GitConfig{
			FallbackLastClone: false,
		},
		Report: ReportConfig{
			PartialOnFailure: true,
		},
		UI: UIConfig{
			Verbose: false,
		},
	}
}
