// SPDX-License-Identifier: MPL-2.0

package capability

// ConanFile is the recipe base type. Recipes embed it and obtain values
// through conans.NewConanFile, which binds them to the run's Environment.
type ConanFile struct {
	Name         string
	Version      string
	ConanData    ConanData
	SourceFolder string

	env *Environment
}

// Run intercepts a shell command the recipe would execute. Named arguments
// such as "cwd" are passed through kwargs.
func (c *ConanFile) Run(command string, kwargs ...Kwargs) error {
	if c.env == nil {
		return ErrDetached
	}
	call := Call{Name: Run, Args: []any{command}}
	for _, kw := range kwargs {
		if call.Kwargs == nil {
			call.Kwargs = Kwargs{}
		}
		for k, v := range kw {
			call.Kwargs[k] = v
		}
	}
	_, err := c.env.Invoke(call)
	return err
}

// Source is the default entry point. It does nothing.
func (c *ConanFile) Source() error {
	return nil
}

// NewConanFile creates a recipe base value bound to e through the
// intercepted initializer.
func (e *Environment) NewConanFile() (*ConanFile, error) {
	res, err := e.Invoke(Call{Name: NewConanFile})
	if err != nil {
		return nil, err
	}
	cf, ok := res.(*ConanFile)
	if !ok || cf == nil {
		// A replaced handler may return anything; keep the value usable.
		cf = &ConanFile{Version: e.fakeVersion, ConanData: ConanData{"sources": {e.fakeVersion: Kwargs{}}}}
	}
	cf.env = e
	return cf, nil
}
