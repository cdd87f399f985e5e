package conanfile

import (
	"conans"
	"conans/tools"
)

type Versioned struct {
	*conans.ConanFile
}

func (r *Versioned) Source() error {
	return tools.Get(r.ConanData["sources"][r.Version])
}
