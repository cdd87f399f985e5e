package conanfile

import (
	"conans"
	"conans/tools"
)

type FromData struct {
	*conans.ConanFile
}

func (r *FromData) Source() error {
	return tools.Get(r.ConanData["sources"][r.Version])
}
