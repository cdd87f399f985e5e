package conanfile

import (
	"conans"
	"conans/tools"
)

type Zlib struct {
	*conans.ConanFile
}

func (r *Zlib) Source() error {
	return tools.Get(tools.Kwargs{"sha256": "c3e5e9fdd5004dcb542feda5ee4f0ff0744628baf8ed2dd5d66f8ca1197cb1a1"})
}
