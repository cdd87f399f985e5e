package conanfile

import "conans"

type Headers struct {
	*conans.ConanFile
}
