package conanfile

import (
	"os"

	"conans"
)

type Shell struct {
	*conans.ConanFile
}

func (r *Shell) Source() error {
	if err := r.Run("git clone --depth 1 -b v2.1 https://github.com/libexpat/libexpat.git expat"); err != nil {
		return err
	}
	if err := os.Chdir("expat"); err != nil {
		return err
	}
	return r.Run("git checkout 3e877cb")
}
