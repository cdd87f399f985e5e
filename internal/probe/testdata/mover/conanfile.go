package conanfile

import (
	"conans"
	"shutil"
)

type Mover struct {
	*conans.ConanFile
}

func (r *Mover) Source() error {
	if err := r.Run("git clone https://github.com/openssl/openssl.git"); err != nil {
		return err
	}
	return shutil.Move("openssl", "src")
}
