package conanfile

import "conans"

type Broken struct {
	*conans.ConanFile
}

func (r *Broken) Source() error {
	if err := r.Run("git clone https://github.com/madler/zlib.git"); err != nil {
		return err
	}
	return r.Run(`echo "unterminated`)
}
