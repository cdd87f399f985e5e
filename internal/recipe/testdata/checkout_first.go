package conanfile

import "conans"

type Broken struct {
	*conans.ConanFile
}

func (r *Broken) Source() error {
	if err := r.Run("git checkout v1.0"); err != nil {
		return err
	}
	return r.Run("git clone https://example.com/org/proj.git")
}
