package conanfile

import "conans"

type Careless struct {
	*conans.ConanFile
}

func (r *Careless) Source() error {
	r.Run("git checkout v1.0")
	r.Run("git clone https://example.com/org/proj.git")
	return nil
}
