package conanfile

import "conans"

type Crashy struct {
	*conans.ConanFile
}

func (r *Crashy) Source() error {
	var urls []string
	return r.Run("git clone " + urls[3])
}
