package conanfile

import "conans"

type Primary struct {
	*conans.ConanFile
}

func (r *Primary) Source() error {
	return r.Run("git clone https://example.com/org/primary.git")
}

type Secondary struct {
	*conans.ConanFile
}

func (r *Secondary) Source() error {
	return r.Run("git clone https://example.com/org/secondary.git")
}
