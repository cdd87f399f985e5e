package conanfile

import (
	"time"

	"conans"
)

type Forever struct {
	*conans.ConanFile
}

func (r *Forever) Source() error {
	for {
		time.Sleep(time.Millisecond)
	}
}
