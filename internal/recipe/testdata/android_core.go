package conanfile

import "conans"

type AndroidCore struct {
	*conans.ConanFile
}

func (r *AndroidCore) Source() error {
	return r.Run("git clone https://android.googlesource.com/platform/system/core.git android-core")
}
