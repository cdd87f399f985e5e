package conanfile

import "conans"

type Helper struct {
	Data conans.ConanData
}

func (h *Helper) Source() error {
	return nil
}
