package conanfile

type Helper struct {
	Name string
}

func (h *Helper) Source() error {
	return nil
}
