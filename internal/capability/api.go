// SPDX-License-Identifier: MPL-2.0

package capability

import (
	"io/fs"
	"os"
)

type (
	// Tools is the recipe-facing conans/tools package.
	Tools struct{ env *Environment }

	// OS holds the recipe-facing replacements for os functions. A disabled
	// capability calls the real function.
	OS struct{ env *Environment }

	// Shutil is the recipe-facing shutil package.
	Shutil struct{ env *Environment }
)

// Tools returns the conans/tools functions bound to e.
func (e *Environment) Tools() Tools { return Tools{env: e} }

// OS returns the os overrides bound to e.
func (e *Environment) OS() OS { return OS{env: e} }

// Shutil returns the shutil functions bound to e.
func (e *Environment) Shutil() Shutil { return Shutil{env: e} }

func (t Tools) call(name Name, args []any) (any, error) {
	positional, kwargs := splitKwargs(args)
	return t.env.Invoke(Call{Name: name, Args: positional, Kwargs: kwargs})
}

// Get stands in for tools.get. A positional URL, or list of mirror URLs,
// is recorded as a download together with the named arguments.
func (t Tools) Get(args ...any) error {
	_, err := t.call(ToolsGet, args)
	return err
}

// Download stands in for tools.download and is recorded like Get.
func (t Tools) Download(args ...any) error {
	_, err := t.call(ToolsDownload, args)
	return err
}

// Load returns the file content, always empty. Failures are recorded as the
// run's fault.
func (t Tools) Load(args ...any) string {
	res, err := t.call(ToolsLoad, args)
	if err != nil {
		return ""
	}
	s, _ := res.(string)
	return s
}

// Save stands in for tools.save. Nothing is written.
func (t Tools) Save(args ...any) error {
	_, err := t.call(ToolsSave, args)
	return err
}

// Patch stands in for tools.patch. No file is patched.
func (t Tools) Patch(args ...any) error {
	_, err := t.call(ToolsPatch, args)
	return err
}

// ReplaceInFile stands in for tools.replace_in_file. No file is modified.
func (t Tools) ReplaceInFile(args ...any) error {
	_, err := t.call(ToolsReplaceInFile, args)
	return err
}

// Rmdir stands in for tools.rmdir. Nothing is removed.
func (t Tools) Rmdir(args ...any) error {
	_, err := t.call(ToolsRmdir, args)
	return err
}

// CheckSha256 stands in for tools.check_sha256 and always succeeds.
func (t Tools) CheckSha256(args ...any) error {
	_, err := t.call(ToolsCheckSha256, args)
	return err
}

// Unzip stands in for tools.unzip. Nothing is extracted.
func (t Tools) Unzip(args ...any) error {
	_, err := t.call(ToolsUnzip, args)
	return err
}

func (o OS) invoke(name Name, args ...any) error {
	_, err := o.env.Invoke(Call{Name: name, Args: args})
	return err
}

// Rename replaces os.Rename. The rename is logged, not applied.
func (o OS) Rename(oldpath, newpath string) error {
	if !o.env.Enabled(OSRename) {
		return os.Rename(oldpath, newpath)
	}
	return o.invoke(OSRename, oldpath, newpath)
}

// Chmod replaces os.Chmod with a logged no-op.
func (o OS) Chmod(name string, mode fs.FileMode) error {
	if !o.env.Enabled(OSChmod) {
		return os.Chmod(name, mode)
	}
	return o.invoke(OSChmod, name, mode)
}

// Stat replaces os.Stat. It reports a regular 0644 file for any name.
func (o OS) Stat(name string) (fs.FileInfo, error) {
	if !o.env.Enabled(OSStat) {
		return os.Stat(name)
	}
	res, err := o.env.Invoke(Call{Name: OSStat, Args: []any{name}})
	if err != nil {
		return nil, err
	}
	if fi, ok := res.(fs.FileInfo); ok {
		return fi, nil
	}
	return placeholderFileInfo{name: name}, nil
}

// Mkdir replaces os.Mkdir with a logged no-op.
func (o OS) Mkdir(name string, perm fs.FileMode) error {
	if !o.env.Enabled(OSMkdir) {
		return os.Mkdir(name, perm)
	}
	return o.invoke(OSMkdir, name, perm)
}

// MkdirAll replaces os.MkdirAll with a logged no-op.
func (o OS) MkdirAll(name string, perm fs.FileMode) error {
	if !o.env.Enabled(OSMkdirAll) {
		return os.MkdirAll(name, perm)
	}
	return o.invoke(OSMkdirAll, name, perm)
}

// Chdir replaces os.Chdir. Only the virtual working directory used to
// match checkouts to clones moves.
func (o OS) Chdir(dir string) error {
	if !o.env.Enabled(OSChdir) {
		return os.Chdir(dir)
	}
	return o.invoke(OSChdir, dir)
}

// Remove replaces os.Remove with a logged no-op.
func (o OS) Remove(name string) error {
	if !o.env.Enabled(OSRemove) {
		return os.Remove(name)
	}
	return o.invoke(OSRemove, name)
}

// RemoveAll replaces os.RemoveAll with a logged no-op.
func (o OS) RemoveAll(name string) error {
	if !o.env.Enabled(OSRemoveAll) {
		return os.RemoveAll(name)
	}
	return o.invoke(OSRemoveAll, name)
}

// Move stands in for shutil.move. Nothing is moved. Move has no real
// implementation, so it fails when its capability is disabled.
func (s Shutil) Move(src, dst string) error {
	_, err := s.env.Invoke(Call{Name: ShutilMove, Args: []any{src, dst}})
	return err
}
