// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"maps"
	"path"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"conanprobe/internal/capability"
)

// symbolKey returns the yaegi symbol table key of an import path.
func symbolKey(importPath string) string {
	return importPath + "/" + path.Base(importPath)
}

// Symbols builds the interpreter symbol table for one run: the standard
// library with os overridden, plus the conans, conans/tools and shutil
// packages, all bound to env. Recipes import the base type as baseType from
// importPath.
func Symbols(env *capability.Environment, importPath, baseType string) interp.Exports {
	if importPath == "" {
		importPath = DefaultImportPath
	}
	if baseType == "" {
		baseType = DefaultBaseType
	}

	syms := make(interp.Exports, len(stdlib.Symbols)+3)
	for k, v := range stdlib.Symbols {
		syms[k] = v
	}

	// The stdlib maps are shared by every interpreter in the process and
	// yaegi writes into them, so the overridden package gets its own copy.
	osAPI := env.OS()
	osSyms := maps.Clone(stdlib.Symbols["os/os"])
	osSyms["Rename"] = reflect.ValueOf(osAPI.Rename)
	osSyms["Chmod"] = reflect.ValueOf(osAPI.Chmod)
	osSyms["Stat"] = reflect.ValueOf(osAPI.Stat)
	osSyms["Mkdir"] = reflect.ValueOf(osAPI.Mkdir)
	osSyms["MkdirAll"] = reflect.ValueOf(osAPI.MkdirAll)
	osSyms["Chdir"] = reflect.ValueOf(osAPI.Chdir)
	osSyms["Remove"] = reflect.ValueOf(osAPI.Remove)
	osSyms["RemoveAll"] = reflect.ValueOf(osAPI.RemoveAll)
	syms["os/os"] = osSyms

	syms[symbolKey(importPath)] = map[string]reflect.Value{
		baseType:       reflect.ValueOf((*capability.ConanFile)(nil)),
		"ConanData":    reflect.ValueOf((*capability.ConanData)(nil)),
		"Kwargs":       reflect.ValueOf((*capability.Kwargs)(nil)),
		"NewConanFile": reflect.ValueOf(env.NewConanFile),
	}

	tools := env.Tools()
	syms[symbolKey(importPath+"/tools")] = map[string]reflect.Value{
		"Kwargs":        reflect.ValueOf((*capability.Kwargs)(nil)),
		"Get":           reflect.ValueOf(tools.Get),
		"Download":      reflect.ValueOf(tools.Download),
		"Load":          reflect.ValueOf(tools.Load),
		"Save":          reflect.ValueOf(tools.Save),
		"Patch":         reflect.ValueOf(tools.Patch),
		"ReplaceInFile": reflect.ValueOf(tools.ReplaceInFile),
		"Rmdir":         reflect.ValueOf(tools.Rmdir),
		"CheckSha256":   reflect.ValueOf(tools.CheckSha256),
		"Unzip":         reflect.ValueOf(tools.Unzip),
	}

	syms[symbolKey("shutil")] = map[string]reflect.Value{
		"Move": reflect.ValueOf(env.Shutil().Move),
	}
	return syms
}
