// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"strconv"
	"strings"
)

// Defaults for Config fields left empty.
const (
	DefaultBaseType         = "ConanFile"
	DefaultImportPath       = "conans"
	DefaultEntryPoint       = "Source"
	DefaultPythonEntryPoint = "source"
)

// ErrEntryPointNotFound is the sentinel error wrapped by EntryPointNotFoundError.
var ErrEntryPointNotFound = errors.New("entry point not found")

type (
	// Config names what the analyzer looks for.
	Config struct {
		// BaseType is the name of the type a recipe must embed (or, in
		// Python, inherit from).
		BaseType string
		// ImportPath is the Go import path that declares BaseType.
		ImportPath string
		// EntryPoint is the fetch method of Go recipes.
		EntryPoint string
		// PythonEntryPoint is the fetch method of Python recipes.
		PythonEntryPoint string
	}

	// Language of a recipe file.
	Language string

	// Analysis is the result of statically inspecting a recipe.
	Analysis struct {
		// Path is the file the recipe was read from.
		Path     string
		Language Language
		// Package is the Go package name of the recipe.
		Package string
		// TypeName is the first type that embeds or inherits the base type.
		TypeName string
		// BaseType is the unqualified name of the base type.
		BaseType string
		// Bases lists the embedded or inherited types of TypeName as written.
		Bases []string
		// Qualifier is the local name the base type's package is imported
		// under; empty for a dot import.
		Qualifier string
		// PointerEmbed is true when the base type is embedded by pointer.
		PointerEmbed bool
		// EntryPoint is the fetch method declared on TypeName, if any.
		EntryPoint *Method
		// EntryPointName is the method name the analyzer looked for.
		EntryPointName string
		// Candidates lists every qualifying type in source order.
		Candidates []string

		src            []byte
		packageNamePos int
		packageNameEnd int
	}

	// Method is a recipe method located by the analyzer.
	Method struct {
		Name string
		// Text is the verbatim source of the method declaration.
		Text string
		// Line is the 1-based line the declaration starts on.
		Line int
		// Params is the number of declared parameters.
		Params int
		// ReturnsError is true for a single error result.
		ReturnsError bool
	}

	// EntryPointNotFoundError is returned when a recipe declares no usable
	// entry point. It wraps ErrEntryPointNotFound for errors.Is() compatibility.
	EntryPointNotFoundError struct {
		Path     string
		BaseType string
		// Reason is set when a qualifying type exists but its entry point
		// cannot be called.
		Reason string
	}
)

// Recipe languages.
const (
	LanguageGo     Language = "go"
	LanguagePython Language = "python"
)

// Error implements the error interface.
func (e *EntryPointNotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: no type extends %s", e.Path, e.BaseType)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *EntryPointNotFoundError) Unwrap() error {
	return ErrEntryPointNotFound
}

// DefaultConfig returns the analyzer configuration for conans recipes.
func DefaultConfig() Config {
	return Config{
		BaseType:         DefaultBaseType,
		ImportPath:       DefaultImportPath,
		EntryPoint:       DefaultEntryPoint,
		PythonEntryPoint: DefaultPythonEntryPoint,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseType == "" {
		c.BaseType = d.BaseType
	}
	if c.ImportPath == "" {
		c.ImportPath = d.ImportPath
	}
	if c.EntryPoint == "" {
		c.EntryPoint = d.EntryPoint
	}
	if c.PythonEntryPoint == "" {
		c.PythonEntryPoint = d.PythonEntryPoint
	}
	return c
}

// Header returns the line that introduces the located type, such as
// "type Zlib (conans.ConanFile):".
func (a *Analysis) Header() string {
	keyword := "type"
	if a.Language == LanguagePython {
		keyword = "class"
	}
	return fmt.Sprintf("%s %s (%s):", keyword, a.TypeName, strings.Join(a.Bases, ", "))
}

// MissingEntryPoint describes an absent entry point, such as
// "no Source method on Zlib". It is empty when EntryPoint is set.
func (a *Analysis) MissingEntryPoint() string {
	if a.EntryPoint != nil {
		return ""
	}
	return fmt.Sprintf("no %s method on %s", a.EntryPointName, a.TypeName)
}

// Source returns the recipe source the analysis was made from.
func (a *Analysis) Source() []byte {
	return a.src
}

// Analyze reads and inspects the recipe at filename. Files ending in ".py"
// are handed to AnalyzePython.
func Analyze(filename string, cfg Config) (*Analysis, error) {
	if strings.HasSuffix(filename, ".py") {
		return AnalyzePython(filename, cfg)
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	return AnalyzeSource(filename, src, cfg)
}

// AnalyzeSource inspects Go recipe source without running it.
func AnalyzeSource(filename string, src []byte, cfg Config) (*Analysis, error) {
	cfg = cfg.withDefaults()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}

	a := &Analysis{
		Path:           filename,
		Language:       LanguageGo,
		Package:        file.Name.Name,
		BaseType:       cfg.BaseType,
		EntryPointName: cfg.EntryPoint,
		src:            src,
		packageNamePos: fset.Position(file.Name.Pos()).Offset,
		packageNameEnd: fset.Position(file.Name.End()).Offset,
	}

	qualifiers, dotImport := importNames(file, cfg.ImportPath)
	if len(qualifiers) == 0 && !dotImport {
		return nil, &EntryPointNotFoundError{Path: filename, BaseType: cfg.ImportPath + "." + cfg.BaseType}
	}

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			var bases []string
			found := false
			for _, field := range st.Fields.List {
				if len(field.Names) != 0 {
					continue
				}
				bases = append(bases, exprText(src, fset, field.Type))
				if found {
					continue
				}
				if qualifier, pointer, ok := matchBase(field.Type, cfg.BaseType, qualifiers, dotImport); ok {
					found = true
					if a.TypeName == "" {
						a.Qualifier = qualifier
						a.PointerEmbed = pointer
					}
				}
			}
			if !found {
				continue
			}
			a.Candidates = append(a.Candidates, ts.Name.Name)
			if a.TypeName == "" {
				a.TypeName = ts.Name.Name
				a.Bases = bases
			}
		}
	}

	if a.TypeName == "" {
		return nil, &EntryPointNotFoundError{Path: filename, BaseType: cfg.ImportPath + "." + cfg.BaseType}
	}

	a.EntryPoint = findMethod(file, fset, src, a.TypeName, cfg.EntryPoint)
	if m := a.EntryPoint; m != nil && m.Params != 0 {
		return nil, &EntryPointNotFoundError{
			Path:     filename,
			BaseType: cfg.BaseType,
			Reason:   fmt.Sprintf("method %s.%s must take no arguments", a.TypeName, m.Name),
		}
	}
	return a, nil
}

// importNames returns the local names importPath is imported under and
// whether it is dot-imported.
func importNames(file *ast.File, importPath string) ([]string, bool) {
	var names []string
	dot := false
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil || p != importPath {
			continue
		}
		switch {
		case imp.Name == nil:
			names = append(names, path.Base(p))
		case imp.Name.Name == ".":
			dot = true
		case imp.Name.Name != "_":
			names = append(names, imp.Name.Name)
		}
	}
	return names, dot
}

func matchBase(expr ast.Expr, baseType string, qualifiers []string, dotImport bool) (string, bool, bool) {
	pointer := false
	if star, ok := expr.(*ast.StarExpr); ok {
		pointer = true
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.SelectorExpr:
		x, ok := t.X.(*ast.Ident)
		if !ok || t.Sel.Name != baseType {
			return "", false, false
		}
		for _, q := range qualifiers {
			if x.Name == q {
				return q, pointer, true
			}
		}
	case *ast.Ident:
		if dotImport && t.Name == baseType {
			return "", pointer, true
		}
	}
	return "", false, false
}

func findMethod(file *ast.File, fset *token.FileSet, src []byte, typeName, name string) *Method {
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 || fd.Name.Name != name {
			continue
		}
		if receiverName(fd.Recv.List[0].Type) != typeName {
			continue
		}
		m := &Method{
			Name: fd.Name.Name,
			Text: exprText(src, fset, fd),
			Line: fset.Position(fd.Pos()).Line,
		}
		for _, p := range fd.Type.Params.List {
			if len(p.Names) == 0 {
				m.Params++
			}
			m.Params += len(p.Names)
		}
		if res := fd.Type.Results; res != nil && len(res.List) == 1 && len(res.List[0].Names) <= 1 {
			if id, ok := res.List[0].Type.(*ast.Ident); ok && id.Name == "error" {
				m.ReturnsError = true
			}
		}
		return m
	}
	return nil
}

func receiverName(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func exprText(src []byte, fset *token.FileSet, node ast.Node) string {
	start := fset.Position(node.Pos()).Offset
	end := fset.Position(node.End()).Offset
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}
