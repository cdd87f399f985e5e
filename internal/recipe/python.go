// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// AnalyzePython inspects a legacy conanfile.py. Python recipes cannot be run;
// the analysis serves the read-only source listing.
func AnalyzePython(filename string, cfg Config) (*Analysis, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	return AnalyzePythonSource(filename, src, cfg)
}

// AnalyzePythonSource inspects Python recipe source.
func AnalyzePythonSource(filename string, src []byte, cfg Config) (*Analysis, error) {
	cfg = cfg.withDefaults()

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	defer tree.Close()

	a := &Analysis{
		Path:           filename,
		Language:       LanguagePython,
		BaseType:       cfg.BaseType,
		EntryPointName: cfg.PythonEntryPoint,
		src:            src,
	}
	walkPython(tree.RootNode(), src, cfg, a)
	if a.TypeName == "" {
		return nil, &EntryPointNotFoundError{Path: filename, BaseType: cfg.BaseType}
	}
	return a, nil
}

func walkPython(node *sitter.Node, src []byte, cfg Config, a *Analysis) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "class_definition":
			inspectClass(child, src, cfg, a)
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil && def.Type() == "class_definition" {
				inspectClass(def, src, cfg, a)
			}
		case "function_definition":
		default:
			walkPython(child, src, cfg, a)
		}
	}
}

func inspectClass(node *sitter.Node, src []byte, cfg Config, a *Analysis) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(src)

	var bases []string
	found := false
	if args := node.ChildByFieldName("superclasses"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			base := args.NamedChild(i)
			switch base.Type() {
			case "identifier", "attribute":
				text := base.Content(src)
				bases = append(bases, text)
				if text == cfg.BaseType || strings.HasSuffix(text, "."+cfg.BaseType) {
					found = true
				}
			}
		}
	}

	if found {
		a.Candidates = append(a.Candidates, name)
		if a.TypeName == "" {
			a.TypeName = name
			a.Bases = bases
			if body := node.ChildByFieldName("body"); body != nil {
				a.EntryPoint = findPythonMethod(body, src, cfg.PythonEntryPoint)
			}
		}
	}

	// Nested classes.
	if body := node.ChildByFieldName("body"); body != nil {
		walkPython(body, src, cfg, a)
	}
}

func findPythonMethod(body *sitter.Node, src []byte, name string) *Method {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		def := child
		if child.Type() == "decorated_definition" {
			def = child.ChildByFieldName("definition")
		}
		if def == nil || def.Type() != "function_definition" {
			continue
		}
		nameNode := def.ChildByFieldName("name")
		if nameNode == nil || nameNode.Content(src) != name {
			continue
		}
		m := &Method{
			Name: name,
			Text: child.Content(src),
			Line: int(child.StartPoint().Row) + 1,
		}
		if params := def.ChildByFieldName("parameters"); params != nil {
			// The receiver does not count.
			if n := int(params.NamedChildCount()); n > 0 {
				m.Params = n - 1
			}
		}
		return m
	}
	return nil
}
