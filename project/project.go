/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package project drives multi module compilation.
//
// Compile takes a batch of source inputs, parses them, orders them by their
// declared imports, type checks each module against the signatures of the
// modules it imports, and produces Erlang source plus optional documentation
// stubs. The batch is atomic: the first error aborts it and no partial
// output is returned.
package project

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"bennypowers.dev/gleam/ast"
	"bennypowers.dev/gleam/depgraph"
	"bennypowers.dev/gleam/docs"
	"bennypowers.dev/gleam/erl"
	"bennypowers.dev/gleam/parser"
	"bennypowers.dev/gleam/typ"
)

// ModuleOrigin classifies where an input came from. It governs which imports
// are legal and where generated artifacts are placed.
type ModuleOrigin int

const (
	OriginSrc ModuleOrigin = iota
	OriginTest
	OriginDependency
)

// DirName is the output subdirectory for modules of this origin.
func (o ModuleOrigin) DirName() string {
	if o == OriginTest {
		return "test"
	}
	return "src"
}

func (o ModuleOrigin) String() string {
	switch o {
	case OriginSrc:
		return "src"
	case OriginTest:
		return "test"
	case OriginDependency:
		return "dependency"
	}
	return fmt.Sprintf("ModuleOrigin(%d)", int(o))
}

// RenderDocs switches documentation output for Src origin modules. It
// serializes as the kebab-case strings "true" and "false" on configuration
// surfaces.
type RenderDocs int

const (
	RenderDocsFalse RenderDocs = iota
	RenderDocsTrue
)

func (r RenderDocs) String() string {
	if r == RenderDocsTrue {
		return "true"
	}
	return "false"
}

// MarshalText implements encoding.TextMarshaler.
func (r RenderDocs) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RenderDocs) UnmarshalText(text []byte) error {
	parsed, err := ParseRenderDocs(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRenderDocs parses the serialized form of a RenderDocs value.
func ParseRenderDocs(s string) (RenderDocs, error) {
	switch s {
	case "true":
		return RenderDocsTrue, nil
	case "false":
		return RenderDocsFalse, nil
	}
	return RenderDocsFalse, fmt.Errorf("invalid render docs value %q: expected \"true\" or \"false\"", s)
}

// Input is one unparsed source file.
type Input struct {
	// SourceBasePath is the root the file was collected under. The module
	// name is the path relative to it, and generated output lands next to
	// it under gen/.
	SourceBasePath string
	Path           string
	Src            string
	Origin         ModuleOrigin
}

// OutputFile is a generated file: full contents and the path to write it to.
type OutputFile struct {
	Path     string
	Contents string
}

// Compiled is the result of compiling one module.
type Compiled struct {
	Name     []string
	Origin   ModuleOrigin
	Files    []OutputFile
	TypeInfo typ.ModuleTypeInfo
}

// Compile compiles a batch of inputs, reporting progress on stdout. The
// returned modules are in dependency order: every module follows all the
// modules it imports.
func Compile(inputs []Input, renderDocs RenderDocs) ([]Compiled, error) {
	return CompileWithProgress(inputs, renderDocs, os.Stdout)
}

type moduleRecord struct {
	input  Input
	module *ast.Module
}

// CompileWithProgress is Compile with an explicit progress sink. One
// "Compiling <name>" line is written per module before it is type checked.
func CompileWithProgress(inputs []Input, renderDocs RenderDocs, progress io.Writer) ([]Compiled, error) {
	graph := &depgraph.Graph{}
	indexes := map[string]depgraph.NodeIndex{}
	records := map[depgraph.NodeIndex]*moduleRecord{}

	// Pass 1: derive identities, parse, and register every module before
	// looking at imports, since imports may refer to later inputs.
	for _, input := range inputs {
		name, err := moduleName(input.SourceBasePath, input.Path)
		if err != nil {
			return nil, err
		}
		module, parseErr := parser.Parse(parser.StripExtra(input.Src))
		if parseErr != nil {
			return nil, &ParseError{Path: input.Path, Src: input.Src, Err: parseErr}
		}
		if first, ok := indexes[name]; ok {
			return nil, &DuplicateModuleError{
				Module: name,
				First:  records[first].input.Path,
				Second: input.Path,
			}
		}
		module.Name = strings.Split(name, "/")

		index := graph.AddNode(name)
		indexes[name] = index
		records[index] = &moduleRecord{input: input, module: module}
	}

	// Pass 2: add one edge per import, dependency to dependent, so the
	// topological sort yields a compile order directly.
	for i := 0; i < graph.Len(); i++ {
		index := depgraph.NodeIndex(i)
		record := records[index]
		name := record.module.NameString()
		for _, dep := range record.module.Dependencies() {
			depIndex, ok := indexes[dep.Name]
			if !ok {
				return nil, &UnknownImportError{
					Module:  name,
					Import:  dep.Name,
					Path:    record.input.Path,
					Src:     record.input.Src,
					Meta:    dep.Meta,
					Modules: knownModules(graph),
				}
			}
			if record.input.Origin == OriginSrc && records[depIndex].input.Origin == OriginTest {
				return nil, &SrcImportingTestError{
					Path:       record.input.Path,
					Src:        record.input.Src,
					Meta:       dep.Meta,
					SrcModule:  name,
					TestModule: dep.Name,
				}
			}
			graph.AddEdge(depIndex, index)
		}
	}

	order, err := graph.Toposort()
	if err != nil {
		return nil, &DependencyCycleError{}
	}

	typeInfos := map[string]typ.ModuleTypeInfo{}
	compiled := make([]Compiled, 0, len(inputs))

	for _, index := range order {
		record := records[index]
		// The untyped module is consumed here and must not be revisited.
		delete(records, index)

		name := record.module.Name
		nameString := record.module.NameString()
		fmt.Fprintf(progress, "Compiling %s\n", nameString)

		typed, typeErr := typ.InferModule(record.module, typeInfos)
		if typeErr != nil {
			return nil, &TypeError{Path: record.input.Path, Src: record.input.Src, Err: typeErr}
		}

		genDir := path.Join(path.Dir(record.input.SourceBasePath), "gen")
		erlPath := path.Join(genDir, record.input.Origin.DirName(), strings.Join(name, "@")+".erl")

		// Record the signature before any dependent module is compiled.
		typeInfos[nameString] = typed.TypeInfo

		files := []OutputFile{{Path: erlPath, Contents: erl.Module(typed)}}

		if record.input.Origin == OriginSrc && renderDocs == RenderDocsTrue {
			docsPath := path.Join(append([]string{genDir, "docs"}, name...)...) + ".md"
			files = append(files, OutputFile{Path: docsPath, Contents: docs.Render(typed)})
		}

		compiled = append(compiled, Compiled{
			Name:   name,
			Origin: record.input.Origin,
			Files:  files,
		})
	}

	// Move each signature out of the accumulator into its result record.
	for i := range compiled {
		nameString := strings.Join(compiled[i].Name, "/")
		info, ok := typeInfos[nameString]
		if !ok {
			return nil, fmt.Errorf("no type information recorded for module %s", nameString)
		}
		delete(typeInfos, nameString)
		compiled[i].TypeInfo = info
	}

	return compiled, nil
}

// moduleName derives the canonical module name from a file path relative to
// its source base: directories then the file stem, joined with "/".
func moduleName(basePath, filePath string) (string, error) {
	if !strings.HasPrefix(filePath, basePath) {
		return "", fmt.Errorf("source path %q is not under its base path %q", filePath, basePath)
	}
	rel := strings.TrimPrefix(strings.TrimPrefix(filePath, basePath), "/")
	stem := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if dir := path.Dir(rel); dir != "." {
		return dir + "/" + stem, nil
	}
	return stem, nil
}

func knownModules(graph *depgraph.Graph) []string {
	names := make([]string, graph.Len())
	for i := range names {
		names[i] = graph.Label(depgraph.NodeIndex(i))
	}
	return names
}
