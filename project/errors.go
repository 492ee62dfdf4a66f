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
package project

import (
	"fmt"

	"github.com/agext/levenshtein"

	"bennypowers.dev/gleam/ast"
	"bennypowers.dev/gleam/parser"
	"bennypowers.dev/gleam/typ"
)

// ParseError wraps a parser failure with the file it occurred in.
type ParseError struct {
	Path string
	Src  string
	Err  *parser.Error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DuplicateModuleError reports two inputs deriving the same canonical module
// name. First is the path seen earlier in the batch.
type DuplicateModuleError struct {
	Module string
	First  string
	Second string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("the module %s is defined by both %s and %s", e.Module, e.First, e.Second)
}

// UnknownImportError reports an import of a module not present in the batch.
// Modules lists every known module name so that callers can offer hints.
type UnknownImportError struct {
	Module  string
	Import  string
	Path    string
	Src     string
	Meta    ast.Meta
	Modules []string
}

func (e *UnknownImportError) Error() string {
	message := fmt.Sprintf("%s: module %s imports unknown module %s", e.Path, e.Module, e.Import)
	if hint := e.DidYouMean(); hint != "" {
		message += fmt.Sprintf(", did you mean %s?", hint)
	}
	return message
}

// DidYouMean returns the known module name most similar to the missing one,
// or "" when nothing is close enough to be a plausible typo.
func (e *UnknownImportError) DidYouMean() string {
	best := ""
	bestScore := 0.0
	for _, name := range e.Modules {
		score := levenshtein.Match(e.Import, name, nil)
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	if bestScore < 0.5 {
		return ""
	}
	return best
}

// SrcImportingTestError reports a src origin module importing a test origin
// module. Test helpers may import application code, never the reverse.
type SrcImportingTestError struct {
	Path       string
	Src        string
	Meta       ast.Meta
	SrcModule  string
	TestModule string
}

func (e *SrcImportingTestError) Error() string {
	return fmt.Sprintf("%s: the src module %s may not import the test module %s", e.Path, e.SrcModule, e.TestModule)
}

// DependencyCycleError reports that the module graph is not acyclic. It
// carries no cycle members.
type DependencyCycleError struct{}

func (e *DependencyCycleError) Error() string {
	return "the dependency graph contains a cycle"
}

// TypeError wraps an inference failure with the file it occurred in.
type TypeError struct {
	Path string
	Src  string
	Err  typ.Error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Err)
}

func (e *TypeError) Unwrap() error { return e.Err }
