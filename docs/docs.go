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

// Package docs renders documentation pages for compiled modules.
package docs

import (
	"fmt"
	"sort"
	"strings"

	"bennypowers.dev/gleam/typ"
)

// Render produces the documentation page for a type checked module.
// TODO: render each value's inferred type signature once TypeString output
// is stable enough to promise in docs.
func Render(m *typ.Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", m.AST.NameString())

	names := make([]string, 0, len(m.TypeInfo.Values))
	for name := range m.TypeInfo.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		b.WriteString("\n## Public values\n\n")
		for _, name := range names {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	return b.String()
}
