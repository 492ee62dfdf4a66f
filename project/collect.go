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
	"io/fs"
	"path"
	"regexp"
)

// Source files are lowercase underscore names nested under lowercase
// underscore directories.
var sourcePattern = regexp.MustCompile(`^([a-z_]+/)*[a-z_]+\.gleam$`)

// CollectSource appends an Input for every source file under fsys, which is
// rooted at rootPath. A root that cannot be read is skipped without error;
// a file that cannot be read is fatal.
func CollectSource(fsys fs.FS, rootPath string, origin ModuleOrigin, inputs *[]Input) error {
	if _, err := fs.Stat(fsys, "."); err != nil {
		return nil
	}
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !sourcePattern.MatchString(p) {
			return nil
		}
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("unable to read %s: %w", path.Join(rootPath, p), err)
		}
		*inputs = append(*inputs, Input{
			SourceBasePath: rootPath,
			Path:           path.Join(rootPath, p),
			Src:            string(src),
			Origin:         origin,
		})
		return nil
	})
}
