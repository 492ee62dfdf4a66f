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
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/gleam/internal/logging"
	"bennypowers.dev/gleam/internal/platform"
	"bennypowers.dev/gleam/project"
)

var buildCmd = &cobra.Command{
	Use:   "build [project directory]",
	Short: "Compile a project to Erlang source",
	Long: `Compiles every module under the project's src/ and test/ directories,
plus any dependency source trees given with --dep, writing Erlang source
(and optionally documentation) to the gen/ directory beside each source
root: the project's gen/ for src/ and test/.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		root, err := expandPath(root)
		if err != nil {
			return err
		}

		renderDocs, err := resolveRenderDocs(cmd)
		if err != nil {
			return err
		}

		inputs := []project.Input{}
		for _, dir := range []struct {
			name   string
			origin project.ModuleOrigin
		}{
			{"src", project.OriginSrc},
			{"test", project.OriginTest},
		} {
			sourceRoot := filepath.ToSlash(filepath.Join(root, dir.name))
			err := project.CollectSource(os.DirFS(filepath.FromSlash(sourceRoot)), sourceRoot, dir.origin, &inputs)
			if err != nil {
				return err
			}
		}

		deps, _ := cmd.Flags().GetStringSlice("dep")
		depRoots, err := expandDepRoots(root, deps)
		if err != nil {
			return err
		}
		for _, depRoot := range depRoots {
			err := project.CollectSource(os.DirFS(filepath.FromSlash(depRoot)), depRoot, project.OriginDependency, &inputs)
			if err != nil {
				return err
			}
		}

		compiled, err := project.CompileWithProgress(inputs, renderDocs, logging.Progress())
		if err != nil {
			pterm.Error.Println(err)
			cmd.SilenceUsage = true
			return err
		}

		fsys := platform.NewOSFileSystem()
		written := 0
		for _, module := range compiled {
			for _, file := range module.Files {
				target := filepath.FromSlash(file.Path)
				if err := fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
					return err
				}
				if err := fsys.WriteFile(target, []byte(file.Contents), 0o644); err != nil {
					return err
				}
				written++
			}
		}

		pterm.Success.Printf("Compiled %d modules (%d files) in %s\n", len(compiled), written, time.Since(start))
		return nil
	},
}

// resolveRenderDocs merges the --docs flag with the build.docs config key.
// Both surfaces use the serialized forms "true" and "false".
func resolveRenderDocs(cmd *cobra.Command) (project.RenderDocs, error) {
	value, _ := cmd.Flags().GetString("docs")
	if value == "" {
		value = viper.GetString("build.docs")
	}
	if value == "" {
		return project.RenderDocsFalse, nil
	}
	return project.ParseRenderDocs(value)
}

// expandDepRoots resolves --dep values, which may be glob patterns like
// deps/*/src, into the list of matching directories.
func expandDepRoots(root string, patterns []string) ([]string, error) {
	roots := []string{}
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		matches, err := doublestar.FilepathGlob(filepath.ToSlash(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid --dep pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			// A literal path with no matches may still be a valid empty
			// dependency root; CollectSource skips unreadable roots.
			roots = append(roots, filepath.ToSlash(pattern))
			continue
		}
		for _, match := range matches {
			roots = append(roots, filepath.ToSlash(match))
		}
	}
	return roots, nil
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().String("docs", "", `render documentation for src modules ("true" or "false")`)
	buildCmd.Flags().StringSlice("dep", nil, "dependency source roots, may be glob patterns")
	viper.BindPFlag("build.docs", buildCmd.Flags().Lookup("docs"))
}
