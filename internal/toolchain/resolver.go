// Package toolchain resolves plugin and preset names to the references placed in
// the transform configuration.
package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/logfields"
	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// Resolver turns a package or module name into a reference.
type Resolver interface {
	Resolve(name string) (string, error)
}

// Passthrough returns names unchanged.
type Passthrough struct{}

// Resolve implements Resolver.
func (Passthrough) Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ferrors.ToolchainError("empty plugin or preset name").Build()
	}
	return name, nil
}

// NodeModules resolves names the way the module system does: it searches
// node_modules directories from Dir up to the filesystem root and returns the
// absolute path of the module's entry file.
type NodeModules struct {
	Dir string
}

// Resolve implements Resolver.
func (r NodeModules) Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ferrors.ToolchainError("empty plugin or preset name").Build()
	}
	start, err := filepath.Abs(r.Dir)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryToolchain, "cannot resolve "+name).Fatal().Build()
	}

	for dir := start; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(name))
		if entry, ok := resolveEntry(candidate); ok {
			return entry, nil
		}
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}

	return "", ferrors.ToolchainError(fmt.Sprintf("cannot resolve %q", name)).
		WithHint("install the package (npm install " + packageName(name) + ") or reinstall the site's dependencies").
		WithContext(logfields.KeyPlugin, name).
		WithContext(logfields.KeyDirectory, start).
		Build()
}

// resolveEntry applies file, extension, package main and index lookups to path.
func resolveEntry(path string) (string, bool) {
	if isFile(path) {
		return path, true
	}
	if isFile(path + ".js") {
		return path + ".js", true
	}
	if !isDir(path) {
		return "", false
	}
	if main, ok := packageMain(filepath.Join(path, "package.json")); ok {
		target := filepath.Join(path, filepath.FromSlash(main))
		for _, c := range []string{target, target + ".js", filepath.Join(target, "index.js")} {
			if isFile(c) {
				return c, true
			}
		}
	}
	if index := filepath.Join(path, "index.js"); isFile(index) {
		return index, true
	}
	return "", false
}

func packageMain(manifest string) (string, bool) {
	data, err := os.ReadFile(manifest)
	if err != nil {
		return "", false
	}
	pkg, err := value.ParseJSON(data)
	if err != nil {
		return "", false
	}
	main, ok := pkg.Get("main")
	if !ok {
		return "", false
	}
	s, ok := main.AsString()
	return s, ok && s != ""
}

// packageName strips a subpath: "@scope/pkg/lib" -> "@scope/pkg", "pkg/babel" -> "pkg".
func packageName(name string) string {
	parts := strings.Split(name, "/")
	if strings.HasPrefix(name, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
