// Package siteroot finds the site directory a command should operate on.
package siteroot

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/logfields"
)

// Marker is the file that identifies a site directory.
const Marker = "package.json"

// Root is a detected site directory.
type Root struct {
	// Directory is the absolute site directory.
	Directory string
	// RepoRoot is the enclosing git work tree, empty outside a repository.
	RepoRoot string
	// HasManifest reports whether Directory contains Marker.
	HasManifest bool
}

// Detect walks up from start to the nearest directory holding a package.json.
// The walk stops at the enclosing git work tree root, or at the filesystem root
// outside a repository. When nothing is found, start itself is returned.
func Detect(start string) (Root, error) {
	abs, err := directory(start)
	if err != nil {
		return Root{}, err
	}
	repoRoot, err := RepoRoot(abs)
	if err != nil {
		return Root{}, err
	}

	for dir := abs; ; dir = filepath.Dir(dir) {
		if fileExists(filepath.Join(dir, Marker)) {
			return Root{Directory: dir, RepoRoot: repoRoot, HasManifest: true}, nil
		}
		parent := filepath.Dir(dir)
		if dir == repoRoot || parent == dir {
			break
		}
	}
	return Root{Directory: abs, RepoRoot: repoRoot}, nil
}

// At describes dir as the site root without searching its ancestors.
func At(dir string) (Root, error) {
	abs, err := directory(dir)
	if err != nil {
		return Root{}, err
	}
	repoRoot, err := RepoRoot(abs)
	if err != nil {
		return Root{}, err
	}
	return Root{
		Directory:   abs,
		RepoRoot:    repoRoot,
		HasManifest: fileExists(filepath.Join(abs, Marker)),
	}, nil
}

// directory returns dir as an absolute path after checking it is a directory.
func directory(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot resolve site directory").
			WithContext(logfields.KeyDirectory, dir).
			Build()
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ferrors.NewError(ferrors.CategoryNotFound, "site directory not found: "+dir).
				WithContext(logfields.KeyDirectory, abs).
				Build()
		}
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "site directory is not accessible").
			WithContext(logfields.KeyDirectory, abs).
			Build()
	}
	if !info.IsDir() {
		return "", ferrors.ValidationError("site directory is not a directory: " + abs).Build()
	}
	return abs, nil
}

// RepoRoot returns the root of the git work tree containing dir, or "" when
// dir is not inside one.
func RepoRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot open git repository").
			WithContext(logfields.KeyDirectory, dir).
			Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return "", nil
		}
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot open git work tree").
			WithContext(logfields.KeyDirectory, dir).
			Build()
	}
	return wt.Filesystem.Root(), nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
