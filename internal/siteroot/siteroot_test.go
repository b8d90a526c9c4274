package siteroot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
)

// realDir resolves symlinks so comparisons hold on systems where the temp dir is a link.
func realDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
}

func TestDetect_NearestManifestInsideRepository(t *testing.T) {
	repo := realDir(t)
	_, err := git.PlainInit(repo, false)
	require.NoError(t, err)
	touch(t, filepath.Join(repo, Marker))
	touch(t, filepath.Join(repo, "www", Marker))
	nested := filepath.Join(repo, "www", "src", "pages")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	root, err := Detect(nested)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo, "www"), root.Directory)
	assert.Equal(t, repo, root.RepoRoot)
	assert.True(t, root.HasManifest)
}

func TestDetect_StopsAtRepositoryRoot(t *testing.T) {
	outer := realDir(t)
	touch(t, filepath.Join(outer, Marker))
	repo := filepath.Join(outer, "site")
	_, err := git.PlainInit(repo, false)
	require.NoError(t, err)
	nested := filepath.Join(repo, "src")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	root, err := Detect(nested)

	require.NoError(t, err)
	assert.Equal(t, nested, root.Directory, "a manifest outside the work tree must not be picked")
	assert.False(t, root.HasManifest)
}

func TestDetect_OutsideRepository(t *testing.T) {
	dir := realDir(t)
	touch(t, filepath.Join(dir, Marker))
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	root, err := Detect(nested)

	require.NoError(t, err)
	assert.Equal(t, dir, root.Directory)
	assert.Empty(t, root.RepoRoot)
}

func TestDetect_Errors(t *testing.T) {
	dir := realDir(t)
	_, err := Detect(filepath.Join(dir, "missing"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	file := filepath.Join(dir, "file.txt")
	touch(t, file)
	_, err = Detect(file)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestAt_KeepsNamedDirectory(t *testing.T) {
	repo := realDir(t)
	_, err := git.PlainInit(repo, false)
	require.NoError(t, err)
	touch(t, filepath.Join(repo, Marker))
	app := filepath.Join(repo, "app")
	touch(t, filepath.Join(app, ".babelrc"))

	root, err := At(app)

	require.NoError(t, err)
	assert.Equal(t, app, root.Directory)
	assert.Equal(t, repo, root.RepoRoot)
	assert.False(t, root.HasManifest)

	root, err = At(repo)
	require.NoError(t, err)
	assert.True(t, root.HasManifest)
}

func TestAt_Errors(t *testing.T) {
	dir := realDir(t)
	_, err := At(filepath.Join(dir, "missing"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	file := filepath.Join(dir, "file.txt")
	touch(t, file)
	_, err = At(file)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}
