package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/stage"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_EmptyYieldsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_FullFile(t *testing.T) {
	cfg, err := Parse([]byte(`
version: "1.0"
site:
  directory: ./site
  stage: " Build-JavaScript "
  browsers: ["chrome >= 70", "  "]
  no_resolve: true
sources:
  rc_file: .babelrc.json5
plugins:
  query_strip: custom-query-strip
extensions:
  - name: emotion
    version: 1.2.0
    fragment:
      plugins: [babel-plugin-emotion]
output:
  format: YML
watch:
  debounce: 1s
metrics:
  enabled: true
`))
	require.NoError(t, err)

	assert.Equal(t, "./site", cfg.Site.Directory)
	assert.Equal(t, string(stage.BuildJavaScript), cfg.Site.Stage)
	assert.Equal(t, []string{"chrome >= 70"}, cfg.Site.Browsers)
	assert.True(t, cfg.Site.NoResolve)
	assert.Equal(t, ".babelrc.json5", cfg.Sources.RCFile)
	assert.Equal(t, ".babelrc.js", cfg.Sources.Script, "unset fields take defaults")
	assert.Equal(t, "custom-query-strip", cfg.Plugins.QueryStrip)
	assert.Equal(t, "react-hot-loader/babel", cfg.Plugins.HotReload)
	require.Len(t, cfg.Extensions, 1)
	assert.Equal(t, `{"plugins":["babel-plugin-emotion"]}`, cfg.Extensions[0].Fragment.String())
	assert.Equal(t, FormatYAML, cfg.Output.Format)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, ":9464", cfg.Metrics.Listen)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SITE_STAGE", "build-html")

	cfg, err := Parse([]byte("site:\n  stage: ${SITE_STAGE}\n"))

	require.NoError(t, err)
	assert.Equal(t, string(stage.BuildHTML), cfg.Site.Stage)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		category ferrors.ErrorCategory
	}{
		{"syntax", "site: [", ferrors.CategoryConfig},
		{"unknown field", "site:\n  stages: develop\n", ferrors.CategoryConfig},
		{"version", "version: \"2.0\"\n", ferrors.CategoryValidation},
		{"stage", "site:\n  stage: serve\n", ferrors.CategoryValidation},
		{"format", "output:\n  format: toml\n", ferrors.CategoryValidation},
		{"extension version", "extensions:\n  - name: a\n    version: latest\n", ferrors.CategoryValidation},
		{"duplicate extension", "extensions:\n  - {name: a, version: 1.0.0}\n  - {name: a, version: 1.0.0}\n", ferrors.CategoryValidation},
		{"fragment kind", "extensions:\n  - {name: a, version: 1.0.0, fragment: [x]}\n", ferrors.CategoryValidation},
		{"source clash", "sources:\n  rc_file: package.json\n", ferrors.CategoryValidation},
		{"negative debounce", "watch:\n  debounce: -1s\n", ferrors.CategoryValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, tt.category, ferrors.GetCategory(err))
		})
	}
}

func TestParse_SourceClashNamesTheLaterField(t *testing.T) {
	yaml := "sources:\n  script: babel.cfg\n  rc_file: babel.cfg\n  manifest: babel.cfg\n"
	for range 20 {
		_, err := Parse([]byte(yaml))

		ce, ok := ferrors.AsClassified(err)
		require.True(t, ok)
		assert.Equal(t, "sources.rc_file", ce.Context()["field"])
		assert.Contains(t, ce.Error(), "sources.script")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "site:\n  stage: build-css\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, string(stage.BuildCSS), cfg.Site.Stage)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ParseErrorCarriesPath(t *testing.T) {
	path := writeConfig(t, "site: [")

	_, err := Load(path)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, path, ce.Context()["path"])
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Extensions, 1)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)

	err = Init(path, false)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.NoError(t, Init(path, true))
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, "site.env")
	require.NoError(t, os.WriteFile(env, []byte("TRANSPILECONF_TEST_A=from-file\nTRANSPILECONF_TEST_B=\"quoted\"\n"), 0o644))
	t.Setenv("TRANSPILECONF_TEST_A", "from-env")
	t.Setenv("TRANSPILECONF_TEST_B", "")
	require.NoError(t, os.Unsetenv("TRANSPILECONF_TEST_B"))

	loaded, err := LoadEnvFiles(env)

	require.NoError(t, err)
	assert.Equal(t, []string{env}, loaded)
	assert.Equal(t, "from-env", os.Getenv("TRANSPILECONF_TEST_A"), "existing variables win")
	assert.Equal(t, "quoted", os.Getenv("TRANSPILECONF_TEST_B"))
}

func TestLoadEnvFiles_Missing(t *testing.T) {
	t.Chdir(t.TempDir())

	loaded, err := LoadEnvFiles()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	_, err = LoadEnvFiles("missing.env")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}
