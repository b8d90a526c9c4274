// Package integration resolves fixture sites end to end and compares the
// result with golden files.
package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/transpileconf/internal/config"
	"git.home.luguber.info/inful/transpileconf/internal/locate"
	"git.home.luguber.info/inful/transpileconf/internal/plugin"
	"git.home.luguber.info/inful/transpileconf/internal/resolve"
	"git.home.luguber.info/inful/transpileconf/internal/stage"
	"git.home.luguber.info/inful/transpileconf/internal/toolchain"
)

const testdata = "../testdata"

// goldenCase names a fixture site, the stage to resolve it for and an optional
// configuration file under testdata/configs.
type goldenCase struct {
	site   string
	stage  stage.Stage
	config string
}

func loadCaseConfig(t *testing.T, name string) *config.Config {
	t.Helper()
	if name == "" {
		cfg, err := config.Finalize(&config.Config{})
		require.NoError(t, err)
		return cfg
	}
	cfg, err := config.Load(filepath.Join(testdata, "configs", name))
	require.NoError(t, err, "failed to load config %s", name)
	return cfg
}

func resolveCase(t *testing.T, tc goldenCase) resolve.Result {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := loadCaseConfig(t, tc.config)

	reg := plugin.NewRegistry(logger)
	for _, ext := range cfg.Extensions {
		require.NoError(t, reg.Register(plugin.NewStaticExtension(ext.Name, ext.Version, ext.Description, ext.Fragment)))
	}
	t.Cleanup(reg.Clear)

	dir, err := filepath.Abs(filepath.Join(testdata, "sites", tc.site))
	require.NoError(t, err)

	r := resolve.New(locate.NewLocator(locate.DefaultNames(), nil, logger), reg, logger).
		WithToolchain(func(string) toolchain.Resolver { return toolchain.Passthrough{} })

	res, err := r.Resolve(context.Background(), resolve.Request{
		Directory: dir,
		Stage:     tc.stage,
		Targets:   cfg.Site.Browsers,
	})
	require.NoError(t, err)
	return res
}

// verifyGolden compares res with testdata/golden/<site>.golden.json.
// Map key order is not compared; list order is.
func verifyGolden(t *testing.T, tc goldenCase, res resolve.Result, update bool) {
	t.Helper()
	goldenPath := filepath.Join(testdata, "golden", tc.site+".golden.json")

	actual, err := json.MarshalIndent(res.Config, "", "  ")
	require.NoError(t, err)
	actual = append(actual, '\n')

	if update {
		require.NoError(t, os.WriteFile(goldenPath, actual, 0o644))
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "failed to read golden file (run with -update-golden to create)")
	assert.JSONEq(t, string(expected), string(actual), "resolved configuration mismatch for %s", tc.site)
}
