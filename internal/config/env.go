package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/logfields"
)

// DefaultEnvFiles are tried, in order, when no env file is named.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads KEY=VALUE files into the process environment without
// overriding variables that are already set. With no explicit paths the
// defaults are tried and missing ones are skipped; an explicit path must exist.
// It returns the files that were loaded.
func LoadEnvFiles(paths ...string) ([]string, error) {
	explicit := len(paths) > 0
	if !explicit {
		paths = DefaultEnvFiles
	}

	var loaded []string
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) && !explicit {
				continue
			}
			return loaded, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load env file").
				WithContext(logfields.KeyPath, p).
				Build()
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}
