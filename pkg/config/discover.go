package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// discoverPattern matches the config file names looked for in a directory
const discoverPattern = "{triplog,.triplog}.{yaml,yml,hcl,json,toml}"

// ErrNotFound is returned by Discover when dir holds no config file
var ErrNotFound = errors.Base("no triplog config file found")

// 🔍 Discover returns the config file in dir. Visible names sort before
// dotfiles, and within each the format order is yaml, yml, hcl, json, toml.
func Discover(ctx context.Context, dir string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), discoverPattern)
	if err != nil {
		return "", errors.Errorf("searching %s for config: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", errors.WithStack(ErrNotFound)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return rank(matches[i]) < rank(matches[j])
	})

	if len(matches) > 1 {
		zerolog.Ctx(ctx).Warn().Strs("candidates", matches).Str("using", matches[0]).Msg("multiple config files found")
	}

	return filepath.Join(dir, matches[0]), nil
}

func rank(name string) int {
	order := map[string]int{".yaml": 0, ".yml": 1, ".hcl": 2, ".json": 3, ".toml": 4}
	r := order[filepath.Ext(name)]
	if name[0] == '.' {
		r += len(order)
	}
	return r
}
