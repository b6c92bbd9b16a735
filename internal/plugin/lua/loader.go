package lua

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// DefaultPaths returns the default plugin search paths: the user's
// ~/.config/mediumdraft/plugins and .mediumdraft/plugins under the working
// directory.
func DefaultPaths() []string {
	paths := make([]string, 0, 2)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mediumdraft", "plugins"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".mediumdraft", "plugins"))
	}
	return paths
}

// Discover returns the Lua scripts found at paths. A path is either a
// script or a directory whose *.lua files are taken in name order. Missing
// paths are skipped.
func Discover(paths ...string) ([]string, error) {
	var (
		found []string
		errs  error
	)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if !os.IsNotExist(err) {
				errs = multierr.Append(errs, errors.Wrapf(err, "stat %s", path))
			}
			continue
		}
		if !info.IsDir() {
			found = append(found, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "read plugin dir %s", path))
			continue
		}
		var scripts []string
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".lua") {
				scripts = append(scripts, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(scripts)
		found = append(found, scripts...)
	}
	return found, errs
}

// LoadAll discovers and loads every script at paths. When any script
// fails, the loaded plugins are closed and the combined error returned.
func LoadAll(paths []string, opts ...Option) ([]*Plugin, error) {
	scripts, err := Discover(paths...)
	if err != nil {
		return nil, err
	}

	var (
		plugins []*Plugin
		errs    error
	)
	for _, script := range scripts {
		p, err := Load(script, opts...)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		plugins = append(plugins, p)
	}
	if errs != nil {
		return nil, multierr.Append(errs, CloseAll(plugins))
	}
	return plugins, nil
}

// CloseAll closes every plugin and combines their errors.
func CloseAll(plugins []*Plugin) error {
	var errs error
	for _, p := range plugins {
		errs = multierr.Append(errs, p.Close())
	}
	return errs
}
