package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "MEDIUMDRAFT_"

// Load returns the defaults overlaid with the file at path, when path is
// not empty, and the environment overrides. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse overlays data in the given format ("toml", "yaml" or "yml") on
// the defaults. It applies no environment overrides and does not validate.
func Parse(format string, data []byte) (Config, error) {
	cfg := Default()
	if err := decode("<"+format+">", format, data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config file %s", path)
	}
	return decode(path, strings.TrimPrefix(filepath.Ext(path), "."), data, cfg)
}

// decode unmarshals data over cfg, keeping the values of absent keys.
func decode(source, format string, data []byte, cfg *Config) error {
	var err error
	switch strings.ToLower(format) {
	case "toml":
		err = toml.Unmarshal(data, cfg)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%s", source)
	}
	if err != nil {
		return &ParseError{Path: source, Err: err}
	}
	return nil
}

// envOverride maps one environment variable onto a setting.
type envOverride struct {
	name string
	set  func(c *Config, v string) error
}

var envOverrides = []envOverride{
	{"EDITOR_PLACEHOLDER", func(c *Config, v string) error {
		c.Editor.Placeholder = v
		return nil
	}},
	{"EDITOR_READ_ONLY", func(c *Config, v string) error {
		return parseBool(v, &c.Editor.ReadOnly)
	}},
	{"CODE_TAB_SIZE", func(c *Config, v string) error {
		return parseInt(v, &c.Code.TabSize)
	}},
	{"CODE_IGNORE_COMMANDS", func(c *Config, v string) error {
		c.Code.IgnoreCommands = splitList(v, ",")
		return nil
	}},
	{"IMAGE_UPLOAD_DIR", func(c *Config, v string) error {
		c.Image.UploadDir = v
		return nil
	}},
	{"IMAGE_CONCURRENCY", func(c *Config, v string) error {
		return parseInt(v, &c.Image.Concurrency)
	}},
	{"LOG_LEVEL", func(c *Config, v string) error {
		c.Log.Level = strings.ToLower(v)
		return nil
	}},
	{"LOG_DEV", func(c *Config, v string) error {
		return parseBool(v, &c.Log.Dev)
	}},
	{"PLUGINS_LUA", func(c *Config, v string) error {
		c.Plugins.Lua = splitList(v, string(os.PathListSeparator))
		return nil
	}},
	{"PLUGINS_TIMEOUT_MS", func(c *Config, v string) error {
		return parseInt(v, &c.Plugins.TimeoutMS)
	}},
}

// applyEnv applies every set MEDIUMDRAFT_* override. Empty values count
// as set.
func applyEnv(cfg *Config) error {
	var errs error
	for _, o := range envOverrides {
		name := EnvPrefix + o.name
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		if err := o.set(cfg, v); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(ErrInvalidEnv, "%s=%q: %v", name, v, err))
		}
	}
	return errs
}

func parseInt(v string, dst *int) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func parseBool(v string, dst *bool) error {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func splitList(v, sep string) []string {
	var out []string
	for _, item := range strings.Split(v, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
