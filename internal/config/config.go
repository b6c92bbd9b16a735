package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// Config is the complete mediumdraft configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Code    CodeConfig    `toml:"code" yaml:"code"`
	Image   ImageConfig   `toml:"image" yaml:"image"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Plugins PluginsConfig `toml:"plugins" yaml:"plugins"`
}

// EditorConfig holds the host props.
type EditorConfig struct {
	Placeholder string `toml:"placeholder" yaml:"placeholder"`
	ReadOnly    bool   `toml:"read_only" yaml:"read_only"`
}

// CodeConfig configures the code block plugin.
type CodeConfig struct {
	TabSize        int      `toml:"tab_size" yaml:"tab_size" validate:"oneof=2 4"`
	IgnoreCommands []string `toml:"ignore_commands" yaml:"ignore_commands"`
}

// ImageConfig configures image uploads. Without an upload directory
// dropped images keep their local source.
type ImageConfig struct {
	UploadDir   string `toml:"upload_dir" yaml:"upload_dir"`
	Concurrency int    `toml:"concurrency" yaml:"concurrency" validate:"gte=1,lte=64"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Dev   bool   `toml:"dev" yaml:"dev"`
}

// PluginsConfig lists the Lua plugin scripts or directories to load.
type PluginsConfig struct {
	Lua       []string `toml:"lua" yaml:"lua" validate:"dive,required"`
	TimeoutMS int      `toml:"timeout_ms" yaml:"timeout_ms" validate:"gte=0"`
}

// Timeout returns the Lua execution timeout.
func (c PluginsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Code: CodeConfig{
			TabSize:        2,
			IgnoreCommands: []string{"bold", "italic", "underline"},
		},
		Image:   ImageConfig{Concurrency: 4},
		Log:     LogConfig{Level: "info"},
		Plugins: PluginsConfig{TimeoutMS: 1000},
	}
}

var validate = newValidator()

// newValidator reports fields by their file key instead of the Go name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every setting and returns one FieldError per invalid
// setting, combined with multierr.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var errs error
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		errs = multierr.Append(errs, &FieldError{
			Field: strings.TrimPrefix(fe.Namespace(), "Config."),
			Rule:  rule,
			Value: fe.Value(),
		})
	}
	return errs
}
