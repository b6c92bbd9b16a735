package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	assert.Equal(t, time.Second, Default().Plugins.Timeout())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "mediumdraft.toml", `
[editor]
placeholder = "Write"

[code]
tab_size = 4

[image]
upload_dir = "/tmp/up"

[plugins]
lua = ["a.lua", "plugins"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Editor.Placeholder = "Write"
	want.Code.TabSize = 4
	want.Image.UploadDir = "/tmp/up"
	want.Plugins.Lua = []string{"a.lua", "plugins"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "mediumdraft.yaml", `
log:
  level: debug
  dev: true
code:
  ignore_commands: [bold]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Dev)
	assert.Equal(t, []string{"bold"}, cfg.Code.IgnoreCommands)
	assert.Equal(t, 2, cfg.Code.TabSize)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "cfg.json", `{}`))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	path := writeFile(t, "bad.toml", `[code`)
	_, err = Load(path)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, path, perr.Path)
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Code.TabSize = 3
	cfg.Log.Level = "loud"
	cfg.Image.Concurrency = 0

	errs := multierr.Errors(cfg.Validate())
	require.Len(t, errs, 3)

	var fields []string
	for _, err := range errs {
		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"code.tab_size", "image.concurrency", "log.level"}, fields)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MEDIUMDRAFT_CODE_TAB_SIZE", "4")
	t.Setenv("MEDIUMDRAFT_LOG_LEVEL", "WARN")
	t.Setenv("MEDIUMDRAFT_EDITOR_READ_ONLY", "true")
	t.Setenv("MEDIUMDRAFT_PLUGINS_LUA", "a.lua"+string(os.PathListSeparator)+"b.lua")
	t.Setenv("MEDIUMDRAFT_CODE_IGNORE_COMMANDS", "bold, code")

	path := writeFile(t, "mediumdraft.toml", "[code]\ntab_size = 2\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Code.TabSize)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Editor.ReadOnly)
	assert.Equal(t, []string{"a.lua", "b.lua"}, cfg.Plugins.Lua)
	assert.Equal(t, []string{"bold", "code"}, cfg.Code.IgnoreCommands)
}

func TestInvalidEnvOverrides(t *testing.T) {
	t.Setenv("MEDIUMDRAFT_CODE_TAB_SIZE", "four")
	t.Setenv("MEDIUMDRAFT_LOG_DEV", "maybe")

	_, err := Load("")
	require.ErrorIs(t, err, ErrInvalidEnv)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestParse(t *testing.T) {
	cfg, err := Parse("yml", []byte("image:\n  concurrency: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Image.Concurrency)

	_, err = Parse("ini", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
