package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mediumdraft/internal/config"
	"github.com/dshills/mediumdraft/internal/document"
)

const rawDoc = `{
  "blocks": [
    {"key": "a", "text": "hello", "type": "unstyled", "depth": 0, "inlineStyleRanges": [], "entityRanges": [], "data": {}}
  ],
  "entityMap": {}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(args ...string) (code int, stdout, stderr string) {
	var out, errb bytes.Buffer
	code = run(args, &out, &errb)
	return code, out.String(), errb.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := execute("version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "mediumdraft dev")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", rawDoc)
	bad := writeFile(t, dir, "bad.json", `{"blocks": [`)

	code, out, _ := execute("validate", "--doc", good)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "good.json: ok")

	code, out, errOut := execute("validate", "--doc", good, "--doc", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "good.json: ok")
	assert.Contains(t, errOut, "bad.json")
}

func TestValidateRequiresDoc(t *testing.T) {
	code, _, errOut := execute("validate")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "doc")
}

func TestReplay(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "doc.json", rawDoc)
	steps := writeFile(t, dir, "steps.yaml", `
steps:
  - select: {key: a, offset: 5}
  - return: ""
  - type: "- milk"
`)

	code, out, errOut := execute("replay", "--doc", doc, "--script", steps)
	require.Equal(t, 0, code, errOut)

	s, err := document.ParseRaw([]byte(out))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "hello", s.BlockAt(0).Text)
	assert.Equal(t, document.UnorderedListItem, s.BlockAt(1).Type)
	assert.Equal(t, "milk", s.BlockAt(1).Text)
}

func TestReplayWithLuaPlugin(t *testing.T) {
	dir := t.TempDir()
	steps := writeFile(t, dir, "steps.yaml", `
steps:
  - type: hi
  - key: ctrl+e
`)
	shout := writeFile(t, dir, "shout.lua", `
name = "shout"
function keyBindingFn(ev)
  if ev.ctrl and ev.rune == "e" then return "shout" end
end
function handleKeyCommand(command)
  if command == "shout" then
    draft.insertText("!")
    return "handled"
  end
end
`)

	code, out, errOut := execute("replay", "--script", steps, "--lua", shout)
	require.Equal(t, 0, code, errOut)

	s, err := document.ParseRaw([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "hi!", s.FirstBlock().Text)
}

func TestReplayErrors(t *testing.T) {
	dir := t.TempDir()
	steps := writeFile(t, dir, "steps.yaml", "steps:\n  - check: nope\n")
	broken := writeFile(t, dir, "broken.lua", "function (")
	badConfig := writeFile(t, dir, "config.toml", "[code]\ntab_size = 3\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing script flag", []string{"replay"}, "script"},
		{"failing step", []string{"replay", "--script", steps}, "step 1 (check)"},
		{"broken lua", []string{"replay", "--script", steps, "--lua", broken}, "lua"},
		{"invalid config", []string{"replay", "--script", steps, "--config", badConfig}, "tab_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := execute(tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestEditSavesDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.json")

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 6)
	for _, r := range "# Hi" {
		screen.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	screen.InjectKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	cfg := config.Default()
	require.NoError(t, edit(context.Background(), &cfg, &editOptions{doc: path}, screen))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s, err := document.ParseRaw(data)
	require.NoError(t, err)
	assert.Equal(t, document.HeaderOne, s.FirstBlock().Type)
	assert.Equal(t, "Hi", s.FirstBlock().Text)
}
