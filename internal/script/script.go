// Package script replays recorded editing sessions against an editor.
//
// A script is a YAML list of steps, each holding exactly one action:
//
//	steps:
//	  - select: {key: a, offset: 0}
//	  - type: "# Title"
//	  - return: ""
//	  - key: ctrl+alt+8
//	  - command: bold
//	  - paste: {text: "pasted", html: "<b>pasted</b>"}
//	  - drop: {files: [cover.png]}
//	  - tab: true
//	  - escape: true
//	  - check: todo-1
//	  - wait: true
//
// Selections name the anchor and optionally the focus; a lone key and
// offset places the caret. return takes the modifiers held with it, e.g.
// "shift". File paths are resolved against the script's directory.
package script

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Script is a parsed event script.
type Script struct {
	Steps []Step `yaml:"steps"`

	// Dir resolves relative file paths. Load sets it to the script's
	// directory.
	Dir string `yaml:"-"`
}

// Step is a single scripted action. Exactly one field is set.
type Step struct {
	Select  *Selection `yaml:"select,omitempty"`
	Type    *string    `yaml:"type,omitempty"`
	Key     *string    `yaml:"key,omitempty"`
	Command *string    `yaml:"command,omitempty"`
	Return  *string    `yaml:"return,omitempty"`
	Paste   *Paste     `yaml:"paste,omitempty"`
	Drop    *Drop      `yaml:"drop,omitempty"`
	Tab     bool       `yaml:"tab,omitempty"`
	Escape  bool       `yaml:"escape,omitempty"`
	Check   *string    `yaml:"check,omitempty"`
	Wait    bool       `yaml:"wait,omitempty"`
}

// Selection places the selection. Without a focus key it is a caret.
type Selection struct {
	Key         string `yaml:"key"`
	Offset      int    `yaml:"offset"`
	FocusKey    string `yaml:"focus_key,omitempty"`
	FocusOffset int    `yaml:"focus_offset,omitempty"`
}

// Paste pastes text or files.
type Paste struct {
	Text  string   `yaml:"text,omitempty"`
	HTML  string   `yaml:"html,omitempty"`
	Files []string `yaml:"files,omitempty"`
}

// Drop drops files or external text at the current selection.
type Drop struct {
	Files []string `yaml:"files,omitempty"`
	Text  string   `yaml:"text,omitempty"`
}

// action names the action of s, or "" when s holds none or several.
func (s Step) action() (string, error) {
	set := map[string]bool{
		"select":  s.Select != nil,
		"type":    s.Type != nil,
		"key":     s.Key != nil,
		"command": s.Command != nil,
		"return":  s.Return != nil,
		"paste":   s.Paste != nil,
		"drop":    s.Drop != nil,
		"tab":     s.Tab,
		"escape":  s.Escape,
		"check":   s.Check != nil,
		"wait":    s.Wait,
	}
	var found []string
	for name, ok := range set {
		if ok {
			found = append(found, name)
		}
	}
	switch len(found) {
	case 0:
		return "", ErrEmptyStep
	case 1:
		return found[0], nil
	}
	return "", fmt.Errorf("%w: %v", ErrAmbiguousStep, found)
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decode script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read script %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "script %s", path)
	}
	s.Dir = filepath.Dir(path)
	return s, nil
}

// Validate checks that every step holds exactly one valid action.
func (s *Script) Validate() error {
	for i, step := range s.Steps {
		action, err := step.action()
		if err != nil {
			return &StepError{Index: i, Err: err}
		}
		switch action {
		case "key":
			_, err = ParseKey(*step.Key)
		case "return":
			_, err = parseModifiers(*step.Return)
		}
		if err != nil {
			return &StepError{Index: i, Action: action, Err: err}
		}
	}
	return nil
}

func (s *Script) path(p string) string {
	if filepath.IsAbs(p) || s.Dir == "" {
		return p
	}
	return filepath.Join(s.Dir, p)
}
