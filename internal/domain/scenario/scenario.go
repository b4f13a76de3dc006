// Package scenario holds the named clinical fixtures used by the demo API,
// the CLI and the regression harness, and loads custom fixtures from disk.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/neuroped/cds/internal/domain/patient"
)

// Scenario is a named patient fixture.
type Scenario struct {
	Key         string        `json:"key" yaml:"key"`
	Label       string        `json:"label" yaml:"label"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Input       patient.Input `json:"input" yaml:"input"`
}

// Summary is the listing view of a scenario.
type Summary struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ErrUnknown is returned for a key that names no scenario.
var ErrUnknown = errors.New("unknown scenario")

// Keys returns the scenario keys in catalogue order.
func Keys() []string {
	out := make([]string, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, s.Key)
	}
	return out
}

// List returns key and label of every scenario in catalogue order.
func List() []Summary {
	out := make([]Summary, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, Summary{Key: s.Key, Label: s.Label})
	}
	return out
}

// Get returns a scenario by key, case-insensitively. The returned input is
// a fresh copy; callers may build a record from it and mutate nothing
// shared.
func Get(key string) (Scenario, error) {
	k := strings.ToUpper(strings.TrimSpace(key))
	for _, s := range catalog {
		if s.Key == k {
			s.Input = s.Input.Clone()
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknown, key)
}

// All returns a copy of every scenario in catalogue order.
func All() []Scenario {
	out := make([]Scenario, 0, len(catalog))
	for _, s := range catalog {
		s.Input = s.Input.Clone()
		out = append(out, s)
	}
	return out
}

// Parse decodes a scenario document. The format follows the file extension
// (".yaml", ".yml" or ".json"). A document without an "input" key is read
// as a bare patient input.
func Parse(data []byte, ext string) (Scenario, error) {
	var unmarshal func([]byte, any) error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".json":
		unmarshal = json.Unmarshal
	default:
		return Scenario{}, fmt.Errorf("unsupported scenario format %q", ext)
	}

	var s Scenario
	if err := unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	if s.Input.GCS == nil && s.Input.Age == nil {
		var in patient.Input
		if err := unmarshal(data, &in); err != nil {
			return Scenario{}, fmt.Errorf("decode patient input: %w", err)
		}
		s.Input = in
	}
	if s.Key == "" {
		s.Key = "CUSTOM"
	}
	if s.Label == "" {
		s.Label = "Custom scenario"
	}
	return s, nil
}

// LoadFile reads a scenario from a YAML or JSON file.
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}
