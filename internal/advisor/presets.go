package advisor

import (
	"embed"
	"fmt"

	"github.com/apimguard/apimguard/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// presetCache holds loaded presets to avoid re-parsing
var presetCache = map[string]*models.RuleSet{}

// presetFiles maps preset names to embedded file paths
var presetFiles = map[string]string{
	"baseline": "presets/baseline.yaml",
	"strict":   "presets/strict.yaml",
}

// GetPreset returns a built-in rule set by name, or nil if not found.
func GetPreset(name string) *models.RuleSet {
	if cached, ok := presetCache[name]; ok {
		return cached
	}

	path, ok := presetFiles[name]
	if !ok {
		return nil
	}

	data, err := presetFS.ReadFile(path)
	if err != nil {
		return nil
	}

	var rs models.RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil
	}

	presetCache[name] = &rs
	return &rs
}

// ListPresetNames returns the names of all available presets.
func ListPresetNames() []string {
	names := make([]string, 0, len(presetFiles))
	for name := range presetFiles {
		names = append(names, name)
	}
	return names
}

// MustGetPreset returns a preset or panics (for tests).
func MustGetPreset(name string) *models.RuleSet {
	p := GetPreset(name)
	if p == nil {
		panic(fmt.Sprintf("preset %q not found", name))
	}
	return p
}
