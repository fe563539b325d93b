package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// GlobalPresets is the section applied before any host section.
const GlobalPresets = "global"

// Preset overrides plugin attributes. Nil fields leave the attribute alone.
type Preset struct {
	Active   *bool    `yaml:"active"`
	Optional *bool    `yaml:"optional"`
	Order    *float64 `yaml:"order"`
	Families []string `yaml:"families"`
}

// Apply writes the preset onto p.
func (pr Preset) Apply(p *Plugin) {
	if pr.Active != nil {
		p.Active = *pr.Active
	}
	if pr.Optional != nil {
		p.Optional = *pr.Optional
	}
	if pr.Order != nil {
		p.Order = *pr.Order
	}
	if pr.Families != nil {
		p.Families = append([]string(nil), pr.Families...)
	}
}

// PresetSection is one top-level block of the presets file.
type PresetSection struct {
	Filter map[string]*Preset `yaml:"filter"`
}

// Presets maps "global" and host names to their sections:
//
//	global:
//	  filter:
//	    ValidateNaming: {active: false}
//	nuke:
//	  filter:
//	    ValidateNaming: null
type Presets map[string]PresetSection

// LoadPresets reads a presets file. A missing file yields no presets.
func LoadPresets(path string) (Presets, error) {
	if path == "" {
		return Presets{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Presets{}, nil
		}
		return nil, fmt.Errorf("read plugin presets: %w", err)
	}
	return ParsePresets(raw)
}

// ParsePresets decodes presets from YAML.
func ParsePresets(raw []byte) (Presets, error) {
	presets := Presets{}
	if err := yaml.Unmarshal(raw, &presets); err != nil {
		return nil, fmt.Errorf("unmarshal plugin presets: %w", err)
	}
	return presets, nil
}

// ForHosts resolves the effective preset per plugin name: the global
// filter, then each host's filter in order. A null host entry removes an
// inherited preset.
func (p Presets) ForHosts(hosts []string) map[string]Preset {
	result := make(map[string]Preset)
	for name, preset := range p[GlobalPresets].Filter {
		if preset != nil {
			result[name] = *preset
		}
	}
	for _, host := range hosts {
		section, ok := p[host]
		if !ok || host == GlobalPresets {
			continue
		}
		for name, preset := range section.Filter {
			if preset == nil {
				delete(result, name)
				continue
			}
			result[name] = *preset
		}
	}
	return result
}
