package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a named constraint preset selectable with --profile.
type Profile struct {
	Checks    int    `yaml:"checks"`
	LengthMin int    `yaml:"length_min"`
	LengthMax int    `yaml:"length_max"`
	DigitsMin int    `yaml:"digits_min"`
	DigitsMax int    `yaml:"digits_max"`
	Require   string `yaml:"require"`
}

// BuiltinProfiles are always available without a profiles file.
var BuiltinProfiles = map[string]Profile{
	"short": {LengthMin: 5, LengthMax: 6},
	"word":  {LengthMin: 6, LengthMax: 8},
	"tag":   {LengthMin: 6, LengthMax: 8, DigitsMin: 1, DigitsMax: 2},
}

// LoadProfiles reads a YAML profiles file mapping names to presets and
// merges it over the builtins (file entries win).
func LoadProfiles(path string) (map[string]Profile, error) {
	profiles := make(map[string]Profile, len(BuiltinProfiles))
	for name, p := range BuiltinProfiles {
		profiles[name] = p
	}

	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var fromFile map[string]Profile
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("parse profiles file: %w", err)
	}

	for name, p := range fromFile {
		profiles[name] = p
	}

	return profiles, nil
}

// ApplyProfile overlays a preset onto the scan configuration. Zero-valued
// preset fields leave the current setting untouched.
func (c *Config) ApplyProfile(p Profile) {
	if p.Checks > 0 {
		c.Scan.Checks = p.Checks
	}
	if p.LengthMin > 0 {
		c.Scan.LengthMin = p.LengthMin
	}
	if p.LengthMax > 0 {
		c.Scan.LengthMax = p.LengthMax
	}
	if p.DigitsMin > 0 {
		c.Scan.DigitsMin = p.DigitsMin
	}
	if p.DigitsMax > 0 {
		c.Scan.DigitsMax = p.DigitsMax
	}
	if p.Require != "" {
		c.Scan.Require = p.Require
	}
}
