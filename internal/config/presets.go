package config

import "sort"

var (
	centralSeed = SourceConfig{X: 25, Y: 25, Mass: 1e10, Radius: 5}
	centralFoam = PerturbationConfig{X: 25, Y: 25, Strength: 2.0, Radius: 15}
)

var Presets = map[string]*Config{
	"demo": preset(func(c *Config) {
		c.Sources = []SourceConfig{centralSeed}
		c.Perturbations = []PerturbationConfig{centralFoam}
	}),
	"animation": preset(func(c *Config) {
		c.Dt, c.Steps, c.HistoryLimit = 5, 100, 0
		c.Sources = []SourceConfig{centralSeed}
		c.Perturbations = []PerturbationConfig{centralFoam}
	}),
	"scenario": preset(func(c *Config) {
		c.GridSize, c.Steps = 20, 10
		c.Sources = []SourceConfig{{X: 25, Y: 25, Mass: 1e10, Radius: 2}}
		c.Perturbations = []PerturbationConfig{{X: 25, Y: 25, Strength: 2.0, Radius: 5}}
	}),
	"quiet": preset(func(c *Config) {
		c.Steps = 20
		c.Sources = []SourceConfig{centralSeed}
	}),
	"binary": preset(func(c *Config) {
		c.Sources = []SourceConfig{
			{X: 18, Y: 25, Mass: 6e9, Radius: 4},
			{X: 32, Y: 25, Mass: 4e9, Radius: 3},
		}
		c.Perturbations = []PerturbationConfig{centralFoam}
	}),
}

func preset(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
