package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/halosim/internal/diagnostics"
	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/halo"
)

const (
	DefaultGridSize    = 100
	DefaultExtent      = 50.0
	DefaultDt          = 10.0
	DefaultSteps       = 50
	DefaultReportEvery = 10
)

type Config struct {
	GridSize int     `yaml:"grid_size"`
	Extent   float64 `yaml:"extent"`
	Dt       float64 `yaml:"dt"`
	Steps    int     `yaml:"steps"`
	// HistoryLimit > 0 keeps the last N snapshots, 0 keeps all, < 0 none.
	HistoryLimit int `yaml:"history_limit"`
	// ReportEvery is the progress interval in steps for verbose runs.
	ReportEvery int `yaml:"report_every"`

	Physics       halo.Params          `yaml:"physics"`
	Diagnostics   DiagnosticsConfig    `yaml:"diagnostics"`
	Sources       []SourceConfig       `yaml:"sources"`
	Perturbations []PerturbationConfig `yaml:"perturbations"`
}

type SourceConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius"`
}

type PerturbationConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Strength float64 `yaml:"strength"`
	Radius   float64 `yaml:"radius"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type DiagnosticsConfig struct {
	Shells      int     `yaml:"shells"`
	Radii       int     `yaml:"radii"`
	MinRadius   float64 `yaml:"min_radius"`
	ScaleRadius float64 `yaml:"scale_radius"`
	// Center in world coordinates; nil means the grid centre.
	Center *Point `yaml:"center,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		GridSize:     DefaultGridSize,
		Extent:       DefaultExtent,
		Dt:           DefaultDt,
		Steps:        DefaultSteps,
		HistoryLimit: halo.DefaultHistoryLimit,
		ReportEvery:  DefaultReportEvery,
		Physics:      halo.DefaultParams(),
		Diagnostics: DiagnosticsConfig{
			Shells:      diagnostics.DefaultShells,
			Radii:       diagnostics.DefaultRadii,
			MinRadius:   diagnostics.DefaultMinRadius,
			ScaleRadius: diagnostics.DefaultScaleRadius,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem at once, each wrapping
// halo.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{halo.ErrInvalidConfiguration}, args...)...))
	}

	if c.GridSize <= 0 {
		bad("grid_size must be positive, got %d", c.GridSize)
	}
	if !(c.Extent > 0) {
		bad("extent must be positive, got %g", c.Extent)
	}
	if !(c.Dt > 0) {
		bad("dt must be positive, got %g", c.Dt)
	}
	if c.Steps < 0 {
		bad("steps must be non-negative, got %d", c.Steps)
	}
	if err := c.Physics.Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, s := range c.Sources {
		if !(s.Mass > 0) || !(s.Radius > 0) {
			bad("sources[%d]: mass and radius must be positive", i)
		}
	}
	for i, p := range c.Perturbations {
		if !(p.Strength > 0) || !(p.Radius > 0) {
			bad("perturbations[%d]: strength and radius must be positive", i)
		}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy so presets can be overridden safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Sources = append([]SourceConfig(nil), c.Sources...)
	out.Perturbations = append([]PerturbationConfig(nil), c.Perturbations...)
	if c.Diagnostics.Center != nil {
		p := *c.Diagnostics.Center
		out.Diagnostics.Center = &p
	}
	return &out
}

// DiagnosticOptions converts the diagnostics section, mapping a world
// centre onto grid.
func (c *Config) DiagnosticOptions(grid field.Grid) []diagnostics.Option {
	opts := []diagnostics.Option{
		diagnostics.WithShells(c.Diagnostics.Shells),
		diagnostics.WithRadii(c.Diagnostics.Radii),
		diagnostics.WithMinRadius(c.Diagnostics.MinRadius),
	}
	if p := c.Diagnostics.Center; p != nil {
		opts = append(opts, diagnostics.WithCenter(grid.Index(p.X), grid.Index(p.Y)))
	}
	return opts
}
