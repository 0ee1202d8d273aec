package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDuration    = 10.0
	DefaultStepper     = "symplectic"
	DefaultSampleEvery = 6
)

var ErrNoBodies = errors.New("config: scenario has no bodies")

// Config is one scenario: force constants, stepping and the initial bodies.
type Config struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Dt          float64     `yaml:"dt"`
	Duration    float64     `yaml:"duration"`
	G           float64     `yaml:"g"`
	Softening   float64     `yaml:"softening"`
	Stepper     string      `yaml:"stepper"`
	Workers     int         `yaml:"workers,omitempty"`
	SampleEvery int         `yaml:"sample_every"`
	Collisions  *bool       `yaml:"collisions,omitempty"`
	Bound       float64     `yaml:"bound,omitempty"`
	Metrics     []string    `yaml:"metrics,omitempty"`
	Bodies      []body.Spec `yaml:"bodies"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "custom",
		Dt:          sim.DefaultDt,
		Duration:    DefaultDuration,
		G:           gravity.DefaultG,
		Softening:   gravity.DefaultSoftening,
		Stepper:     DefaultStepper,
		SampleEvery: DefaultSampleEvery,
	}
}

// Load reads a YAML scenario. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
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

func (c *Config) Clone() *Config {
	cp := *c
	cp.Bodies = append([]body.Spec(nil), c.Bodies...)
	cp.Metrics = append([]string(nil), c.Metrics...)
	if c.Collisions != nil {
		v := *c.Collisions
		cp.Collisions = &v
	}
	return &cp
}

// SimConfig maps the scenario onto the driver's settings.
func (c *Config) SimConfig() sim.Config {
	sc := sim.DefaultConfig()
	sc.Dt = c.Dt
	sc.G = c.G
	sc.Softening = c.Softening
	sc.Stepper = c.Stepper
	sc.Workers = c.Workers
	if c.Collisions != nil {
		sc.DetectCollisions = *c.Collisions
	}
	return sc
}

// Catalog validates and builds the scenario's bodies.
func (c *Config) Catalog() (*body.Catalog, error) {
	if len(c.Bodies) == 0 {
		return nil, ErrNoBodies
	}
	return body.NewCatalog(c.Bodies)
}

// NewSimulator builds the catalog and driver in one go.
func (c *Config) NewSimulator(opts ...sim.Option) (*sim.Simulator, error) {
	cat, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	return sim.New(cat, c.SimConfig(), opts...)
}
