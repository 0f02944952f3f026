// Package config provides configuration loading and access for the
// evolution simulator.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all tunable simulation parameters. Capacity bounds (node,
// muscle, and behavior slot counts) are compile-time constants in the
// creature package, not configuration.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Creature  CreatureConfig  `yaml:"creature"`
	Genetic   GeneticConfig   `yaml:"genetic"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ScreenConfig holds display settings for playback.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the mass-spring simulation parameters.
type PhysicsConfig struct {
	TimeStep       float64 `yaml:"time_step"`       // fixed sub-step in seconds
	Integrator     string  `yaml:"integrator"`      // euler or midpoint
	Gravity        float64 `yaml:"gravity"`         // Y acceleration, negative is down
	Damping        float64 `yaml:"damping"`         // axial spring damping
	Restitution    float64 `yaml:"restitution"`     // ground bounce factor
	GroundFriction float64 `yaml:"ground_friction"` // global scale for node friction
}

// CreatureConfig holds behavior playback and evaluation parameters.
type CreatureConfig struct {
	BehaviorTime  float64 `yaml:"behavior_time"`  // seconds per behavior cycle
	MaxEnergy     float64 `yaml:"max_energy"`     // contraction budget before energy death
	FitnessTrials int     `yaml:"fitness_trials"` // behavior cycles per evaluation
	SettleLimit   int     `yaml:"settle_limit"`   // max rest iterations while settling
}

// GeneticConfig holds the genetic algorithm parameters.
type GeneticConfig struct {
	Population int     `yaml:"population"`
	Timeout    int     `yaml:"timeout"` // generations before giving up; 0 = unlimited
	Target     float64 `yaml:"target"`  // stop once best fitness (lower is better) reaches this
	Workers    int     `yaml:"workers"` // fitness workers; 0 = all CPUs, 1 = serial
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	LogGenerations bool `yaml:"log_generations"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present
		// in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects configurations the simulation cannot run with.
func (c *Config) validate() error {
	if c.Physics.TimeStep <= 0 {
		return fmt.Errorf("physics.time_step must be positive, got %v", c.Physics.TimeStep)
	}
	if c.Creature.BehaviorTime <= 0 {
		return fmt.Errorf("creature.behavior_time must be positive, got %v", c.Creature.BehaviorTime)
	}
	if c.Creature.FitnessTrials <= 0 {
		return fmt.Errorf("creature.fitness_trials must be positive, got %d", c.Creature.FitnessTrials)
	}
	if c.Genetic.Population < 4 {
		return fmt.Errorf("genetic.population must be at least 4, got %d", c.Genetic.Population)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
