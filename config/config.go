// Package config holds the tunables of a simulation, read from YAML.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// SpringConfig holds the defaults of springs created from a topology
type SpringConfig struct {
	Stiffness float64 `yaml:"stiffness"`
	// Damping below 0 selects critical damping
	Damping float64 `yaml:"damping"`
}

// ParticleConfig holds the defaults of particles created from a topology
type ParticleConfig struct {
	Radius      float64 `yaml:"radius"`
	Mass        float64 `yaml:"mass"`
	Restitution float64 `yaml:"restitution"`
}

// StreamConfig configures the websocket snapshot stream
type StreamConfig struct {
	Addr  string `yaml:"addr"`
	Every int    `yaml:"every"` // publish one snapshot every N steps
}

type Config struct {
	Gravity     [3]float64    `yaml:"gravity"`
	Friction    float64       `yaml:"friction"`
	TimeStep    float64       `yaml:"time_step"`
	TickRate    time.Duration `yaml:"tick_rate"`
	StopTimeout time.Duration `yaml:"stop_timeout"`
	BVHMaxDepth int           `yaml:"bvh_max_depth"`

	Spring   SpringConfig   `yaml:"spring"`
	Particle ParticleConfig `yaml:"particle"`
	Stream   StreamConfig   `yaml:"stream"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Gravity:     [3]float64{0, -9.81, 0},
		Friction:    0.99,
		TimeStep:    1.0 / 60.0,
		TickRate:    time.Second / 60,
		StopTimeout: time.Second,
		BVHMaxDepth: 64,
		Spring: SpringConfig{
			Stiffness: 500,
			Damping:   -1,
		},
		Particle: ParticleConfig{
			Radius:      0.05,
			Mass:        1,
			Restitution: 0.5,
		},
		Stream: StreamConfig{
			Addr:  "",
			Every: 1,
		},
	}
}

// Parse reads a YAML document over the defaults, so omitted keys keep their default value
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads and parses the YAML file at path
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	return Parse(data)
}

// Validate checks the ranges of every field
func (c Config) Validate() error {
	for i, g := range c.Gravity {
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return fmt.Errorf("%w: gravity[%d] is not finite", ErrInvalid, i)
		}
	}
	if c.Friction < 0 || c.Friction > 1 {
		return fmt.Errorf("%w: friction %v outside [0, 1]", ErrInvalid, c.Friction)
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("%w: time_step must be positive, got %v", ErrInvalid, c.TimeStep)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %v", ErrInvalid, c.TickRate)
	}
	if c.StopTimeout < 0 {
		return fmt.Errorf("%w: stop_timeout must not be negative, got %v", ErrInvalid, c.StopTimeout)
	}
	if c.BVHMaxDepth < 1 {
		return fmt.Errorf("%w: bvh_max_depth must be at least 1, got %d", ErrInvalid, c.BVHMaxDepth)
	}
	if c.Spring.Stiffness < 0 {
		return fmt.Errorf("%w: spring.stiffness must not be negative, got %v", ErrInvalid, c.Spring.Stiffness)
	}
	if c.Particle.Radius <= 0 {
		return fmt.Errorf("%w: particle.radius must be positive, got %v", ErrInvalid, c.Particle.Radius)
	}
	if c.Particle.Mass < 0 {
		return fmt.Errorf("%w: particle.mass must not be negative, got %v", ErrInvalid, c.Particle.Mass)
	}
	if c.Particle.Restitution < 0 || c.Particle.Restitution > 1 {
		return fmt.Errorf("%w: particle.restitution %v outside [0, 1]", ErrInvalid, c.Particle.Restitution)
	}
	if c.Stream.Every < 1 {
		return fmt.Errorf("%w: stream.every must be at least 1, got %d", ErrInvalid, c.Stream.Every)
	}

	return nil
}
