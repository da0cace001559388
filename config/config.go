package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/moshbrosh/limits"
	"github.com/opd-ai/moshbrosh/motion"
)

// Config is the full engine configuration: the parameter snapshot plus the
// compositing and estimator settings that do not affect the snapshot.
type Config struct {
	Params `yaml:",inline"`

	// Blend mixes chain output over the original, in [0, 1].
	Blend float64 `yaml:"blend"`
	// Strategy selects the motion estimator.
	Strategy motion.Strategy `yaml:"strategy"`
	// SearchStep is the SAD candidate spacing. Zero selects the default.
	SearchStep int `yaml:"search_step"`
	// MaxDisplacement clamps gradient vectors. Zero selects the default.
	MaxDisplacement int `yaml:"max_displacement"`
	// Workers bounds estimation parallelism. Zero uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// Default returns the stock datamosh settings: mosh from frame 10 for 30
// frames with 16 pixel blocks, a 16 pixel search and full blend.
func Default() Config {
	return Config{
		Params: Params{
			MoshStart:   10,
			Duration:    30,
			BlockSize:   16,
			SearchRange: 16,
		},
		Blend:           1.0,
		Strategy:        motion.StrategySAD,
		SearchStep:      motion.DefaultSearchStep,
		MaxDisplacement: motion.DefaultMaxDisplacement,
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if err := limits.ValidateBlend(c.Blend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBlend, err)
	}
	if _, err := c.Strategy.MarshalText(); err != nil {
		return err
	}
	if c.SearchStep < 0 || c.MaxDisplacement < 0 || c.Workers < 0 {
		return fmt.Errorf("%w: step %d, max displacement %d, workers %d",
			ErrInvalidTuning, c.SearchStep, c.MaxDisplacement, c.Workers)
	}
	if c.MaxDisplacement > limits.MaxDisplacement {
		return fmt.Errorf("%w: max displacement %d exceeds %d",
			ErrInvalidTuning, c.MaxDisplacement, limits.MaxDisplacement)
	}
	return nil
}

// MotionOptions returns the estimator tuning.
func (c Config) MotionOptions() motion.Options {
	return motion.Options{
		SearchStep:      c.SearchStep,
		MaxDisplacement: c.MaxDisplacement,
		Workers:         c.Workers,
	}
}

// Load reads a YAML configuration file. Keys absent from the file keep
// their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Load",
		"path":         path,
		"mosh_frame":   cfg.MoshStart,
		"duration":     cfg.Duration,
		"block_size":   cfg.BlockSize,
		"search_range": cfg.SearchRange,
		"strategy":     cfg.Strategy.String(),
	}).Info("Loaded configuration")

	return cfg, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// AdjustToLength fits the mosh window to a clip of total frames. A start at or
// past the end is moved back so the full duration fits when possible, and a
// window running past the end is shortened.
func (c Config) AdjustToLength(total int) (Config, error) {
	if total <= 0 {
		return c, ErrNoFrames
	}

	if c.MoshStart >= total {
		adjusted := max(1, total-c.Duration-1)
		if adjusted >= total {
			adjusted = total - 1
		}
		logrus.WithFields(logrus.Fields{
			"function":     "Config.AdjustToLength",
			"mosh_frame":   c.MoshStart,
			"total_frames": total,
			"adjusted":     adjusted,
		}).Warn("Mosh frame past end of clip, adjusting")
		c.MoshStart = adjusted
	}

	if c.MoshStart+c.Duration > total {
		adjusted := total - c.MoshStart
		logrus.WithFields(logrus.Fields{
			"function":     "Config.AdjustToLength",
			"duration":     c.Duration,
			"total_frames": total,
			"adjusted":     adjusted,
		}).Warn("Duration runs past end of clip, adjusting")
		c.Duration = adjusted
	}

	return c, nil
}
