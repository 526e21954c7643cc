package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-ca/rules"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration for a simulation run
type Config struct {
	Rows             int           `json:"rows"`
	Cols             int           `json:"cols"`
	Rule             string        `json:"rule"`
	Generations      int           `json:"generations"`
	FrameRate        time.Duration `json:"frame_rate"`
	RandomDensity    float64       `json:"random_density"`
	Seed             int64         `json:"seed"`
	Workers          int           `json:"workers"`
	StopWhenStagnant bool          `json:"stop_when_stagnant"`
	ANSIClear        bool          `json:"ansi_clear"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Rows:             20,
		Cols:             40,
		Rule:             rules.Conway.String(),
		Generations:      100,
		FrameRate:        150 * time.Millisecond,
		RandomDensity:    0.2,
		Seed:             42,
		Workers:          1,
		StopWhenStagnant: false,
		ANSIClear:        false,
	}
}

// LoadConfig loads configuration from JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] file: %+v", filename)
	}

	return config, nil
}

// ParsedRule returns the configured rule.
func (c Config) ParsedRule() (rules.Rule, error) {
	return rules.ParseRule(c.Rule)
}

// Validate checks the values every run relies on. Grid dimensions are only
// checked by ValidateSize, since a snapshot supplies its own.
func (c Config) Validate() error {
	switch {
	case c.Generations < 0:
		return errors.Wrapf(ErrInvalidConfig, "generations must not be negative, got %d", c.Generations)
	case c.FrameRate < 0:
		return errors.Wrapf(ErrInvalidConfig, "frame_rate must not be negative, got %s", c.FrameRate)
	case c.RandomDensity < 0 || c.RandomDensity > 1:
		return errors.Wrapf(ErrInvalidConfig, "random_density must be within [0,1], got %v", c.RandomDensity)
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "workers must not be negative, got %d", c.Workers)
	}

	if _, err := c.ParsedRule(); err != nil {
		return errors.Wrap(err, "[Config.Validate]")
	}
	return nil
}

// ValidateSize checks the dimensions used to generate a grid.
func (c Config) ValidateSize() error {
	if c.Rows < 2 || c.Cols < 2 {
		return errors.Wrapf(ErrInvalidConfig, "grid must be at least 2x2, got %dx%d", c.Rows, c.Cols)
	}
	return nil
}
