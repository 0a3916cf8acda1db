// Package config provides configuration loading and management for smokevolume.
// It handles loading configuration from YAML or TOML files and provides default values.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"smokevolume/internal/compress"
	"smokevolume/internal/models"
	"smokevolume/pkg/grid"
	"smokevolume/pkg/resample"
)

// Config represents the application configuration
type Config struct {
	// Grid selection
	Grid struct {
		// Name is the grid read from the input file
		Name string `yaml:"name" toml:"name"`
	} `yaml:"grid" toml:"grid"`

	// Resampling parameters
	Resample struct {
		// Epsilon is the minimum |value| for a voxel to count toward the bounds
		Epsilon float64 `yaml:"epsilon" toml:"epsilon"`

		// Brightness multiplies every density written to the volume
		Brightness float32 `yaml:"brightness" toml:"brightness"`

		// BoundsMode is "origin" (bounds always include the origin) or "tight"
		BoundsMode string `yaml:"boundsMode" toml:"bounds_mode"`

		// OutOfRange is "reject" or "drop"
		OutOfRange string `yaml:"outOfRange" toml:"out_of_range"`

		// MaxSide caps the cube edge length, 0 disables the cap
		MaxSide int `yaml:"maxSide" toml:"max_side"`
	} `yaml:"resample" toml:"resample"`

	// Output parameters
	Output struct {
		// VolumeFile is the raw texture dump; a .yaml sidecar is written next to it
		VolumeFile string `yaml:"volumeFile" toml:"volume_file"`

		// Compression is "none", "snappy" or "zstd"
		Compression string `yaml:"compression" toml:"compression"`

		// CSVFile, when set, receives the sparse samples
		CSVFile string `yaml:"csvFile" toml:"csv_file"`

		// SaveSlices writes JPEG slice stacks along every axis
		SaveSlices bool `yaml:"saveSlices" toml:"save_slices"`

		// SlicesDir is the root directory for slice stacks
		SlicesDir string `yaml:"slicesDir" toml:"slices_dir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose" toml:"verbose"`

		// LogFile enables a rotating log file
		LogFile string `yaml:"logFile" toml:"log_file"`

		// LogMaxSizeMB and LogMaxAgeDays control rotation of LogFile
		LogMaxSizeMB  int `yaml:"logMaxSizeMB" toml:"max_log_size"`
		LogMaxAgeDays int `yaml:"logMaxAgeDays" toml:"max_log_age"`
	} `yaml:"output" toml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Grid.Name = grid.DefaultGridName

	opts := resample.DefaultOptions()
	cfg.Resample.Epsilon = opts.Epsilon
	cfg.Resample.Brightness = opts.Brightness
	cfg.Resample.BoundsMode = opts.BoundsMode.String()
	cfg.Resample.OutOfRange = opts.OutOfRange.String()
	cfg.Resample.MaxSide = opts.MaxSide

	cfg.Output.VolumeFile = "smoke.raw"
	cfg.Output.Compression = compress.Uncompressed.String()
	cfg.Output.SaveSlices = false
	cfg.Output.SlicesDir = "slices"
	cfg.Output.Verbose = true
	cfg.Output.LogMaxSizeMB = 100
	cfg.Output.LogMaxAgeDays = 30

	return cfg
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadConfig loads configuration from a YAML or TOML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if isTOML(configPath) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the configuration, as TOML when the path ends in .toml
// and as YAML otherwise
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	var data []byte
	if isTOML(configPath) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// ResampleOptions converts the resample section into resampler options
func (c *Config) ResampleOptions() (resample.Options, error) {
	mode, err := resample.ParseBoundsMode(c.Resample.BoundsMode)
	if err != nil {
		return resample.Options{}, err
	}
	policy, err := resample.ParseOutOfRangePolicy(c.Resample.OutOfRange)
	if err != nil {
		return resample.Options{}, err
	}

	opts := resample.Options{
		Epsilon:    c.Resample.Epsilon,
		Brightness: c.Resample.Brightness,
		BoundsMode: mode,
		OutOfRange: policy,
		MaxSide:    c.Resample.MaxSide,
	}
	return opts, opts.Validate()
}

// Compression returns the configured output codec
func (c *Config) Compression() (compress.Compression, error) {
	codec, err := compress.Parse(c.Output.Compression)
	if err != nil {
		return 0, &models.ConfigurationError{Field: "compression", Reason: err.Error()}
	}
	return codec, nil
}

// Validate checks every section that has a restricted set of values
func (c *Config) Validate() error {
	if c.Grid.Name == "" {
		return &models.ConfigurationError{Field: "grid.name", Reason: "must not be empty"}
	}
	if _, err := c.ResampleOptions(); err != nil {
		return err
	}
	if _, err := c.Compression(); err != nil {
		return err
	}
	return nil
}
