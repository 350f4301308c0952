// Package config provides configuration loading for imgcp.
// Values come from a YAML file, then .env files, then IMGCP_* environment
// variables, each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Fepozopo/imgcp/pkg/motion"
	"github.com/Fepozopo/imgcp/pkg/stdimg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "imgcp.yaml"

// Config represents the application configuration loaded from YAML
type Config struct {
	// Engine parameters
	Engine struct {
		// Seed makes noise reproducible; 0 draws from the shared generator
		Seed int64 `yaml:"seed"`

		Tone  stdimg.ToneParams  `yaml:"tone"`
		Noise stdimg.NoiseParams `yaml:"noise"`
	} `yaml:"engine"`

	// Motion estimation parameters
	Motion motion.Options `yaml:"motion"`

	// Output parameters
	Output struct {
		// Resize is "WxH"; a zero side keeps the aspect ratio
		Resize string `yaml:"resize"`

		// Report is the path of the YAML statistics report
		Report string `yaml:"report"`

		// Verbose enables debug output on stderr
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// Pipeline is run in batch mode when no commands are given on the command line
	Pipeline []string `yaml:"pipeline,omitempty"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Engine.Tone = stdimg.DefaultToneParams()
	cfg.Engine.Noise = stdimg.DefaultNoiseParams()
	cfg.Motion = motion.DefaultOptions()
	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. Missing files are skipped. With no
// arguments ".env" in the working directory is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with IMGCP_* environment variables.
func ApplyEnv(cfg *Config) error {
	vars := []struct {
		key string
		set func(string) error
	}{
		{"IMGCP_SEED", intVar(&cfg.Engine.Seed)},
		{"IMGCP_VERBOSE", boolVar(&cfg.Output.Verbose)},
		{"IMGCP_GAMMA", floatVar(&cfg.Engine.Tone.Gamma)},
		{"IMGCP_GAUSSIAN_SIGMA", floatVar(&cfg.Engine.Noise.GaussianSigma)},
		{"IMGCP_MULTIPLICATIVE_SIGMA", floatVar(&cfg.Engine.Noise.MultiplicativeSigma)},
		{"IMGCP_DENSITY", floatVar(&cfg.Engine.Noise.Density)},
		{"IMGCP_RESIZE", func(s string) error { cfg.Output.Resize = s; return nil }},
		{"IMGCP_REPORT", func(s string) error { cfg.Output.Report = s; return nil }},
	}
	for _, v := range vars {
		s, ok := os.LookupEnv(v.key)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		if err := v.set(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("invalid %s: %w", v.key, err)
		}
	}
	return nil
}

// Load reads configPath, then .env, then the environment, and validates the
// result.
func Load(configPath string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := LoadEnv(); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the engine cannot recover from.
func (c *Config) Validate() error {
	if c.Motion.BlockSize <= 0 || c.Motion.SearchArea < 0 {
		return motion.ErrInvalidOptions
	}
	if c.Output.Resize != "" {
		if _, _, err := ParseResize(c.Output.Resize); err != nil {
			return err
		}
	}
	return nil
}

// ParseResize parses "WxH". One side may be 0 to keep the aspect ratio.
func ParseResize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("resize %q: expected WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("resize %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("resize %q: %w", s, err)
	}
	if w < 0 || h < 0 || (w == 0 && h == 0) {
		return 0, 0, fmt.Errorf("resize %q: sides must be non-negative and not both zero", s)
	}
	return w, h, nil
}

func intVar(dst *int64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func floatVar(dst *float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func boolVar(dst *bool) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}
