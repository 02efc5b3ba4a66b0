// Package config loads the HCL configuration shared by the CLI commands.
package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/oraziooztas/poker-trainer/sdk/analysis"
)

// Config represents the complete configuration file
type Config struct {
	LogLevel   string            `hcl:"log_level,optional"`
	Simulation *SimulationConfig `hcl:"simulation,block"`
	Server     *ServerConfig     `hcl:"server,block"`
}

// SimulationConfig holds the equity simulator defaults
type SimulationConfig struct {
	Trials           int   `hcl:"trials,optional"`
	Workers          int   `hcl:"workers,optional"`
	ProgressInterval int   `hcl:"progress_interval,optional"`
	Seed             int64 `hcl:"seed,optional"`
	Inline           bool  `hcl:"inline,optional"`
}

// ServerConfig holds the websocket server settings
type ServerConfig struct {
	Address string `hcl:"address,optional"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source, applies defaults and validates the result.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Simulation == nil {
		c.Simulation = &SimulationConfig{}
	}
	if c.Simulation.Trials == 0 {
		c.Simulation.Trials = analysis.DefaultTrials
	}
	if c.Simulation.ProgressInterval == 0 {
		c.Simulation.ProgressInterval = analysis.DefaultProgressInterval
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost:8080"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if c.Simulation.Trials < 1 {
		return fmt.Errorf("simulation: trials must be positive, got %d", c.Simulation.Trials)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation: workers must not be negative, got %d", c.Simulation.Workers)
	}
	if c.Simulation.ProgressInterval < 1 {
		return fmt.Errorf("simulation: progress_interval must be positive, got %d", c.Simulation.ProgressInterval)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// SimulatorOptions converts the simulation block into simulator options.
// Workers of 0 keeps the simulator's CPU-based default.
func (c *Config) SimulatorOptions() []analysis.Option {
	return []analysis.Option{
		analysis.WithDefaultTrials(c.Simulation.Trials),
		analysis.WithWorkers(c.Simulation.Workers),
		analysis.WithProgressInterval(c.Simulation.ProgressInterval),
		analysis.WithSeed(c.Simulation.Seed),
	}
}
