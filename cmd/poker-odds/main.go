package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/oraziooztas/poker-trainer/internal/config"
	"github.com/oraziooztas/poker-trainer/sdk/analysis"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `short:"c" help:"Path to HCL config file" default:"poker-odds.hcl" type:"path"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)"`
	NoColor  bool   `help:"Disable colored output"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Equity  EquityCmd        `cmd:"" help:"Estimate hand equity with a Monte Carlo simulation"`
	Outs    OutsCmd          `cmd:"" help:"List drawing hands and their outs on a flop or turn"`
	Eval    EvalCmd          `cmd:"" help:"Evaluate and compare made hands of 5 to 7 cards"`
	Serve   ServeCmd         `cmd:"" help:"Serve equity, outs and evaluation over WebSocket"`
}

var (
	// Style definitions
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Texas Hold'em equity, outs and hand strength calculator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// setup loads the configuration and builds the logger every command uses.
func (g *Globals) setup() (*config.Config, *log.Logger, error) {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           cfg.Level(),
	})
	logger.Debug("Loaded configuration", "file", g.Config, "trials", cfg.Simulation.Trials, "workers", cfg.Simulation.Workers)
	return cfg, logger, nil
}

// formatPercent renders a probability as a percentage with one decimal.
func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// newSimulator applies command line overrides on top of the configuration.
func newSimulator(cfg *config.Config, logger *log.Logger, workers int, seed *int64) *analysis.Simulator {
	opts := append(cfg.SimulatorOptions(), analysis.WithLogger(logger), analysis.WithWorkers(workers))
	if seed != nil {
		opts = append(opts, analysis.WithSeed(*seed))
	}
	return analysis.NewSimulator(opts...)
}
