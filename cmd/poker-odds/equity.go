package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/oraziooztas/poker-trainer/internal/fileutil"
	"github.com/oraziooztas/poker-trainer/poker"
	"github.com/oraziooztas/poker-trainer/sdk/analysis"
	"github.com/oraziooztas/poker-trainer/sdk/calculator"
)

// EquityCmd estimates the equity of one hand against random opponents.
type EquityCmd struct {
	Hole      string   `arg:"" help:"Your hole cards (e.g., 'AsKd')"`
	Board     string   `short:"b" help:"Community board cards (e.g., 'Td7s8h')"`
	Opponents int      `short:"o" default:"1" help:"Number of opponents (1-9)"`
	Versus    []string `help:"Pin an opponent's hole cards (e.g., 'QdQc'); repeat for more opponents"`
	Trials    int      `short:"t" help:"Number of Monte Carlo trials (defaults to the configured value)"`
	Workers   int      `help:"Parallel workers (defaults to the configured value)"`
	Seed      *int64   `help:"Random seed for reproducible results"`
	Pot       float64  `help:"Current pot size, enables pot odds"`
	Call      float64  `help:"Amount to call, used with --pot"`
	Watch     bool     `short:"w" help:"Show live progress ('r' reruns, 'q' quits)"`
	Output    string   `short:"O" help:"Also write the request and result as JSON to this file" type:"path"`
}

func (c *EquityCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	req, err := c.request()
	if err != nil {
		return err
	}
	sim := newSimulator(cfg, logger, c.Workers, c.Seed)
	if req.Trials == 0 {
		req.Trials = sim.DefaultTrials()
	}

	if c.Watch {
		return runWatch(sim, req, logger)
	}

	results := make(chan analysis.EquityResult, 1)
	failures := make(chan error, 1)
	calc := calculator.New(sim,
		calculator.WithLogger(logger),
		calculator.WithInline(cfg.Simulation.Inline),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		calc.Cancel()
	}()

	err = calc.Start(req, calculator.ObserverFuncs{
		Result: func(r analysis.EquityResult) { results <- r },
		Error:  func(err error) { failures <- err },
	})
	if err != nil {
		return err
	}
	calc.Wait()

	select {
	case result := <-results:
		c.display(os.Stdout, req, result)
		if c.Output != "" {
			return fileutil.WriteJSON(c.Output, equityReport{Request: req, Result: result, Equity: result.Equity()})
		}
		return nil
	case err := <-failures:
		return err
	default:
		return errors.New("calculation cancelled")
	}
}

// equityReport is the JSON document written by --output.
type equityReport struct {
	Request analysis.Request      `json:"request"`
	Result  analysis.EquityResult `json:"result"`
	Equity  float64               `json:"equity"`
}

// request parses the command line cards into a simulation request.
func (c *EquityCmd) request() (analysis.Request, error) {
	hole, err := poker.ParseCards(c.Hole)
	if err != nil {
		return analysis.Request{}, fmt.Errorf("hole cards: %w", err)
	}
	req := analysis.Request{Hole: hole, Opponents: c.Opponents, Trials: c.Trials}

	if c.Board != "" {
		if req.Board, err = poker.ParseCards(c.Board); err != nil {
			return analysis.Request{}, fmt.Errorf("board: %w", err)
		}
	}
	for i, v := range c.Versus {
		cards, err := poker.ParseCards(v)
		if err != nil {
			return analysis.Request{}, fmt.Errorf("opponent %d: %w", i+1, err)
		}
		req.OpponentHoles = append(req.OpponentHoles, cards)
	}
	if len(req.OpponentHoles) > req.Opponents {
		req.Opponents = len(req.OpponentHoles)
	}

	if err := req.Validate(); err != nil {
		return analysis.Request{}, err
	}
	return req, nil
}

func (c *EquityCmd) display(out io.Writer, req analysis.Request, result analysis.EquityResult) {
	if len(req.Board) > 0 {
		fmt.Fprintf(out, "%s\n", headerStyle.Render("board"))
		fmt.Fprintf(out, "%s\n\n", poker.FormatCards(req.Board))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"),
		headerStyle.Render("loss"),
		headerStyle.Render("equity"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		handStyle.Render(poker.FormatCards(req.Hole)),
		winStyle.Render(formatPercent(result.WinProbability)),
		tieStyle.Render(formatPercent(result.TieProbability)),
		lossStyle.Render(formatPercent(result.LossProbability)),
		formatPercent(result.Equity()))
	_ = w.Flush()

	lower, upper := result.ConfidenceInterval()
	fmt.Fprintf(out, "\n%s %s\n",
		categoryStyle.Render(poker.HoleCardNotation(req.Hole[0], req.Hole[1])),
		dimStyle.Render(fmt.Sprintf("(%s), 95%% interval %s to %s",
			strings.ToLower(string(poker.CategorizeHoleCards(req.Hole[0], req.Hole[1]))),
			formatPercent(lower), formatPercent(upper))))
	fmt.Fprintf(out, "%s\n", opponentSummary(req))

	if c.Pot > 0 && c.Call > 0 {
		odds := analysis.PotOdds(c.Pot, c.Call)
		verdict := lossStyle.Render("fold")
		if analysis.IsCallProfitable(odds, result.Equity()) {
			verdict = winStyle.Render("call")
		}
		ev := analysis.ExpectedValue(result.Equity(), c.Pot, c.Call)
		fmt.Fprintf(out, "\n%s %s, EV %+.2f: %s\n", headerStyle.Render("pot odds"), formatPercent(odds), ev, verdict)
	}

	fmt.Fprintf(out, "\n%d trials in %v\n", result.Simulations, result.Duration.Truncate(time.Millisecond))
}

func opponentSummary(req analysis.Request) string {
	parts := make([]string, 0, req.Opponents)
	for _, h := range req.OpponentHoles {
		parts = append(parts, handStyle.Render(poker.FormatCards(h)))
	}
	if random := req.Opponents - len(req.OpponentHoles); random > 0 {
		parts = append(parts, fmt.Sprintf("%d random", random))
	}
	return "versus " + strings.Join(parts, ", ")
}
