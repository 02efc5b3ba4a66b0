package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/oraziooztas/poker-trainer/poker"
	"github.com/oraziooztas/poker-trainer/sdk/analysis"
	"github.com/oraziooztas/poker-trainer/sdk/calculator"
)

// Messages from the calculator carry the run they belong to so that output
// from a superseded run is dropped.
type (
	progressMsg struct {
		run      int
		fraction float64
	}
	resultMsg struct {
		run    int
		result analysis.EquityResult
	}
	errMsg struct {
		run int
		err error
	}
)

// watchModel shows a live progress bar for one equity calculation.
type watchModel struct {
	calc *calculator.Calculator
	req  analysis.Request
	send func(tea.Msg)

	bar      progress.Model
	run      int
	fraction float64
	result   *analysis.EquityResult
	err      error
}

func newWatchModel(calc *calculator.Calculator, req analysis.Request, send func(tea.Msg)) *watchModel {
	return &watchModel{
		calc: calc,
		req:  req,
		send: send,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m *watchModel) Init() tea.Cmd {
	return m.restart()
}

// restart begins a new run. Start is issued from a command rather than from
// Update: observer callbacks block in send until Update is free again.
func (m *watchModel) restart() tea.Cmd {
	m.run++
	m.fraction = 0
	m.result = nil
	m.err = nil

	run, req := m.run, m.req
	obs := calculator.ObserverFuncs{
		Progress: func(f float64) { m.send(progressMsg{run: run, fraction: f}) },
		Result:   func(r analysis.EquityResult) { m.send(resultMsg{run: run, result: r}) },
		Error:    func(err error) { m.send(errMsg{run: run, err: err}) },
	}
	return func() tea.Msg {
		if err := m.calc.Start(req, obs); err != nil {
			return errMsg{run: run, err: err}
		}
		return nil
	}
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.restart()
		}

	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-4))

	case progressMsg:
		if msg.run == m.run {
			m.fraction = msg.fraction
		}

	case resultMsg:
		if msg.run == m.run {
			m.fraction = 1
			m.result = &msg.result
		}

	case errMsg:
		if msg.run == m.run {
			m.err = msg.err
		}
	}
	return m, nil
}

func (m *watchModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s", headerStyle.Render("hand"), handStyle.Render(poker.FormatCards(m.req.Hole)))
	if len(m.req.Board) > 0 {
		fmt.Fprintf(&b, "  %s %s", headerStyle.Render("board"), poker.FormatCards(m.req.Board))
	}
	fmt.Fprintf(&b, "\n%s\n\n", opponentSummary(m.req))
	fmt.Fprintf(&b, "%s\n\n", m.bar.ViewAs(m.fraction))

	switch {
	case m.err != nil:
		fmt.Fprintf(&b, "%s\n", lossStyle.Render("error: "+m.err.Error()))
	case m.result != nil:
		fmt.Fprintf(&b, "%s %s  %s %s  %s %s  %s %s\n",
			headerStyle.Render("win"), winStyle.Render(formatPercent(m.result.WinProbability)),
			headerStyle.Render("tie"), tieStyle.Render(formatPercent(m.result.TieProbability)),
			headerStyle.Render("loss"), lossStyle.Render(formatPercent(m.result.LossProbability)),
			headerStyle.Render("equity"), formatPercent(m.result.Equity()))
	default:
		fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("run %d: %d trials", m.run, m.req.Trials)))
	}

	fmt.Fprintf(&b, "\n%s\n", dimStyle.Render("r rerun • q quit"))
	return b.String()
}

// runWatch drives a calculation from an interactive progress view.
func runWatch(sim *analysis.Simulator, req analysis.Request, logger *log.Logger) error {
	calc := calculator.New(sim, calculator.WithLogger(logger))

	var p *tea.Program
	model := newWatchModel(calc, req, func(msg tea.Msg) { p.Send(msg) })
	p = tea.NewProgram(model)

	_, err := p.Run()
	calc.Cancel()
	calc.Wait()
	return err
}
