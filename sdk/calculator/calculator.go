// Package calculator runs equity simulations off the caller's goroutine and
// streams progress and results to an Observer.
//
// Only the most recent calculation is observable: starting a new one or
// cancelling discards the previous run, and nothing it produces afterwards
// reaches its observer.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/oraziooztas/poker-trainer/sdk/analysis"
)

// State is the lifecycle state of the current calculation.
type State int

const (
	Idle State = iota
	Running
	Completed
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Observer receives the output of one calculation. Calls are sequential.
// Observers must not call Start or Cancel on the same Calculator from inside
// a callback.
type Observer interface {
	OnProgress(fraction float64)
	OnResult(result analysis.EquityResult)
	OnError(err error)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Progress func(fraction float64)
	Result   func(result analysis.EquityResult)
	Error    func(err error)
}

func (o ObserverFuncs) OnProgress(fraction float64) {
	if o.Progress != nil {
		o.Progress(fraction)
	}
}

func (o ObserverFuncs) OnResult(result analysis.EquityResult) {
	if o.Result != nil {
		o.Result(result)
	}
}

func (o ObserverFuncs) OnError(err error) {
	if o.Error != nil {
		o.Error(err)
	}
}

// Runner executes one simulation. *analysis.Simulator implements it.
type Runner interface {
	Simulate(ctx context.Context, req analysis.Request, progress analysis.ProgressFunc) (analysis.EquityResult, error)
}

// Calculator owns at most one live calculation at a time.
type Calculator struct {
	runner Runner
	logger *log.Logger
	inline bool

	mu         sync.Mutex
	generation uint64
	state      State
	cancel     context.CancelFunc
	done       chan struct{}

	// deliverMu is held for every observer call. Start and Cancel take it
	// before mu to wait out a delivery already in flight.
	deliverMu sync.Mutex
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger.WithPrefix("calculator")
		}
	}
}

// WithInline runs calculations on the goroutine that calls Start. Start then
// returns after the observer has received the outcome.
func WithInline(inline bool) Option {
	return func(c *Calculator) {
		c.inline = inline
	}
}

// New creates a Calculator backed by runner.
func New(runner Runner, opts ...Option) *Calculator {
	c := &Calculator{
		runner: runner,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start validates req and begins a calculation reporting to obs. Invalid
// requests are rejected with an error and leave any running calculation
// untouched. A running calculation is cancelled and none of its output is
// delivered once Start returns.
func (c *Calculator) Start(req analysis.Request, obs Observer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.deliverMu.Lock()
	c.mu.Lock()
	if c.state == Running {
		c.logger.Debug("Cancelling previous calculation", "generation", c.generation)
		c.cancel()
	}
	c.generation++
	gen := c.generation
	c.state = Running
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()
	c.deliverMu.Unlock()

	c.logger.Debug("Starting calculation", "generation", gen, "opponents", req.Opponents, "trials", req.Trials, "inline", c.inline)

	run := func() {
		defer close(done)
		defer cancel()
		result, err := c.simulate(ctx, req, func(f float64) {
			c.deliver(gen, func() { obs.OnProgress(f) })
		})
		c.finish(gen, obs, result, err)
	}

	if c.inline {
		run()
	} else {
		go run()
	}
	return nil
}

// Cancel discards the running calculation, if any. No callbacks for it are
// delivered after Cancel returns.
func (c *Calculator) Cancel() {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Running {
		return
	}
	c.generation++
	c.cancel()
	c.state = Cancelled
	c.logger.Debug("Calculation cancelled")
}

// Wait blocks until the most recently started calculation has stopped.
func (c *Calculator) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// State returns the state of the most recent calculation.
func (c *Calculator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// simulate runs the simulation and converts panics and unexpected failures
// into analysis.ErrComputation.
func (c *Calculator) simulate(ctx context.Context, req analysis.Request, progress analysis.ProgressFunc) (result analysis.EquityResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", analysis.ErrComputation, r)
		}
	}()

	result, err = c.runner.Simulate(ctx, req, progress)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, analysis.ErrComputation) {
		err = fmt.Errorf("%w: %w", analysis.ErrComputation, err)
	}
	return result, err
}

// deliver calls fn only while gen is still the current generation.
func (c *Calculator) deliver(gen uint64, fn func()) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()
	if !c.isCurrent(gen) {
		return
	}
	fn()
}

func (c *Calculator) finish(gen uint64, obs Observer, result analysis.EquityResult, err error) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale calculation", "generation", gen)
		return
	}
	switch {
	case err == nil:
		c.state = Completed
	case errors.Is(err, context.Canceled):
		c.state = Cancelled
	default:
		c.state = Failed
	}
	state := c.state
	c.mu.Unlock()

	switch state {
	case Completed:
		c.logger.Debug("Calculation completed", "generation", gen, "win", result.WinProbability)
		obs.OnResult(result)
	case Failed:
		c.logger.Error("Calculation failed", "generation", gen, "error", err)
		obs.OnError(err)
	}
}

func (c *Calculator) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation
}
