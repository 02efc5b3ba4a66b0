package analysis

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/oraziooztas/poker-trainer/internal/randutil"
	"github.com/oraziooztas/poker-trainer/poker"
)

// DefaultProgressInterval is the number of trials between progress reports.
const DefaultProgressInterval = 1000

// ProgressFunc receives the completed fraction of a run, in [0, 1]. Calls for
// one run are sequential and the last call of a successful run reports 1.
type ProgressFunc func(fraction float64)

// Simulator estimates showdown equity by Monte Carlo sampling. A Simulator is
// immutable after construction and safe for concurrent use.
type Simulator struct {
	workers          int
	progressInterval int
	defaultTrials    int
	seed             int64
	logger           *log.Logger
	clock            quartz.Clock
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithWorkers sets the number of parallel trial workers.
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithProgressInterval sets how many trials pass between progress reports.
func WithProgressInterval(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.progressInterval = n
		}
	}
}

// WithDefaultTrials sets the trial count for requests that leave it unset.
func WithDefaultTrials(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.defaultTrials = n
		}
	}
}

// WithSeed makes every run reproducible. Zero keeps per-run random seeds.
func WithSeed(seed int64) Option {
	return func(s *Simulator) {
		s.seed = seed
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger.WithPrefix("simulator")
		}
	}
}

// WithClock sets the clock used to time runs.
func WithClock(clock quartz.Clock) Option {
	return func(s *Simulator) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewSimulator creates a simulator with the given options.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		workers:          min(runtime.NumCPU(), 8),
		progressInterval: DefaultProgressInterval,
		defaultTrials:    DefaultTrials,
		logger:           log.New(io.Discard),
		clock:            quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultTrials returns the trial count used for requests without one.
func (s *Simulator) DefaultTrials() int {
	return s.defaultTrials
}

// Simulate runs the request with a fresh generator: seeded from the
// configured seed when set, otherwise random.
func (s *Simulator) Simulate(ctx context.Context, req Request, progress ProgressFunc) (EquityResult, error) {
	rng := randutil.NewRandom()
	if s.seed != 0 {
		rng = randutil.New(s.seed)
	}
	return s.SimulateRand(ctx, req, rng, progress)
}

// SimulateRand runs the request drawing all randomness from rng. Invalid
// requests fail before any work starts. A cancelled ctx yields ctx.Err() and
// no result.
func (s *Simulator) SimulateRand(ctx context.Context, req Request, rng *rand.Rand, progress ProgressFunc) (EquityResult, error) {
	if err := req.Validate(); err != nil {
		return EquityResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return EquityResult{}, err
	}

	trials := req.Trials
	if trials == 0 {
		trials = s.defaultTrials
	}
	workers := min(s.workers, trials)
	start := s.clock.Now()

	s.logger.Debug("Starting simulation",
		"hole", poker.FormatCards(req.Hole),
		"board", poker.FormatCards(req.Board),
		"opponents", req.Opponents,
		"trials", trials,
		"workers", workers)

	job := trialJob{
		hole:      poker.NewHand(req.Hole...),
		board:     poker.NewHand(req.Board...),
		need:      5 - len(req.Board),
		opponents: req.Opponents - len(req.OpponentHoles),
		remaining: poker.Remaining(req.knownCards()...),
		batch:     max(1, s.progressInterval/workers),
	}
	for _, h := range req.OpponentHoles {
		job.pinned = append(job.pinned, poker.NewHand(h...))
	}

	g, gctx := errgroup.WithContext(ctx)
	tallies := make([]tally, workers)
	updates := make(chan int, workers*4)
	seeds := randutil.Split(rng, workers)

	perWorker, remainder := trials/workers, trials%workers
	for w := 0; w < workers; w++ {
		n := perWorker
		if w < remainder {
			n++
		}
		seed := seeds[w]
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: worker %d: %v", ErrComputation, w, r)
				}
			}()
			tallies[w], err = job.run(gctx, n, randutil.New(seed), updates)
			return err
		})
	}

	var waitErr error
	go func() {
		waitErr = g.Wait()
		close(updates)
	}()

	completed, nextReport := 0, s.progressInterval
	for n := range updates {
		completed += n
		if completed >= nextReport && completed < trials {
			if progress != nil {
				progress(float64(completed) / float64(trials))
			}
			for nextReport <= completed {
				nextReport += s.progressInterval
			}
		}
	}

	if waitErr != nil {
		s.logger.Debug("Simulation stopped", "error", waitErr, "completed", completed)
		return EquityResult{}, waitErr
	}

	var total tally
	for _, t := range tallies {
		total.wins += t.wins
		total.ties += t.ties
		total.losses += t.losses
	}
	if sum := total.wins + total.ties + total.losses; sum != trials {
		return EquityResult{}, fmt.Errorf("%w: tallied %d of %d trials", ErrComputation, sum, trials)
	}

	result := newEquityResult(total.wins, total.ties, total.losses)
	result.Duration = s.clock.Since(start)
	if progress != nil {
		progress(1)
	}

	s.logger.Debug("Simulation complete",
		"win", result.WinProbability,
		"tie", result.TieProbability,
		"duration", result.Duration)
	return result, nil
}

type tally struct {
	wins, ties, losses int
}

// trialJob holds the read-only inputs shared by all workers of a run.
type trialJob struct {
	hole      poker.Hand
	board     poker.Hand
	need      int
	opponents int
	pinned    []poker.Hand
	remaining []poker.Card
	batch     int
}

// run plays n trials. Every trial reshuffles the whole remaining deck, deals
// the board runout and then two cards per random opponent from the front.
func (j *trialJob) run(ctx context.Context, n int, rng *rand.Rand, updates chan<- int) (tally, error) {
	var t tally
	deck := poker.NewShuffledDeck(j.remaining, rng)
	pending := 0

	for i := 0; i < n; i++ {
		deck.Reset()
		board := j.board | poker.NewHand(deck.Deal(j.need)...)
		hero := poker.EvaluateHand(j.hole | board)

		var best poker.Strength
		for _, h := range j.pinned {
			if s := poker.EvaluateHand(board | h); s > best {
				best = s
			}
		}
		for o := 0; o < j.opponents; o++ {
			if s := poker.EvaluateHand(board | poker.NewHand(deck.Deal(2)...)); s > best {
				best = s
			}
		}

		switch {
		case hero > best:
			t.wins++
		case hero == best:
			t.ties++
		default:
			t.losses++
		}

		pending++
		if pending == j.batch || i == n-1 {
			if err := ctx.Err(); err != nil {
				return t, err
			}
			select {
			case updates <- pending:
				pending = 0
			case <-ctx.Done():
				return t, ctx.Err()
			}
		}
	}
	return t, nil
}
