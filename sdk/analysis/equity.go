// Package analysis provides the Monte Carlo equity simulator and the pot odds
// helpers built on top of it.
//
// The simulator scores hands with the allocation-free bit-packed evaluator in
// the poker package and spreads independent trials over a small worker pool.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/oraziooztas/poker-trainer/poker"
)

const (
	// DefaultTrials is the trial count used when a request leaves it unset.
	DefaultTrials = 10000

	// MaxOpponents is the largest supported number of opponents.
	MaxOpponents = 9
)

var (
	// ErrExhaustedDeck reports a request that needs more cards than the deck holds.
	ErrExhaustedDeck = errors.New("exhausted deck")

	// ErrComputation reports an internal fault inside a trial worker.
	ErrComputation = errors.New("equity computation failed")
)

// Request describes one equity calculation.
type Request struct {
	Hole      []poker.Card `json:"holeCards"`
	Board     []poker.Card `json:"communityCards"`
	Opponents int          `json:"numOpponents"`
	Trials    int          `json:"trialCount,omitempty"` // 0 selects the default

	// OpponentHoles pins the hole cards of the first opponents; the rest are
	// dealt at random.
	OpponentHoles [][]poker.Card `json:"opponentHoleCards,omitempty"`
}

// knownCards returns the hole, board and pinned opponent cards.
func (r Request) knownCards() []poker.Card {
	known := make([]poker.Card, 0, 7+2*len(r.OpponentHoles))
	known = append(known, r.Hole...)
	known = append(known, r.Board...)
	for _, h := range r.OpponentHoles {
		known = append(known, h...)
	}
	return known
}

// Validate rejects requests the simulator cannot run.
func (r Request) Validate() error {
	if len(r.Hole) != 2 {
		return fmt.Errorf("%w: need exactly 2 hole cards, got %d", poker.ErrInvalidInput, len(r.Hole))
	}
	if len(r.Board) > 5 {
		return fmt.Errorf("%w: board has %d cards, at most 5 allowed", poker.ErrInvalidInput, len(r.Board))
	}
	if r.Opponents < 1 {
		return fmt.Errorf("%w: need at least 1 opponent, got %d", poker.ErrInvalidInput, r.Opponents)
	}
	if r.Trials < 0 {
		return fmt.Errorf("%w: negative trial count %d", poker.ErrInvalidInput, r.Trials)
	}

	if len(r.OpponentHoles) > r.Opponents {
		return fmt.Errorf("%w: %d pinned hands for %d opponents", poker.ErrInvalidInput, len(r.OpponentHoles), r.Opponents)
	}
	for i, h := range r.OpponentHoles {
		if len(h) != 2 {
			return fmt.Errorf("%w: opponent %d needs 2 hole cards, got %d", poker.ErrInvalidInput, i+1, len(h))
		}
	}

	var known poker.Hand
	for _, c := range r.knownCards() {
		if !c.Valid() {
			return fmt.Errorf("%w: %#x is not a card", poker.ErrInvalidInput, uint64(c))
		}
		if known.HasCard(c) {
			return fmt.Errorf("%w: duplicate card %s", poker.ErrInvalidInput, c)
		}
		known.AddCard(c)
	}

	if needed := 2 + 5 + 2*r.Opponents; needed > poker.DeckSize {
		return fmt.Errorf("%w: %d opponents need %d cards", ErrExhaustedDeck, r.Opponents, needed)
	}
	if r.Opponents > MaxOpponents {
		return fmt.Errorf("%w: at most %d opponents supported, got %d", poker.ErrInvalidInput, MaxOpponents, r.Opponents)
	}
	return nil
}

// EquityResult is the outcome of a completed simulation.
type EquityResult struct {
	Wins            int           `json:"wins"`
	Ties            int           `json:"ties"`
	Losses          int           `json:"losses"`
	WinProbability  float64       `json:"winProbability"`
	TieProbability  float64       `json:"tieProbability"`
	LossProbability float64       `json:"lossProbability"`
	Simulations     int           `json:"simulations"`
	Duration        time.Duration `json:"durationNs"`
}

func newEquityResult(wins, ties, losses int) EquityResult {
	n := wins + ties + losses
	r := EquityResult{Wins: wins, Ties: ties, Losses: losses, Simulations: n}
	if n > 0 {
		r.WinProbability = float64(wins) / float64(n)
		r.TieProbability = float64(ties) / float64(n)
		r.LossProbability = float64(losses) / float64(n)
	}
	return r
}

// Equity returns the share of the pot won on average: wins count 1, ties 0.5.
func (e EquityResult) Equity() float64 {
	return e.WinProbability + e.TieProbability/2
}

// StandardError returns the binomial standard error of the equity estimate.
func (e EquityResult) StandardError() float64 {
	if e.Simulations == 0 {
		return 0
	}
	p := e.Equity()
	return math.Sqrt(p * (1 - p) / float64(e.Simulations))
}

// ConfidenceInterval returns the 95% confidence interval for equity
func (e EquityResult) ConfidenceInterval() (lower, upper float64) {
	if e.Simulations == 0 {
		return 0, 0
	}
	equity := e.Equity()
	margin := 1.96 * e.StandardError()
	return math.Max(0, equity-margin), math.Min(1, equity+margin)
}
