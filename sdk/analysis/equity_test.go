package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/oraziooztas/poker-trainer/internal/randutil"
	"github.com/oraziooztas/poker-trainer/poker"
)

func TestEquityResult(t *testing.T) {
	t.Parallel()
	result := newEquityResult(300, 50, 650)

	if result.Simulations != 1000 {
		t.Errorf("Simulations = %v, want 1000", result.Simulations)
	}
	if math.Abs(result.WinProbability-0.3) > 1e-9 {
		t.Errorf("WinProbability = %v, want 0.3", result.WinProbability)
	}
	if math.Abs(result.TieProbability-0.05) > 1e-9 {
		t.Errorf("TieProbability = %v, want 0.05", result.TieProbability)
	}
	if math.Abs(result.LossProbability-0.65) > 1e-9 {
		t.Errorf("LossProbability = %v, want 0.65", result.LossProbability)
	}
	// (300 + 50*0.5) / 1000
	if math.Abs(result.Equity()-0.325) > 1e-9 {
		t.Errorf("Equity() = %v, want 0.325", result.Equity())
	}
}

func TestConfidenceInterval(t *testing.T) {
	t.Parallel()
	result := newEquityResult(500, 0, 9500)

	lower, upper := result.ConfidenceInterval()
	if lower < 0.045 || lower > 0.05 {
		t.Errorf("Lower CI = %v, expected just under 0.05", lower)
	}
	if upper < 0.05 || upper > 0.055 {
		t.Errorf("Upper CI = %v, expected just over 0.05", upper)
	}

	var empty EquityResult
	if l, u := empty.ConfidenceInterval(); l != 0 || u != 0 {
		t.Errorf("empty result CI = (%v, %v), want zeros", l, u)
	}
}

func TestRequestValidate(t *testing.T) {
	t.Parallel()
	hole := poker.MustParseCards("AsAh")
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"valid preflop", Request{Hole: hole, Opponents: 1}, nil},
		{"valid river", Request{Hole: hole, Board: poker.MustParseCards("2c7hKd9s3d"), Opponents: 9, Trials: 5}, nil},
		{"one hole card", Request{Hole: hole[:1], Opponents: 1}, poker.ErrInvalidInput},
		{"three hole cards", Request{Hole: poker.MustParseCards("AsAhAd"), Opponents: 1}, poker.ErrInvalidInput},
		{"six board cards", Request{Hole: hole, Board: poker.MustParseCards("2c3c4c5c6c7c"), Opponents: 1}, poker.ErrInvalidInput},
		{"no opponents", Request{Hole: hole, Opponents: 0}, poker.ErrInvalidInput},
		{"ten opponents", Request{Hole: hole, Opponents: 10}, poker.ErrInvalidInput},
		{"negative trials", Request{Hole: hole, Opponents: 1, Trials: -100}, poker.ErrInvalidInput},
		{"duplicate card", Request{Hole: hole, Board: poker.MustParseCards("As7hKd"), Opponents: 1}, poker.ErrInvalidInput},
		{"zero card", Request{Hole: []poker.Card{0, hole[0]}, Opponents: 1}, poker.ErrInvalidInput},
		{"too many opponents", Request{Hole: hole, Opponents: 24}, ErrExhaustedDeck},
		{"pinned hand too short", Request{Hole: hole, Opponents: 1, OpponentHoles: [][]poker.Card{poker.MustParseCards("Kd")}}, poker.ErrInvalidInput},
		{"pinned hand overlaps", Request{Hole: hole, Opponents: 1, OpponentHoles: [][]poker.Card{poker.MustParseCards("AsKd")}}, poker.ErrInvalidInput},
		{"more pinned hands than opponents", Request{Hole: hole, Opponents: 1, OpponentHoles: [][]poker.Card{poker.MustParseCards("KsKd"), poker.MustParseCards("QsQd")}}, poker.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSimulateRejectsBeforeWork(t *testing.T) {
	t.Parallel()
	sim := NewSimulator()
	called := false
	_, err := sim.Simulate(context.Background(), Request{Hole: poker.MustParseCards("As"), Opponents: 1}, func(float64) {
		called = true
	})
	if !errors.Is(err, poker.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if called {
		t.Error("progress reported for an invalid request")
	}
}

func TestSimulateSumsToOne(t *testing.T) {
	t.Parallel()
	sim := NewSimulator(WithWorkers(3))
	requests := []Request{
		{Hole: poker.MustParseCards("AsAh"), Opponents: 1, Trials: 2000},
		{Hole: poker.MustParseCards("7c2d"), Board: poker.MustParseCards("Ks9h4c"), Opponents: 4, Trials: 1500},
		{Hole: poker.MustParseCards("JhTh"), Board: poker.MustParseCards("9h8h2c3d"), Opponents: 2, Trials: 1001},
		{Hole: poker.MustParseCards("QsQd"), Board: poker.MustParseCards("2c7hKd9s3d"), Opponents: 9, Trials: 777},
	}

	for _, req := range requests {
		result, err := sim.SimulateRand(context.Background(), req, randutil.New(11), nil)
		if err != nil {
			t.Fatalf("Simulate(%s): %v", poker.FormatCards(req.Hole), err)
		}
		if result.Simulations != req.Trials {
			t.Errorf("Simulations = %d, want %d", result.Simulations, req.Trials)
		}
		if result.Wins+result.Ties+result.Losses != req.Trials {
			t.Errorf("tallies do not add up to %d", req.Trials)
		}
		sum := result.WinProbability + result.TieProbability + result.LossProbability
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("probabilities sum to %v", sum)
		}
	}
}

func TestSimulateDefaultTrials(t *testing.T) {
	t.Parallel()
	sim := NewSimulator(WithDefaultTrials(1234))
	result, err := sim.Simulate(context.Background(), Request{Hole: poker.MustParseCards("AsKs"), Opponents: 1}, nil)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if result.Simulations != 1234 {
		t.Errorf("Simulations = %d, want 1234", result.Simulations)
	}
}

func TestKnownMatchups(t *testing.T) {
	t.Parallel()
	sim := NewSimulator()

	t.Run("aces heads up", func(t *testing.T) {
		t.Parallel()
		req := Request{Hole: poker.MustParseCards("AsAh"), Opponents: 1, Trials: 10000}
		result, err := sim.SimulateRand(context.Background(), req, randutil.New(42), nil)
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		if result.WinProbability < 0.82 || result.WinProbability > 0.88 {
			t.Errorf("AA win probability = %v, expected around 0.85", result.WinProbability)
		}
	})

	t.Run("ace king suited vs queens", func(t *testing.T) {
		t.Parallel()
		req := Request{
			Hole:          poker.MustParseCards("AsKs"),
			Opponents:     1,
			Trials:        10000,
			OpponentHoles: [][]poker.Card{poker.MustParseCards("QdQc")},
		}
		result, err := sim.SimulateRand(context.Background(), req, randutil.New(42), nil)
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		if result.WinProbability < 0.43 || result.WinProbability > 0.48 {
			t.Errorf("AKs win probability = %v, expected in [0.43, 0.48]", result.WinProbability)
		}
	})

	t.Run("made royal flush", func(t *testing.T) {
		t.Parallel()
		req := Request{
			Hole:      poker.MustParseCards("AhKh"),
			Board:     poker.MustParseCards("QhJhTh2c3d"),
			Opponents: 3,
			Trials:    500,
		}
		result, err := sim.SimulateRand(context.Background(), req, randutil.New(1), nil)
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		if result.Wins != 500 {
			t.Errorf("royal flush should win every trial, won %d", result.Wins)
		}
	})
}

func TestSimulateDeterministic(t *testing.T) {
	t.Parallel()
	sim := NewSimulator(WithWorkers(4))
	req := Request{Hole: poker.MustParseCards("9c9d"), Board: poker.MustParseCards("2s5hJc"), Opponents: 2, Trials: 3000}

	first, err := sim.SimulateRand(context.Background(), req, randutil.New(7), nil)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	second, err := sim.SimulateRand(context.Background(), req, randutil.New(7), nil)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if first.Wins != second.Wins || first.Ties != second.Ties || first.Losses != second.Losses {
		t.Errorf("same seed gave different tallies: %+v vs %+v", first, second)
	}
}

func TestSimulateProgress(t *testing.T) {
	t.Parallel()
	sim := NewSimulator(WithWorkers(1), WithProgressInterval(1000))
	req := Request{Hole: poker.MustParseCards("AsKd"), Opponents: 2, Trials: 10000}

	var reports []float64
	_, err := sim.SimulateRand(context.Background(), req, randutil.New(3), func(f float64) {
		reports = append(reports, f)
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if len(reports) != 10 {
		t.Fatalf("got %d progress reports, want 10: %v", len(reports), reports)
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] <= reports[i-1] {
			t.Errorf("progress not increasing: %v", reports)
		}
	}
	if reports[0] != 0.1 {
		t.Errorf("first report = %v, want 0.1", reports[0])
	}
	if reports[len(reports)-1] != 1 {
		t.Errorf("last report = %v, want 1", reports[len(reports)-1])
	}
}

func TestSimulateProgressParallel(t *testing.T) {
	t.Parallel()
	sim := NewSimulator(WithWorkers(4), WithProgressInterval(500))
	req := Request{Hole: poker.MustParseCards("AsKd"), Opponents: 1, Trials: 5000}

	var reports []float64
	_, err := sim.SimulateRand(context.Background(), req, randutil.New(3), func(f float64) {
		reports = append(reports, f)
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(reports) < 2 || reports[len(reports)-1] != 1 {
		t.Fatalf("expected intermediate reports ending in 1, got %v", reports)
	}
	for _, f := range reports[:len(reports)-1] {
		if f <= 0 || f >= 1 {
			t.Errorf("intermediate report %v out of range", f)
		}
	}
}

func TestSimulateCancellation(t *testing.T) {
	t.Parallel()
	sim := NewSimulator(WithWorkers(2), WithProgressInterval(100))
	req := Request{Hole: poker.MustParseCards("AsKd"), Opponents: 3, Trials: 500000}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reports int
	result, err := sim.Simulate(ctx, req, func(float64) {
		reports++
		cancel()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Simulations != 0 {
		t.Errorf("cancelled run returned a result: %+v", result)
	}
	if reports == 0 {
		t.Error("expected at least one progress report before cancelling")
	}

	_, err = sim.Simulate(ctx, req, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled for a dead context, got %v", err)
	}
}

func TestSimulateDuration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clock := quartz.NewMock(t)
	sim := NewSimulator(WithWorkers(1), WithProgressInterval(1000), WithClock(clock))
	req := Request{Hole: poker.MustParseCards("AsKd"), Opponents: 1, Trials: 5000}

	result, err := sim.SimulateRand(ctx, req, randutil.New(1), func(f float64) {
		if f < 1 {
			clock.Advance(time.Second).MustWait(ctx)
		}
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if result.Duration != 4*time.Second {
		t.Errorf("Duration = %v, want 4s", result.Duration)
	}
}

func TestOdds(t *testing.T) {
	t.Parallel()
	if got := PotOdds(100, 50); math.Abs(got-1.0/3) > 1e-9 {
		t.Errorf("PotOdds(100, 50) = %v, want 1/3", got)
	}
	if PotOdds(0, 0) != 0 {
		t.Error("PotOdds with nothing at stake should be 0")
	}
	if !IsCallProfitable(0.25, 0.3) || IsCallProfitable(0.25, 0.2) {
		t.Error("IsCallProfitable compares win probability to the price")
	}
	if got := ExpectedValue(0.5, 150, 50); math.Abs(got-50) > 1e-9 {
		t.Errorf("ExpectedValue = %v, want 50", got)
	}
}

func BenchmarkSimulate(b *testing.B) {
	sim := NewSimulator()
	req := Request{Hole: poker.MustParseCards("AsKd"), Opponents: 3, Trials: 10000}
	for i := 0; i < b.N; i++ {
		if _, err := sim.SimulateRand(context.Background(), req, randutil.New(int64(i)), nil); err != nil {
			b.Fatal(err)
		}
	}
}
