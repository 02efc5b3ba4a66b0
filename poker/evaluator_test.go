package poker

import (
	"errors"
	"testing"

	ph "github.com/paulhankin/poker"

	"github.com/oraziooztas/poker-trainer/internal/randutil"
)

func mustEvaluate(t testing.TB, s string) HandResult {
	t.Helper()
	result, err := Evaluate(MustParseCards(s)...)
	if err != nil {
		t.Fatalf("Evaluate(%s): %v", s, err)
	}
	return result
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cards string
		want  HandCategory
	}{
		{"AhKhQhJhTh", RoyalFlush},
		{"9h8h7h6h5h", StraightFlush},
		{"5d4d3d2dAd", StraightFlush},
		{"2c2d2h2s3c", FourOfAKind},
		{"KsKdKh3c3d", FullHouse},
		{"AhKhQhJh9h", Flush},
		{"2h3d4c5s6h", Straight},
		{"Ah2d3c4s5h", Straight},
		{"7s7d7hKcQd", ThreeOfAKind},
		{"JsJdTh Tc 2d", TwoPair},
		{"AsAd9h7c2d", OnePair},
		{"AsQd9h7c2d", HighCard},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			t.Parallel()
			result := mustEvaluate(t, tt.cards)
			if result.Category != tt.want {
				t.Errorf("Evaluate(%s) = %s, want %s", tt.cards, result.Category, tt.want)
			}
			if result.Value.Category() != result.Category {
				t.Errorf("strength category %s does not match result %s", result.Value.Category(), result.Category)
			}
		})
	}
}

func TestCategoryOrdering(t *testing.T) {
	t.Parallel()
	ladder := []string{
		"AsQd9h7c2d", // high card
		"AsAd9h7c2d", // one pair
		"JsJdThTc2d", // two pair
		"7s7d7hKcQd", // three of a kind
		"2h3d4c5s6h", // straight
		"AhKhQhJh9h", // flush
		"KsKdKh3c3d", // full house
		"2c2d2h2s3c", // four of a kind
		"9h8h7h6h5h", // straight flush
		"AhKhQhJhTh", // royal flush
	}

	for i := 1; i < len(ladder); i++ {
		lower := mustEvaluate(t, ladder[i-1])
		higher := mustEvaluate(t, ladder[i])
		if higher.Value <= lower.Value {
			t.Errorf("%s (%s) should beat %s (%s)", ladder[i], higher.Category, ladder[i-1], lower.Category)
		}
	}

	royal := mustEvaluate(t, "AhKhQhJhTh")
	quads := mustEvaluate(t, "2c2d2h2s3c")
	flush := mustEvaluate(t, "AhKhQhJh9h")
	if quads.Value > royal.Value {
		t.Error("four deuces must not beat a royal flush")
	}
	if quads.Value <= flush.Value {
		t.Error("four deuces must beat a flush")
	}
}

func TestWheelStraight(t *testing.T) {
	t.Parallel()
	wheel := mustEvaluate(t, "Ah2d3c4s5h")
	six := mustEvaluate(t, "2h3d4c5s6h")
	if wheel.Category != Straight {
		t.Fatalf("Expected straight, got %s", wheel.Category)
	}
	if wheel.Value.rank(0) != Five {
		t.Errorf("wheel high card = %s, want 5", wheel.Value.rank(0))
	}
	if Compare(wheel.Value, six.Value) != -1 {
		t.Error("six-high straight must beat the wheel")
	}

	// A six completing 2-6 must not be scored as the wheel.
	sixWithAce := mustEvaluate(t, "Ah2d3c4s5h6c")
	if sixWithAce.Value != six.Value {
		t.Errorf("A23456 should score as a six-high straight, got %s", sixWithAce.Value)
	}
}

func TestTieBreaks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		better, worse string
	}{
		{"full house set rank first", "3s3d3hAcAd", "2s2d2hKcKd"},
		{"full house pair rank second", "KsKdKhAcAd", "KsKdKhQcQd"},
		{"flush second card", "AhKh9h5h2h", "AhQhJh9h8h"},
		{"flush last card", "AhKh9h5h3h", "AhKh9h5h2h"},
		{"quads kicker", "9s9d9h9cAd", "9s9d9h9cKd"},
		{"two pair low pair", "KsKdQhQc2d", "KsKdJhJcAd"},
		{"two pair kicker", "KsKdQhQc3d", "KsKdQhQc2d"},
		{"pair kickers", "AsAdKhQc3d", "AsAdKhQc2d"},
		{"trips kickers", "7s7d7hAc2d", "7s7d7hKcQd"},
		{"straight high", "TsJdQhKcAd", "9sTdJhQcKd"},
		{"high card", "AsKd9h7c3d", "AsKd9h7c2d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := mustEvaluate(t, tt.better)
			w := mustEvaluate(t, tt.worse)
			if Compare(b.Value, w.Value) != 1 {
				t.Errorf("%s (%s) should beat %s (%s)", tt.better, b.Value, tt.worse, w.Value)
			}
		})
	}

	a := mustEvaluate(t, "AsKdQhJc9d")
	b := mustEvaluate(t, "AhKcQdJs9c")
	if Compare(a.Value, b.Value) != 0 {
		t.Error("same ranks in different suits must tie")
	}
}

func TestBestFiveSelection(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cards    string
		want     HandCategory
		wantBest string
	}{
		{"AhKhQhJhTh2c2d", RoyalFlush, "Ah Kh Qh Jh 10h"},
		{"AsAdAhKsKdKhQc", FullHouse, "As Ah Ad Ks Kh"},
		{"9c9d9h9sAcKdQh", FourOfAKind, "9s 9h 9d 9c Ac"},
		{"2h3h4h5h6h7c8c", StraightFlush, "6h 5h 4h 3h 2h"},
		{"Ah2h3h4h5h9c9d", StraightFlush, "5h 4h 3h 2h Ah"},
		{"AsKs2s3s4s5d6d", Flush, "As Ks 4s 3s 2s"},
		{"3c4d5h6s7c8d9h", Straight, "9h 8d 7c 6s 5h"},
		{"AsAdKsKdQsQd2c", TwoPair, "As Ad Ks Kd Qs"},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			t.Parallel()
			result := mustEvaluate(t, tt.cards)
			if result.Category != tt.want {
				t.Fatalf("Evaluate(%s) = %s, want %s", tt.cards, result.Category, tt.want)
			}
			if got := FormatCards(result.Cards[:]); got != tt.wantBest {
				t.Errorf("best five = %q, want %q", got, tt.wantBest)
			}
		})
	}
}

func TestEvaluateInvalidInput(t *testing.T) {
	t.Parallel()
	inputs := [][]Card{
		nil,
		MustParseCards("AsKsQsJs"),
		append(MustParseCards("AsKsQsJs"), NewCard(Ace, Spades)),
		append(MustParseCards("AsKsQsJs"), Card(0)),
	}
	for _, cards := range inputs {
		if _, err := Evaluate(cards...); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Evaluate(%s) error = %v, want ErrInvalidInput", FormatCards(cards), err)
		}
	}
	if EvaluateHand(NewHand(MustParseCards("AsKs")...)) != 0 {
		t.Error("EvaluateHand with two cards should return 0")
	}
}

func TestEvaluateIsPure(t *testing.T) {
	t.Parallel()
	cards := MustParseCards("AsKd9h7c2dJcJs")
	first, _ := Evaluate(cards...)
	second, _ := Evaluate(cards...)
	if first != second {
		t.Errorf("Evaluate not idempotent: %+v != %+v", first, second)
	}
}

func toOracle(t *testing.T, c Card) ph.Card {
	t.Helper()
	suits := [...]ph.Suit{Clubs: ph.Club, Diamonds: ph.Diamond, Hearts: ph.Heart, Spades: ph.Spade}
	r := ph.Rank(c.Rank())
	if c.Rank() == Ace {
		r = 1
	}
	card, err := ph.MakeCard(suits[c.Suit()], r)
	if err != nil {
		t.Fatalf("MakeCard(%s): %v", c, err)
	}
	return card
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// TestEvaluateAgainstOracle compares head-to-head outcomes with an
// independent 7-card evaluator on random deals.
func TestEvaluateAgainstOracle(t *testing.T) {
	t.Parallel()
	rng := randutil.New(2024)
	deck := NewDeck()

	for i := 0; i < 20000; i++ {
		cards := Shuffle(deck, rng)[:9]
		board := cards[:5]
		a := append(append([]Card{}, board...), cards[5:7]...)
		b := append(append([]Card{}, board...), cards[7:9]...)

		var oa, ob [7]ph.Card
		for j := range a {
			oa[j] = toOracle(t, a[j])
			ob[j] = toOracle(t, b[j])
		}

		got := Compare(EvaluateHand(NewHand(a...)), EvaluateHand(NewHand(b...)))
		want := sign(int(ph.Eval7(&oa)) - int(ph.Eval7(&ob)))
		if got != want {
			t.Fatalf("deal %d: %s vs %s compared %d, oracle says %d", i, FormatCards(a), FormatCards(b), got, want)
		}
	}
}

func BenchmarkEvaluateHand(b *testing.B) {
	rng := randutil.New(1)
	deck := NewDeck()
	hands := make([]Hand, 1024)
	for i := range hands {
		hands[i] = NewHand(Shuffle(deck, rng)[:7]...)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = EvaluateHand(hands[i&1023])
	}
}

func BenchmarkEvaluate(b *testing.B) {
	cards := MustParseCards("AsKd9h7c2dJcJs")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Evaluate(cards...)
	}
}
