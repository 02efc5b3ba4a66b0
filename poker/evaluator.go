package poker

import (
	"fmt"
	"math/bits"
)

// HandCategory enumerates the categories of poker hands ordered from weakest
// to strongest.
type HandCategory uint8

const (
	HighCard HandCategory = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = [...]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

var categorySlugs = [...]string{
	HighCard:      "high-card",
	OnePair:       "one-pair",
	TwoPair:       "two-pair",
	ThreeOfAKind:  "three-of-a-kind",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full-house",
	FourOfAKind:   "four-of-a-kind",
	StraightFlush: "straight-flush",
	RoyalFlush:    "royal-flush",
}

// String returns the display name of the category.
func (c HandCategory) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

// Slug returns the stable machine-readable tag of the category.
func (c HandCategory) Slug() string {
	if int(c) < len(categorySlugs) {
		return categorySlugs[c]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler using the slug form.
func (c HandCategory) MarshalText() ([]byte, error) {
	return []byte(c.Slug()), nil
}

// Strength is a totally ordered hand value: higher is stronger and equal
// values tie. The category occupies bits 20-23 and up to five tie-break
// ranks follow as 4-bit digits of decreasing weight, so no value of one
// category can reach the next.
type Strength uint32

const categoryShift = 20

// Category returns the hand category encoded in s.
func (s Strength) Category() HandCategory {
	return HandCategory(s >> categoryShift)
}

// rank returns the i-th tie-break digit (0 is the most significant).
func (s Strength) rank(i int) Rank {
	return Rank(s>>(16-4*uint(i))) & 0xF
}

// String returns the category name followed by the tie-break ranks.
func (s Strength) String() string {
	return fmt.Sprintf("%s (%#x)", s.Category(), uint32(s))
}

// Compare returns +1 if a beats b, -1 if b beats a and 0 on a tie.
func Compare(a, b Strength) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// HandResult is the best five-card hand that can be made from a set of cards.
type HandResult struct {
	Category HandCategory `json:"category"`
	Value    Strength     `json:"value"`
	Cards    [5]Card      `json:"cards"`
}

func (r HandResult) String() string {
	return fmt.Sprintf("%s [%s]", r.Category, FormatCards(r.Cards[:]))
}

// Evaluate returns the best five-card hand that can be chosen from cards.
// It needs at least five distinct, valid cards.
func Evaluate(cards ...Card) (HandResult, error) {
	if len(cards) < 5 {
		return HandResult{}, fmt.Errorf("%w: need at least 5 cards, got %d", ErrInvalidInput, len(cards))
	}

	var h Hand
	for _, c := range cards {
		if !c.Valid() {
			return HandResult{}, fmt.Errorf("%w: %#x is not a card", ErrInvalidInput, uint64(c))
		}
		if h.HasCard(c) {
			return HandResult{}, fmt.Errorf("%w: duplicate card %s", ErrInvalidInput, c)
		}
		h.AddCard(c)
	}

	s := EvaluateHand(h)
	return HandResult{
		Category: s.Category(),
		Value:    s,
		Cards:    bestFive(h, s),
	}, nil
}

// EvaluateHand scores the best five-card hand held in h without allocating.
// It returns 0 when h holds fewer than five cards.
func EvaluateHand(h Hand) Strength {
	if h.CountCards() < 5 {
		return 0
	}

	var suitMasks [4]uint16
	for suit := Clubs; suit <= Spades; suit++ {
		suitMasks[suit] = h.GetSuitMask(suit)
	}
	return strengthFromMasks(suitMasks)
}

func strengthFromMasks(s [4]uint16) Strength {
	ranks := s[0] | s[1] | s[2] | s[3]

	// Several suits can only qualify with more than seven cards; keep the best.
	var flush Strength
	for _, mask := range s {
		if bits.OnesCount16(mask) < 5 {
			continue
		}
		var v Strength
		if high := straightHigh(mask); high != 0 {
			if high == Ace {
				v = makeStrength(RoyalFlush) | Strength(high)<<16
			} else {
				v = makeStrength(StraightFlush) | Strength(high)<<16
			}
		} else {
			v = withKickers(makeStrength(Flush), 0, mask, 5)
		}
		if v > flush {
			flush = v
		}
	}
	if flush.Category() >= StraightFlush {
		return flush
	}

	quads := s[0] & s[1] & s[2] & s[3]
	trips := (s[0] & s[1] & s[2]) | (s[0] & s[1] & s[3]) | (s[0] & s[2] & s[3]) | (s[1] & s[2] & s[3])
	pairs := (s[0] & s[1]) | (s[0] & s[2]) | (s[0] & s[3]) | (s[1] & s[2]) | (s[1] & s[3]) | (s[2] & s[3])

	if quads != 0 {
		q := highBit(quads)
		return withKickers(makeStrength(FourOfAKind)|rankDigit(q, 0), 1, ranks&^(1<<q), 1)
	}

	if trips != 0 {
		t := highBit(trips)
		if rest := pairs &^ (1 << t); rest != 0 {
			return makeStrength(FullHouse) | rankDigit(t, 0) | rankDigit(highBit(rest), 1)
		}
	}

	if flush != 0 {
		return flush
	}

	if high := straightHigh(ranks); high != 0 {
		return makeStrength(Straight) | Strength(high)<<16
	}

	if trips != 0 {
		t := highBit(trips)
		return withKickers(makeStrength(ThreeOfAKind)|rankDigit(t, 0), 1, ranks&^(1<<t), 2)
	}

	if bits.OnesCount16(pairs) >= 2 {
		p1 := highBit(pairs)
		p2 := highBit(pairs &^ (1 << p1))
		v := makeStrength(TwoPair) | rankDigit(p1, 0) | rankDigit(p2, 1)
		return withKickers(v, 2, ranks&^(1<<p1|1<<p2), 1)
	}

	if pairs != 0 {
		p := highBit(pairs)
		return withKickers(makeStrength(OnePair)|rankDigit(p, 0), 1, ranks&^(1<<p), 3)
	}

	return withKickers(makeStrength(HighCard), 0, ranks, 5)
}

const wheelMask = 0x100F // A-2-3-4-5

// straightHigh returns the high card of the best straight in mask, or 0.
// Higher sequences are checked before the wheel.
func straightHigh(mask uint16) Rank {
	run := mask & (mask << 1) & (mask << 2) & (mask << 3) & (mask << 4)
	if run != 0 {
		return Rank(highBit(run)) + Two
	}
	if mask&wheelMask == wheelMask {
		return Five
	}
	return 0
}

func makeStrength(c HandCategory) Strength {
	return Strength(c) << categoryShift
}

// rankDigit places the rank at bit position bit into tie-break slot i.
func rankDigit(bit uint, i uint) Strength {
	return Strength(Rank(bit)+Two) << (16 - 4*i)
}

// withKickers fills n tie-break slots starting at slot with the highest ranks
// of mask.
func withKickers(v Strength, slot uint, mask uint16, n int) Strength {
	for ; n > 0 && mask != 0; n-- {
		hi := highBit(mask)
		v |= rankDigit(hi, slot)
		mask &^= 1 << hi
		slot++
	}
	return v
}

func highBit(mask uint16) uint {
	return uint(15 - bits.LeadingZeros16(mask))
}

// groupSizes lists how many cards of each tie-break rank make up the hand.
var groupSizes = [...][]int{
	HighCard:     {1, 1, 1, 1, 1},
	OnePair:      {2, 1, 1, 1},
	TwoPair:      {2, 2, 1},
	ThreeOfAKind: {3, 1, 1},
	Flush:        {1, 1, 1, 1, 1},
	FullHouse:    {3, 2},
	FourOfAKind:  {4, 1},
}

// bestFive picks the five cards of h that make up s, highest group first.
func bestFive(h Hand, s Strength) [5]Card {
	var out [5]Card
	n := 0
	take := func(r Rank, count int, suits uint16) {
		for suit := Spades; count > 0; suit-- {
			c := NewCard(r, suit)
			if suits&(1<<suit) != 0 && h.HasCard(c) {
				out[n] = c
				n++
				count--
			}
			if suit == Clubs {
				break
			}
		}
	}

	const anySuit = 0xF
	cat := s.Category()
	switch cat {
	case Straight, StraightFlush, RoyalFlush:
		high := s.rank(0)
		seq := [5]Rank{high, high - 1, high - 2, high - 3, high - 4}
		if high == Five {
			seq[4] = Ace
		}
		suits := uint16(anySuit)
		if cat != Straight {
			suits = 1 << flushSuit(h, seq)
		}
		for _, r := range seq {
			take(r, 1, suits)
		}
	default:
		suits := uint16(anySuit)
		if cat == Flush {
			suits = 1 << flushSuit(h, [5]Rank{s.rank(0), s.rank(1), s.rank(2), s.rank(3), s.rank(4)})
		}
		for i, size := range groupSizes[cat] {
			take(s.rank(i), size, suits)
		}
	}
	return out
}

// flushSuit returns the suit holding all of ranks.
func flushSuit(h Hand, ranks [5]Rank) Suit {
	var want uint16
	for _, r := range ranks {
		want |= 1 << (r - Two)
	}
	for suit := Spades; suit > Clubs; suit-- {
		if h.GetSuitMask(suit)&want == want {
			return suit
		}
	}
	return Clubs
}
