// Package poker provides the card primitives and the hand evaluator used by
// the equity simulator.
//
// Cards are bit-packed: each of the 52 cards owns one bit of a uint64 at
// position suit*13 + (rank-2), so sets of cards (Hand) are plain bitwise
// unions and the evaluator works on per-suit rank masks.
package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Rank is a card rank, Two (2) through Ace (14).
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the rank symbol used in card text ("2".."10", "J", "Q", "K", "A").
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Suit is a card suit. Suits are unordered; the numeric value only selects a
// bit lane inside a Hand.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// String returns the single-letter suit used in card text.
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "c"
	case Diamonds:
		return "d"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Symbol returns the unicode suit symbol for display.
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Card is a single playing card encoded as one bit. The zero Card is not a
// valid card.
type Card uint64

// NewCard creates a card from rank and suit. It returns the zero Card when
// either is out of range.
func NewCard(rank Rank, suit Suit) Card {
	if rank < Two || rank > Ace || suit > Spades {
		return 0
	}
	return Card(1) << (uint(suit)*13 + uint(rank-Two))
}

func (c Card) index() int {
	return bits.TrailingZeros64(uint64(c))
}

// Valid reports whether c is exactly one of the 52 cards.
func (c Card) Valid() bool {
	return c != 0 && bits.OnesCount64(uint64(c)) == 1 && c.index() < 52
}

// Rank returns the rank of the card.
func (c Card) Rank() Rank {
	return Rank(c.index()%13) + Two
}

// Suit returns the suit of the card.
func (c Card) Suit() Suit {
	return Suit(c.index() / 13)
}

// String returns the compact text form, e.g. "Kh" or "10s".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// MarshalText implements encoding.TextMarshaler.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: cannot encode %#x", ErrInvalidCard, uint64(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Card) UnmarshalText(text []byte) error {
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// ParseCard parses a card in text form: rank first ("2".."9", "10" or "T",
// "J", "Q", "K", "A"), then a suit letter (s, h, d, c). Both parts are case
// insensitive.
func ParseCard(s string) (Card, error) {
	if len(s) < 2 || len(s) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	rank, ok := parseRank(s[:len(s)-1])
	if !ok {
		return 0, fmt.Errorf("%w: unknown rank in %q", ErrInvalidCard, s)
	}
	suit, ok := parseSuit(s[len(s)-1])
	if !ok {
		return 0, fmt.Errorf("%w: unknown suit in %q", ErrInvalidCard, s)
	}
	return NewCard(rank, suit), nil
}

// ParseCards parses a run of cards such as "AsKd", "As Kd" or "10h,Jh".
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(" ", "", ",", "").Replace(s)

	var cards []Card
	for i := 0; i < len(s); {
		n := 2
		if s[i] == '1' {
			n = 3
		}
		if i+n > len(s) {
			return nil, fmt.Errorf("%w: incomplete card at position %d", ErrInvalidCard, i)
		}
		card, err := ParseCard(s[i : i+n])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		cards = append(cards, card)
		i += n
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests and fixtures).
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards %q: %v", s, err))
	}
	return cards
}

// FormatCards joins cards with single spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func parseRank(s string) (Rank, bool) {
	if s == "10" {
		return Ten, true
	}
	if len(s) != 1 {
		return 0, false
	}
	switch c := s[0]; {
	case c >= '2' && c <= '9':
		return Rank(c-'0'), true
	case c == 'T' || c == 't':
		return Ten, true
	case c == 'J' || c == 'j':
		return Jack, true
	case c == 'Q' || c == 'q':
		return Queen, true
	case c == 'K' || c == 'k':
		return King, true
	case c == 'A' || c == 'a':
		return Ace, true
	default:
		return 0, false
	}
}

func parseSuit(c byte) (Suit, bool) {
	switch c {
	case 's', 'S':
		return Spades, true
	case 'h', 'H':
		return Hearts, true
	case 'd', 'D':
		return Diamonds, true
	case 'c', 'C':
		return Clubs, true
	default:
		return 0, false
	}
}
