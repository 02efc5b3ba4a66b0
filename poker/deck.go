package poker

import (
	rand "math/rand/v2"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// NewDeck returns all 52 cards in canonical order (clubs, diamonds, hearts,
// spades; deuce to ace within each suit).
func NewDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Shuffle returns a uniformly random permutation of cards. The input slice is
// left untouched.
func Shuffle(cards []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	ShuffleInPlace(out, rng)
	return out
}

// ShuffleInPlace permutes cards in place using Fisher-Yates. Callers must own
// the slice exclusively.
func ShuffleInPlace(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// RemoveCards returns the cards of deck that are not in remove, preserving
// order. Cards in remove that are absent from deck are ignored.
func RemoveCards(deck []Card, remove ...Card) []Card {
	removed := NewHand(remove...)
	out := make([]Card, 0, len(deck))
	for _, c := range deck {
		if !removed.HasCard(c) {
			out = append(out, c)
		}
	}
	return out
}

// Remaining returns the full deck minus the known cards.
func Remaining(known ...Card) []Card {
	return RemoveCards(NewDeck(), known...)
}

// Deck deals from a private, reshufflable copy of a card set. A Deck is owned
// by one goroutine; Reset restores every card and reshuffles all of them.
type Deck struct {
	base  []Card
	cards []Card
	next  int
	rng   *rand.Rand
}

// NewShuffledDeck creates a dealer over a copy of cards and shuffles it.
func NewShuffledDeck(cards []Card, rng *rand.Rand) *Deck {
	d := &Deck{
		base:  append([]Card(nil), cards...),
		cards: make([]Card, len(cards)),
		rng:   rng,
	}
	d.Reset()
	return d
}

// Reset restores the full card set and shuffles it with Fisher-Yates.
func (d *Deck) Reset() {
	copy(d.cards, d.base)
	d.next = 0
	ShuffleInPlace(d.cards, d.rng)
}

// Deal deals n cards from the deck. It returns nil when fewer than n remain.
// The returned slice aliases the deck and is valid until the next Reset.
func (d *Deck) Deal(n int) []Card {
	if n < 0 || d.next+n > len(d.cards) {
		return nil
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// DealOne deals a single card, or the zero Card when the deck is empty.
func (d *Deck) DealOne() Card {
	if d.next >= len(d.cards) {
		return 0
	}
	card := d.cards[d.next]
	d.next++
	return card
}

// CardsRemaining returns the number of cards left to deal.
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
