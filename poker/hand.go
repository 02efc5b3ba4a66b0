package poker

import "math/bits"

// Hand is an unordered set of cards stored as a bitset.
type Hand uint64

// NewHand creates a hand from cards. Duplicates collapse into one card.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// AddCard adds a card to the hand.
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// RemoveCard removes a card from the hand.
func (h *Hand) RemoveCard(c Card) {
	*h &^= Hand(c)
}

// HasCard reports whether the hand contains c.
func (h Hand) HasCard(c Card) bool {
	return h&Hand(c) != 0
}

// CountCards returns the number of cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// GetSuitMask returns a 13-bit mask of the ranks held in suit (bit 0 = Two).
func (h Hand) GetSuitMask(suit Suit) uint16 {
	return uint16(uint64(h)>>(uint(suit)*13)) & 0x1FFF
}

// GetRankMask returns a 13-bit mask of the ranks held in any suit.
func (h Hand) GetRankMask() uint16 {
	return h.GetSuitMask(Clubs) | h.GetSuitMask(Diamonds) | h.GetSuitMask(Hearts) | h.GetSuitMask(Spades)
}

// CountRank returns how many cards of rank r the hand holds.
func (h Hand) CountRank(r Rank) int {
	n := 0
	for suit := Clubs; suit <= Spades; suit++ {
		if h.HasCard(NewCard(r, suit)) {
			n++
		}
	}
	return n
}

// CountSuit returns how many cards of suit s the hand holds.
func (h Hand) CountSuit(s Suit) int {
	return bits.OnesCount16(h.GetSuitMask(s))
}

// Cards returns the cards of the hand in canonical deck order.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	for rest := uint64(h); rest != 0; rest &= rest - 1 {
		cards = append(cards, Card(rest&-rest))
	}
	return cards
}
