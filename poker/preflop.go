package poker

// HoleCardCategory is a coarse preflop strength bucket for two hole cards.
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// CategorizeHoleCards buckets two hole cards:
// Premium (JJ+, AK), Strong (TT, AQ, AJ), Medium (77-99, suited broadway),
// Weak (22-66, suited connectors and one-gappers), Trash (everything else).
func CategorizeHoleCards(a, b Card) HoleCardCategory {
	if !a.Valid() || !b.Valid() || a == b {
		return CategoryUnknown
	}

	low, high := a.Rank(), b.Rank()
	if low > high {
		low, high = high, low
	}
	suited := a.Suit() == b.Suit()
	pair := low == high

	switch {
	case pair && low >= Jack, low == King && high == Ace:
		return CategoryPremium
	case pair && low == Ten, high == Ace && (low == Queen || low == Jack):
		return CategoryStrong
	case pair && low >= Seven, suited && low >= Ten:
		return CategoryMedium
	case pair, suited && high-low <= 2:
		return CategoryWeak
	default:
		return CategoryTrash
	}
}

// HoleCardNotation returns the usual shorthand for two hole cards, such as
// "AA", "AKs" or "T9o". Invalid or identical cards give "".
func HoleCardNotation(a, b Card) string {
	if !a.Valid() || !b.Valid() || a == b {
		return ""
	}
	if a.Rank() < b.Rank() {
		a, b = b, a
	}

	const letters = "23456789TJQKA"
	notation := []byte{letters[a.Rank()-Two], letters[b.Rank()-Two]}
	switch {
	case a.Rank() == b.Rank():
	case a.Suit() == b.Suit():
		notation = append(notation, 's')
	default:
		notation = append(notation, 'o')
	}
	return string(notation)
}
