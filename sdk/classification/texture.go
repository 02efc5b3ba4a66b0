package classification

import (
	"math/bits"

	"github.com/oraziooztas/poker-trainer/poker"
)

// BoardTexture represents the "wetness" of a board from dry to very wet
type BoardTexture int

const (
	Dry BoardTexture = iota
	SemiWet
	Wet
	VeryWet
)

func (bt BoardTexture) String() string {
	switch bt {
	case Dry:
		return "dry"
	case SemiWet:
		return "semi-wet"
	case Wet:
		return "wet"
	case VeryWet:
		return "very wet"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (bt BoardTexture) MarshalText() ([]byte, error) {
	return []byte(bt.String()), nil
}

// FlushInfo describes how suited a board is.
type FlushInfo struct {
	MaxSuitCount int
	DominantSuit poker.Suit // meaningful only when MaxSuitCount > 0
	IsMonotone   bool       // 3+ cards of one suit
	IsRainbow    bool       // 3+ cards, all suits different
}

// StraightInfo describes how connected a board is.
type StraightInfo struct {
	ConnectedCards int // longest run of consecutive ranks
	Gaps           int // missing ranks between the distinct ranks present
	HasAce         bool
	BroadwayCards  int // T through A, counted by rank
}

const broadwayMask = 0x1F00 // T, J, Q, K, A

// AnalyzeBoardTexture scores how coordinated a board is. Boards with fewer
// than three cards are dry.
func AnalyzeBoardTexture(board poker.Hand) BoardTexture {
	if board.CountCards() < 3 {
		return Dry
	}

	var wetness int

	flush := AnalyzeFlushPotential(board)
	switch {
	case flush.IsMonotone, flush.MaxSuitCount >= 4:
		wetness += 4
	case flush.MaxSuitCount == 3:
		wetness += 3
	case flush.MaxSuitCount == 2:
		wetness += 1
	}

	straight := AnalyzeStraightPotential(board)
	switch {
	case straight.ConnectedCards >= 4:
		wetness += 4
	case straight.ConnectedCards == 3:
		wetness += 3
	case straight.ConnectedCards == 2:
		wetness += 1
	}

	if pairedRanks(board) > 0 {
		wetness++
	}
	if highCards(board) >= 3 {
		wetness++
	}

	switch {
	case wetness <= 0:
		return Dry
	case wetness <= 3:
		return SemiWet
	case wetness <= 5:
		return Wet
	default:
		return VeryWet
	}
}

// AnalyzeFlushPotential reports the most common suit. Ties go to the suit
// with the higher top card, then to the higher suit.
func AnalyzeFlushPotential(board poker.Hand) FlushInfo {
	var info FlushInfo
	var bestMask uint16
	suits := 0

	for suit := poker.Spades; ; suit-- {
		mask := board.GetSuitMask(suit)
		if count := bits.OnesCount16(mask); count > 0 {
			suits++
			if count > info.MaxSuitCount || (count == info.MaxSuitCount && bits.Len16(mask) > bits.Len16(bestMask)) {
				info.MaxSuitCount = count
				info.DominantSuit = suit
				bestMask = mask
			}
		}
		if suit == poker.Clubs {
			break
		}
	}

	n := board.CountCards()
	info.IsMonotone = suits == 1 && n >= 3
	info.IsRainbow = suits == n && n >= 3
	return info
}

// AnalyzeStraightPotential measures connectivity over the distinct ranks. The
// ace also plays low once two or more of 2 through 5 are present.
func AnalyzeStraightPotential(board poker.Hand) StraightInfo {
	ranks := board.GetRankMask()
	if ranks == 0 {
		return StraightInfo{}
	}

	const aceBit = 1 << (poker.Ace - poker.Two)
	info := StraightInfo{
		HasAce:        ranks&aceBit != 0,
		BroadwayCards: bits.OnesCount16(ranks & broadwayMask),
	}

	// Gaps count holes between the lowest and highest rank present.
	low, high := bits.TrailingZeros16(ranks), bits.Len16(ranks)-1
	info.Gaps = high - low + 1 - bits.OnesCount16(ranks)

	// Shift up one so bit 0 can hold the low ace.
	run := uint32(ranks) << 1
	if info.HasAce && bits.OnesCount16(ranks&0xF) >= 2 {
		run |= 1
	}
	for run != 0 {
		info.ConnectedCards++
		run &= run << 1
	}
	return info
}

// pairedRanks counts ranks that appear more than once.
func pairedRanks(board poker.Hand) int {
	paired := 0
	for r := poker.Two; r <= poker.Ace; r++ {
		if board.CountRank(r) >= 2 {
			paired++
		}
	}
	return paired
}

// highCards counts T through A cards, pairs included.
func highCards(board poker.Hand) int {
	n := 0
	for suit := poker.Clubs; suit <= poker.Spades; suit++ {
		n += bits.OnesCount16(board.GetSuitMask(suit) & broadwayMask)
	}
	return n
}
