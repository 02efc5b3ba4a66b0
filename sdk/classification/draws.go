// Package classification recognises drawing hands after the flop and counts
// their outs without running a simulation.
//
// The counts are the usual table approximations: an open-ended straight
// draw is always 8 outs and a flush plus straight draw is capped at 15.
package classification

import (
	"fmt"

	"github.com/oraziooztas/poker-trainer/poker"
)

// DrawType represents the types of draws a hand can have
type DrawType int

const (
	FlushDraw DrawType = iota
	OpenEndedStraightDraw
	Gutshot
	DoubleGutshot
	Overcards
	ComboDraw // flush draw plus a straight draw
)

func (dt DrawType) String() string {
	switch dt {
	case FlushDraw:
		return "flush draw"
	case OpenEndedStraightDraw:
		return "open-ended straight draw"
	case Gutshot:
		return "gutshot"
	case DoubleGutshot:
		return "double gutshot"
	case Overcards:
		return "overcards"
	case ComboDraw:
		return "combo draw"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (dt DrawType) MarshalText() ([]byte, error) {
	return []byte(dt.String()), nil
}

// Outs is one recognised draw.
type Outs struct {
	Draw        DrawType `json:"draw"`
	Outs        int      `json:"outs"`
	Probability float64  `json:"probability"` // outs / unseen cards
	Description string   `json:"description"`
}

// Estimate converts the outs to a rule of 2 and 4 completion estimate.
func (o Outs) Estimate(toRiver bool) float64 {
	return RuleOf2And4(o.Outs, toRiver)
}

// RuleOf2And4 approximates the chance of hitting one of outs: 4% per out with
// two cards to come, 2% with one, capped at 100%.
func RuleOf2And4(outs int, toRiver bool) float64 {
	multiplier := 2
	if toRiver {
		multiplier = 4
	}
	return float64(min(outs*multiplier, 100)) / 100
}

// ClassifyOuts lists the draws held by two hole cards on a flop or turn.
// Any other card counts, and invalid or repeated cards, give no draws.
//
// Draws are reported in a fixed order: flush draw, one straight draw (open
// ended, else gutshot, else double gutshot), overcards, and finally a combo
// entry when a flush draw and a straight draw coexist.
func ClassifyOuts(hole, board []poker.Card) []Outs {
	if len(hole) != 2 || len(board) < 3 || len(board) > 4 {
		return []Outs{}
	}
	var known poker.Hand
	for _, c := range append(append([]poker.Card{}, hole...), board...) {
		if !c.Valid() || known.HasCard(c) {
			return []Outs{}
		}
		known.AddCard(c)
	}

	d := drawCounter{known: known, unseen: poker.DeckSize - known.CountCards()}
	results := make([]Outs, 0, 4)

	flush := d.flushDraws()
	results = append(results, flush...)

	straight, hasStraight := d.openEnded()
	if !hasStraight {
		straight, hasStraight = d.gutshot()
	}
	if !hasStraight {
		straight, hasStraight = d.doubleGutshot()
	}
	if hasStraight {
		results = append(results, straight)
	}

	if over, ok := d.overcards(hole, board); ok {
		results = append(results, over)
	}

	if len(flush) > 0 && hasStraight {
		total := 0
		for _, r := range results {
			total += r.Outs
		}
		results = append(results, d.outs(ComboDraw, min(total, 15), "Combo draw (flush + straight)"))
	}
	return results
}

type drawCounter struct {
	known  poker.Hand
	unseen int
}

func (d drawCounter) outs(draw DrawType, n int, description string) Outs {
	return Outs{
		Draw:        draw,
		Outs:        n,
		Probability: float64(n) / float64(d.unseen),
		Description: description,
	}
}

// has reports whether a rank value is held, treating 1 as a low ace.
func (d drawCounter) has(value int) bool {
	if value == 1 {
		value = int(poker.Ace)
	}
	if value < int(poker.Two) || value > int(poker.Ace) {
		return false
	}
	return d.known.GetRankMask()&(1<<(value-int(poker.Two))) != 0
}

// unseenOfRank counts the cards of a rank value that are still undealt.
func (d drawCounter) unseenOfRank(value int) int {
	if value == 1 {
		value = int(poker.Ace)
	}
	return 4 - d.known.CountRank(poker.Rank(value))
}

// flushDraws reports every suit held exactly four times.
func (d drawCounter) flushDraws() []Outs {
	var results []Outs
	for suit := poker.Clubs; suit <= poker.Spades; suit++ {
		if d.known.CountSuit(suit) != 4 {
			continue
		}
		n := 13 - d.known.CountSuit(suit)
		results = append(results, d.outs(FlushDraw, n, fmt.Sprintf("Flush draw (%d outs)", n)))
	}
	return results
}

// openEnded finds four consecutive ranks that can be completed at both ends.
// The outs are the nominal 8 regardless of visible cards.
func (d drawCounter) openEnded() (Outs, bool) {
	for low := int(poker.Two); low+3 < int(poker.Ace); low++ {
		if d.has(low) && d.has(low+1) && d.has(low+2) && d.has(low+3) {
			return d.outs(OpenEndedStraightDraw, 8, "Open-ended straight draw (8 outs)"), true
		}
	}
	return Outs{}, false
}

// gutshot finds a five-rank window with exactly one rank missing, lowest
// window first, the wheel included.
func (d drawCounter) gutshot() (Outs, bool) {
	for top := 5; top <= int(poker.Ace); top++ {
		missing, held := 0, 0
		for v := top - 4; v <= top; v++ {
			if d.has(v) {
				held++
			} else {
				missing = v
			}
		}
		if held != 4 {
			continue
		}
		if n := d.unseenOfRank(missing); n > 0 {
			return d.outs(Gutshot, n, fmt.Sprintf("Gutshot straight draw (%d outs)", n)), true
		}
	}
	return Outs{}, false
}

// doubleGutshot finds the X_XX_X shape, which completes on either gap.
func (d drawCounter) doubleGutshot() (Outs, bool) {
	for top := 6; top <= int(poker.Ace); top++ {
		if !d.has(top-5) || !d.has(top-3) || !d.has(top-2) || !d.has(top) {
			continue
		}
		low, high := d.unseenOfRank(top-4), d.unseenOfRank(top-1)
		if low > 0 && high > 0 {
			n := low + high
			return d.outs(DoubleGutshot, n, fmt.Sprintf("Double gutshot (%d outs)", n)), true
		}
	}
	return Outs{}, false
}

// overcards counts hole cards above every board card, three outs each.
func (d drawCounter) overcards(hole, board []poker.Card) (Outs, bool) {
	var boardMax poker.Rank
	for _, c := range board {
		boardMax = max(boardMax, c.Rank())
	}
	over := 0
	for _, c := range hole {
		if c.Rank() > boardMax {
			over++
		}
	}

	switch over {
	case 2:
		return d.outs(Overcards, 6, "Overcards (6 outs)"), true
	case 1:
		return d.outs(Overcards, 3, "One overcard (3 outs)"), true
	default:
		return Outs{}, false
	}
}
