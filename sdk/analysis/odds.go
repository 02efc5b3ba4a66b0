package analysis

// PotOdds returns the share of the final pot a call of bet represents:
// bet / (pot + bet). It returns 0 when nothing is at stake.
func PotOdds(pot, bet float64) float64 {
	if pot+bet <= 0 {
		return 0
	}
	return bet / (pot + bet)
}

// IsCallProfitable reports whether winning with probability winProbability
// beats the price given by potOdds.
func IsCallProfitable(potOdds, winProbability float64) bool {
	return winProbability > potOdds
}

// ExpectedValue returns the average profit of risking risk to win potIfWin.
func ExpectedValue(winProbability, potIfWin, risk float64) float64 {
	return winProbability*potIfWin - (1-winProbability)*risk
}
