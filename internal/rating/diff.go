package rating

import "math"

// TeamRating is the mean of both teammates' ratings. A player holding both
// roles of a team is simply counted twice.
func TeamRating(defense, attack int) float64 {
	return float64(defense+attack) / 2.0
}

// Diffs returns the signed rating change for each team of a single game.
// diff1 == -diff2 up to floating point error.
func Diffs(team1Won bool, team1, team2 float64, p Params) (diff1, diff2 float64) {
	if p.AdaptionStep == 0 {
		p.AdaptionStep = DefaultAdaptionStep
	}
	expected1 := ExpectedOutcome(team1, team2, p.Scale)
	expected2 := ExpectedOutcome(team2, team1, p.Scale)

	var actual1, actual2 float64
	if team1Won {
		actual1 = 1
	} else {
		actual2 = 1
	}

	diff1 = p.AdaptionStep * (actual1 - expected1)
	diff2 = p.AdaptionStep * (actual2 - expected2)
	return diff1, diff2
}

// HalfShare is what each slot of a team receives from the team diff, rounded
// half to even.
func HalfShare(diff float64) int {
	return int(math.RoundToEven(diff * 0.5))
}
