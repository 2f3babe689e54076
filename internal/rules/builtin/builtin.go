// Package builtin registers the stock house-rule plugins. Importing the
// package for side effects is enough to make every rule available to
// rules.CreateMatch.
//
// Each plugin is a small composition of the four hook archetypes:
//
//	royal-escape  grant + gate   one-shot king teleport
//	second-wind   grant + gate   one-shot graveyard drop
//	bloodlust     react          bonus turn after a capture
//	fatigue       gate + react + decay   capturing queens tire out
//	longbow       grant + gate   one-shot rook volley
//	momentum      grant + gate + react   capture streak unlocks free pawn steps
package builtin

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
