package match

import "math"

// StandardK is the ELO K-factor applied after a player's placement matches.
const StandardK = 32

// PlacementK is the K-factor applied during a player's first placement
// matches each season (spec §4.6).
const PlacementK = 64
const PlacementMatchCount = 10

// ExpectedScore is the standard ELO win-probability formula.
func ExpectedScore(ratingA, ratingB int32) float64 {
	return 1 / (1 + math.Pow(10, float64(ratingB-ratingA)/400))
}

// RatingDelta computes the rating change for the side with `rating`,
// against an opponent side rated `opponentRating`. actualScore is 1 for a
// win, 0.5 for a draw, 0 for a loss. k is StandardK or PlacementK depending
// on whether the player is still in their placement window.
func RatingDelta(rating, opponentRating int32, actualScore float64, k int32) int32 {
	expected := ExpectedScore(rating, opponentRating)
	delta := float64(k) * (actualScore - expected)
	return int32(math.Round(delta))
}

// KFactorFor returns PlacementK while matchesPlayed < PlacementMatchCount,
// StandardK afterward.
func KFactorFor(matchesPlayed int) int32 {
	if matchesPlayed < PlacementMatchCount {
		return PlacementK
	}
	return StandardK
}

// TeamRating averages member ratings, per spec §4.6 ("team ratings averaged").
func TeamRating(ratings []int32) int32 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int32
	for _, r := range ratings {
		sum += r
	}
	return sum / int32(len(ratings))
}
