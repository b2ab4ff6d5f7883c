package match

import "testing"

// TestEloScenarioS6 reproduces: A(1600) beats B(1500) at K=32, expected_A ~=
// 0.640, delta ~= +12 for A and -12 for B.
func TestEloScenarioS6(t *testing.T) {
	expectedA := ExpectedScore(1600, 1500)
	if diff := expectedA - 0.640; diff < -0.001 || diff > 0.001 {
		t.Fatalf("expected expected_A ~= 0.640, got %v", expectedA)
	}

	deltaA := RatingDelta(1600, 1500, 1, StandardK)
	deltaB := RatingDelta(1500, 1600, 0, StandardK)
	if deltaA != 12 {
		t.Fatalf("expected delta_A = 12, got %d", deltaA)
	}
	if deltaB != -12 {
		t.Fatalf("expected delta_B = -12, got %d", deltaB)
	}
}

func TestKFactorForPlacement(t *testing.T) {
	if KFactorFor(0) != PlacementK {
		t.Fatalf("expected placement K-factor for a fresh season")
	}
	if KFactorFor(9) != PlacementK {
		t.Fatalf("expected placement K-factor for the 10th placement match")
	}
	if KFactorFor(10) != StandardK {
		t.Fatalf("expected standard K-factor after placement matches complete")
	}
}

func TestTeamRatingAverages(t *testing.T) {
	if got := TeamRating([]int32{1000, 1200, 1400}); got != 1200 {
		t.Fatalf("expected average 1200, got %d", got)
	}
}

func TestExpectedScoreSymmetry(t *testing.T) {
	a := ExpectedScore(1500, 1500)
	if a != 0.5 {
		t.Fatalf("equal ratings should give 0.5 expected score, got %v", a)
	}
}
