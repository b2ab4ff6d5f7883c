package match

import "testing"

func TestObjectiveCaptureFlipsAtFullProgress(t *testing.T) {
	o := &Objective{ID: "obj1", PointsPerTick: 5}
	for i := 0; i < 4; i++ {
		o.AdvanceCapture(1, 3, 1, 0.3)
	}
	if o.OwnerTeam != 1 {
		t.Fatalf("expected objective to flip to team 1 after enough progress, got owner=%d progress=%v", o.OwnerTeam, o.Progress)
	}
}

func TestObjectiveNoProgressWhenOutnumbered(t *testing.T) {
	o := &Objective{ID: "obj1"}
	o.AdvanceCapture(1, 1, 3, 0.3)
	if o.Progress != 0 {
		t.Fatalf("expected no progress when capturers are outnumbered, got %v", o.Progress)
	}
}

func TestObjectiveTickScoreOnlyWhenOwned(t *testing.T) {
	o := &Objective{ID: "obj1", PointsPerTick: 10}
	if o.TickScore() != 0 {
		t.Fatalf("unowned objective should contribute 0 score")
	}
	o.OwnerTeam = 1
	if o.TickScore() != 10 {
		t.Fatalf("owned objective should contribute its points_per_tick")
	}
}
