package match

// Objective is a capturable point: progress advances while capturers
// outnumber defenders within its radius, flipping ownership at 1.0 (spec
// §4.6). Held objectives also contribute points_per_tick x cadence to
// their owning team's score.
type Objective struct {
	ID           string
	X, Y         float32
	Radius       float32
	OwnerTeam    int32 // 0 = unowned
	Progress     float64
	PointsPerTick int32
}

// AdvanceCapture updates Progress given the count of capturers vs defenders
// present this tick, flipping ownership once Progress reaches 1.0. rate is
// the progress gained per tick when capturers strictly outnumber defenders.
func (o *Objective) AdvanceCapture(capturingTeam int32, capturers, defenders int, rate float64) {
	if capturers <= defenders {
		return
	}
	if o.OwnerTeam == capturingTeam {
		return // already owned, nothing to capture
	}
	o.Progress += rate
	if o.Progress >= 1.0 {
		o.Progress = 0
		o.OwnerTeam = capturingTeam
	}
}

// TickScore returns the score an objective contributes this tick to its
// owning team, 0 if unowned.
func (o *Objective) TickScore() int32 {
	if o.OwnerTeam == 0 {
		return 0
	}
	return o.PointsPerTick
}
