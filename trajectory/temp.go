package trajectory

type node struct {
	m    Measurement
	prev *node
}

// TempTrajectory is a persistent trajectory used while the builder is still
// branching. The zero value is an empty trajectory.
type TempTrajectory struct {
	last      *node
	length    int
	foundHits int
}

// Push returns a new TempTrajectory with m appended. t is left unchanged.
func (t TempTrajectory) Push(m Measurement) TempTrajectory {
	next := TempTrajectory{
		last:      &node{m: m, prev: t.last},
		length:    t.length + 1,
		foundHits: t.foundHits,
	}
	if m.Valid {
		next.foundHits++
	}
	return next
}

// Pop returns the trajectory without its last measurement.
func (t TempTrajectory) Pop() TempTrajectory {
	if t.last == nil {
		return t
	}
	prev := TempTrajectory{last: t.last.prev, length: t.length - 1, foundHits: t.foundHits}
	if t.last.m.Valid {
		prev.foundHits--
	}
	return prev
}

// LastMeasurement returns the most recent measurement, or the zero value when empty.
func (t TempTrajectory) LastMeasurement() Measurement {
	if t.last == nil {
		return Measurement{}
	}
	return t.last.m
}

// FoundHits returns the number of valid hits.
func (t TempTrajectory) FoundHits() int { return t.foundHits }

// LostHits returns the number of steps without a valid hit.
func (t TempTrajectory) LostHits() int { return t.length - t.foundHits }

// Len returns the number of measurements.
func (t TempTrajectory) Len() int { return t.length }

// Empty reports whether the trajectory has no measurements.
func (t TempTrajectory) Empty() bool { return t.length == 0 }

// ToTrajectory copies the measurements, oldest first, into a Trajectory.
func (t TempTrajectory) ToTrajectory() *Trajectory {
	ms := make([]Measurement, t.length)
	i := t.length - 1
	for n := t.last; n != nil; n = n.prev {
		ms[i] = n.m
		i--
	}
	return &Trajectory{measurements: ms, foundHits: t.foundHits}
}
