package simulation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"omninav-sim/internal/common"
)

// Recorder accumulates per-tick measurements over a run. The metrics mirror
// what matters when judging a reactive controller: how close robots came to
// hitting things, how fast they moved, and how smooth the commands were.
type Recorder struct {
	dt float64

	clearances []float64 // per tick: min surface-to-surface distance over all pairs
	speeds     []float64 // per tick, per robot
	accels     []float64 // per tick, per robot: |Δv|/dt

	prevVel        map[string]common.Vec2
	collisionTicks int
}

// NewRecorder creates a recorder for a run with the given tick duration.
func NewRecorder(dt float64) *Recorder {
	return &Recorder{
		dt:      dt,
		prevVel: make(map[string]common.Vec2),
	}
}

// RecordTick captures the state of all objects after one simulation step.
func (rec *Recorder) RecordTick(robots []*Robot, obstacles []*RoamingObstacle) {
	objects := make([]SimulationObject, 0, len(robots)+len(obstacles))
	for _, r := range robots {
		objects = append(objects, r)
	}
	for _, o := range obstacles {
		objects = append(objects, o)
	}

	minClearance := math.Inf(1)
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			d := objects[i].Position().Distance(objects[j].Position())
			clearance := d - objects[i].Radius() - objects[j].Radius()
			if clearance < minClearance {
				minClearance = clearance
			}
		}
	}
	if !math.IsInf(minClearance, 1) {
		rec.clearances = append(rec.clearances, minClearance)
		if minClearance < 0 {
			rec.collisionTicks++
		}
	}

	for _, r := range robots {
		vel := r.Velocity()
		rec.speeds = append(rec.speeds, vel.Norm())
		if prev, ok := rec.prevVel[r.ID()]; ok {
			rec.accels = append(rec.accels, vel.Sub(prev).Norm()/rec.dt)
		}
		rec.prevVel[r.ID()] = vel
	}
}

// Summary condenses a finished run.
type Summary struct {
	Steps          int
	Robots         int
	Arrived        int
	MeanArrivalSec float64 // over arrived robots, NaN if none

	CollisionTicks int
	MinClearance   float64 // over the whole run, +Inf if no pairs existed
	P05Clearance   float64 // 5th percentile, +Inf if no pairs existed

	MeanSpeed float64
	MeanAccel float64 // smoothness proxy: mean commanded |Δv|/dt
}

// Summarize computes the run summary for the given robots.
func (rec *Recorder) Summarize(robots []*Robot) Summary {
	s := Summary{
		Steps:          len(rec.clearances),
		Robots:         len(robots),
		CollisionTicks: rec.collisionTicks,
		MinClearance:   math.Inf(1),
		P05Clearance:   math.Inf(1),
	}

	var arrivalTicks []float64
	for _, r := range robots {
		if r.Arrived() {
			s.Arrived++
			arrivalTicks = append(arrivalTicks, float64(r.ArrivedTick()))
		}
	}
	s.MeanArrivalSec = stat.Mean(arrivalTicks, nil) * rec.dt

	if len(rec.clearances) > 0 {
		s.MinClearance = floats.Min(rec.clearances)
		sorted := append([]float64(nil), rec.clearances...)
		sort.Float64s(sorted)
		s.P05Clearance = stat.Quantile(0.05, stat.Empirical, sorted, nil)
	}
	if len(rec.speeds) > 0 {
		s.MeanSpeed = stat.Mean(rec.speeds, nil)
	}
	if len(rec.accels) > 0 {
		s.MeanAccel = stat.Mean(rec.accels, nil)
	}
	return s
}
