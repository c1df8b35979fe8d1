package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omninav-sim/internal/common"
	"omninav-sim/internal/control"
)

func TestRecorderClearanceAndCollisions(t *testing.T) {
	rec := NewRecorder(0.05)
	ctrl := control.NewVelocityController(control.DefaultConfig())

	// Two robots 1 m apart, radius 0.1 each: clearance 0.8.
	a := NewRobot(common.Vec2{}, common.Vec2{X: 1}, 0.1, ctrl)
	b := NewRobot(common.Vec2{X: 1}, common.Vec2{}, 0.1, ctrl)
	robots := []*Robot{a, b}

	rec.RecordTick(robots, nil)

	// Move them into overlap: distance 0.15 < combined radius 0.2.
	b.position = common.Vec2{X: 0.15}
	rec.RecordTick(robots, nil)

	s := rec.Summarize(robots)
	assert.Equal(t, 2, s.Steps)
	assert.Equal(t, 1, s.CollisionTicks)
	assert.InDelta(t, -0.05, s.MinClearance, 1e-12)
}

func TestRecorderAccelNeedsTwoTicks(t *testing.T) {
	rec := NewRecorder(0.05)
	ctrl := control.NewVelocityController(control.DefaultConfig())
	a := NewRobot(common.Vec2{}, common.Vec2{X: 1}, 0.1, ctrl)
	b := NewRobot(common.Vec2{X: 2}, common.Vec2{}, 0.1, ctrl)
	robots := []*Robot{a, b}

	rec.RecordTick(robots, nil)
	s := rec.Summarize(robots)
	assert.Equal(t, 0.0, s.MeanAccel)

	// Velocity change of 0.1 over one 0.05 s tick: accel 2.
	a.velocity = common.Vec2{X: 0.1}
	rec.RecordTick(robots, nil)
	s = rec.Summarize(robots)
	assert.InDelta(t, 1.0, s.MeanAccel, 1e-9) // mean over both robots: (2 + 0) / 2
}

func TestSummarizeNoPairs(t *testing.T) {
	rec := NewRecorder(0.05)
	ctrl := control.NewVelocityController(control.DefaultConfig())
	only := NewRobot(common.Vec2{}, common.Vec2{X: 1}, 0.1, ctrl)

	rec.RecordTick([]*Robot{only}, nil)
	s := rec.Summarize([]*Robot{only})

	assert.Equal(t, 0, s.Steps)
	assert.True(t, math.IsInf(s.MinClearance, 1))
	assert.True(t, math.IsInf(s.P05Clearance, 1))
	assert.True(t, math.IsNaN(s.MeanArrivalSec))
}

func TestSummarizeArrivals(t *testing.T) {
	rec := NewRecorder(0.05)
	ctrl := control.NewVelocityController(control.DefaultConfig())
	a := NewRobot(common.Vec2{}, common.Vec2{X: 1}, 0.1, ctrl)
	b := NewRobot(common.Vec2{X: 2}, common.Vec2{}, 0.1, ctrl)
	a.arrivedTick = 40 // 2.0 s at dt 0.05
	require.False(t, b.Arrived())

	s := rec.Summarize([]*Robot{a, b})

	assert.Equal(t, 1, s.Arrived)
	assert.Equal(t, 2, s.Robots)
	assert.InDelta(t, 2.0, s.MeanArrivalSec, 1e-12)
}
