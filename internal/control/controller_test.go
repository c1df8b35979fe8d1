package control

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateIdempotentAtRest(t *testing.T) {
	c := NewVelocityController(DefaultConfig())

	out := c.Evaluate(RobotState{X: 1, Y: 0}, Goal{X: 1, Y: 0}, nil)

	assert.Equal(t, 0.0, out.VX)
	assert.Equal(t, 0.0, out.VY)
	assert.True(t, out.Feasible)
}

func TestEvaluateDeceleratesInsideSettleRadius(t *testing.T) {
	c := NewVelocityController(DefaultConfig())

	// Within the settle radius the reference velocity is zero, so a moving
	// robot must brake regardless of the goal bearing.
	state := RobotState{X: 0.1, Y: 0, VX: 1, VY: 0}
	out := c.Evaluate(state, Goal{X: 0, Y: 0}, nil)

	assert.Less(t, math.Hypot(out.VX, out.VY), math.Hypot(state.VX, state.VY))
}

func TestEvaluateNoObstacleBaseline(t *testing.T) {
	cfg := DefaultConfig()
	c := NewVelocityController(cfg)

	state := RobotState{}
	goal := Goal{X: 5, Y: 0}

	out := c.Evaluate(state, goal, nil)
	require.True(t, out.Feasible)

	// First tick: full acceleration clamp along the goal bearing.
	assert.InDelta(t, cfg.MaxAccel*cfg.DT, out.VX, 1e-9)
	assert.InDelta(t, 0, out.VY, 1e-9)

	// Feeding the command back as the next state, the speed saturates at
	// MaxVel along the goal bearing.
	for i := 0; i < 100; i++ {
		state.VX, state.VY = out.VX, out.VY
		out = c.Evaluate(state, goal, nil)
	}
	assert.InDelta(t, cfg.MaxVel, out.VX, 1e-6)
	assert.InDelta(t, 0, out.VY, 1e-9)
}

func TestEvaluateVelocityAndAccelerationClamps(t *testing.T) {
	cfg := DefaultConfig()
	c := NewVelocityController(cfg)

	// Velocities within MaxVel: the caller feeds the previous (clamped)
	// command back in, so the controller never sees a faster start.
	states := []RobotState{
		{},
		{X: -3, Y: 2, VX: 1.2, VY: -1},
		{X: 0.2, Y: 0.1, VX: -1.2, VY: 1.2},
		{X: 10, Y: -10, VX: 0, VY: 2},
	}
	obstacleSets := [][]Obstacle{
		nil,
		{{X: 0.1, Y: 0.1, Radius: 0.1}},
		{{X: -3, Y: 2, Radius: 0.2}, {X: 0, Y: 0, VX: 1, VY: 1, Radius: 0.05}},
	}

	for _, state := range states {
		for _, obstacles := range obstacleSets {
			out := c.Evaluate(state, Goal{X: 1, Y: 1}, obstacles)

			speed := math.Hypot(out.VX, out.VY)
			assert.LessOrEqual(t, speed, cfg.MaxVel+1e-9)

			// Reconstruct the applied acceleration from the output.
			accel := math.Hypot(out.VX-state.VX, out.VY-state.VY) / cfg.DT
			assert.LessOrEqual(t, accel, cfg.MaxAccel+1e-9)
		}
	}
}

func TestEvaluateCoincidentObstacleStaysFinite(t *testing.T) {
	cfg := DefaultConfig()
	c := NewVelocityController(cfg)

	// Obstacle exactly on the robot: distance zero, the degeneracy guard
	// must keep the output finite and within limits.
	state := RobotState{X: 1, Y: 1}
	out := c.Evaluate(state, Goal{X: 1, Y: 1}, []Obstacle{{X: 1, Y: 1, Radius: 0.1}})

	require.False(t, math.IsNaN(out.VX) || math.IsNaN(out.VY))
	require.False(t, math.IsInf(out.VX, 0) || math.IsInf(out.VY, 0))
	assert.LessOrEqual(t, math.Hypot(out.VX, out.VY), cfg.MaxVel+1e-9)

	// The guard pushes along +X, the force cap saturates the acceleration
	// clamp exactly.
	assert.InDelta(t, cfg.MaxAccel*cfg.DT, out.VX, 1e-9)
	assert.InDelta(t, 0, out.VY, 1e-9)
}

func TestEvaluateRepulsionForceIsBounded(t *testing.T) {
	cfg := DefaultConfig()
	c := NewVelocityController(cfg)

	// A huge obstacle radius makes the raw exponential force astronomically
	// large (and eventually +Inf). At rest on the goal the tracking term is
	// zero, so the whole output is repulsion: it must saturate at the
	// acceleration clamp, never explode.
	for _, radius := range []float64{1, 10, 100, 1e6} {
		out := c.Evaluate(RobotState{}, Goal{}, []Obstacle{{X: 0.05, Radius: radius}})

		accel := math.Hypot(out.VX-0, out.VY-0) / cfg.DT
		require.False(t, math.IsNaN(accel) || math.IsInf(accel, 0), "radius %g", radius)
		assert.InDelta(t, cfg.MaxAccel, accel, 1e-9, "radius %g", radius)
	}
}

func TestEvaluateDeflectsAroundOffsetObstacle(t *testing.T) {
	cfg := DefaultConfig()
	c := NewVelocityController(cfg)

	// Obstacle slightly below the straight-line path to the goal: the
	// command must bend away from it (positive VY) while staying finite and
	// inside the limits.
	out := c.Evaluate(RobotState{}, Goal{X: 5, Y: 0}, []Obstacle{{X: 0.2, Y: -0.05, Radius: 0.1}})

	require.False(t, math.IsNaN(out.VX) || math.IsNaN(out.VY))
	assert.LessOrEqual(t, math.Hypot(out.VX, out.VY), cfg.MaxVel+1e-9)
	assert.Greater(t, out.VY, 0.01)
	assert.Greater(t, out.VX, 0.0)
}

func TestEvaluateBrakesForObstacleAhead(t *testing.T) {
	c := NewVelocityController(DefaultConfig())

	state := RobotState{VX: 1}
	goal := Goal{X: 5, Y: 0}
	blocked := c.Evaluate(state, goal, []Obstacle{{X: 0.3, Radius: 0.1}})
	clear := c.Evaluate(state, goal, nil)

	// The velocity-dependent safety margin puts the obstacle inside the
	// warning zone, so the commanded speed drops below the unobstructed one.
	assert.Less(t, blocked.VX, clear.VX)
	assert.Less(t, blocked.VX, state.VX)
}

func TestEvaluateUsesObstacleVelocityExtrapolation(t *testing.T) {
	c := NewVelocityController(DefaultConfig())

	state := RobotState{}
	goal := Goal{X: 5, Y: 0}

	// Static obstacle at 0.5 m is outside the warning zone; the same
	// obstacle closing fast is extrapolated into it.
	static := c.Evaluate(state, goal, []Obstacle{{X: 0.5, Radius: 0.1}})
	closing := c.Evaluate(state, goal, []Obstacle{{X: 0.5, VX: -2.5, Radius: 0.1}})

	assert.Less(t, closing.VX, static.VX)
}

func TestEvaluateReservedConfigFieldsHaveNoEffect(t *testing.T) {
	base := DefaultConfig()
	tweaked := base
	tweaked.Horizon = 50
	tweaked.QPos = 0
	tweaked.QVel = 1e9
	tweaked.RAccel = -1
	tweaked.QSlack = 123

	state := RobotState{X: -1, Y: 2, VX: 0.5, VY: -0.5}
	goal := Goal{X: 3, Y: 3}
	obstacles := []Obstacle{{X: 0, Y: 2, VX: 0.2, Radius: 0.09}}

	a := NewVelocityController(base).Evaluate(state, goal, obstacles)
	b := NewVelocityController(tweaked).Evaluate(state, goal, obstacles)

	assert.Equal(t, a, b)
}

func TestEvaluateObstacleOrderIsIrrelevant(t *testing.T) {
	c := NewVelocityController(DefaultConfig())

	state := RobotState{VX: 0.5, VY: 0.5}
	goal := Goal{X: 2, Y: 2}
	obstacles := []Obstacle{
		{X: 0.2, Y: 0.1, Radius: 0.1},
		{X: 0.1, Y: 0.3, VX: -0.5, Radius: 0.05},
		{X: -0.1, Y: 0.1, Radius: 0.2},
	}
	reversed := []Obstacle{obstacles[2], obstacles[1], obstacles[0]}

	a := c.Evaluate(state, goal, obstacles)
	b := c.Evaluate(state, goal, reversed)

	assert.InDelta(t, a.VX, b.VX, 1e-12)
	assert.InDelta(t, a.VY, b.VY, 1e-12)
}

func TestEvaluateNonFiniteInputsDoNotPanic(t *testing.T) {
	c := NewVelocityController(DefaultConfig())

	assert.NotPanics(t, func() {
		out := c.Evaluate(
			RobotState{X: math.NaN(), VX: math.Inf(1)},
			Goal{X: math.NaN()},
			[]Obstacle{{X: math.Inf(-1), Radius: math.NaN()}},
		)
		assert.True(t, out.Feasible)
	})
}

func BenchmarkEvaluate(b *testing.B) {
	c := NewVelocityController(DefaultConfig())
	state := RobotState{X: 0.1, Y: -0.2, VX: 1.2, VY: 0.3}
	goal := Goal{X: 4, Y: 3}
	obstacles := make([]Obstacle, 8)
	for i := range obstacles {
		obstacles[i] = Obstacle{X: float64(i) * 0.3, Y: 0.1, VX: 0.2, Radius: 0.09}
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Evaluate(state, goal, obstacles)
	}
}
