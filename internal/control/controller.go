package control

import (
	"math"

	"omninav-sim/internal/common"
)

const (
	// Goal distance thresholds [m]. Inside arrivedRadius the tracking gain is
	// softened; inside settleRadius the reference velocity is zero.
	arrivedRadius = 0.40
	settleRadius  = 0.15

	// Proportional gains on the velocity error.
	pursuitGain = 4.0
	arrivalGain = 2.0

	// Obstacle positions are extrapolated this far into the future [s].
	obstacleLookahead = 0.1

	// Below this separation the robot and obstacle are treated as coincident.
	minObstacleDist = 1e-5

	// Potential field shape: force = repulsionBase * exp(violation * repulsionSteepness).
	repulsionBase      = 50.0
	repulsionSteepness = 10.0

	// Repulsion engages at safety * earlyWarningFactor, before the hard
	// safety distance is violated.
	earlyWarningFactor = 1.2
)

// VelocityController computes one feasible velocity command per control tick
// for a holonomic robot: proportional goal tracking plus a potential-field
// repulsion from nearby obstacles, with all physical limits clamped.
//
// It is a closed-form stand-in for a model-predictive controller: constant
// time per obstacle, no QP solve, no lookahead beyond a short obstacle
// extrapolation. The controller is stateless apart from its immutable
// configuration, so one instance may be shared across goroutines.
type VelocityController struct {
	cfg Config
}

// NewVelocityController returns a controller with the given tuning. The
// configuration is copied; later changes to the caller's value have no effect.
func NewVelocityController(cfg Config) *VelocityController {
	return &VelocityController{cfg: cfg}
}

// Config returns the tuning the controller was built with.
func (c *VelocityController) Config() Config {
	return c.cfg
}

// Evaluate computes the velocity command for the next tick.
//
// The obstacle slice may be empty and is not retained. Inputs are assumed
// finite; non-finite state or goal values propagate to the output, except for
// the two guarded cases below (coincident obstacle, unbounded repulsion),
// which are corrected in place so that overlapping or deeply penetrating
// obstacles can never emit NaN or Inf downstream.
func (c *VelocityController) Evaluate(state RobotState, goal Goal, obstacles []Obstacle) Output {
	pos := common.Vec2{X: state.X, Y: state.Y}
	vel := common.Vec2{X: state.VX, Y: state.VY}

	toGoal := common.Vec2{X: goal.X, Y: goal.Y}.Sub(pos)
	distToGoal := toGoal.Norm()
	isArriving := distToGoal < arrivedRadius

	// Reference velocity: full speed along the goal bearing, or zero when
	// close enough that the robot should settle.
	var refVel common.Vec2
	if !isArriving && distToGoal >= settleRadius {
		refVel = toGoal.Scale(c.cfg.MaxVel / distToGoal)
	}

	// Softer gain near the goal avoids overshoot and oscillation around it.
	gain := pursuitGain
	if isArriving {
		gain = arrivalGain
	}
	acc := refVel.Sub(vel).Scale(gain)

	// Faster robots need wider berth.
	speed := vel.Norm()

	var repulsion common.Vec2
	for _, obs := range obstacles {
		future := common.Vec2{
			X: obs.X + obs.VX*obstacleLookahead,
			Y: obs.Y + obs.VY*obstacleLookahead,
		}
		diff := pos.Sub(future)
		dist := diff.Norm()

		// Coincident robot and obstacle would make the normalization below
		// divide by zero. Force a tiny separation with an arbitrary push
		// direction to keep the math valid.
		if dist < minObstacleDist {
			dist = minObstacleDist
			diff = common.Vec2{X: 1}
		}

		safety := c.cfg.RobotRadius*c.cfg.ObstacleBufferRatio + obs.Radius +
			speed*c.cfg.SafetyVelCoeff
		warning := safety * earlyWarningFactor
		if dist >= warning {
			continue
		}

		violation := math.Max(0, warning-dist)
		force := repulsionBase * math.Exp(violation*repulsionSteepness)

		// The exponential explodes for large penetrations. Cap the force at
		// twice the acceleration limit; the NaN check is deliberate since a
		// NaN compares false against the cap.
		maxForce := 2 * c.cfg.MaxAccel
		if force > maxForce || math.IsInf(force, 0) || math.IsNaN(force) {
			force = maxForce
		}

		repulsion = repulsion.Add(diff.Normalized().Scale(force))
	}

	acc = acc.Add(repulsion).ClampNorm(c.cfg.MaxAccel)

	next := vel.Add(acc.Scale(c.cfg.DT)).ClampNorm(c.cfg.MaxVel)

	return Output{VX: next.X, VY: next.Y, Feasible: true}
}
