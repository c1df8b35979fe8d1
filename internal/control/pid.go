package control

import (
	"omninav-sim/internal/common"
)

// PIDGains are the proportional, integral and derivative gains of a
// TranslationPID, applied per axis on the position error.
type PIDGains struct {
	KP, KI, KD float64
}

// DefaultPIDGains returns a tuning that tracks well at the reference limits.
func DefaultPIDGains() PIDGains {
	return PIDGains{KP: 2.5, KI: 0.1, KD: 0.3}
}

// TranslationPID is a planar PID controller on the position error, kept as a
// baseline to compare the potential-field controller against. It ignores
// obstacles entirely and carries integral and derivative state across ticks,
// so unlike VelocityController it must not be shared between robots.
type TranslationPID struct {
	cfg   Config
	gains PIDGains

	integral  common.Vec2
	prevError common.Vec2
	firstPass bool

	// Anti-windup bound on the integral magnitude.
	integralLimit float64
}

// NewTranslationPID returns a PID controller using the shared limit
// configuration (DT, MaxVel, MaxAccel) and the given gains.
func NewTranslationPID(cfg Config, gains PIDGains) *TranslationPID {
	return &TranslationPID{
		cfg:           cfg,
		gains:         gains,
		firstPass:     true,
		integralLimit: cfg.MaxVel,
	}
}

// Reset clears the accumulated integral and derivative state, for reuse after
// a goal change or a teleport.
func (p *TranslationPID) Reset() {
	p.integral = common.Vec2{}
	p.prevError = common.Vec2{}
	p.firstPass = true
}

// Evaluate computes the next velocity command from the position error. The
// output is rate-limited so the implied acceleration never exceeds MaxAccel,
// and clamped to MaxVel. Obstacles are accepted for interface compatibility
// and ignored.
func (p *TranslationPID) Evaluate(state RobotState, goal Goal, obstacles []Obstacle) Output {
	_ = obstacles

	current := common.Vec2{X: state.VX, Y: state.VY}
	posError := common.Vec2{X: goal.X - state.X, Y: goal.Y - state.Y}

	// Hold position near the goal instead of chasing numeric noise.
	if posError.Norm() < settleRadius {
		p.Reset()
		next := p.rateLimit(current, common.Vec2{})
		return Output{VX: next.X, VY: next.Y, Feasible: true}
	}

	p.integral = p.integral.Add(posError.Scale(p.cfg.DT)).ClampNorm(p.integralLimit)

	var derivative common.Vec2
	if !p.firstPass {
		derivative = posError.Sub(p.prevError).Scale(1 / p.cfg.DT)
	}
	p.firstPass = false
	p.prevError = posError

	desired := posError.Scale(p.gains.KP).
		Add(p.integral.Scale(p.gains.KI)).
		Add(derivative.Scale(p.gains.KD)).
		ClampNorm(p.cfg.MaxVel)

	next := p.rateLimit(current, desired)
	return Output{VX: next.X, VY: next.Y, Feasible: true}
}

// rateLimit moves from the current toward the desired velocity without
// exceeding the per-tick acceleration budget.
func (p *TranslationPID) rateLimit(current, desired common.Vec2) common.Vec2 {
	delta := desired.Sub(current).ClampNorm(p.cfg.MaxAccel * p.cfg.DT)
	return current.Add(delta).ClampNorm(p.cfg.MaxVel)
}
