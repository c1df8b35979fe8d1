package simulation

import (
	"fmt"

	"github.com/google/uuid"

	"omninav-sim/internal/common"
	"omninav-sim/internal/control"
)

// A robot counts as arrived once it is inside this distance of its goal [m].
const goalTolerance = 0.2

// Robot is a controlled holonomic robot: it holds its kinematic state, its
// goal for the run, and the controller producing its velocity commands.
type Robot struct {
	id       string
	position common.Vec2
	velocity common.Vec2
	radius   float64
	goal     common.Vec2

	controller control.Controller

	// Tick at which the robot first reached its goal, -1 before that.
	arrivedTick int
}

// NewRobot creates a robot at a start position heading for a goal.
func NewRobot(start, goal common.Vec2, radius float64, controller control.Controller) *Robot {
	return &Robot{
		id:          fmt.Sprintf("robot-%s", uuid.NewString()[:8]),
		position:    start,
		radius:      radius,
		goal:        goal,
		controller:  controller,
		arrivedTick: -1,
	}
}

// ID returns the unique identifier of the robot.
func (r *Robot) ID() string { return r.id }

// Position returns the current position of the robot.
func (r *Robot) Position() common.Vec2 { return r.position }

// Velocity returns the current velocity of the robot.
func (r *Robot) Velocity() common.Vec2 { return r.velocity }

// Radius returns the physical radius of the robot.
func (r *Robot) Radius() float64 { return r.radius }

// Goal returns the robot's goal position.
func (r *Robot) Goal() common.Vec2 { return r.goal }

// SetGoal retargets the robot mid-run and clears its arrival mark.
func (r *Robot) SetGoal(goal common.Vec2) {
	r.goal = goal
	r.arrivedTick = -1
}

// State packs the current kinematics into the controller's input shape.
func (r *Robot) State() control.RobotState {
	return control.RobotState{
		X: r.position.X, Y: r.position.Y,
		VX: r.velocity.X, VY: r.velocity.Y,
	}
}

// DistanceToGoal returns the Euclidean distance to the goal.
func (r *Robot) DistanceToGoal() float64 {
	return r.position.Distance(r.goal)
}

// Arrived reports whether the robot has reached its goal at some point.
func (r *Robot) Arrived() bool { return r.arrivedTick >= 0 }

// ArrivedTick returns the tick of first arrival, or -1.
func (r *Robot) ArrivedTick() int { return r.arrivedTick }

// apply commits a controller command: the commanded velocity becomes the
// robot's velocity for the tick and the position is integrated over dt.
func (r *Robot) apply(out control.Output, dt float64, tick int) {
	r.velocity = common.Vec2{X: out.VX, Y: out.VY}
	r.position = r.position.Add(r.velocity.Scale(dt))

	if r.arrivedTick < 0 && r.DistanceToGoal() < goalTolerance {
		r.arrivedTick = tick
	}
}

// String representation for logging.
func (r *Robot) String() string {
	return fmt.Sprintf("Robot[%s] Pos: %s Vel: %s Goal: %s", r.id, r.position, r.velocity, r.goal)
}
