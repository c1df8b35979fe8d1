package control

// RobotState is the kinematic state of the controlled robot at the start of a
// control tick: position and velocity in world coordinates.
type RobotState struct {
	X, Y   float64
	VX, VY float64
}

// Goal is the target point for the current tick. Selecting it is the path
// planner's job; the controller treats it as a fixed input.
type Goal struct {
	X, Y float64
}

// Obstacle is a snapshot of one obstacle for the current tick: position,
// velocity and radius. Obstacle velocity is used only for a short linear
// extrapolation, not a full trajectory model.
type Obstacle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

// Output is the commanded velocity for the next tick. Feasible is always true
// for the heuristic controllers in this package; it exists so the contract
// stays compatible with a solver-based backend that can report infeasibility.
type Output struct {
	VX, VY   float64
	Feasible bool
}

// Controller produces one velocity command per control tick. Implementations
// must be safe to call at a fixed real-time rate: no I/O, no blocking, cost
// linear in the number of obstacles.
type Controller interface {
	Evaluate(state RobotState, goal Goal, obstacles []Obstacle) Output
}
