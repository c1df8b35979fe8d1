package control

// Config is the tuning bundle for a controller. It is copied at construction
// and never mutated afterwards, so a single Config value can seed any number
// of controllers.
//
// Horizon and the cost weights (QPos, QVel, RAccel, QSlack) mirror the
// interface of an optimization-based backend. The heuristic controller
// accepts them for compatibility but never reads them.
type Config struct {
	Horizon int     // prediction horizon length, reserved
	DT      float64 // control tick duration [s]

	MaxVel   float64 // maximum commanded speed [m/s]
	MaxAccel float64 // maximum commanded acceleration [m/s^2]

	RobotRadius         float64 // physical radius of the controlled robot [m]
	ObstacleBufferRatio float64 // multiplier inflating the robot radius for clearance
	SafetyVelCoeff      float64 // extra clearance per unit of current speed [s]

	// Cost weights, reserved for a solver-based backend.
	QPos   float64
	QVel   float64
	RAccel float64
	QSlack float64
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		Horizon:             5,
		DT:                  0.05,
		MaxVel:              2.0,
		MaxAccel:            3.0,
		RobotRadius:         0.09,
		ObstacleBufferRatio: 1.25,
		SafetyVelCoeff:      0.15,
		QPos:                200.0,
		QVel:                20.0,
		RAccel:              0.5,
	}
}
