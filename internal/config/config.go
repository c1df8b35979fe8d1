// Package config loads simulation scenarios and controller tuning from YAML.
// The control package itself takes its tuning as an opaque value; everything
// here is glue for the CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"omninav-sim/internal/control"
)

// Tuning mirrors control.Config with YAML tags. Reserved solver fields are
// loadable too so config files stay portable to a solver-based backend.
type Tuning struct {
	Horizon             int     `yaml:"horizon"`
	DT                  float64 `yaml:"dt"`
	MaxVel              float64 `yaml:"max_vel"`
	MaxAccel            float64 `yaml:"max_accel"`
	RobotRadius         float64 `yaml:"robot_radius"`
	ObstacleBufferRatio float64 `yaml:"obstacle_buffer_ratio"`
	SafetyVelCoeff      float64 `yaml:"safety_vel_coeff"`
	QPos                float64 `yaml:"q_pos"`
	QVel                float64 `yaml:"q_vel"`
	RAccel              float64 `yaml:"r_accel"`
	QSlack              float64 `yaml:"q_slack"`
}

// ControlConfig converts the tuning into the control package's bundle.
func (t Tuning) ControlConfig() control.Config {
	return control.Config{
		Horizon:             t.Horizon,
		DT:                  t.DT,
		MaxVel:              t.MaxVel,
		MaxAccel:            t.MaxAccel,
		RobotRadius:         t.RobotRadius,
		ObstacleBufferRatio: t.ObstacleBufferRatio,
		SafetyVelCoeff:      t.SafetyVelCoeff,
		QPos:                t.QPos,
		QVel:                t.QVel,
		RAccel:              t.RAccel,
		QSlack:              t.QSlack,
	}
}

// Point is a 2D coordinate in a scenario file.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// RobotSpec places one controlled robot with its goal.
type RobotSpec struct {
	Start Point `yaml:"start"`
	Goal  Point `yaml:"goal"`
}

// Scenario describes one simulation run.
type Scenario struct {
	Seed             int64       `yaml:"seed"`
	Steps            int         `yaml:"steps"`
	Bounds           []float64   `yaml:"bounds"` // [minX, maxX, minY, maxY]
	Robots           []RobotSpec `yaml:"robots"`
	RoamingObstacles int         `yaml:"roaming_obstacles"`
	ObstacleRadius   float64     `yaml:"obstacle_radius"`
	NoiseStdDev      float64     `yaml:"noise_std_dev"` // obstacle position noise, 0 disables
}

// File is the root of a configuration file.
type File struct {
	Tuning   Tuning   `yaml:"tuning"`
	Scenario Scenario `yaml:"scenario"`
}

// Default returns the reference tuning and a small crossing scenario.
func Default() File {
	c := control.DefaultConfig()
	return File{
		Tuning: Tuning{
			Horizon:             c.Horizon,
			DT:                  c.DT,
			MaxVel:              c.MaxVel,
			MaxAccel:            c.MaxAccel,
			RobotRadius:         c.RobotRadius,
			ObstacleBufferRatio: c.ObstacleBufferRatio,
			SafetyVelCoeff:      c.SafetyVelCoeff,
			QPos:                c.QPos,
			QVel:                c.QVel,
			RAccel:              c.RAccel,
			QSlack:              c.QSlack,
		},
		Scenario: Scenario{
			Seed:   1,
			Steps:  600,
			Bounds: []float64{-4, 4, -4, 4},
			Robots: []RobotSpec{
				{Start: Point{X: -3, Y: 0}, Goal: Point{X: 3, Y: 0}},
				{Start: Point{X: 3, Y: 0}, Goal: Point{X: -3, Y: 0}},
				{Start: Point{X: 0, Y: -3}, Goal: Point{X: 0, Y: 3}},
			},
			RoamingObstacles: 2,
			ObstacleRadius:   0.09,
		},
	}
}

// Load reads a YAML file on top of the defaults, so partial files only
// override the fields they mention.
func Load(path string) (File, error) {
	f := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Validate checks the caller contract the controller itself does not enforce:
// positive limits and a well-formed scenario.
func (f File) Validate() error {
	t := f.Tuning
	if t.DT <= 0 {
		return fmt.Errorf("tuning.dt must be positive, got %g", t.DT)
	}
	if t.MaxVel <= 0 {
		return fmt.Errorf("tuning.max_vel must be positive, got %g", t.MaxVel)
	}
	if t.MaxAccel <= 0 {
		return fmt.Errorf("tuning.max_accel must be positive, got %g", t.MaxAccel)
	}
	if t.RobotRadius <= 0 {
		return fmt.Errorf("tuning.robot_radius must be positive, got %g", t.RobotRadius)
	}

	s := f.Scenario
	if s.Steps <= 0 {
		return fmt.Errorf("scenario.steps must be positive, got %d", s.Steps)
	}
	if len(s.Bounds) != 4 {
		return fmt.Errorf("scenario.bounds must have 4 elements [minX maxX minY maxY], got %d", len(s.Bounds))
	}
	if s.Bounds[0] >= s.Bounds[1] || s.Bounds[2] >= s.Bounds[3] {
		return fmt.Errorf("scenario.bounds must satisfy min < max per axis, got %v", s.Bounds)
	}
	if len(s.Robots) == 0 {
		return fmt.Errorf("scenario.robots must not be empty")
	}
	if s.RoamingObstacles < 0 {
		return fmt.Errorf("scenario.roaming_obstacles must not be negative, got %d", s.RoamingObstacles)
	}
	if s.NoiseStdDev < 0 {
		return fmt.Errorf("scenario.noise_std_dev must not be negative, got %g", s.NoiseStdDev)
	}
	return nil
}
