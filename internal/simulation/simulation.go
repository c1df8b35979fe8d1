package simulation

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"omninav-sim/internal/common"
	"omninav-sim/internal/control"
)

// Simulation steps a set of controlled robots and roaming obstacles through
// a bounded 2D world at a fixed tick. Each robot runs its own controller and
// treats every other object as an obstacle; the world applies the commands
// and keeps run metrics.
type Simulation struct {
	bounds Bounds
	dt     float64

	robots    []*Robot
	obstacles []*RoamingObstacle

	tick  int
	rng   *rand.Rand
	noise NoiseFunction

	recorder *Recorder
	log      *zap.Logger
}

// NewSimulation creates a simulation environment.
func NewSimulation(bounds Bounds, dt float64, seed int64, logger *zap.Logger) (*Simulation, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %g", dt)
	}
	if bounds.Width() <= 0 || bounds.Height() <= 0 {
		return nil, fmt.Errorf("bounds must have positive extent, got %+v", bounds)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulation{
		bounds:   bounds,
		dt:       dt,
		rng:      rand.New(rand.NewSource(seed)),
		noise:    NoNoise,
		recorder: NewRecorder(dt),
		log:      logger,
	}, nil
}

// AddRobot places a controlled robot in the world.
func (s *Simulation) AddRobot(start, goal common.Vec2, radius float64, ctrl control.Controller) (*Robot, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("robot needs a controller")
	}
	r := NewRobot(start, goal, radius, ctrl)
	s.robots = append(s.robots, r)
	return r, nil
}

// AddRandomObstacle adds a roaming obstacle at a random position within bounds.
func (s *Simulation) AddRandomObstacle(radius float64) *RoamingObstacle {
	o := NewRoamingObstacle(s.bounds.Random(s.rng), radius, s.rng)
	s.obstacles = append(s.obstacles, o)
	return o
}

// SetPerceptionNoise installs a noise function applied to the obstacle
// positions each controller perceives. The world state itself stays exact.
func (s *Simulation) SetPerceptionNoise(noise NoiseFunction) {
	if noise == nil {
		noise = NoNoise
	}
	s.noise = noise
}

// Robots returns the controlled robots.
func (s *Simulation) Robots() []*Robot { return s.robots }

// Obstacles returns the roaming obstacles.
func (s *Simulation) Obstacles() []*RoamingObstacle { return s.obstacles }

// Bounds returns the world bounds.
func (s *Simulation) Bounds() Bounds { return s.bounds }

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int { return s.tick }

// Time returns the elapsed simulated time in seconds.
func (s *Simulation) Time() float64 { return float64(s.tick) * s.dt }

// snapshotFor builds the obstacle list one robot's controller sees: every
// other robot plus all roaming obstacles, with perception noise applied to
// the positions.
func (s *Simulation) snapshotFor(self *Robot) []control.Obstacle {
	snapshot := make([]control.Obstacle, 0, len(s.robots)-1+len(s.obstacles))
	appendObject := func(obj SimulationObject) {
		pos := obj.Position()
		vel := obj.Velocity()
		snapshot = append(snapshot, control.Obstacle{
			X: s.noise(pos.X), Y: s.noise(pos.Y),
			VX: vel.X, VY: vel.Y,
			Radius: obj.Radius(),
		})
	}
	for _, r := range s.robots {
		if r != self {
			appendObject(r)
		}
	}
	for _, o := range s.obstacles {
		appendObject(o)
	}
	return snapshot
}

// Step advances the world by one tick: evaluate every robot's controller
// against a snapshot of the current state, then apply all commands at once
// and move the roaming obstacles.
//
// Controller evaluations run concurrently; the snapshots are taken before
// any command is applied, so all robots react to the same world state.
func (s *Simulation) Step(ctx context.Context) error {
	// Snapshots are built sequentially: the perception noise draws from the
	// run's seeded random source, which is not safe to share across
	// goroutines, and sequential draws keep runs reproducible.
	snapshots := make([][]control.Obstacle, len(s.robots))
	for i, r := range s.robots {
		snapshots[i] = s.snapshotFor(r)
	}

	commands := make([]control.Output, len(s.robots))
	g, _ := errgroup.WithContext(ctx)
	for i, r := range s.robots {
		i, r := i, r
		g.Go(func() error {
			goal := control.Goal{X: r.goal.X, Y: r.goal.Y}
			commands[i] = r.controller.Evaluate(r.State(), goal, snapshots[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("evaluating controllers: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, r := range s.robots {
		r.apply(commands[i], s.dt, s.tick)
	}
	for _, o := range s.obstacles {
		o.Update(s.dt, s.bounds)
	}
	s.tick++

	s.recorder.RecordTick(s.robots, s.obstacles)

	if ce := s.log.Check(zap.DebugLevel, "tick"); ce != nil {
		for _, r := range s.robots {
			s.log.Debug("robot state",
				zap.String("id", r.ID()),
				zap.Stringer("pos", r.Position()),
				zap.Stringer("vel", r.Velocity()),
				zap.Float64("dist_to_goal", r.DistanceToGoal()),
			)
		}
	}
	return nil
}

// Run executes the simulation loop for a given number of steps, stopping
// early if the context is cancelled. It returns the run summary.
func (s *Simulation) Run(ctx context.Context, steps int) (Summary, error) {
	s.log.Info("starting simulation",
		zap.Int("steps", steps),
		zap.Float64("dt", s.dt),
		zap.Int("robots", len(s.robots)),
		zap.Int("obstacles", len(s.obstacles)),
	)

	for i := 0; i < steps; i++ {
		if err := s.Step(ctx); err != nil {
			return s.Results(), err
		}
	}

	summary := s.Results()
	s.log.Info("simulation finished",
		zap.Int("arrived", summary.Arrived),
		zap.Int("robots", summary.Robots),
		zap.Int("collision_ticks", summary.CollisionTicks),
		zap.Float64("min_clearance", summary.MinClearance),
		zap.Float64("mean_speed", summary.MeanSpeed),
	)
	return summary, nil
}

// Results returns the metrics collected so far.
func (s *Simulation) Results() Summary {
	return s.recorder.Summarize(s.robots)
}
