// Command simulation runs multi-robot navigation scenarios: robots drive to
// their goals while avoiding each other and roaming obstacles, headless or
// with a live view. The compare subcommand runs the same scenario under both
// controllers and prints their metrics side by side.
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"omninav-sim/internal/common"
	"omninav-sim/internal/config"
	"omninav-sim/internal/control"
	"omninav-sim/internal/simulation"
	"omninav-sim/internal/visualization"
)

const (
	controllerHeuristic = "heuristic"
	controllerPID       = "pid"
)

type options struct {
	configPath string
	logLevel   string
	steps      int
	seed       int64
	controller string
	visualize  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "omninav-sim",
		Short:         "Holonomic robot navigation with reactive obstacle avoidance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML scenario/tuning file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "zap log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&opts.steps, "steps", 0, "override scenario step count")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "override scenario random seed")

	root.AddCommand(newRunCmd(opts), newCompareCmd(opts))
	return root
}

func newRunCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			sim, err := buildSimulation(cfg, opts.controller, logger)
			if err != nil {
				return err
			}

			if opts.visualize {
				return runVisual(sim, cfg)
			}

			summary, err := sim.Run(cmd.Context(), cfg.Scenario.Steps)
			if err != nil {
				return err
			}
			printSummary(opts.controller, summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.controller, "controller", controllerHeuristic,
		fmt.Sprintf("controller to use (%s, %s)", controllerHeuristic, controllerPID))
	cmd.Flags().BoolVar(&opts.visualize, "visualize", false, "open a live view instead of running headless")
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Run the scenario under both controllers and compare metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			for _, kind := range []string{controllerHeuristic, controllerPID} {
				sim, err := buildSimulation(cfg, kind, logger)
				if err != nil {
					return err
				}
				summary, err := sim.Run(cmd.Context(), cfg.Scenario.Steps)
				if err != nil {
					return err
				}
				printSummary(kind, summary)
			}
			return nil
		},
	}
}

// setup loads the configuration, applies flag overrides and builds the logger.
func setup(opts *options) (config.File, *zap.Logger, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return config.File{}, nil, err
		}
	}
	if opts.steps > 0 {
		cfg.Scenario.Steps = opts.steps
	}
	if opts.seed != 0 {
		cfg.Scenario.Seed = opts.seed
	}

	logger, err := newLogger(opts.logLevel)
	if err != nil {
		return config.File{}, nil, err
	}
	return cfg, logger, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = lvl
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// buildSimulation assembles the world a scenario describes, with one
// controller instance per robot.
func buildSimulation(cfg config.File, controllerKind string, logger *zap.Logger) (*simulation.Simulation, error) {
	bounds, err := simulation.BoundsFromSlice(cfg.Scenario.Bounds)
	if err != nil {
		return nil, err
	}

	tuning := cfg.Tuning.ControlConfig()
	sim, err := simulation.NewSimulation(bounds, tuning.DT, cfg.Scenario.Seed, logger)
	if err != nil {
		return nil, err
	}

	for _, spec := range cfg.Scenario.Robots {
		ctrl, err := newController(controllerKind, tuning)
		if err != nil {
			return nil, err
		}
		start := common.Vec2{X: spec.Start.X, Y: spec.Start.Y}
		goal := common.Vec2{X: spec.Goal.X, Y: spec.Goal.Y}
		if _, err := sim.AddRobot(start, goal, tuning.RobotRadius, ctrl); err != nil {
			return nil, err
		}
	}
	for i := 0; i < cfg.Scenario.RoamingObstacles; i++ {
		sim.AddRandomObstacle(cfg.Scenario.ObstacleRadius)
	}
	if cfg.Scenario.NoiseStdDev > 0 {
		noiseRng := rand.New(rand.NewSource(cfg.Scenario.Seed + 1))
		sim.SetPerceptionNoise(simulation.GaussianNoise(noiseRng, cfg.Scenario.NoiseStdDev))
	}
	return sim, nil
}

func newController(kind string, tuning control.Config) (control.Controller, error) {
	switch kind {
	case controllerHeuristic:
		return control.NewVelocityController(tuning), nil
	case controllerPID:
		return control.NewTranslationPID(tuning, control.DefaultPIDGains()), nil
	default:
		return nil, fmt.Errorf("unknown controller %q (want %s or %s)", kind, controllerHeuristic, controllerPID)
	}
}

// runVisual opens the Ebiten window with one frame per control tick.
func runVisual(sim *simulation.Simulation, cfg config.File) error {
	ebiten.SetWindowSize(900, 900)
	ebiten.SetWindowTitle("omninav-sim")
	ebiten.SetTPS(int(math.Round(1 / cfg.Tuning.DT)))

	renderer := visualization.NewRenderer(sim, cfg.Scenario.Steps)
	if err := ebiten.RunGame(renderer); err != nil {
		return fmt.Errorf("running visualization: %w", err)
	}
	return nil
}

func printSummary(name string, s simulation.Summary) {
	fmt.Printf("--- %s ---\n", name)
	fmt.Printf("  arrived:         %d/%d\n", s.Arrived, s.Robots)
	if s.Arrived > 0 {
		fmt.Printf("  mean arrival:    %.2f s\n", s.MeanArrivalSec)
	}
	fmt.Printf("  collision ticks: %d\n", s.CollisionTicks)
	if !math.IsInf(s.MinClearance, 1) {
		fmt.Printf("  min clearance:   %.3f m (p05 %.3f m)\n", s.MinClearance, s.P05Clearance)
	}
	fmt.Printf("  mean speed:      %.2f m/s\n", s.MeanSpeed)
	fmt.Printf("  mean |dv|/dt:    %.2f m/s^2\n", s.MeanAccel)
}
