package visualization

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"omninav-sim/internal/simulation"
)

const (
	padding = 50.0 // margin between the world bounds and the window edge

	goalMarkerRadius = 4.0
	velocityScale    = 0.5 // seconds of travel shown by the velocity vector
)

var (
	backgroundColor = color.RGBA{230, 230, 230, 255}
	robotColor      = color.RGBA{0, 90, 200, 255}
	robotRingColor  = color.RGBA{0, 90, 200, 50}
	goalColor       = color.RGBA{0, 160, 60, 255}
	goalLineColor   = color.RGBA{0, 160, 60, 40}
	obstacleColor   = color.RGBA{200, 40, 40, 255}
	velocityColor   = color.RGBA{40, 40, 40, 200}
)

// Renderer implements ebiten.Game: it steps the simulation once per tick and
// draws the world. Run it with ebiten.SetTPS set to the control rate so one
// frame corresponds to one control tick.
type Renderer struct {
	sim      *simulation.Simulation
	maxSteps int

	screenWidth  int
	screenHeight int

	// World-to-screen transformation.
	scale   float64
	offsetX float64
	offsetY float64
}

// NewRenderer creates an Ebiten renderer around a prepared simulation. The
// simulation stops advancing after maxSteps; the final state stays on screen.
func NewRenderer(sim *simulation.Simulation, maxSteps int) *Renderer {
	return &Renderer{
		sim:      sim,
		maxSteps: maxSteps,
	}
}

// Update advances the simulation by one control tick per frame.
func (r *Renderer) Update() error {
	if r.sim.Tick() < r.maxSteps {
		if err := r.sim.Step(context.Background()); err != nil {
			return fmt.Errorf("stepping simulation: %w", err)
		}
	}
	r.calculateTransform()
	return nil
}

// calculateTransform fits the world bounds onto the screen, preserving the
// aspect ratio and keeping a padding margin.
func (r *Renderer) calculateTransform() {
	bounds := r.sim.Bounds()
	worldWidth := bounds.Width()
	worldHeight := bounds.Height()
	if r.screenWidth == 0 || r.screenHeight == 0 || worldWidth <= 0 || worldHeight <= 0 {
		r.scale = 1.0
		return
	}

	scaleX := (float64(r.screenWidth) - 2*padding) / worldWidth
	scaleY := (float64(r.screenHeight) - 2*padding) / worldHeight
	r.scale = math.Min(scaleX, scaleY)
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		r.scale = 1.0
	}

	centerX := (bounds.MinX + bounds.MaxX) / 2.0
	centerY := (bounds.MinY + bounds.MaxY) / 2.0
	r.offsetX = float64(r.screenWidth)/2.0 - centerX*r.scale
	// Ebiten Y is top-down; flip so world +Y points up on screen.
	r.offsetY = float64(r.screenHeight)/2.0 + centerY*r.scale
}

// worldToScreen converts world coordinates to screen coordinates.
func (r *Renderer) worldToScreen(worldX, worldY float64) (float32, float32) {
	screenX := worldX*r.scale + r.offsetX
	screenY := -worldY*r.scale + r.offsetY
	return float32(screenX), float32(screenY)
}

// Draw renders the current world state.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	// Obstacles first so robots draw on top.
	for _, o := range r.sim.Obstacles() {
		pos := o.Position()
		ox, oy := r.worldToScreen(pos.X, pos.Y)
		vector.DrawFilledCircle(screen, ox, oy, r.radiusOnScreen(o.Radius()), obstacleColor, true)
		r.drawVelocity(screen, ox, oy, o.Velocity().X, o.Velocity().Y)
	}

	for _, robot := range r.sim.Robots() {
		pos := robot.Position()
		rx, ry := r.worldToScreen(pos.X, pos.Y)

		goal := robot.Goal()
		gx, gy := r.worldToScreen(goal.X, goal.Y)
		vector.StrokeLine(screen, rx, ry, gx, gy, 1, goalLineColor, true)
		vector.DrawFilledCircle(screen, gx, gy, goalMarkerRadius, goalColor, true)

		// Translucent ring marking the inflated clearance radius.
		vector.DrawFilledCircle(screen, rx, ry, r.radiusOnScreen(robot.Radius()*2), robotRingColor, true)
		vector.DrawFilledCircle(screen, rx, ry, r.radiusOnScreen(robot.Radius()), robotColor, true)

		r.drawVelocity(screen, rx, ry, robot.Velocity().X, robot.Velocity().Y)
	}

	r.drawDebugInfo(screen)
}

// radiusOnScreen scales a world radius, keeping small objects visible.
func (r *Renderer) radiusOnScreen(worldRadius float64) float32 {
	scaled := worldRadius * r.scale
	if scaled < 2 {
		scaled = 2
	}
	return float32(scaled)
}

// drawVelocity draws the velocity vector as a short line from the object.
func (r *Renderer) drawVelocity(screen *ebiten.Image, x, y float32, vx, vy float64) {
	if vx == 0 && vy == 0 {
		return
	}
	dx := float32(vx * velocityScale * r.scale)
	dy := float32(-vy * velocityScale * r.scale)
	vector.StrokeLine(screen, x, y, x+dx, y+dy, 1.5, velocityColor, true)
}

func (r *Renderer) drawDebugInfo(screen *ebiten.Image) {
	summary := r.sim.Results()

	msg := fmt.Sprintf("Time: %.2fs (tick %d/%d)\n", r.sim.Time(), r.sim.Tick(), r.maxSteps)
	msg += fmt.Sprintf("FPS: %.1f, TPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	msg += fmt.Sprintf("Robots: %d (arrived: %d), Obstacles: %d\n",
		summary.Robots, summary.Arrived, len(r.sim.Obstacles()))
	if !math.IsInf(summary.MinClearance, 1) {
		msg += fmt.Sprintf("Min clearance: %.3f m, collision ticks: %d\n",
			summary.MinClearance, summary.CollisionTicks)
	}
	for _, robot := range r.sim.Robots() {
		msg += fmt.Sprintf("  %s d_goal=%.2f |v|=%.2f\n",
			robot.ID(), robot.DistanceToGoal(), robot.Velocity().Norm())
	}

	ebitenutil.DebugPrint(screen, msg)
}

// Layout is called when the window size changes.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	r.screenWidth = outsideWidth
	r.screenHeight = outsideHeight
	return r.screenWidth, r.screenHeight
}
