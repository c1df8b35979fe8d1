package simulation

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"omninav-sim/internal/common"
)

const (
	// Random walk parameters for roaming obstacles.
	obstacleAccelScale = 2.0 // how much velocity can change per second
	obstacleMaxSpeed   = 1.0 // units per second

	// Velocity damping applied when bouncing off a boundary.
	bounceDamping = -0.8
)

// RoamingObstacle is an uncontrolled object doing a random walk inside the
// bounds, bouncing off the edges. It stands in for opponents or other
// uncooperative traffic the robots must avoid.
type RoamingObstacle struct {
	id       string
	position common.Vec2
	velocity common.Vec2
	radius   float64
	rng      *rand.Rand
}

// NewRoamingObstacle creates an obstacle at a given position. The caller
// supplies the random source so runs stay reproducible under a scenario seed.
func NewRoamingObstacle(pos common.Vec2, radius float64, rng *rand.Rand) *RoamingObstacle {
	return &RoamingObstacle{
		id:       fmt.Sprintf("obstacle-%s", uuid.NewString()[:8]),
		position: pos,
		radius:   radius,
		rng:      rng,
	}
}

// ID returns the unique identifier of the obstacle.
func (o *RoamingObstacle) ID() string { return o.id }

// Position returns the current position of the obstacle.
func (o *RoamingObstacle) Position() common.Vec2 { return o.position }

// Velocity returns the current velocity of the obstacle.
func (o *RoamingObstacle) Velocity() common.Vec2 { return o.velocity }

// Radius returns the physical radius of the obstacle.
func (o *RoamingObstacle) Radius() float64 { return o.radius }

// Update advances the random walk by one tick and bounces off the bounds.
func (o *RoamingObstacle) Update(dt float64, bounds Bounds) {
	o.velocity.X += (o.rng.Float64()*2 - 1) * obstacleAccelScale * dt
	o.velocity.Y += (o.rng.Float64()*2 - 1) * obstacleAccelScale * dt
	o.velocity = o.velocity.ClampNorm(obstacleMaxSpeed)

	next := o.position.Add(o.velocity.Scale(dt))

	if next.X < bounds.MinX {
		next.X = bounds.MinX + (bounds.MinX - next.X)
		o.velocity.X *= bounceDamping
	} else if next.X > bounds.MaxX {
		next.X = bounds.MaxX - (next.X - bounds.MaxX)
		o.velocity.X *= bounceDamping
	}
	if next.Y < bounds.MinY {
		next.Y = bounds.MinY + (bounds.MinY - next.Y)
		o.velocity.Y *= bounceDamping
	} else if next.Y > bounds.MaxY {
		next.Y = bounds.MaxY - (next.Y - bounds.MaxY)
		o.velocity.Y *= bounceDamping
	}

	o.position = next
}

// String representation for logging.
func (o *RoamingObstacle) String() string {
	return fmt.Sprintf("Obstacle[%s] Pos: %s Vel: %s R: %.2f", o.id, o.position, o.velocity, o.radius)
}
