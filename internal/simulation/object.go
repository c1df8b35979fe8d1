package simulation

import (
	"fmt"
	"math/rand"

	"omninav-sim/internal/common"
)

// SimulationObject is anything occupying space in the world: controlled
// robots and free-roaming obstacles alike.
type SimulationObject interface {
	// ID returns the unique identifier of the object.
	ID() string
	// Position returns the current position of the object.
	Position() common.Vec2
	// Velocity returns the current velocity of the object.
	Velocity() common.Vec2
	// Radius returns the physical radius of the object.
	Radius() float64
}

// Bounds is the axis-aligned rectangle the simulation takes place in.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// BoundsFromSlice builds Bounds from a [minX, maxX, minY, maxY] slice, the
// shape used in scenario files.
func BoundsFromSlice(b []float64) (Bounds, error) {
	if len(b) != 4 {
		return Bounds{}, fmt.Errorf("bounds length must be 4, got %d", len(b))
	}
	bounds := Bounds{MinX: b[0], MaxX: b[1], MinY: b[2], MaxY: b[3]}
	if bounds.MinX >= bounds.MaxX || bounds.MinY >= bounds.MaxY {
		return Bounds{}, fmt.Errorf("bounds must satisfy min < max per axis, got %v", b)
	}
	return bounds, nil
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Random returns a uniformly distributed point inside the bounds.
func (b Bounds) Random(rng *rand.Rand) common.Vec2 {
	return common.Vec2{
		X: b.MinX + rng.Float64()*b.Width(),
		Y: b.MinY + rng.Float64()*b.Height(),
	}
}
