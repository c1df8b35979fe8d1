package common

import (
	"fmt"
	"math"
)

// Vec2 represents a point or direction in the 2D plane.
type Vec2 struct {
	X, Y float64
}

// Add returns the component-wise sum of v and other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns the component-wise difference v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale multiplies the vector by a scalar value.
func (v Vec2) Scale(scalar float64) Vec2 {
	return Vec2{v.X * scalar, v.Y * scalar}
}

// Norm returns the Euclidean magnitude of the vector.
func (v Vec2) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// NormSq returns the squared Euclidean magnitude (dot product with itself).
func (v Vec2) NormSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Distance calculates the Euclidean distance between two points.
func (v Vec2) Distance(other Vec2) float64 {
	return math.Hypot(v.X-other.X, v.Y-other.Y)
}

// Normalized returns the unit vector pointing in the same direction.
// The zero vector is returned unchanged.
func (v Vec2) Normalized() Vec2 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return Vec2{v.X / n, v.Y / n}
}

// ClampNorm rescales the vector to magnitude max if it is longer, preserving
// direction. Vectors at or below max are returned unchanged.
func (v Vec2) ClampNorm(max float64) Vec2 {
	n := v.Norm()
	if n <= max {
		return v
	}
	return v.Scale(max / n)
}

// IsFinite reports whether both components are finite (not NaN or Inf).
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// String returns a string representation with limited precision for cleaner output.
func (v Vec2) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", v.X, v.Y)
}
