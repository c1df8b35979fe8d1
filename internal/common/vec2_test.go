package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Arithmetic(t *testing.T) {
	a := Vec2{3, 4}
	b := Vec2{-1, 2}

	assert.Equal(t, Vec2{2, 6}, a.Add(b))
	assert.Equal(t, Vec2{4, 2}, a.Sub(b))
	assert.Equal(t, Vec2{6, 8}, a.Scale(2))
	assert.InDelta(t, 5.0, a.Norm(), 1e-12)
	assert.InDelta(t, 25.0, a.NormSq(), 1e-12)
	assert.InDelta(t, math.Sqrt(20), a.Distance(b), 1e-12)
}

func TestVec2Normalized(t *testing.T) {
	u := Vec2{3, 4}.Normalized()
	assert.InDelta(t, 0.6, u.X, 1e-12)
	assert.InDelta(t, 0.8, u.Y, 1e-12)
	assert.InDelta(t, 1.0, u.Norm(), 1e-12)

	// Zero vector must not produce NaN.
	z := Vec2{}.Normalized()
	assert.Equal(t, Vec2{}, z)
}

func TestVec2ClampNorm(t *testing.T) {
	tests := []struct {
		name string
		in   Vec2
		max  float64
		want float64
	}{
		{"longer than max", Vec2{3, 4}, 2, 2},
		{"shorter than max", Vec2{0.5, 0}, 2, 0.5},
		{"exactly max", Vec2{2, 0}, 2, 2},
		{"zero vector", Vec2{}, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.ClampNorm(tt.max)
			assert.InDelta(t, tt.want, got.Norm(), 1e-12)
			// Direction preserved.
			if tt.in.Norm() > 0 {
				cross := tt.in.X*got.Y - tt.in.Y*got.X
				assert.InDelta(t, 0, cross, 1e-12)
			}
		})
	}
}

func TestVec2IsFinite(t *testing.T) {
	assert.True(t, Vec2{1, -2}.IsFinite())
	assert.False(t, Vec2{math.NaN(), 0}.IsFinite())
	assert.False(t, Vec2{0, math.Inf(1)}.IsFinite())
}
