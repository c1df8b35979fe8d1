package simulation

import "math/rand"

// NoiseFunction perturbs a perceived coordinate. It models imperfect
// perception: the controllers receive noisy obstacle snapshots while the
// world itself stays exact.
type NoiseFunction func(trueValue float64) float64

// NoNoise is a NoiseFunction that adds no noise.
func NoNoise(trueValue float64) float64 {
	return trueValue
}

// GaussianNoise creates a NoiseFunction that adds Gaussian (normal) noise.
func GaussianNoise(rng *rand.Rand, stdDev float64) NoiseFunction {
	if stdDev <= 0 {
		return NoNoise
	}
	return func(trueValue float64) float64 {
		return trueValue + rng.NormFloat64()*stdDev
	}
}

// UniformNoise creates a NoiseFunction that adds uniform noise within
// [-maxDelta, +maxDelta].
func UniformNoise(rng *rand.Rand, maxDelta float64) NoiseFunction {
	if maxDelta <= 0 {
		return NoNoise
	}
	return func(trueValue float64) float64 {
		return trueValue + (rng.Float64()*2-1)*maxDelta
	}
}
