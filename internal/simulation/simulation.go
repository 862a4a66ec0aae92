// Package simulation derives the particle counts observed in the three boxes of the worksheet.
package simulation

import (
	"math"

	"github.com/myrjola/reaksi/internal/models"
)

const (
	// MinRed and MaxRed bound the initial number of red particles.
	MinRed = 4
	MaxRed = 30
	// DefaultRed is the initial value shown before the group changes it.
	DefaultRed = 20

	conversionAt10 = 0.4
	conversionAt20 = 0.8
)

// Clamp limits redInitial to [MinRed, MaxRed].
func Clamp(redInitial int) int {
	return min(max(redInitial, MinRed), MaxRed)
}

// Derive computes the snapshots at t = 0 s, 10 s and 20 s. 40 % of the red particles have turned blue at 10 s and
// 80 % at 20 s, rounded to whole particles. The particle total is conserved.
func Derive(redInitial int) models.SimulationState {
	red := Clamp(redInitial)
	converted10 := convert(red, conversionAt10)
	converted20 := convert(red, conversionAt20)
	return models.SimulationState{
		T0:  models.ParticleSnapshot{Red: red, Blue: 0},
		T10: models.ParticleSnapshot{Red: red - converted10, Blue: converted10},
		T20: models.ParticleSnapshot{Red: red - converted20, Blue: converted20},
	}
}

func convert(red int, fraction float64) int {
	return int(math.Round(float64(red) * fraction))
}
