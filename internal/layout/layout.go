// Package layout places particles inside a visualisation box so that they do not overlap.
//
// Placement is rejection sampling with a bounded number of attempts per particle. When the attempts run out the
// particle is dropped at an unconstrained random point and marked as overlapping, so generation always terminates.
package layout

import (
	"math"
	"math/rand/v2"
)

const (
	// MaxAttempts bounds the random draws per particle before falling back to an unconstrained point.
	MaxAttempts = 100
	// Margin is the extra gap in pixels kept between two particle edges.
	Margin = 2
	// MaxDelaySeconds is the exclusive upper bound of the animation stagger.
	MaxDelaySeconds = 2
)

// Area is the box the particles are placed in. All values are pixels.
type Area struct {
	Width   float64 `json:"width"   koanf:"width"   validate:"gt=0"`
	Height  float64 `json:"height"  koanf:"height"  validate:"gt=0"`
	Padding float64 `json:"padding" koanf:"padding" validate:"gte=0"`
	Radius  float64 `json:"radius"  koanf:"radius"  validate:"gt=0"`
}

// DefaultArea matches a 250x150 box with 24 px particles.
var DefaultArea = Area{Width: 250, Height: 150, Padding: 15, Radius: 12}

// MinDistance is the smallest allowed distance between two particle centres.
func (a Area) MinDistance() float64 {
	return 2*a.Radius + Margin
}

// Position is the top-left placement of one particle and its animation delay.
type Position struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	DelaySeconds float64 `json:"delaySeconds"`
	// Overlapping is set when no free spot was found within MaxAttempts.
	Overlapping bool `json:"overlapping"`
}

// Rand is the randomness source. Float64 must return values in [0, 1).
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 {
	return rand.Float64() //nolint:gosec // visual jitter, not security sensitive.
}

// Source returns the automatically seeded process-wide source. It is safe for concurrent use.
func Source() Rand {
	return globalRand{}
}

// Generate places count particles inside area.
//
// The result always has exactly count elements. A non-positive count returns an empty slice without consulting rng.
func Generate(count int, area Area, rng Rand) []Position {
	if count <= 0 {
		return []Position{}
	}

	positions := make([]Position, 0, count)
	for range count {
		positions = append(positions, place(positions, area, rng))
	}
	return positions
}

func place(placed []Position, area Area, rng Rand) Position {
	spanX := math.Max(area.Width-area.Radius-area.Padding, 0)
	spanY := math.Max(area.Height-area.Radius-area.Padding, 0)
	minDistance := area.MinDistance()

	for range MaxAttempts {
		x := area.Padding + rng.Float64()*spanX
		y := area.Padding + rng.Float64()*spanY
		if !collides(placed, x, y, minDistance) {
			return Position{
				X:            x,
				Y:            y,
				DelaySeconds: math.Floor(rng.Float64()*MaxDelaySeconds*10) / 10, //nolint:mnd // one decimal
				Overlapping:  false,
			}
		}
	}

	return Position{
		X:            rng.Float64() * area.Width,
		Y:            rng.Float64() * area.Height,
		DelaySeconds: 0,
		Overlapping:  true,
	}
}

func collides(placed []Position, x, y, minDistance float64) bool {
	for _, p := range placed {
		if math.Hypot(x-p.X, y-p.Y) < minDistance {
			return true
		}
	}
	return false
}

// CountOverlapping returns how many positions fell back to an unconstrained placement.
func CountOverlapping(positions []Position) int {
	n := 0
	for _, p := range positions {
		if p.Overlapping {
			n++
		}
	}
	return n
}
