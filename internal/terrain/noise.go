package terrain

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Noise is seeded fractal Perlin noise. Octave i contributes with weight
// persistence^i at frequency lacunarity^i.
type Noise struct {
	p    *perlin.Perlin
	norm float64
}

func NewNoise(p Params) *Noise {
	// go-perlin divides each octave by alpha^i, so alpha is the inverse of
	// persistence.
	n := &Noise{p: perlin.NewPerlin(1/p.Persistence, p.Lacunarity, int32(p.Octaves), p.Seed)}

	amp := 1.0
	for i := 0; i < p.Octaves; i++ {
		n.norm += amp
		amp *= p.Persistence
	}
	return n
}

// Sample returns noise at (x, y) mapped from [-1, 1] into [0, 1].
func (n *Noise) Sample(x, y float64) float64 {
	v := n.p.Noise2D(x, y) / n.norm
	v = (v + 1) / 2
	return math.Min(1, math.Max(0, v))
}
