package terrain

import "fmt"

// Generate samples fractal noise over the grid and builds the terrain
// mesh. The same Params always produce identical elevations.
func Generate(p Params) (*Heightfield, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("generate terrain: %w", err)
	}

	noise := NewNoise(p)
	elevations := make([]float32, p.Width*p.Height)
	for z := 0; z < p.Height; z++ {
		for x := 0; x < p.Width; x++ {
			n := noise.Sample(float64(x)*p.Scale, float64(z)*p.Scale)
			elevations[z*p.Width+x] = float32(n * p.Amplitude)
		}
	}
	return NewHeightfield(p.Width, p.Height, elevations)
}
