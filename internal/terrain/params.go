package terrain

import (
	"errors"
	"fmt"
)

var ErrInvalidParams = errors.New("invalid terrain parameters")

// Params controls heightfield generation. Width and Height count grid
// vertices, not cells.
type Params struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Scale       float64 `json:"scale"`     // noise frequency per grid step
	Amplitude   float64 `json:"amplitude"` // elevation of a noise value of 1
	Octaves     int     `json:"octaves"`
	Lacunarity  float64 `json:"lacunarity"`
	Persistence float64 `json:"persistence"`
	Seed        int64   `json:"seed"`
}

func DefaultParams() Params {
	return Params{
		Width:       128,
		Height:      128,
		Scale:       0.02,
		Amplitude:   10,
		Octaves:     6,
		Lacunarity:  2,
		Persistence: 0.5,
		Seed:        0,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Width < 2 || p.Height < 2:
		return fmt.Errorf("%w: grid %dx%d, need at least 2x2", ErrInvalidParams, p.Width, p.Height)
	case p.Octaves < 1:
		return fmt.Errorf("%w: octaves %d", ErrInvalidParams, p.Octaves)
	case p.Scale <= 0:
		return fmt.Errorf("%w: scale %g", ErrInvalidParams, p.Scale)
	case p.Lacunarity <= 0:
		return fmt.Errorf("%w: lacunarity %g", ErrInvalidParams, p.Lacunarity)
	case p.Persistence <= 0:
		return fmt.Errorf("%w: persistence %g", ErrInvalidParams, p.Persistence)
	}
	return nil
}
