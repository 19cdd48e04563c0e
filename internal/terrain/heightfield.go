package terrain

import (
	"fmt"
	"math"
	"scene3d/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Heightfield is a regular grid of elevations with unit spacing on X and Z,
// stored row-major (index z*Width + x). It is immutable once built.
type Heightfield struct {
	Width      int
	Height     int
	Elevations []float32
	Mesh       *mesh.Mesh
}

// NewHeightfield wraps precomputed elevations and builds the triangle mesh
// for them.
func NewHeightfield(width, height int, elevations []float32) (*Heightfield, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrInvalidParams, width, height)
	}
	if len(elevations) != width*height {
		return nil, fmt.Errorf("%w: %d elevations for a %dx%d grid", ErrInvalidParams, len(elevations), width, height)
	}
	hf := &Heightfield{Width: width, Height: height, Elevations: elevations}
	hf.Mesh = hf.buildMesh()
	return hf, nil
}

// At returns the stored elevation of grid vertex (x, z). Coordinates are
// clamped to the grid.
func (hf *Heightfield) At(x, z int) float32 {
	x = max(0, min(x, hf.Width-1))
	z = max(0, min(z, hf.Height-1))
	return hf.Elevations[z*hf.Width+x]
}

// HeightAt bilinearly interpolates the surface at world (x, z). Points off
// the grid, including the far edges, read as 0.
func (hf *Heightfield) HeightAt(x, z float32) float32 {
	if math.IsNaN(float64(x)) || math.IsNaN(float64(z)) {
		return 0
	}
	if x < 0 || z < 0 || x >= float32(hf.Width-1) || z >= float32(hf.Height-1) {
		return 0
	}

	x0, z0 := int(x), int(z)
	fx, fz := x-float32(x0), z-float32(z0)

	h00 := hf.At(x0, z0)
	h10 := hf.At(x0+1, z0)
	h01 := hf.At(x0, z0+1)
	h11 := hf.At(x0+1, z0+1)

	near := h00 + (h10-h00)*fx
	far := h01 + (h11-h01)*fx
	return near + (far-near)*fz
}

// Normal is the central-difference surface normal at an interior vertex;
// edge vertices get straight up. It is cross(up-down, right-left) with down
// and up the z-1 and z+1 neighbours, so it points to +Y like the faces built
// by buildMesh.
func (hf *Heightfield) Normal(x, z int) mgl32.Vec3 {
	if x <= 0 || z <= 0 || x >= hf.Width-1 || z >= hf.Height-1 {
		return mgl32.Vec3{0, 1, 0}
	}
	dx := hf.At(x+1, z) - hf.At(x-1, z)
	dz := hf.At(x, z+1) - hf.At(x, z-1)
	return mgl32.Vec3{-dx, 2, -dz}.Normalize()
}

func (hf *Heightfield) buildMesh() *mesh.Mesh {
	w, h := hf.Width, hf.Height
	m := &mesh.Mesh{
		Vertices: make([]mesh.Vertex, 0, w*h),
		Indices:  make([]uint32, 0, (w-1)*(h-1)*6),
	}

	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			m.Vertices = append(m.Vertices, mesh.Vertex{
				Position: mgl32.Vec3{float32(x), hf.At(x, z), float32(z)},
				Normal:   hf.Normal(x, z),
				UV:       mgl32.Vec2{float32(x) / float32(w-1), float32(z) / float32(h-1)},
			})
		}
	}

	for z := 0; z < h-1; z++ {
		for x := 0; x < w-1; x++ {
			tl := uint32(z*w + x)
			tr := tl + 1
			bl := uint32((z+1)*w + x)
			br := bl + 1
			m.Indices = append(m.Indices, tl, bl, tr, tr, bl, br)
		}
	}
	return m
}
